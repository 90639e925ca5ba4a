// Package web serves the storefront and admin dashboard JSON API.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/store"
)

// Store is the data access the handlers need; *store.Store implements it.
type Store interface {
	Ping(ctx context.Context) error
	Counts(ctx context.Context) (store.Counts, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id uint) error

	ListProducts(ctx context.Context, f store.ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	AddProductImage(ctx context.Context, img *models.ProductImage) error
	DeleteProductImage(ctx context.Context, id uint) (models.ProductImage, error)

	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	ListCustomers(ctx context.Context, limit, offset int) ([]store.CustomerSummary, error)
	UpdateUserRole(ctx context.Context, id uint, role models.Role) (models.User, error)

	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id uint) (models.Order, error)
	GetOrderByRef(ctx context.Context, ref string) (models.Order, error)
	ListOrders(ctx context.Context, f store.OrderFilter) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (models.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
}

// Config holds the HTTP-facing settings.
type Config struct {
	SessionSecret   string
	SessionMaxAge   time.Duration
	SecureCookies   bool
	UploadDir       string
	CartDedupWindow time.Duration
}

// Server wires handlers to a Store.
type Server struct {
	store  Store
	cfg    Config
	log    *slog.Logger
	guard  *cart.Guard
	now    func() time.Time
	router *gin.Engine
}

// New builds the server and its routes.
func New(st Store, cfg Config, log *slog.Logger) *Server {
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	s := &Server{
		store: st,
		cfg:   cfg,
		log:   log,
		guard: cart.NewGuard(cfg.CartDedupWindow),
		now:   time.Now,
	}
	s.router = s.routes()
	return s
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("server listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// ---------- routes ----------

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.MaxMultipartMemory = 8 << 20

	r.Static("/uploads", s.cfg.UploadDir)

	sessStore := cookie.NewStore([]byte(s.cfg.SessionSecret))
	sessStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(s.cfg.SessionMaxAge / time.Second),
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, sessStore))

	r.GET("/health", s.health)

	api := r.Group("/api")
	api.GET("/home", s.home)
	api.GET("/categories", s.listCategories)
	api.GET("/categories/:slug", s.categoryPage)
	api.GET("/products", s.listProducts)
	api.GET("/products/:id", s.productDetail)
	api.GET("/products/:id/buy", s.buyNow)
	api.GET("/orders/:ref", s.orderByRef)

	api.GET("/cart", s.showCart)
	api.POST("/cart/items", s.addToCart)
	api.PATCH("/cart/items/:key", s.updateCartItem)
	api.DELETE("/cart/items/:key", s.removeCartItem)
	api.DELETE("/cart", s.clearCart)
	api.POST("/checkout", s.checkout)

	api.POST("/register", s.register)
	api.POST("/login", s.login)
	api.POST("/logout", s.logout)
	me := api.Group("/me", s.mustLogin())
	me.GET("", s.me)
	me.GET("/orders", s.myOrders)

	admin := api.Group("/admin", s.mustAdmin())
	admin.GET("/dashboard", s.dashboard)
	admin.GET("/analytics", s.analytics)

	admin.GET("/products", s.adminListProducts)
	admin.GET("/products/:id", s.adminGetProduct)
	admin.POST("/products", s.adminCreateProduct)
	admin.PUT("/products/:id", s.adminUpdateProduct)
	admin.DELETE("/products/:id", s.adminDeleteProduct)
	admin.POST("/products/:id/images", s.adminUploadImage)
	admin.DELETE("/images/:id", s.adminDeleteImage)

	admin.GET("/categories", s.listCategories)
	admin.POST("/categories", s.adminCreateCategory)
	admin.PUT("/categories/:id", s.adminUpdateCategory)
	admin.DELETE("/categories/:id", s.adminDeleteCategory)

	admin.GET("/orders", s.adminListOrders)
	admin.GET("/orders/:id", s.adminGetOrder)
	admin.PATCH("/orders/:id/status", s.adminUpdateOrderStatus)
	admin.DELETE("/orders/:id", s.adminDeleteOrder)

	admin.GET("/customers", s.adminListCustomers)
	admin.GET("/customers/:id", s.adminGetCustomer)
	admin.PATCH("/customers/:id/role", s.adminUpdateCustomerRole)

	return r
}

func (s *Server) health(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "db": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
