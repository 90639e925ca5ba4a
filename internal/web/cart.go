package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/store"
)

type cartLine struct {
	Key            string `json:"key"`
	ProductID      uint   `json:"product_id"`
	Name           string `json:"name"`
	ImageURL       string `json:"image_url,omitempty"`
	Color          string `json:"color,omitempty"`
	Size           string `json:"size,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int    `json:"unit_price_cents"`
	SubtotalCents  int    `json:"subtotal_cents"`
	CheckoutURL    string `json:"checkout_url,omitempty"`
}

type cartView struct {
	Lines      []cartLine `json:"lines"`
	Count      int        `json:"count"`
	TotalCents int        `json:"total_cents"`
	Duplicate  bool       `json:"duplicate,omitempty"`
}

// buildCartView joins the cart with current product data. Lines whose product
// is gone are dropped from the cart and the session is updated.
func (s *Server) buildCartView(c *gin.Context, ct *cart.Cart) (cartView, error) {
	ctx := c.Request.Context()
	view := cartView{Lines: make([]cartLine, 0, ct.Len())}
	gone := map[uint]bool{}
	for _, li := range ct.Lines() {
		p, err := s.store.GetProduct(ctx, li.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			gone[li.ProductID] = true
			continue
		}
		if err != nil {
			return view, err
		}
		line := cartLine{
			Key:            li.Key(),
			ProductID:      p.ID,
			Name:           p.Name,
			Color:          li.Color,
			Size:           li.Size,
			Quantity:       li.Quantity,
			UnitPriceCents: p.PriceCents,
			SubtotalCents:  p.PriceCents * li.Quantity,
			CheckoutURL:    p.CheckoutURL,
		}
		if len(p.Images) > 0 {
			line.ImageURL = p.Images[0].URL
		}
		view.Lines = append(view.Lines, line)
		view.Count += li.Quantity
		view.TotalCents += line.SubtotalCents
	}
	if len(gone) > 0 {
		ct.Retain(func(li cart.LineItem) bool { return !gone[li.ProductID] })
		if err := saveCart(c, ct); err != nil {
			return view, err
		}
	}
	return view, nil
}

func (s *Server) respondCart(c *gin.Context, status int, ct *cart.Cart, duplicate bool) {
	view, err := s.buildCartView(c, ct)
	if err != nil {
		s.fail(c, err)
		return
	}
	view.Duplicate = duplicate
	c.JSON(status, view)
}

// storeCart saves the cart, answering 400 when it no longer fits the
// session cookie.
func (s *Server) storeCart(c *gin.Context, ct *cart.Cart) bool {
	err := saveCart(c, ct)
	switch {
	case err == nil:
		return true
	case errors.Is(err, cart.ErrFull):
		badRequest(c, "cart is full")
	default:
		s.fail(c, err)
	}
	return false
}

// ---------- handlers ----------

func (s *Server) showCart(c *gin.Context) {
	s.respondCart(c, http.StatusOK, loadCart(c), false)
}

type addToCartRequest struct {
	ProductID uint   `json:"product_id" form:"product_id" binding:"required"`
	Color     string `json:"color" form:"color"`
	Size      string `json:"size" form:"size"`
	Quantity  int    `json:"quantity" form:"quantity"`
}

func (s *Server) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "no product")
		return
	}
	if req.Quantity > cart.MaxQuantity {
		badRequest(c, cart.ErrTooMany.Error())
		return
	}

	p, err := s.store.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		s.fail(c, err)
		return
	}
	if p.Stock <= 0 {
		badRequest(c, "out of stock")
		return
	}
	if !p.HasColor(req.Color) {
		badRequest(c, "choose a valid color")
		return
	}
	if !p.HasSize(req.Size) {
		badRequest(c, "choose a valid size")
		return
	}

	ct := loadCart(c)
	item := cart.LineItem{ProductID: p.ID, Color: req.Color, Size: req.Size, Quantity: req.Quantity}
	client := clientID(c)
	if !s.guard.Allow(client, item.Key(), s.now()) {
		s.log.Debug("duplicate add to cart ignored", "client", client, "key", item.Key(), "tracked", s.guard.Len())
		if !s.storeCart(c, ct) {
			return
		}
		s.respondCart(c, http.StatusOK, ct, true)
		return
	}
	if _, err := ct.Add(item); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !s.storeCart(c, ct) {
		return
	}
	s.respondCart(c, http.StatusOK, ct, false)
}

// lineKey reads the :key path parameter, answering 400 when malformed.
func lineKey(c *gin.Context) (string, bool) {
	li, err := cart.ParseKey(c.Param("key"))
	if err != nil {
		badRequest(c, err.Error())
		return "", false
	}
	return li.Key(), true
}

type updateCartRequest struct {
	Quantity int `json:"quantity" form:"quantity"`
}

func (s *Server) updateCartItem(c *gin.Context) {
	var req updateCartRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid quantity")
		return
	}
	key, ok := lineKey(c)
	if !ok {
		return
	}
	ct := loadCart(c)
	err := ct.Update(key, req.Quantity)
	switch {
	case errors.Is(err, cart.ErrLineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		badRequest(c, err.Error())
		return
	}
	if !s.storeCart(c, ct) {
		return
	}
	s.respondCart(c, http.StatusOK, ct, false)
}

func (s *Server) removeCartItem(c *gin.Context) {
	key, ok := lineKey(c)
	if !ok {
		return
	}
	ct := loadCart(c)
	ct.Remove(key)
	if !s.storeCart(c, ct) {
		return
	}
	s.respondCart(c, http.StatusOK, ct, false)
}

func (s *Server) clearCart(c *gin.Context) {
	ct := loadCart(c)
	ct.Clear()
	if !s.storeCart(c, ct) {
		return
	}
	s.respondCart(c, http.StatusOK, ct, false)
}
