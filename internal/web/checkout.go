package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/store"
)

type checkoutRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" form:"phone"`
	Address string `json:"address" form:"address"`
}

type checkoutLink struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
}

// checkout records the cart as a pending order, empties the cart and hands
// back the checkout links of the ordered products. Payment happens
// elsewhere.
func (s *Server) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid email")
		return
	}
	ctx := c.Request.Context()

	user, err := s.optionalUser(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	order := models.Order{
		CustomerName:    strings.TrimSpace(req.Name),
		CustomerEmail:   strings.ToLower(strings.TrimSpace(req.Email)),
		CustomerPhone:   strings.TrimSpace(req.Phone),
		ShippingAddress: strings.TrimSpace(req.Address),
	}
	if user != nil {
		order.UserID = &user.ID
		if order.CustomerName == "" {
			order.CustomerName = user.Name
		}
		if order.CustomerEmail == "" {
			order.CustomerEmail = user.Email
		}
		if order.CustomerPhone == "" {
			order.CustomerPhone = user.Phone
		}
		if order.ShippingAddress == "" {
			order.ShippingAddress = user.Address
		}
	}
	if order.CustomerName == "" || order.CustomerEmail == "" {
		badRequest(c, "name and email are required")
		return
	}

	ct := loadCart(c)
	var links []checkoutLink
	linked := map[uint]bool{}
	for _, li := range ct.Lines() {
		p, err := s.store.GetProduct(ctx, li.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			s.fail(c, err)
			return
		}
		it := models.OrderItem{
			ProductID:      p.ID,
			ProductName:    p.Name,
			Color:          li.Color,
			Size:           li.Size,
			Quantity:       li.Quantity,
			UnitPriceCents: p.PriceCents,
		}
		order.Items = append(order.Items, it)
		order.TotalCents += it.SubtotalCents()
		if p.CheckoutURL != "" && !linked[p.ID] {
			linked[p.ID] = true
			links = append(links, checkoutLink{ProductID: p.ID, Name: p.Name, URL: p.CheckoutURL})
		}
	}
	if len(order.Items) == 0 {
		badRequest(c, "cart is empty")
		return
	}

	if err := s.store.CreateOrder(ctx, &order); err != nil {
		s.fail(c, err)
		return
	}
	log := s.log.With("ref", order.Ref)
	if user != nil {
		log = log.With("user_id", user.ID)
	}
	log.Info("order placed", "items", len(order.Items), "total_cents", order.TotalCents)

	ct.Clear()
	if err := saveCart(c, ct); err != nil {
		log.Warn("clear cart after checkout", "err", err)
	}
	if links == nil {
		links = []checkoutLink{}
	}
	c.JSON(http.StatusCreated, gin.H{"order": order, "checkout_links": links})
}
