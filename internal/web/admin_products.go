package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/store"
)

type productInput struct {
	Name           string   `json:"name" binding:"required"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	Price          string   `json:"price"`
	PriceCents     *int     `json:"price_cents"`
	Stock          int      `json:"stock"`
	CategoryID     *uint    `json:"category_id"`
	Colors         []string `json:"colors"`
	Sizes          []string `json:"sizes"`
	TemporaryOffer bool     `json:"temporary_offer"`
	CheckoutURL    string   `json:"checkout_url" binding:"omitempty,url"`
}

// apply validates the input and copies it onto p.
func (s *Server) apply(c *gin.Context, in productInput, p *models.Product) bool {
	switch {
	case strings.TrimSpace(in.Price) != "":
		cents, err := models.ParsePriceCents(in.Price)
		if err != nil {
			badRequest(c, "invalid price")
			return false
		}
		p.PriceCents = cents
	case in.PriceCents != nil:
		if *in.PriceCents < 0 || *in.PriceCents > models.MaxPriceCents {
			badRequest(c, "invalid price")
			return false
		}
		p.PriceCents = *in.PriceCents
	default:
		badRequest(c, "fill name and price")
		return false
	}
	if in.CategoryID != nil && *in.CategoryID != 0 {
		_, err := s.store.GetCategory(c.Request.Context(), *in.CategoryID)
		if errors.Is(err, store.ErrNotFound) {
			badRequest(c, "unknown category")
			return false
		}
		if err != nil {
			s.fail(c, err)
			return false
		}
		p.CategoryID = in.CategoryID
	} else {
		p.CategoryID = nil
	}
	if in.Stock < 0 {
		in.Stock = 0
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Slug = models.Slugify(in.Slug)
	p.Description = strings.TrimSpace(in.Description)
	p.Stock = in.Stock
	colors, err := models.CleanOptions(in.Colors)
	if err != nil {
		badRequest(c, "colors: "+err.Error())
		return false
	}
	sizes, err := models.CleanOptions(in.Sizes)
	if err != nil {
		badRequest(c, "sizes: "+err.Error())
		return false
	}
	p.Colors = colors
	p.Sizes = sizes
	p.TemporaryOffer = in.TemporaryOffer
	p.CheckoutURL = strings.TrimSpace(in.CheckoutURL)
	return true
}

// ---------- handlers ----------

func (s *Server) adminListProducts(c *gin.Context) {
	f, ok := productFilter(c)
	if !ok {
		return
	}
	items, err := s.store.ListProducts(c.Request.Context(), f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) adminGetProduct(c *gin.Context) {
	s.productDetail(c)
}

func (s *Server) adminCreateProduct(c *gin.Context) {
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "fill name and price; checkout_url must be a URL")
		return
	}
	var p models.Product
	if !s.apply(c, in, &p) {
		return
	}
	if err := s.store.CreateProduct(c.Request.Context(), &p); err != nil {
		s.fail(c, err)
		return
	}
	s.log.Info("product created", "product_id", p.ID, "by", currentUser(c).ID)
	c.JSON(http.StatusCreated, p)
}

func (s *Server) adminUpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "fill name and price; checkout_url must be a URL")
		return
	}
	p, err := s.store.GetProduct(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !s.apply(c, in, &p) {
		return
	}
	if err := s.store.UpdateProduct(c.Request.Context(), &p); err != nil {
		s.fail(c, err)
		return
	}
	s.log.Info("product updated", "product_id", p.ID, "by", currentUser(c).ID)
	c.JSON(http.StatusOK, p)
}

func (s *Server) adminDeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		s.fail(c, err)
		return
	}
	for _, img := range p.Images {
		s.removeUpload(img.URL)
	}
	s.log.Info("product deleted", "product_id", id, "by", currentUser(c).ID)
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// ---------- images ----------

func (s *Server) adminUploadImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	url, err := s.saveUploadedImage(c, "image")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	img := models.ProductImage{ProductID: id, URL: url}
	if err := s.store.AddProductImage(c.Request.Context(), &img); err != nil {
		s.removeUpload(url)
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}

func (s *Server) adminDeleteImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	img, err := s.store.DeleteProductImage(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.removeUpload(img.URL)
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
