package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/store"
)

const latestOnHome = 8

// home feeds the landing page: offer carousel, categories, newest products.
func (s *Server) home(c *gin.Context) {
	ctx := c.Request.Context()
	offers, err := s.store.ListProducts(ctx, store.ProductFilter{OffersOnly: true})
	if err != nil {
		s.fail(c, err)
		return
	}
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	latest, err := s.store.ListProducts(ctx, store.ProductFilter{Limit: latestOnHome})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"offers":     offers,
		"categories": cats,
		"latest":     latest,
		"cart_count": loadCart(c).Count(),
	})
}

func (s *Server) listCategories(c *gin.Context) {
	cats, err := s.store.ListCategories(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (s *Server) categoryPage(c *gin.Context) {
	ctx := c.Request.Context()
	cat, err := s.store.GetCategoryBySlug(ctx, c.Param("slug"))
	if err != nil {
		s.fail(c, err)
		return
	}
	limit, offset := paging(c)
	items, err := s.store.ListProducts(ctx, store.ProductFilter{CategoryID: cat.ID, Limit: limit, Offset: offset})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat, "products": items})
}

// productFilter reads the catalog query string.
func productFilter(c *gin.Context) (store.ProductFilter, bool) {
	var f store.ProductFilter
	if v := c.Query("category"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			badRequest(c, "invalid category")
			return f, false
		}
		f.CategoryID = uint(id)
	}
	f.Query = c.Query("q")
	f.OffersOnly = c.Query("offers") == "true" || c.Query("offers") == "1"
	f.Limit, f.Offset = paging(c)
	return f, true
}

func (s *Server) listProducts(c *gin.Context) {
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

func (s *Server) productDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := s.store.GetProduct(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// buyNow follows the product's external checkout link.
func (s *Server) buyNow(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := s.store.GetProduct(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if p.CheckoutURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no checkout link for this product"})
		return
	}
	c.Redirect(http.StatusSeeOther, p.CheckoutURL)
}

// orderByRef is the order confirmation lookup; refs are random UUIDs.
func (s *Server) orderByRef(c *gin.Context) {
	o, err := s.store.GetOrderByRef(c.Request.Context(), c.Param("ref"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
