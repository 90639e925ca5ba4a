package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
)

type categoryInput struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func (in categoryInput) to(c *models.Category) {
	c.Name = strings.TrimSpace(in.Name)
	c.Slug = models.Slugify(in.Slug)
	c.Description = strings.TrimSpace(in.Description)
	c.ImageURL = strings.TrimSpace(in.ImageURL)
}

func (s *Server) adminCreateCategory(c *gin.Context) {
	var in categoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "name is required")
		return
	}
	var cat models.Category
	in.to(&cat)
	if err := s.store.CreateCategory(c.Request.Context(), &cat); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) adminUpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in categoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "name is required")
		return
	}
	cat := models.Category{Base: models.Base{ID: id}}
	in.to(&cat)
	if err := s.store.UpdateCategory(c.Request.Context(), &cat); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (s *Server) adminDeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteCategory(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	s.log.Info("category deleted", "category_id", id, "by", currentUser(c).ID)
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
