package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/store"
)

type registerRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	Phone    string `json:"phone" form:"phone"`
	Address  string `json:"address" form:"address"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "name, valid email and a password of at least 6 characters are required")
		return
	}
	ctx := c.Request.Context()

	_, err := s.store.FindUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	case !errors.Is(err, store.ErrNotFound):
		s.fail(c, err)
		return
	}

	hash, err := models.HashPassword(req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	u := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		PasswordHash: hash,
		Role:         models.RoleCustomer,
	}
	if err := s.store.CreateUser(ctx, &u); err != nil {
		s.fail(c, err)
		return
	}
	if err := setSessionUser(c, u); err != nil {
		s.fail(c, err)
		return
	}
	s.log.Info("user registered", "user_id", u.ID)
	c.JSON(http.StatusCreated, u)
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "fill all fields")
		return
	}
	u, err := s.store.FindUserByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !models.CheckPassword(u.PasswordHash, req.Password)) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := setSessionUser(c, u); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// logout forgets the user but keeps the cart.
func (s *Server) logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Delete(keyUserID)
	if err := sess.Save(); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (s *Server) myOrders(c *gin.Context) {
	limit, offset := paging(c)
	orders, err := s.store.ListOrders(c.Request.Context(), store.OrderFilter{
		UserID: currentUser(c).ID, Limit: limit, Offset: offset,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
