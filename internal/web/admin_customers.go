package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/store"
)

func (s *Server) adminListCustomers(c *gin.Context) {
	limit, offset := paging(c)
	out, err := s.store.ListCustomers(c.Request.Context(), limit, offset)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) adminGetCustomer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	orders, err := s.store.ListOrders(ctx, store.OrderFilter{UserID: id})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": u, "orders": orders})
}

type roleInput struct {
	Role models.Role `json:"role" binding:"required"`
}

func (s *Server) adminUpdateCustomerRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in roleInput
	if err := c.ShouldBindJSON(&in); err != nil || !in.Role.Valid() {
		badRequest(c, "unknown role")
		return
	}
	if id == currentUser(c).ID {
		badRequest(c, "cannot change your own role")
		return
	}
	u, err := s.store.UpdateUserRole(c.Request.Context(), id, in.Role)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.log.Info("role changed", "user_id", id, "role", in.Role, "by", currentUser(c).ID)
	c.JSON(http.StatusOK, u)
}
