package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/store"
)

func (s *Server) adminListOrders(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		badRequest(c, "unknown status")
		return
	}
	limit, offset := paging(c)
	orders, err := s.store.ListOrders(c.Request.Context(), store.OrderFilter{Status: status, Limit: limit, Offset: offset})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) adminGetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	o, err := s.store.GetOrder(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type statusInput struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func (s *Server) adminUpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in statusInput
	if err := c.ShouldBindJSON(&in); err != nil || !in.Status.Valid() {
		badRequest(c, "unknown status")
		return
	}
	o, err := s.store.UpdateOrderStatus(c.Request.Context(), id, in.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.log.Info("order status changed", "order_id", id, "status", in.Status, "by", currentUser(c).ID)
	c.JSON(http.StatusOK, o)
}

func (s *Server) adminDeleteOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteOrder(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	s.log.Info("order deleted", "order_id", id, "by", currentUser(c).ID)
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
