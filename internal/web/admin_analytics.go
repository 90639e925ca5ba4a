package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/analytics"
	"storefront/internal/store"
)

const recentOrders = 5

func (s *Server) dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	counts, err := s.store.Counts(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	recent, err := s.store.ListOrders(ctx, store.OrderFilter{Limit: recentOrders})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts, "recent_orders": recent})
}

// analytics reports sales over ?range= (7d, 12w, 6m) bucketed by
// ?granularity= (day, week, month).
func (s *Server) analytics(c *gin.Context) {
	now := s.now().UTC()
	from, err := analytics.ParseRange(c.Query("range"), now)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	g, err := analytics.ParseGranularity(c.Query("granularity"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	orders, err := s.store.ListOrders(c.Request.Context(), store.OrderFilter{Since: from})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics.Build(orders, from, now, g))
}
