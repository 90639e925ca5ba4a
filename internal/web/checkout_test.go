package web

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

type checkoutReply struct {
	Order models.Order   `json:"order"`
	Links []checkoutLink `json:"checkout_links"`
}

func TestCheckoutGuest(t *testing.T) {
	e := newEnv(t)
	dress := e.product(models.Product{Name: "Linen Dress", PriceCents: 5000, Stock: 5,
		Colors: []string{"white", "sand"}, CheckoutURL: "https://pay.example.com/dress"})
	belt := e.product(models.Product{Name: "Belt", PriceCents: 700, Stock: 5})
	b := e.browser()

	contact := gin.H{"name": "Ana", "email": "Ana@Example.com", "address": "2 Side St"}
	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/api/checkout", contact, nil), "empty cart")

	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/cart/items", gin.H{"product_id": dress.ID, "color": "white"}, nil))
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/cart/items", gin.H{"product_id": dress.ID, "color": "sand"}, nil))
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/cart/items", gin.H{"product_id": belt.ID, "quantity": 2}, nil))

	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/api/checkout", gin.H{"name": "Ana"}, nil))
	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/api/checkout", gin.H{"name": "Ana", "email": "nope"}, nil))

	var out checkoutReply
	require.Equal(t, http.StatusCreated, b.do(http.MethodPost, "/api/checkout", contact, &out))
	assert.NotEmpty(t, out.Order.Ref)
	assert.Equal(t, models.StatusPending, out.Order.Status)
	assert.Equal(t, "ana@example.com", out.Order.CustomerEmail)
	assert.Nil(t, out.Order.UserID)
	assert.Equal(t, 11400, out.Order.TotalCents)
	require.Len(t, out.Order.Items, 3)
	assert.Equal(t, "Linen Dress", out.Order.Items[0].ProductName)
	require.Len(t, out.Links, 1)
	assert.Equal(t, "https://pay.example.com/dress", out.Links[0].URL)

	var view cartView
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/api/cart", nil, &view))
	assert.Empty(t, view.Lines)

	var byRef models.Order
	require.Equal(t, http.StatusOK, e.browser().do(http.MethodGet, "/api/orders/"+out.Order.Ref, nil, &byRef))
	assert.Equal(t, out.Order.ID, byRef.ID)
	assert.Equal(t, http.StatusNotFound, b.do(http.MethodGet, "/api/orders/unknown", nil, nil))
}

func TestCheckoutUsesProfile(t *testing.T) {
	e := newEnv(t)
	u := e.user("bo@shop.test", "secret1", models.RoleCustomer)
	hat := e.product(models.Product{Name: "Hat", PriceCents: 1000, Stock: 3})
	b := e.browser()
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/cart/items", gin.H{"product_id": hat.ID}, nil))
	b.login("bo@shop.test", "secret1")

	var out checkoutReply
	require.Equal(t, http.StatusCreated, b.do(http.MethodPost, "/api/checkout", gin.H{}, &out))
	require.NotNil(t, out.Order.UserID)
	assert.Equal(t, u.ID, *out.Order.UserID)
	assert.Equal(t, u.Name, out.Order.CustomerName)
	assert.Equal(t, "1 Main St", out.Order.ShippingAddress)
	assert.Empty(t, out.Links)

	var mine []models.Order
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/api/me/orders", nil, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, out.Order.Ref, mine[0].Ref)
}
