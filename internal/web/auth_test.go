package web

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func TestRegisterLoginLogout(t *testing.T) {
	e := newEnv(t)
	b := e.browser()

	assert.Equal(t, http.StatusUnauthorized, b.do(http.MethodGet, "/api/me", nil, nil))

	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/api/register",
		gin.H{"name": "Cy", "email": "cy@shop.test", "password": "123"}, nil))
	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/api/register",
		gin.H{"name": "Cy", "email": "not-an-email", "password": "123456"}, nil))

	var u models.User
	require.Equal(t, http.StatusCreated, b.do(http.MethodPost, "/api/register",
		gin.H{"name": "Cy", "email": "Cy@Shop.test", "password": "123456"}, &u))
	assert.Equal(t, "cy@shop.test", u.Email)
	assert.Equal(t, models.RoleCustomer, u.Role)

	stored, err := e.store.GetUser(t.Context(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "123456", stored.PasswordHash)

	var me models.User
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/api/me", nil, &me))
	assert.Equal(t, u.ID, me.ID)

	assert.Equal(t, http.StatusConflict, e.browser().do(http.MethodPost, "/api/register",
		gin.H{"name": "Cy", "email": "cy@shop.test", "password": "abcdef"}, nil))

	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/logout", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, b.do(http.MethodGet, "/api/me", nil, nil))

	assert.Equal(t, http.StatusUnauthorized, b.do(http.MethodPost, "/api/login",
		gin.H{"email": "cy@shop.test", "password": "wrong1"}, nil))
	assert.Equal(t, http.StatusUnauthorized, b.do(http.MethodPost, "/api/login",
		gin.H{"email": "nobody@shop.test", "password": "123456"}, nil))
	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/api/login", gin.H{"email": "cy@shop.test"}, nil))

	b.login("CY@shop.test", "123456")
	assert.Equal(t, http.StatusOK, b.do(http.MethodGet, "/api/me", nil, nil))
}

func TestLogoutKeepsCart(t *testing.T) {
	e := newEnv(t)
	e.user("dee@shop.test", "secret1", models.RoleCustomer)
	hat := e.product(models.Product{Name: "Hat", PriceCents: 1000, Stock: 3})
	b := e.browser()
	b.login("dee@shop.test", "secret1")
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/cart/items", gin.H{"product_id": hat.ID}, nil))
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/logout", nil, nil))

	var view cartView
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/api/cart", nil, &view))
	assert.Equal(t, 1, view.Count)
}
