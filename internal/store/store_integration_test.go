//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"storefront/internal/db"
	"storefront/internal/models"
	"storefront/internal/store"
)

// newStore starts a throwaway Postgres and returns a migrated store.
func newStore(t *testing.T) *store.Store {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("shop"),
		postgres.WithUsername("shop"),
		postgres.WithPassword("shop"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	gdb, err := db.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return store.New(gdb)
}

func TestStoreCatalog(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	cat := models.Category{Name: "Summer Dresses"}
	require.NoError(t, s.CreateCategory(ctx, &cat))
	assert.Equal(t, "summer-dresses", cat.Slug)

	dup := models.Category{Name: "Summer dresses"}
	assert.ErrorIs(t, s.CreateCategory(ctx, &dup), store.ErrConflict)

	p := models.Product{
		CategoryID: &cat.ID, Name: "Linen Dress", PriceCents: 4999, Stock: 3,
		Colors: []string{"white", "sand"}, Sizes: []string{"S", "M"}, TemporaryOffer: true,
	}
	require.NoError(t, s.CreateProduct(ctx, &p))
	require.NoError(t, s.CreateProduct(ctx, &models.Product{Name: "Straw Hat", PriceCents: 1500}))

	img := models.ProductImage{ProductID: p.ID, URL: "/uploads/a.jpg"}
	require.NoError(t, s.AddProductImage(ctx, &img))
	img2 := models.ProductImage{ProductID: p.ID, URL: "/uploads/b.jpg"}
	require.NoError(t, s.AddProductImage(ctx, &img2))
	assert.Equal(t, 1, img2.Position)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"white", "sand"}, got.Colors)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "/uploads/a.jpg", got.Images[0].URL)

	offers, err := s.ListProducts(ctx, store.ProductFilter{OffersOnly: true})
	require.NoError(t, err)
	require.Len(t, offers, 1)

	found, err := s.ListProducts(ctx, store.ProductFilter{Query: "straw"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Straw Hat", found[0].Name)

	got.PriceCents = 3999
	got.TemporaryOffer = false
	require.NoError(t, s.UpdateProduct(ctx, &got))
	assert.Equal(t, 3999, got.PriceCents)
	assert.False(t, got.TemporaryOffer)

	removed, err := s.DeleteProductImage(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.jpg", removed.URL)

	require.NoError(t, s.DeleteCategory(ctx, cat.ID))
	got, err = s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)

	require.NoError(t, s.DeleteProduct(ctx, p.ID))
	_, err = s.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStoreOrdersAndCustomers(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := models.User{Name: "Ana", Email: "Ana@Example.com", PasswordHash: "x"}
	require.NoError(t, s.CreateUser(ctx, &u))
	byEmail, err := s.FindUserByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	o := models.Order{
		UserID: &u.ID, CustomerName: "Ana", CustomerEmail: u.Email, TotalCents: 3000,
		Items: []models.OrderItem{{ProductID: 1, ProductName: "Hat", Quantity: 2, UnitPriceCents: 1500}},
	}
	require.NoError(t, s.CreateOrder(ctx, &o))
	assert.NotEmpty(t, o.Ref)
	assert.Equal(t, models.StatusPending, o.Status)

	byRef, err := s.GetOrderByRef(ctx, o.Ref)
	require.NoError(t, err)
	require.Len(t, byRef.Items, 1)

	updated, err := s.UpdateOrderStatus(ctx, o.ID, models.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.Status)

	shipped, err := s.ListOrders(ctx, store.OrderFilter{Status: models.StatusShipped, UserID: u.ID})
	require.NoError(t, err)
	assert.Len(t, shipped, 1)

	customers, err := s.ListCustomers(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.EqualValues(t, 1, customers[0].OrderCount)
	assert.EqualValues(t, 3000, customers[0].SpentCents)

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts.Orders)
	assert.EqualValues(t, 1, counts.Customers)

	require.NoError(t, s.DeleteOrder(ctx, o.ID))
	assert.ErrorIs(t, s.DeleteOrder(ctx, o.ID), store.ErrNotFound)
}
