package web

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/models"
	"storefront/internal/store"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	mu sync.RWMutex

	categories map[uint]models.Category
	products   map[uint]models.Product
	images     map[uint]models.ProductImage
	users      map[uint]models.User
	orders     map[uint]models.Order

	nextID uint
	now    func() time.Time
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		categories: map[uint]models.Category{},
		products:   map[uint]models.Product{},
		images:     map[uint]models.ProductImage{},
		users:      map[uint]models.User{},
		orders:     map[uint]models.Order{},
		now:        time.Now,
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) Ping(context.Context) error { return nil }

func (m *memStore) Counts(context.Context) (store.Counts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := store.Counts{
		Products:   int64(len(m.products)),
		Categories: int64(len(m.categories)),
		Orders:     int64(len(m.orders)),
	}
	for _, u := range m.users {
		if u.Role == models.RoleCustomer {
			c.Customers++
		}
	}
	return c, nil
}

func (m *memStore) ListCategories(context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Category{}
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetCategory(_ context.Context, id uint) (models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories[id]
	if !ok {
		return c, store.ErrNotFound
	}
	return c, nil
}

func (m *memStore) GetCategoryBySlug(_ context.Context, slug string) (models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return models.Category{}, store.ErrNotFound
}

func (m *memStore) CreateCategory(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.Slug == "" {
		c.Slug = models.Slugify(c.Name)
	}
	for _, other := range m.categories {
		if other.Slug == c.Slug {
			return store.ErrConflict
		}
	}
	c.ID = m.id()
	m.categories[c.ID] = *c
	return nil
}

func (m *memStore) UpdateCategory(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[c.ID]; !ok {
		return store.ErrNotFound
	}
	if c.Slug == "" {
		c.Slug = models.Slugify(c.Name)
	}
	m.categories[c.ID] = *c
	return nil
}

func (m *memStore) DeleteCategory(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.categories, id)
	for pid, p := range m.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
			m.products[pid] = p
		}
	}
	return nil
}

func (m *memStore) withImages(p models.Product) models.Product {
	p.Images = nil
	for _, img := range m.images {
		if img.ProductID == p.ID {
			p.Images = append(p.Images, img)
		}
	}
	sort.Slice(p.Images, func(i, j int) bool { return p.Images[i].Position < p.Images[j].Position })
	return p
}

func (m *memStore) ListProducts(_ context.Context, f store.ProductFilter) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Product{}
	term := strings.ToLower(f.Query)
	for _, p := range m.products {
		if f.CategoryID != 0 && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
			continue
		}
		if f.OffersOnly && !p.TemporaryOffer {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Description), term) {
			continue
		}
		out = append(out, m.withImages(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []models.Product{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) GetProduct(_ context.Context, id uint) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return p, store.ErrNotFound
	}
	return m.withImages(p), nil
}

func (m *memStore) CreateProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Slug == "" {
		p.Slug = models.Slugify(p.Name)
	}
	for _, other := range m.products {
		if other.Slug == p.Slug {
			return store.ErrConflict
		}
	}
	p.ID = m.id()
	p.CreatedAt = m.now()
	m.products[p.ID] = *p
	return nil
}

func (m *memStore) UpdateProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return store.ErrNotFound
	}
	if p.Slug == "" {
		p.Slug = models.Slugify(p.Name)
	}
	m.products[p.ID] = *p
	*p = m.withImages(*p)
	return nil
}

func (m *memStore) DeleteProduct(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.products, id)
	for iid, img := range m.images {
		if img.ProductID == id {
			delete(m.images, iid)
		}
	}
	return nil
}

func (m *memStore) AddProductImage(_ context.Context, img *models.ProductImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[img.ProductID]; !ok {
		return store.ErrNotFound
	}
	for _, other := range m.images {
		if other.ProductID == img.ProductID && other.Position >= img.Position {
			img.Position = other.Position + 1
		}
	}
	img.ID = m.id()
	m.images[img.ID] = *img
	return nil
}

func (m *memStore) DeleteProductImage(_ context.Context, id uint) (models.ProductImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.images[id]
	if !ok {
		return img, store.ErrNotFound
	}
	delete(m.images, id)
	return img, nil
}

func (m *memStore) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, other := range m.users {
		if other.Email == u.Email {
			return store.ErrConflict
		}
	}
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	u.ID = m.id()
	m.users[u.ID] = *u
	return nil
}

func (m *memStore) GetUser(_ context.Context, id uint) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return u, store.ErrNotFound
	}
	return u, nil
}

func (m *memStore) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (m *memStore) ListCustomers(_ context.Context, limit, offset int) ([]store.CustomerSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []store.CustomerSummary{}
	for _, u := range m.users {
		if u.Role != models.RoleCustomer {
			continue
		}
		cs := store.CustomerSummary{User: u}
		for _, o := range m.orders {
			if o.UserID != nil && *o.UserID == u.ID {
				cs.OrderCount++
				cs.SpentCents += int64(o.TotalCents)
			}
		}
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) UpdateUserRole(_ context.Context, id uint, role models.Role) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return u, store.ErrNotFound
	}
	u.Role = role
	m.users[id] = u
	return u, nil
}

func (m *memStore) CreateOrder(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.Ref == "" {
		o.Ref = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = models.StatusPending
	}
	o.ID = m.id()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = m.now()
	}
	for i := range o.Items {
		o.Items[i].ID = m.id()
		o.Items[i].OrderID = o.ID
	}
	m.orders[o.ID] = *o
	return nil
}

func (m *memStore) GetOrder(_ context.Context, id uint) (models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return o, store.ErrNotFound
	}
	return o, nil
}

func (m *memStore) GetOrderByRef(_ context.Context, ref string) (models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.Ref == ref {
			return o, nil
		}
	}
	return models.Order{}, store.ErrNotFound
}

func (m *memStore) ListOrders(_ context.Context, f store.OrderFilter) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Order{}
	for _, o := range m.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.UserID != 0 && (o.UserID == nil || *o.UserID != f.UserID) {
			continue
		}
		if !f.Since.IsZero() && o.CreatedAt.Before(f.Since) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) UpdateOrderStatus(_ context.Context, id uint, status models.OrderStatus) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return o, store.ErrNotFound
	}
	o.Status = status
	m.orders[id] = o
	return o, nil
}

func (m *memStore) DeleteOrder(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}
