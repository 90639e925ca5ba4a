package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"storefront/internal/models"
)

// CustomerSummary is a customer row for the dashboard.
type CustomerSummary struct {
	models.User
	OrderCount int64 `json:"order_count"`
	SpentCents int64 `json:"spent_cents"`
}

// CreateUser inserts u; emails are stored lowercased.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	return wrap("create user", s.db.WithContext(ctx).Create(u).Error)
}

func (s *Store) GetUser(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	return u, wrap("get user", err)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	return u, wrap("find user", err)
}

// ListCustomers returns customers newest first with order totals.
func (s *Store) ListCustomers(ctx context.Context, limit, offset int) ([]CustomerSummary, error) {
	var out []CustomerSummary
	q := s.db.WithContext(ctx).Model(&models.User{}).
		Select("users.*, count(orders.id) as order_count, coalesce(sum(orders.total_cents), 0) as spent_cents").
		Joins("left join orders on orders.user_id = users.id").
		Where("users.role = ?", models.RoleCustomer).
		Group("users.id").
		Order("users.id desc")
	err := page(q, limit, offset).Scan(&out).Error
	return out, wrap("list customers", err)
}

func (s *Store) UpdateUserRole(ctx context.Context, id uint, role models.Role) (models.User, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return models.User{}, wrap("update role", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.User{}, wrap("update role", gorm.ErrRecordNotFound)
	}
	return s.GetUser(ctx, id)
}
