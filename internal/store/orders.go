package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/models"
)

// OrderFilter narrows ListOrders. Zero values mean "any".
type OrderFilter struct {
	Status models.OrderStatus
	UserID uint
	Since  time.Time
	Limit  int
	Offset int
}

// CreateOrder inserts the order and its items together. Ref and status are
// filled in when empty.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.Ref == "" {
		o.Ref = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = models.StatusPending
	}
	return wrap("create order", s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	}))
}

func (s *Store) GetOrder(ctx context.Context, id uint) (models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&o, id).Error
	return o, wrap("get order", err)
}

func (s *Store) GetOrderByRef(ctx context.Context, ref string) (models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).Preload("Items").Where("ref = ?", ref).First(&o).Error
	return o, wrap("get order", err)
}

// ListOrders returns orders newest first with items.
func (s *Store) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Model(&models.Order{}).Preload("Items")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if !f.Since.IsZero() {
		q = q.Where("created_at >= ?", f.Since)
	}
	var out []models.Order
	err := page(q.Order("created_at desc, id desc"), f.Limit, f.Offset).Find(&out).Error
	return out, wrap("list orders", err)
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (models.Order, error) {
	res := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return models.Order{}, wrap("update order", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Order{}, wrap("update order", gorm.ErrRecordNotFound)
	}
	return s.GetOrder(ctx, id)
}

func (s *Store) DeleteOrder(ctx context.Context, id uint) error {
	return wrap("delete order", s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}
