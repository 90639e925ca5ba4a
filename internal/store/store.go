// Package store wraps the queries the storefront and dashboard issue.
// Integrity rules (uniqueness, foreign keys) are left to the database.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Store is the data access layer over a *gorm.DB.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the handle for migrations and tooling.
func (s *Store) DB() *gorm.DB { return s.db }

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Counts are dashboard totals.
type Counts struct {
	Products   int64 `json:"products"`
	Categories int64 `json:"categories"`
	Customers  int64 `json:"customers"`
	Orders     int64 `json:"orders"`
}

func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	db := s.db.WithContext(ctx)
	if err := db.Table("products").Count(&c.Products).Error; err != nil {
		return c, wrap("count products", err)
	}
	if err := db.Table("categories").Count(&c.Categories).Error; err != nil {
		return c, wrap("count categories", err)
	}
	if err := db.Table("users").Where("role = ?", "customer").Count(&c.Customers).Error; err != nil {
		return c, wrap("count customers", err)
	}
	if err := db.Table("orders").Count(&c.Orders).Error; err != nil {
		return c, wrap("count orders", err)
	}
	return c, nil
}

func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// page applies limit/offset; a zero limit means no limit.
func page(q *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	return q
}
