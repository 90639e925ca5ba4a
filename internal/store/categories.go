package store

import (
	"context"

	"gorm.io/gorm"

	"storefront/internal/models"
)

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := s.db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, wrap("list categories", err)
}

func (s *Store) GetCategory(ctx context.Context, id uint) (models.Category, error) {
	var c models.Category
	err := s.db.WithContext(ctx).First(&c, id).Error
	return c, wrap("get category", err)
}

func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	var c models.Category
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	return c, wrap("get category", err)
}

// CreateCategory inserts c, deriving the slug from the name when empty.
func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	if c.Slug == "" {
		c.Slug = models.Slugify(c.Name)
	}
	return wrap("create category", s.db.WithContext(ctx).Omit("Products").Create(c).Error)
}

func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	if c.Slug == "" {
		c.Slug = models.Slugify(c.Name)
	}
	res := s.db.WithContext(ctx).Model(&models.Category{Base: models.Base{ID: c.ID}}).
		Select("name", "slug", "description", "image_url").
		Updates(c)
	if res.Error != nil {
		return wrap("update category", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("update category", gorm.ErrRecordNotFound)
	}
	return wrap("update category", s.db.WithContext(ctx).First(c, c.ID).Error)
}

// DeleteCategory removes the category; its products stay, uncategorized.
func (s *Store) DeleteCategory(ctx context.Context, id uint) error {
	return wrap("delete category", s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}
