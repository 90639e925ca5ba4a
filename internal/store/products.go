package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"storefront/internal/models"
)

// ProductFilter narrows ListProducts. Zero values mean "any".
type ProductFilter struct {
	CategoryID uint
	Query      string
	OffersOnly bool
	Limit      int
	Offset     int
}

// ListProducts returns products newest first with their images.
func (s *Store) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Model(&models.Product{}).Preload("Images", orderImages)
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.OffersOnly {
		q = q.Where("temporary_offer = ?", true)
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		like := "%" + term + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}
	var out []models.Product
	err := page(q.Order("id desc"), f.Limit, f.Offset).Find(&out).Error
	return out, wrap("list products", err)
}

func (s *Store) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).Preload("Images", orderImages).Preload("Category").First(&p, id).Error
	return p, wrap("get product", err)
}

// CreateProduct inserts p without touching associations.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.Slug == "" {
		p.Slug = models.Slugify(p.Name)
	}
	return wrap("create product", s.db.WithContext(ctx).Omit("Images", "Category").Create(p).Error)
}

// UpdateProduct writes every editable column of p and reloads it.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	if p.Slug == "" {
		p.Slug = models.Slugify(p.Name)
	}
	res := s.db.WithContext(ctx).Model(&models.Product{Base: models.Base{ID: p.ID}}).
		Select("category_id", "name", "slug", "description", "price_cents", "stock",
			"colors", "sizes", "temporary_offer", "checkout_url").
		Updates(p)
	if res.Error != nil {
		return wrap("update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("update product", gorm.ErrRecordNotFound)
	}
	fresh, err := s.GetProduct(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = fresh
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error == nil && res.RowsAffected == 0 {
		return wrap("delete product", gorm.ErrRecordNotFound)
	}
	return wrap("delete product", res.Error)
}

// AddProductImage appends img after the product's last image.
func (s *Store) AddProductImage(ctx context.Context, img *models.ProductImage) error {
	return wrap("add image", s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Product{}, img.ProductID).Error; err != nil {
			return err
		}
		var last struct{ Max *int }
		if err := tx.Model(&models.ProductImage{}).Select("max(position) as max").
			Where("product_id = ?", img.ProductID).Scan(&last).Error; err != nil {
			return err
		}
		if last.Max != nil {
			img.Position = *last.Max + 1
		}
		return tx.Create(img).Error
	}))
}

// DeleteProductImage removes the row and returns it so the caller can drop
// the file.
func (s *Store) DeleteProductImage(ctx context.Context, id uint) (models.ProductImage, error) {
	var img models.ProductImage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&img, id).Error; err != nil {
			return err
		}
		return tx.Delete(&img).Error
	})
	return img, wrap("delete image", err)
}

func orderImages(db *gorm.DB) *gorm.DB {
	return db.Order("position asc, id asc")
}
