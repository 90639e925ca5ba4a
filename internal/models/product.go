package models

import (
	"fmt"
	"strings"
)

// Product is the products table.
type Product struct {
	Base
	CategoryID     *uint          `gorm:"index" json:"category_id"`
	Category       *Category      `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Name           string         `gorm:"not null" json:"name"`
	Slug           string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description    string         `gorm:"type:text" json:"description"`
	PriceCents     int            `gorm:"not null" json:"price_cents"`
	Stock          int            `gorm:"not null;default:0" json:"stock"`
	Colors         []string       `gorm:"serializer:json;type:text" json:"colors"`
	Sizes          []string       `gorm:"serializer:json;type:text" json:"sizes"`
	TemporaryOffer bool           `gorm:"index;not null;default:false" json:"temporary_offer"`
	CheckoutURL    string         `json:"checkout_url"`
	Images         []ProductImage `gorm:"constraint:OnDelete:CASCADE" json:"images"`
}

// HasColor reports whether c is one of the product's colors.
// A product without colors accepts only the empty choice.
func (p Product) HasColor(c string) bool { return hasOption(p.Colors, c) }

// HasSize is HasColor for sizes.
func (p Product) HasSize(s string) bool { return hasOption(p.Sizes, s) }

func hasOption(opts []string, v string) bool {
	if len(opts) == 0 {
		return v == ""
	}
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}

// MaxOptionLen bounds a single color or size value.
const MaxOptionLen = 32

// CleanOptions trims, drops blanks and duplicates, keeping order. Values end
// up inside cart line keys and URLs, so ':' and '/' are refused.
func CleanOptions(in []string) ([]string, error) {
	out := []string{}
	seen := map[string]bool{}
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		if strings.ContainsAny(v, ":/") {
			return nil, fmt.Errorf("%q may not contain ':' or '/'", v)
		}
		if len(v) > MaxOptionLen {
			return nil, fmt.Errorf("%q is longer than %d characters", v, MaxOptionLen)
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}

// ProductImage is the product_images table.
type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	URL       string `gorm:"not null" json:"url"` // relative, e.g. "/uploads/abc123.jpg"
	Position  int    `gorm:"not null;default:0" json:"position"`
}
