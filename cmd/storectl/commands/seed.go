package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"storefront/internal/models"
	"storefront/internal/store"
)

// Catalog is the seed file layout:
//
//	categories:
//	  - name: Hats
//	    products:
//	      - name: Straw Hat
//	        price: "15.00"
//	        stock: 4
//	        colors: [natural]
//	        offer: true
type Catalog struct {
	Categories []SeedCategory `yaml:"categories"`
}

type SeedCategory struct {
	Name        string        `yaml:"name"`
	Slug        string        `yaml:"slug"`
	Description string        `yaml:"description"`
	ImageURL    string        `yaml:"image_url"`
	Products    []SeedProduct `yaml:"products"`
}

type SeedProduct struct {
	Name        string   `yaml:"name"`
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Stock       int      `yaml:"stock"`
	Colors      []string `yaml:"colors"`
	Sizes       []string `yaml:"sizes"`
	Offer       bool     `yaml:"offer"`
	CheckoutURL string   `yaml:"checkout_url"`
	Images      []string `yaml:"images"`
}

// ParseCatalog reads and validates a seed file.
func ParseCatalog(r io.Reader) (Catalog, error) {
	var cat Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&cat)
	if err != nil && !errors.Is(err, io.EOF) {
		return cat, fmt.Errorf("parse catalog: %w", err)
	}
	for i, c := range cat.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return cat, fmt.Errorf("category #%d: name is required", i+1)
		}
		for j, p := range c.Products {
			if strings.TrimSpace(p.Name) == "" {
				return cat, fmt.Errorf("%s product #%d: name is required", c.Name, j+1)
			}
			if _, err := models.ParsePriceCents(p.Price); err != nil {
				return cat, fmt.Errorf("%s: price %q: %w", p.Name, p.Price, err)
			}
			sp := &cat.Categories[i].Products[j]
			if sp.Colors, err = models.CleanOptions(p.Colors); err != nil {
				return cat, fmt.Errorf("%s: colors: %w", p.Name, err)
			}
			if sp.Sizes, err = models.CleanOptions(p.Sizes); err != nil {
				return cat, fmt.Errorf("%s: sizes: %w", p.Name, err)
			}
		}
	}
	return cat, nil
}

// SeedStore is what Seed writes through; *store.Store implements it.
type SeedStore interface {
	GetCategoryBySlug(ctx context.Context, slug string) (models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	ListProducts(ctx context.Context, f store.ProductFilter) ([]models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	AddProductImage(ctx context.Context, img *models.ProductImage) error
}

// SeedResult counts what Seed did.
type SeedResult struct {
	CategoriesCreated, CategoriesUpdated int
	ProductsCreated, ProductsUpdated     int
}

// Seed upserts the catalog by slug. Images are only attached to products it
// creates.
func Seed(ctx context.Context, st SeedStore, cat Catalog) (SeedResult, error) {
	var res SeedResult
	existing, err := st.ListProducts(ctx, store.ProductFilter{})
	if err != nil {
		return res, err
	}
	bySlug := make(map[string]models.Product, len(existing))
	for _, p := range existing {
		bySlug[p.Slug] = p
	}

	for _, sc := range cat.Categories {
		c := models.Category{Name: sc.Name, Slug: sc.Slug, Description: sc.Description, ImageURL: sc.ImageURL}
		if c.Slug == "" {
			c.Slug = models.Slugify(c.Name)
		}
		found, err := st.GetCategoryBySlug(ctx, c.Slug)
		switch {
		case err == nil:
			c.ID = found.ID
			if err := st.UpdateCategory(ctx, &c); err != nil {
				return res, err
			}
			res.CategoriesUpdated++
		case errors.Is(err, store.ErrNotFound):
			if err := st.CreateCategory(ctx, &c); err != nil {
				return res, err
			}
			res.CategoriesCreated++
		default:
			return res, err
		}

		for _, sp := range sc.Products {
			price, _ := models.ParsePriceCents(sp.Price)
			p := models.Product{
				CategoryID:     &c.ID,
				Name:           sp.Name,
				Slug:           sp.Slug,
				Description:    sp.Description,
				PriceCents:     price,
				Stock:          sp.Stock,
				Colors:         sp.Colors,
				Sizes:          sp.Sizes,
				TemporaryOffer: sp.Offer,
				CheckoutURL:    sp.CheckoutURL,
			}
			if p.Slug == "" {
				p.Slug = models.Slugify(p.Name)
			}
			if old, ok := bySlug[p.Slug]; ok {
				p.ID = old.ID
				if err := st.UpdateProduct(ctx, &p); err != nil {
					return res, err
				}
				res.ProductsUpdated++
				continue
			}
			if err := st.CreateProduct(ctx, &p); err != nil {
				return res, err
			}
			bySlug[p.Slug] = p
			res.ProductsCreated++
			for _, url := range sp.Images {
				if err := st.AddProductImage(ctx, &models.ProductImage{ProductID: p.ID, URL: url}); err != nil {
					return res, err
				}
			}
		}
	}
	return res, nil
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load categories and products from a YAML catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return err
		}
		defer f.Close()
		cat, err := ParseCatalog(f)
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB(st.DB())
		res, err := Seed(cmd.Context(), st, cat)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "categories: %d created, %d updated\nproducts: %d created, %d updated\n",
			res.CategoriesCreated, res.CategoriesUpdated, res.ProductsCreated, res.ProductsUpdated)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "catalog.yaml", "Catalog file")
}
