// Package seed loads product catalogs from YAML and upserts them.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/cheeze-hyeon/alog/internal/models"
)

// ProductEntry is one product in a catalog file.
type ProductEntry struct {
	Name           string   `yaml:"name"`
	Category       string   `yaml:"category"`
	Refill         *bool    `yaml:"refill"`
	Unit           string   `yaml:"unit"`
	Price          float64  `yaml:"price"`
	CarbonEmission *float64 `yaml:"carbon_emission"`
}

// Catalog represents a parsed catalog file.
type Catalog struct {
	Products []ProductEntry `yaml:"products"`
}

// Result counts what Apply did.
type Result struct {
	Created int
	Updated int
}

// LoadFile reads and parses a catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses catalog YAML, applies defaults and validates every entry.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	if len(c.Products) == 0 {
		return nil, errors.New("catalog has no products defined")
	}

	seen := make(map[string]struct{}, len(c.Products))
	for i := range c.Products {
		p := &c.Products[i]
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return nil, fmt.Errorf("product #%d: name is required", i+1)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("product %q: duplicate name", p.Name)
		}
		seen[p.Name] = struct{}{}

		if !models.ProductCategory(p.Category).Valid() {
			return nil, fmt.Errorf("product %q: unknown category %q", p.Name, p.Category)
		}
		if p.Unit == "" {
			p.Unit = models.PricingUnitGram
		}
		if p.Unit != models.PricingUnitGram && p.Unit != models.PricingUnitPiece {
			return nil, fmt.Errorf("product %q: unit must be g or ea", p.Name)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %q: price must not be negative", p.Name)
		}
		if p.CarbonEmission != nil && *p.CarbonEmission < 0 {
			return nil, fmt.Errorf("product %q: carbon_emission must not be negative", p.Name)
		}
	}

	return &c, nil
}

// Model converts the entry into a product row.
func (e ProductEntry) Model() models.Product {
	return models.Product{
		Name:                  e.Name,
		Category:              models.ProductCategory(e.Category),
		IsRefill:              e.Refill,
		PricingUnit:           e.Unit,
		CurrentPrice:          e.Price,
		CurrentCarbonEmission: e.CarbonEmission,
	}
}

// Apply upserts every catalog product by name in a single transaction.
func Apply(ctx context.Context, db *gorm.DB, c *Catalog) (Result, error) {
	var res Result

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range c.Products {
			row := entry.Model()

			var existing models.Product
			err := tx.Where("name = ?", entry.Name).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("create %q: %w", entry.Name, err)
				}
				res.Created++
			case err != nil:
				return fmt.Errorf("load %q: %w", entry.Name, err)
			default:
				updates := map[string]interface{}{
					"category":                row.Category,
					"is_refill":               row.IsRefill,
					"pricing_unit":            row.PricingUnit,
					"current_price":           row.CurrentPrice,
					"current_carbon_emission": row.CurrentCarbonEmission,
				}
				if err := tx.Model(&existing).Updates(updates).Error; err != nil {
					return fmt.Errorf("update %q: %w", entry.Name, err)
				}
				res.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	log.Info().Str("component", "seed").
		Int("created", res.Created).
		Int("updated", res.Updated).
		Msg("catalog applied")
	return res, nil
}
