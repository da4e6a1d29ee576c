package models

import (
	"time"

	"github.com/cheeze-hyeon/alog/internal/impact"
)

// ProductCategory is the fixed set of catalog categories.
type ProductCategory string

const (
	CategoryShampoo           ProductCategory = "shampoo"
	CategoryConditioner       ProductCategory = "conditioner"
	CategoryBodyHandwash      ProductCategory = "body_handwash"
	CategoryLotionOil         ProductCategory = "lotion_oil"
	CategoryCreamBalmGelPack  ProductCategory = "cream_balm_gel_pack"
	CategoryCleansing         ProductCategory = "cleansing"
	CategoryDetergent         ProductCategory = "detergent"
	CategorySnackDrinkBase    ProductCategory = "snack_drink_base"
	CategoryCookingIngredient ProductCategory = "cooking_ingredient"
	CategoryTea               ProductCategory = "tea"
)

// Categories lists every valid category in display order.
var Categories = []ProductCategory{
	CategoryShampoo,
	CategoryConditioner,
	CategoryBodyHandwash,
	CategoryLotionOil,
	CategoryCreamBalmGelPack,
	CategoryCleansing,
	CategoryDetergent,
	CategorySnackDrinkBase,
	CategoryCookingIngredient,
	CategoryTea,
}

// Valid reports whether c is a known category.
func (c ProductCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// IsFoodCategory reports whether c is a food category, sold packaged rather
// than refilled.
func (c ProductCategory) IsFoodCategory() bool {
	return !impact.IsRefillCategory(string(c))
}

// CategoriesWhere returns the known categories for which keep is true.
func CategoriesWhere(keep func(ProductCategory) bool) []ProductCategory {
	out := make([]ProductCategory, 0, len(Categories))
	for _, c := range Categories {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// Pricing units.
const (
	PricingUnitGram  = "g"
	PricingUnitPiece = "ea"
)

type Product struct {
	BaseModel
	Name                  string          `gorm:"not null" json:"name"`
	Category              ProductCategory `gorm:"index" json:"category"`
	IsRefill              *bool           `json:"is_refill"`
	PricingUnit           string          `gorm:"default:g" json:"pricing_unit"`
	CurrentPrice          float64         `json:"current_price"`
	CurrentCarbonEmission *float64        `json:"current_carbon_emission"`
	UpdatedAt             time.Time       `json:"updated_at"`
}
