package impact

import "time"

// Receipt is the slice of a checkout transaction the aggregation needs.
type Receipt struct {
	ID        int64
	VisitedAt time.Time
}

// LineItem is one product line of a receipt.
type LineItem struct {
	ID        int64
	ReceiptID int64
	ProductID *int64
	Quantity  float64
	UnitPrice float64
	// TotalCarbonEmission is the kg CO2 stored at checkout, if any.
	TotalCarbonEmission *float64
}

// Product is a catalog entry as seen by the aggregation.
type Product struct {
	ID          int64
	Name        string
	Category    string
	IsRefill    *bool
	PricingUnit string
}

// PurchaseItem is one display row of a customer's purchase history.
type PurchaseItem struct {
	Date              string  `json:"date"`
	DisplayDate       string  `json:"display_date"`
	ReceiptID         int64   `json:"receipt_id"`
	ProductName       string  `json:"product_name"`
	Category          string  `json:"category"`
	Price             int64   `json:"price"`
	Quantity          float64 `json:"quantity"`
	UnitPrice         float64 `json:"unit_price"`
	PricingUnit       string  `json:"pricing_unit"`
	IsRefill          bool    `json:"is_refill"`
	Type              string  `json:"type"`
	PlasticReductionG float64 `json:"plastic_reduction_g"`
}

// EnvironmentStats summarizes the impact of a purchase history.
type EnvironmentStats struct {
	RefillCount        int     `json:"refill_count"`
	PlasticReductionKg float64 `json:"plastic_reduction_kg"`
	PlasticReductionG  float64 `json:"plastic_reduction_g"`
	TreeReduction      float64 `json:"tree_reduction"`
	CO2ReductionKg     float64 `json:"co2_reduction_kg"`
}

// History is the result of folding receipts into stats and display rows.
type History struct {
	Stats EnvironmentStats `json:"stats"`
	Items []PurchaseItem   `json:"items"`
}

// Purchase item types.
const (
	ItemTypeRefill  = "refill"
	ItemTypeProduct = "product"
)

// Pricing units.
const (
	UnitGram  = "g"
	UnitPiece = "ea"
)

// DefaultCategory labels items whose product has no category.
const DefaultCategory = "기타"
