package models

import (
	"time"
)

// Receipt is one checkout transaction. CustomerID is nil for anonymous sales.
type Receipt struct {
	BaseModel
	CustomerID  *int64        `gorm:"index" json:"customer_id"`
	Customer    *Customer     `json:"customer,omitempty"`
	VisitedAt   time.Time     `gorm:"index" json:"visited_at"`
	TotalAmount int64         `json:"total_amount"`
	Items       []ReceiptItem `json:"items,omitempty"`
}

// ReceiptItem is one product line of a receipt. Quantity is grams for
// weight-priced goods and pieces otherwise. Deleting a product clears
// ProductID on its past lines.
type ReceiptItem struct {
	BaseModel
	ReceiptID           int64    `gorm:"index" json:"receipt_id"`
	ProductID           *int64   `gorm:"index" json:"product_id"`
	Product             *Product `gorm:"constraint:OnDelete:SET NULL" json:"product,omitempty"`
	PurchaseQuantity    float64  `json:"purchase_quantity"`
	PurchaseUnitPrice   float64  `json:"purchase_unit_price"`
	CarbonEmissionBase  *float64 `json:"carbon_emission_base"`
	TotalCarbonEmission *float64 `json:"total_carbon_emission"`
}
