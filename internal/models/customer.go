package models

import (
	"time"
)

// Customer is a store member. Created on first Kakao login or at the POS.
type Customer struct {
	BaseModel
	Name      *string          `json:"name"`
	Phone     *string          `gorm:"uniqueIndex" json:"phone"`
	KakaoID   *string          `gorm:"uniqueIndex" json:"kakao_id"`
	Gender    *string          `json:"gender"`
	BirthDate *time.Time       `gorm:"type:date" json:"birth_date"`
	Loyalty   *CustomerLoyalty `gorm:"foreignKey:CustomerID" json:"loyalty,omitempty"`
}

// CustomerLoyalty holds the running counters updated at every checkout.
type CustomerLoyalty struct {
	CustomerID  int64      `gorm:"primaryKey;autoIncrement:false" json:"customer_id"`
	TotalAmount int64      `gorm:"not null;default:0" json:"total_amount"`
	RefillCount int        `gorm:"not null;default:0" json:"refill_count"`
	VisitCount  int        `gorm:"not null;default:0" json:"visit_count"`
	LastVisitAt *time.Time `json:"last_visit_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName keeps the singular table name used by the store.
func (CustomerLoyalty) TableName() string {
	return "customer_loyalty"
}

// DisplayName returns the name or a placeholder for anonymous profiles.
func (c Customer) DisplayName() string {
	if c.Name != nil && *c.Name != "" {
		return *c.Name
	}
	return "알맹이"
}
