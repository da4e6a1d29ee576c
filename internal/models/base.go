package models

import (
	"time"
)

// BaseModel provides shared columns for all tables.
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
