package model

import "github.com/google/uuid"

// Product is a catalog entry, optionally scoped to a single customer
// (customer-specific catalog with its own pricing).
type Product struct {
	BaseModel
	Name         string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description  string  `gorm:"type:text" json:"description,omitempty"`
	CurrentPrice float64 `gorm:"not null;default:0" json:"current_price" validate:"gte=0"`
	Unit         string  `gorm:"type:varchar(20)" json:"unit"`

	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer   *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty" validate:"-"`
}
