package model

import "github.com/google/uuid"

// CustomerProduct is a negotiated per-customer price override. When a
// transaction is recorded without an explicit price, the override wins over
// the product's current price.
type CustomerProduct struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id" validate:"uuid_required"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty" validate:"-"`

	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`

	Price float64 `gorm:"not null" json:"price" validate:"gte=0"`
}
