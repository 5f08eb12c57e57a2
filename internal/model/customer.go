package model

// Customer is a trading partner on the ledger.
type Customer struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone   string `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Address string `gorm:"type:text" json:"address,omitempty"`
}

// CustomerResponse pairs a customer with its outstanding debt. Debt is
// recomputed from the transaction set on every read, never stored.
type CustomerResponse struct {
	Customer
	Debt float64 `json:"debt"`
}
