package model

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TxIn  TransactionType = "IN"
	TxOut TransactionType = "OUT"
)

// Transaction is a single ledger entry. OUT entries are sales that count
// toward customer debt until paid; IN entries are stock receipts.
//
// A transaction is never hard-deleted once recorded. Its "delete" is a red
// reversal: IsReversed flips to true (and never back), the reversal is
// stamped, and the row stops contributing to debt and delete-blocking while
// staying visible in history.
type Transaction struct {
	BaseModel
	Type      TransactionType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=IN OUT"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`

	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id" validate:"uuid_required"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty" validate:"-"`

	// User who recorded the entry
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty" validate:"-"`

	DriverID *uuid.UUID `gorm:"type:uuid;index" json:"driver_id,omitempty"`
	Driver   *Driver    `gorm:"foreignKey:DriverID" json:"driver,omitempty" validate:"-"`

	Quantity float64 `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Price    float64 `gorm:"not null" json:"price" validate:"gte=0"` // Unit price snapshot

	// ISO-8601 timestamp kept as a string so range filters compare
	// lexicographically, matching the bookkeeping convention.
	Date  string `gorm:"type:varchar(35);not null;index" json:"date"`
	Notes string `gorm:"type:text" json:"notes,omitempty"`

	Paid bool `gorm:"not null;default:false" json:"paid"`

	// Red reversal annotation
	IsReversed     bool       `gorm:"not null;default:false;index" json:"is_reversed"`
	ReversedBy     *string    `gorm:"type:varchar(255)" json:"reversed_by,omitempty"`
	ReversedAt     *time.Time `json:"reversed_at,omitempty"`
	ReversedReason string     `gorm:"type:text" json:"reversed_reason,omitempty"`
}

// TotalAmount is quantity * price, computed on read. It is never stored:
// debt and summaries always recompute from the live row.
func (t *Transaction) TotalAmount() float64 {
	return t.Quantity * t.Price
}

// TransactionResponse is a history row enriched with its joins and the
// computed total.
type TransactionResponse struct {
	Transaction
	TotalAmount float64 `json:"total_amount"`
}

// ToResponse builds the enriched history row.
func (t *Transaction) ToResponse() TransactionResponse {
	return TransactionResponse{
		Transaction: *t,
		TotalAmount: t.TotalAmount(),
	}
}

// PaginatedTransactions is the envelope for filtered history queries.
type PaginatedTransactions struct {
	Data       []TransactionResponse `json:"data"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}
