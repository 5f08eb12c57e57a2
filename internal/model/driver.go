package model

// Driver is an optional delivery attribution on transactions.
type Driver struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone   string `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Vehicle string `gorm:"type:varchar(100)" json:"vehicle,omitempty"`
}
