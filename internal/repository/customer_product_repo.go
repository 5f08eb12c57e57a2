package repository

import (
	"time"

	"go-warehouse-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerProductRepository interface {
	Create(cp *model.CustomerProduct) error
	FindByID(id uuid.UUID) (*model.CustomerProduct, error)
	FindByCustomerID(customerID uuid.UUID) ([]model.CustomerProduct, error)
	// FindOverride returns the active price override for a (customer, product)
	// pair, or gorm.ErrRecordNotFound when none exists.
	FindOverride(customerID, productID uuid.UUID) (*model.CustomerProduct, error)
	Update(cp *model.CustomerProduct) error
	Delete(id uuid.UUID, deletedBy string) error
}

type customerProductRepo struct {
	db *gorm.DB
}

func NewCustomerProductRepo(db *gorm.DB) CustomerProductRepository {
	return &customerProductRepo{db}
}

func (r *customerProductRepo) Create(cp *model.CustomerProduct) error {
	return r.db.Create(cp).Error
}

func (r *customerProductRepo) FindByID(id uuid.UUID) (*model.CustomerProduct, error) {
	var cp model.CustomerProduct
	if err := r.db.Preload("Product").Preload("Customer").First(&cp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cp, nil
}

func (r *customerProductRepo) FindByCustomerID(customerID uuid.UUID) ([]model.CustomerProduct, error) {
	var cps []model.CustomerProduct
	err := r.db.Preload("Product").
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&cps).Error
	return cps, err
}

func (r *customerProductRepo) FindOverride(customerID, productID uuid.UUID) (*model.CustomerProduct, error) {
	var cp model.CustomerProduct
	err := r.db.Where("customer_id = ? AND product_id = ?", customerID, productID).
		Order("created_at DESC").
		First(&cp).Error
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

func (r *customerProductRepo) Update(cp *model.CustomerProduct) error {
	return r.db.Save(cp).Error
}

func (r *customerProductRepo) Delete(id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.CustomerProduct{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"deleted_by": deletedBy,
		}).Error
}
