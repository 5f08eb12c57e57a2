package repository

import (
	"time"

	"go-warehouse-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindAll() ([]model.Customer, error)
	FindByID(id uuid.UUID) (*model.Customer, error)
	Update(customer *model.Customer) error
	// DeleteCascade removes the customer together with its scoped products
	// and price overrides inside the given transaction. Ledger transactions
	// are left untouched.
	DeleteCascade(tx *gorm.DB, id uuid.UUID, deletedBy string) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepo) FindAll() ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.Order("created_at ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) Update(customer *model.Customer) error {
	return r.db.Save(customer).Error
}

func (r *customerRepo) DeleteCascade(tx *gorm.DB, id uuid.UUID, deletedBy string) error {
	now := time.Now()
	stamp := map[string]interface{}{
		"deleted_at": now,
		"deleted_by": deletedBy,
	}

	if err := tx.Model(&model.CustomerProduct{}).
		Where("customer_id = ? AND deleted_at IS NULL", id).
		Updates(stamp).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.Product{}).
		Where("customer_id = ? AND deleted_at IS NULL", id).
		Updates(stamp).Error; err != nil {
		return err
	}
	return tx.Model(&model.Customer{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(stamp).Error
}
