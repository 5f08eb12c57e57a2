package repository

import (
	"time"

	"go-warehouse-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DriverRepository interface {
	Create(driver *model.Driver) error
	FindAll() ([]model.Driver, error)
	FindByID(id uuid.UUID) (*model.Driver, error)
	Update(driver *model.Driver) error
	Delete(id uuid.UUID, deletedBy string) error
}

type driverRepo struct {
	db *gorm.DB
}

func NewDriverRepo(db *gorm.DB) DriverRepository {
	return &driverRepo{db}
}

func (r *driverRepo) Create(driver *model.Driver) error {
	return r.db.Create(driver).Error
}

func (r *driverRepo) FindAll() ([]model.Driver, error) {
	var drivers []model.Driver
	err := r.db.Order("name ASC").Find(&drivers).Error
	return drivers, err
}

func (r *driverRepo) FindByID(id uuid.UUID) (*model.Driver, error) {
	var driver model.Driver
	if err := r.db.First(&driver, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *driverRepo) Update(driver *model.Driver) error {
	return r.db.Save(driver).Error
}

func (r *driverRepo) Delete(id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.Driver{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"deleted_by": deletedBy,
		}).Error
}
