package service

import (
	"fmt"

	"go-warehouse-ledger/internal/model"
	"go-warehouse-ledger/internal/repository"
	"go-warehouse-ledger/pkg/validator"

	"github.com/google/uuid"
)

type DriverService interface {
	CreateDriver(req *model.Driver, userID string) error
	UpdateDriver(id uuid.UUID, req *model.Driver, userID string) (*model.Driver, error)
	DeleteDriver(id uuid.UUID, userID string) error
	GetAllDrivers() ([]model.Driver, error)
	GetDriverByID(id uuid.UUID) (*model.Driver, error)
}

type driverService struct {
	driverRepo repository.DriverRepository
}

func NewDriverService(driverRepo repository.DriverRepository) DriverService {
	return &driverService{driverRepo: driverRepo}
}

func (s *driverService) CreateDriver(req *model.Driver, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.driverRepo.Create(req)
}

func (s *driverService) UpdateDriver(id uuid.UUID, req *model.Driver, userID string) (*model.Driver, error) {
	existing, err := s.driverRepo.FindByID(id)
	if err != nil {
		return nil, ErrDriverNotFound
	}

	existing.Name = req.Name
	existing.Phone = req.Phone
	existing.Vehicle = req.Vehicle
	existing.UpdatedBy = userID

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if err := s.driverRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *driverService) DeleteDriver(id uuid.UUID, userID string) error {
	if _, err := s.driverRepo.FindByID(id); err != nil {
		return ErrDriverNotFound
	}
	return s.driverRepo.Delete(id, userID)
}

func (s *driverService) GetAllDrivers() ([]model.Driver, error) {
	return s.driverRepo.FindAll()
}

func (s *driverService) GetDriverByID(id uuid.UUID) (*model.Driver, error) {
	driver, err := s.driverRepo.FindByID(id)
	if err != nil {
		return nil, ErrDriverNotFound
	}
	return driver, nil
}
