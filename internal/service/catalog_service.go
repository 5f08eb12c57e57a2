package service

import (
	"errors"
	"fmt"

	"go-warehouse-ledger/internal/model"
	"go-warehouse-ledger/internal/repository"
	"go-warehouse-ledger/internal/ws"
	"go-warehouse-ledger/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrProductHasTransactions = errors.New("product has transactions, cannot delete")
	ErrOverrideNotFound       = errors.New("price override not found")
)

// CatalogService manages products and per-customer price overrides.
type CatalogService interface {
	CreateProduct(req *model.Product, userID string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error)
	DeleteProduct(id uuid.UUID, userID string) error
	GetAllProducts() ([]model.Product, error)
	GetProductsByCustomer(customerID uuid.UUID) ([]model.Product, error)
	// CanDeleteProduct is false while any non-reversed transaction
	// references the product.
	CanDeleteProduct(productID uuid.UUID) (bool, error)

	AddOverride(req *model.CustomerProduct, userID string) error
	UpdateOverride(id uuid.UUID, price float64, userID string) (*model.CustomerProduct, error)
	DeleteOverride(id uuid.UUID, userID string) error
	GetOverridesByCustomer(customerID uuid.UUID) ([]model.CustomerProduct, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	overrideRepo repository.CustomerProductRepository
	customerRepo repository.CustomerRepository
	txRepo       repository.TransactionRepository
	wsHub        *ws.Hub
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	overrideRepo repository.CustomerProductRepository,
	customerRepo repository.CustomerRepository,
	txRepo repository.TransactionRepository,
	hub *ws.Hub,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		overrideRepo: overrideRepo,
		customerRepo: customerRepo,
		txRepo:       txRepo,
		wsHub:        hub,
	}
}

func (s *catalogService) CreateProduct(req *model.Product, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if req.CustomerID != nil {
		if _, err := s.customerRepo.FindByID(*req.CustomerID); err != nil {
			return ErrCustomerNotFound
		}
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	go s.wsHub.Publish(ws.Event{
		Type:    "product_created",
		Message: fmt.Sprintf("product '%s' created", req.Name),
		Payload: req,
	})
	return nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.CurrentPrice = req.CurrentPrice
	existing.Unit = req.Unit
	existing.CustomerID = req.CustomerID
	existing.UpdatedBy = userID

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) CanDeleteProduct(productID uuid.UUID) (bool, error) {
	count, err := s.txRepo.CountActiveByProduct(productID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// DeleteProduct removes a product unless non-reversed transactions still
// reference it. Reversing those transactions lifts the block.
func (s *catalogService) DeleteProduct(id uuid.UUID, userID string) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return ErrProductNotFound
	}

	ok, err := s.CanDeleteProduct(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProductHasTransactions
	}

	return s.productRepo.Delete(id, userID)
}

func (s *catalogService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetProductsByCustomer(customerID uuid.UUID) ([]model.Product, error) {
	return s.productRepo.FindByCustomerID(customerID)
}

func (s *catalogService) AddOverride(req *model.CustomerProduct, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if _, err := s.customerRepo.FindByID(req.CustomerID); err != nil {
		return ErrCustomerNotFound
	}
	if _, err := s.productRepo.FindByID(req.ProductID); err != nil {
		return ErrProductNotFound
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.overrideRepo.Create(req)
}

func (s *catalogService) UpdateOverride(id uuid.UUID, price float64, userID string) (*model.CustomerProduct, error) {
	existing, err := s.overrideRepo.FindByID(id)
	if err != nil {
		return nil, ErrOverrideNotFound
	}
	if price < 0 {
		return nil, errors.New("price must not be negative")
	}

	existing.Price = price
	existing.UpdatedBy = userID

	if err := s.overrideRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) DeleteOverride(id uuid.UUID, userID string) error {
	if _, err := s.overrideRepo.FindByID(id); err != nil {
		return ErrOverrideNotFound
	}
	return s.overrideRepo.Delete(id, userID)
}

func (s *catalogService) GetOverridesByCustomer(customerID uuid.UUID) ([]model.CustomerProduct, error) {
	return s.overrideRepo.FindByCustomerID(customerID)
}
