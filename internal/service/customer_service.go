package service

import (
	"fmt"

	"go-warehouse-ledger/internal/model"
	"go-warehouse-ledger/internal/repository"
	"go-warehouse-ledger/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerService interface {
	CreateCustomer(req *model.Customer, userID string) error
	UpdateCustomer(id uuid.UUID, req *model.Customer, userID string) (*model.Customer, error)
	DeleteCustomer(id uuid.UUID, userID string) error
	GetAllCustomers() ([]model.CustomerResponse, error)
	GetCustomerByID(id uuid.UUID) (*model.CustomerResponse, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	txRepo       repository.TransactionRepository
	db           *gorm.DB
}

func NewCustomerService(customerRepo repository.CustomerRepository, txRepo repository.TransactionRepository, db *gorm.DB) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		txRepo:       txRepo,
		db:           db,
	}
}

func (s *customerService) CreateCustomer(req *model.Customer, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.customerRepo.Create(req)
}

func (s *customerService) UpdateCustomer(id uuid.UUID, req *model.Customer, userID string) (*model.Customer, error) {
	existing, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, ErrCustomerNotFound
	}

	existing.Name = req.Name
	existing.Phone = req.Phone
	existing.Address = req.Address
	existing.UpdatedBy = userID

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if err := s.customerRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteCustomer cascades to the customer's scoped products and price
// overrides in one atomic block. Ledger transactions are never touched;
// orphaned customer references in history are accepted.
func (s *customerService) DeleteCustomer(id uuid.UUID, userID string) error {
	if _, err := s.customerRepo.FindByID(id); err != nil {
		return ErrCustomerNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.customerRepo.DeleteCascade(tx, id, userID)
	})
}

func (s *customerService) GetAllCustomers() ([]model.CustomerResponse, error) {
	customers, err := s.customerRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.CustomerResponse, len(customers))
	for i, customer := range customers {
		debt, err := s.txRepo.SumCustomerDebt(customer.ID)
		if err != nil {
			return nil, err
		}
		responses[i] = model.CustomerResponse{Customer: customer, Debt: debt}
	}
	return responses, nil
}

func (s *customerService) GetCustomerByID(id uuid.UUID) (*model.CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, ErrCustomerNotFound
	}

	debt, err := s.txRepo.SumCustomerDebt(customer.ID)
	if err != nil {
		return nil, err
	}
	return &model.CustomerResponse{Customer: *customer, Debt: debt}, nil
}
