package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go-warehouse-ledger/internal/model"
	"go-warehouse-ledger/internal/repository"
	"go-warehouse-ledger/internal/ws"
	"go-warehouse-ledger/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrDriverNotFound      = errors.New("driver not found")
)

// RecordTransactionRequest is the create payload. Price is optional: when
// omitted, the customer's override price wins over the product's current
// price.
type RecordTransactionRequest struct {
	Type       model.TransactionType `json:"type" validate:"required,oneof=IN OUT"`
	ProductID  uuid.UUID             `json:"product_id" validate:"uuid_required"`
	CustomerID uuid.UUID             `json:"customer_id" validate:"uuid_required"`
	DriverID   *uuid.UUID            `json:"driver_id"`
	Quantity   float64               `json:"quantity" validate:"required,gt=0"`
	Price      *float64              `json:"price" validate:"omitempty,gte=0"`
	Date       string                `json:"date"`
	Notes      string                `json:"notes"`
}

// UpdateTransactionRequest patches individual fields; nil means unchanged.
type UpdateTransactionRequest struct {
	Quantity *float64   `json:"quantity" validate:"omitempty,gt=0"`
	Price    *float64   `json:"price" validate:"omitempty,gte=0"`
	Date     *string    `json:"date"`
	Notes    *string    `json:"notes"`
	Paid     *bool      `json:"paid"`
	DriverID *uuid.UUID `json:"driver_id"`
}

type LedgerService interface {
	RecordTransaction(req *RecordTransactionRequest, userID string) (*model.Transaction, error)
	UpdateTransaction(id uuid.UUID, req *UpdateTransactionRequest, userID string) (*model.Transaction, error)
	ReverseTransaction(id uuid.UUID, reason, userID string) (*model.Transaction, error)
	GetTransactionByID(id uuid.UUID) (*model.TransactionResponse, error)
	QueryTransactions(q repository.TransactionQuery) (*model.PaginatedTransactions, error)
	GetCustomerDebt(customerID uuid.UUID) (float64, error)
}

type ledgerService struct {
	txRepo       repository.TransactionRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	driverRepo   repository.DriverRepository
	overrideRepo repository.CustomerProductRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewLedgerService(
	txRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	driverRepo repository.DriverRepository,
	overrideRepo repository.CustomerProductRepository,
	db *gorm.DB,
	hub *ws.Hub,
) LedgerService {
	return &ledgerService{
		txRepo:       txRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		driverRepo:   driverRepo,
		overrideRepo: overrideRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *ledgerService) RecordTransaction(req *RecordTransactionRequest, userID string) (*model.Transaction, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	recorderID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.New("invalid user id")
	}

	product, err := s.productRepo.FindByID(req.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if _, err := s.customerRepo.FindByID(req.CustomerID); err != nil {
		return nil, ErrCustomerNotFound
	}
	if req.DriverID != nil {
		if _, err := s.driverRepo.FindByID(*req.DriverID); err != nil {
			return nil, ErrDriverNotFound
		}
	}

	price := s.resolvePrice(req, product)

	date := req.Date
	if date == "" {
		date = time.Now().Format(time.RFC3339)
	}

	transaction := &model.Transaction{
		Type:       req.Type,
		ProductID:  req.ProductID,
		CustomerID: req.CustomerID,
		UserID:     recorderID,
		DriverID:   req.DriverID,
		Quantity:   req.Quantity,
		Price:      price,
		Date:       date,
		Notes:      req.Notes,
		Paid:       false,
		IsReversed: false,
	}
	transaction.CreatedBy = userID
	transaction.UpdatedBy = userID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.txRepo.Create(tx, transaction)
	})
	if err != nil {
		return nil, err
	}

	go s.wsHub.Publish(ws.Event{
		Type:    "transaction_recorded",
		Message: fmt.Sprintf("%s transaction of %g x %s recorded", transaction.Type, transaction.Quantity, product.Name),
		Payload: transaction.ToResponse(),
	})

	return transaction, nil
}

// resolvePrice picks the unit price for a new entry: explicit caller price,
// then the customer's negotiated override, then the product's current price.
func (s *ledgerService) resolvePrice(req *RecordTransactionRequest, product *model.Product) float64 {
	if req.Price != nil {
		return *req.Price
	}
	if override, err := s.overrideRepo.FindOverride(req.CustomerID, req.ProductID); err == nil {
		return override.Price
	}
	return product.CurrentPrice
}

func (s *ledgerService) UpdateTransaction(id uuid.UUID, req *UpdateTransactionRequest, userID string) (*model.Transaction, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	transaction, err := s.txRepo.FindByID(id)
	if err != nil {
		return nil, ErrTransactionNotFound
	}

	if req.Quantity != nil {
		transaction.Quantity = *req.Quantity
	}
	if req.Price != nil {
		transaction.Price = *req.Price
	}
	if req.Date != nil && *req.Date != "" {
		transaction.Date = *req.Date
	}
	if req.Notes != nil {
		transaction.Notes = *req.Notes
	}
	if req.Paid != nil {
		transaction.Paid = *req.Paid
	}
	if req.DriverID != nil {
		if _, err := s.driverRepo.FindByID(*req.DriverID); err != nil {
			return nil, ErrDriverNotFound
		}
		transaction.DriverID = req.DriverID
	}
	transaction.UpdatedBy = userID

	if err := s.txRepo.Update(transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

// ReverseTransaction applies a red reversal: the entry keeps its quantity,
// price and date for the audit trail but stops counting toward debt and
// product delete-blocking. Reversing an already-reversed entry is a no-op.
func (s *ledgerService) ReverseTransaction(id uuid.UUID, reason, userID string) (*model.Transaction, error) {
	transaction, err := s.txRepo.FindByID(id)
	if err != nil {
		return nil, ErrTransactionNotFound
	}

	if transaction.IsReversed {
		return transaction, nil
	}

	now := time.Now()
	transaction.IsReversed = true
	transaction.ReversedBy = &userID
	transaction.ReversedAt = &now
	transaction.ReversedReason = reason
	transaction.UpdatedBy = userID

	if err := s.txRepo.Update(transaction); err != nil {
		return nil, err
	}

	go s.wsHub.Publish(ws.Event{
		Type:    "transaction_reversed",
		Message: fmt.Sprintf("transaction %s reversed: %s", transaction.ID, reason),
		Payload: transaction.ToResponse(),
	})

	return transaction, nil
}

func (s *ledgerService) GetTransactionByID(id uuid.UUID) (*model.TransactionResponse, error) {
	transaction, err := s.txRepo.FindByID(id)
	if err != nil {
		return nil, ErrTransactionNotFound
	}
	resp := transaction.ToResponse()
	return &resp, nil
}

func (s *ledgerService) QueryTransactions(q repository.TransactionQuery) (*model.PaginatedTransactions, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}

	transactions, total, err := s.txRepo.Query(q)
	if err != nil {
		return nil, err
	}

	data := make([]model.TransactionResponse, len(transactions))
	for i := range transactions {
		data[i] = transactions[i].ToResponse()
	}

	return &model.PaginatedTransactions{
		Data:       data,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(q.PageSize))),
	}, nil
}

// GetCustomerDebt recomputes the outstanding balance from the live
// transaction set on every call. No stored debt field is trusted.
func (s *ledgerService) GetCustomerDebt(customerID uuid.UUID) (float64, error) {
	if _, err := s.customerRepo.FindByID(customerID); err != nil {
		return 0, ErrCustomerNotFound
	}
	return s.txRepo.SumCustomerDebt(customerID)
}
