package handler

import (
	"errors"
	"strconv"

	"go-warehouse-ledger/internal/model"
	"go-warehouse-ledger/internal/repository"
	"go-warehouse-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	service service.LedgerService
}

func NewTransactionHandler(s service.LedgerService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// Helper to read user info from JWT context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

// CreateTransaction records a ledger entry
// POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req service.RecordTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	transaction, err := h.service.RecordTransaction(&req, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Transaction recorded", "data": transaction.ToResponse()})
}

// GetTransactions lists history with filters and pagination
// GET /api/v1/transactions?start_date=&end_date=&user_id=&product_id=&driver_id=&customer_id=&type=&page=&page_size=
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	query := repository.TransactionQuery{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Type:      model.TransactionType(c.Query("type")),
	}

	var parseErr error
	parseFilter := func(param string) *uuid.UUID {
		raw := c.Query(param)
		if raw == "" {
			return nil
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			parseErr = errors.New("invalid " + param)
			return nil
		}
		return &id
	}
	query.UserID = parseFilter("user_id")
	query.ProductID = parseFilter("product_id")
	query.DriverID = parseFilter("driver_id")
	query.CustomerID = parseFilter("customer_id")
	if parseErr != nil {
		return c.Status(400).JSON(fiber.Map{"error": parseErr.Error()})
	}

	query.Page, _ = strconv.Atoi(c.Query("page", "1"))
	query.PageSize, _ = strconv.Atoi(c.Query("page_size", "10"))

	result, err := h.service.QueryTransactions(query)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(result)
}

// GetTransaction returns a single ledger entry
// GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	txID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	transaction, err := h.service.GetTransactionByID(txID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
	}
	return c.JSON(transaction)
}

// UpdateTransaction patches a ledger entry
// PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	txID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	var req service.UpdateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	transaction, err := h.service.UpdateTransaction(txID, &req, getUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Transaction updated", "data": transaction.ToResponse()})
}

// ReverseTransactionRequest carries the reversal reason.
type ReverseTransactionRequest struct {
	Reason string `json:"reason"`
}

// ReverseTransaction applies a red reversal to a ledger entry
// POST /api/v1/transactions/:id/reverse
func (h *TransactionHandler) ReverseTransaction(c *fiber.Ctx) error {
	txID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	var req ReverseTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Reason == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Reversal reason is required"})
	}

	transaction, err := h.service.ReverseTransaction(txID, req.Reason, getUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Transaction reversed", "data": transaction.ToResponse()})
}
