package handler

import (
	"errors"

	"go-warehouse-ledger/internal/model"
	"go-warehouse-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DriverHandler struct {
	service service.DriverService
}

func NewDriverHandler(s service.DriverService) *DriverHandler {
	return &DriverHandler{service: s}
}

// CreateDriver adds a driver
// POST /api/v1/drivers
func (h *DriverHandler) CreateDriver(c *fiber.Ctx) error {
	var driver model.Driver
	if err := c.BodyParser(&driver); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateDriver(&driver, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Driver created", "data": driver})
}

// GetDrivers lists drivers
// GET /api/v1/drivers
func (h *DriverHandler) GetDrivers(c *fiber.Ctx) error {
	drivers, err := h.service.GetAllDrivers()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(drivers)
}

// GetDriver returns one driver
// GET /api/v1/drivers/:id
func (h *DriverHandler) GetDriver(c *fiber.Ctx) error {
	driverID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid driver ID"})
	}

	driver, err := h.service.GetDriverByID(driverID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Driver not found"})
	}
	return c.JSON(driver)
}

// UpdateDriver patches a driver
// PUT /api/v1/drivers/:id
func (h *DriverHandler) UpdateDriver(c *fiber.Ctx) error {
	driverID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid driver ID"})
	}

	var driver model.Driver
	if err := c.BodyParser(&driver); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateDriver(driverID, &driver, getUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrDriverNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Driver updated", "data": updated})
}

// DeleteDriver removes a driver
// DELETE /api/v1/drivers/:id
func (h *DriverHandler) DeleteDriver(c *fiber.Ctx) error {
	driverID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid driver ID"})
	}

	if err := h.service.DeleteDriver(driverID, getUserID(c)); err != nil {
		if errors.Is(err, service.ErrDriverNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Driver deleted"})
}
