package handler

import (
	"errors"

	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AlertHandler struct {
	service service.AlertService
}

func NewAlertHandler(s service.AlertService) *AlertHandler {
	return &AlertHandler{service: s}
}

// GetAlerts lists products needing attention, critical first
// GET /api/v1/alerts
func (h *AlertHandler) GetAlerts(c *fiber.Ctx) error {
	alerts, err := h.service.ListAlerts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch alerts"})
	}

	summary, err := h.service.Summary()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch alert summary"})
	}

	return c.JSON(fiber.Map{
		"summary": summary,
		"alerts":  alerts,
	})
}

// GetProductAlert evaluates one product
// GET /api/v1/products/:id/alert
func (h *AlertHandler) GetProductAlert(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	result, err := h.service.EvaluateProduct(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to evaluate product"})
	}
	if result == nil {
		// Belum dikonfigurasi: bukan disabled, memang tidak punya alert state
		return c.JSON(fiber.Map{"configured": false})
	}

	return c.JSON(fiber.Map{
		"configured":      true,
		"level":           result.Level,
		"suggested_order": result.SuggestedOrder,
	})
}

// ConfigureReorderPoint creates or updates a product's thresholds
// PUT /api/v1/products/:id/reorder-point
func (h *AlertHandler) ConfigureReorderPoint(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.ConfigureReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	rp, err := h.service.Configure(productID, &req, getUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Reorder point saved", "data": rp})
}

// SeedDefaults creates default configurations for unconfigured products
// POST /api/v1/reorder-points/seed-defaults
func (h *AlertHandler) SeedDefaults(c *fiber.Ctx) error {
	created, err := h.service.SeedDefaults()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Default reorder points created", "created": created})
}
