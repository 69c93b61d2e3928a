package handler

import (
	"errors"
	"strconv"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StockHandler struct {
	ledger service.LedgerService
}

func NewStockHandler(ledger service.LedgerService) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// AdjustStock applies one manual stock change through the ledger
// POST /api/v1/products/:id/stock
func (h *StockHandler) AdjustStock(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.StockChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.ProductID = productID
	if req.Type == "" {
		req.Type = model.TxManualAdjustment
	}

	entry, err := h.ledger.ApplyChange(&req, getUserID(c), getUserName(c))
	if err != nil {
		return h.mapLedgerError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Stock adjusted",
		"data":    entry,
	})
}

// BulkAdjustRequest adjusts several products in one request.
type BulkAdjustRequest struct {
	Items []service.StockChangeRequest `json:"items"`
}

// BulkAdjust applies each item through the ledger independently;
// a failing item does not abort the rest, failures are reported per item
// POST /api/v1/stock/bulk-adjust
func (h *StockHandler) BulkAdjust(c *fiber.Ctx) error {
	var req BulkAdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if len(req.Items) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "items is required"})
	}

	applied := 0
	failures := fiber.Map{}
	for i := range req.Items {
		item := req.Items[i]
		item.Type = model.TxBulkAdjustment
		if _, err := h.ledger.ApplyChange(&item, getUserID(c), getUserName(c)); err != nil {
			failures[item.ProductID.String()] = err.Error()
			continue
		}
		applied++
	}

	return c.JSON(fiber.Map{
		"applied":  applied,
		"failed":   len(failures),
		"failures": failures,
	})
}

// GetHistory returns a product's ledger, newest first
// GET /api/v1/products/:id/history
func (h *StockHandler) GetHistory(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	history, err := h.ledger.History(productID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch history"})
	}
	return c.JSON(history)
}

// GetHistoryStats returns aggregates derived from a product's ledger
// GET /api/v1/products/:id/history/stats
func (h *StockHandler) GetHistoryStats(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	stats, err := h.ledger.HistoryStats(productID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch history stats"})
	}
	return c.JSON(stats)
}

// GetTransactions lists the full ledger
// GET /api/v1/transactions
func (h *StockHandler) GetTransactions(c *fiber.Ctx) error {
	transactions, err := h.ledger.GetAllTransactions()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(transactions)
}

// GetTransaction fetches one ledger entry
// GET /api/v1/transactions/:id
func (h *StockHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	tx, err := h.ledger.GetTransactionByID(uint(id))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
	}
	return c.JSON(tx)
}

func (h *StockHandler) mapLedgerError(c *fiber.Ctx, err error) error {
	var negErr *service.NegativeStockError
	var invErr *service.InvalidTransactionError
	switch {
	case errors.As(err, &negErr):
		// Rejected request, no state change happened
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &invErr):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrProductNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(500).JSON(fiber.Map{"error": err.Error()})
}
