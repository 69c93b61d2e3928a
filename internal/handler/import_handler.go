package handler

import (
	"bytes"

	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ImportExportHandler struct {
	service service.ImportExportService
}

func NewImportExportHandler(s service.ImportExportService) *ImportExportHandler {
	return &ImportExportHandler{service: s}
}

// ImportProducts accepts a CSV file upload (multipart field "file") or a
// raw CSV request body
// POST /api/v1/import/products
func (h *ImportExportHandler) ImportProducts(c *fiber.Ctx) error {
	var body []byte

	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Failed to read uploaded file"})
		}
		defer file.Close()

		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(file); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Failed to read uploaded file"})
		}
		body = buf.Bytes()
	} else {
		body = c.Body()
	}

	if len(body) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "CSV content is required"})
	}

	result, err := h.service.ImportProducts(bytes.NewReader(body), getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Import finished", "result": result})
}

// ExportProducts streams the product list as CSV
// GET /api/v1/export/products
func (h *ImportExportHandler) ExportProducts(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.ExportProducts(&buf); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to export products"})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="products.csv"`)
	return c.Send(buf.Bytes())
}
