package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/cheeze-hyeon/alog/internal/middleware"
	"github.com/cheeze-hyeon/alog/internal/models"
	"github.com/cheeze-hyeon/alog/internal/services"
	"github.com/cheeze-hyeon/alog/internal/utils"
)

// ReceiptHandler serves the receipt view.
type ReceiptHandler struct {
	db      *gorm.DB
	history *services.HistoryService
}

// NewReceiptHandler constructs ReceiptHandler.
func NewReceiptHandler(db *gorm.DB, history *services.HistoryService) *ReceiptHandler {
	return &ReceiptHandler{db: db, history: history}
}

// GetReceipt returns a receipt with its items, impact and the owner's
// progress. Customers can only open their own receipts.
func (h *ReceiptHandler) GetReceipt(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var receipt models.Receipt
	if err := h.db.Preload("Items.Product").Preload("Customer").
		First(&receipt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "receipt not found")
		}
		return err
	}

	if middleware.GetCurrentRole(c) == utils.RoleCustomer {
		customerID, _ := middleware.GetCurrentCustomerID(c)
		if receipt.CustomerID == nil || *receipt.CustomerID != customerID {
			return fiber.NewError(fiber.StatusNotFound, "receipt not found")
		}
	}

	history, err := h.history.ReceiptHistory(c.UserContext(), receipt.ID)
	if err != nil {
		return err
	}

	data := fiber.Map{
		"receipt": receipt,
		"impact":  history.Stats.Rounded(),
		"items":   history.Items,
	}

	if receipt.CustomerID != nil {
		progress, err := h.history.Progress(c.UserContext(), *receipt.CustomerID)
		if err != nil {
			return err
		}
		data["progress"] = progress
	}

	return c.JSON(fiber.Map{"success": true, "data": data})
}
