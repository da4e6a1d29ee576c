package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/cheeze-hyeon/alog/internal/middleware"
	"github.com/cheeze-hyeon/alog/internal/models"
	"github.com/cheeze-hyeon/alog/internal/services"
	"github.com/cheeze-hyeon/alog/internal/utils"
)

// MyPageHandler serves the customer's own profile, impact and progress.
type MyPageHandler struct {
	db      *gorm.DB
	history *services.HistoryService
}

// NewMyPageHandler constructs MyPageHandler.
func NewMyPageHandler(db *gorm.DB, history *services.HistoryService) *MyPageHandler {
	return &MyPageHandler{db: db, history: history}
}

func currentCustomerID(c *fiber.Ctx) (int64, error) {
	id, ok := middleware.GetCurrentCustomerID(c)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}

// GetMe returns the authenticated customer's profile and progress.
func (h *MyPageHandler) GetMe(c *fiber.Ctx) error {
	customerID, err := currentCustomerID(c)
	if err != nil {
		return err
	}

	var customer models.Customer
	if err := h.db.Preload("Loyalty").First(&customer, "id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "customer not found")
		}
		return err
	}

	progress, err := h.history.Progress(c.UserContext(), customerID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"customer": customer,
			"progress": progress,
		},
	})
}

type updateMeRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Gender    *string `json:"gender"`
	BirthDate *string `json:"birth_date"`
}

// UpdateMe updates profile fields.
func (h *MyPageHandler) UpdateMe(c *fiber.Ctx) error {
	customerID, err := currentCustomerID(c)
	if err != nil {
		return err
	}

	var req updateMeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		phone := utils.NormalizePhone(*req.Phone)
		if phone == "" {
			return fiber.NewError(fiber.StatusBadRequest, "invalid phone")
		}
		var count int64
		if err := h.db.Model(&models.Customer{}).
			Where("phone = ? AND id <> ?", phone, customerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "phone already registered")
		}
		updates["phone"] = phone
	}
	if req.Gender != nil {
		switch *req.Gender {
		case "male", "female":
			updates["gender"] = *req.Gender
		default:
			return fiber.NewError(fiber.StatusBadRequest, "gender must be male or female")
		}
	}
	if req.BirthDate != nil {
		t, err := time.Parse(time.DateOnly, *req.BirthDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "birth_date must be YYYY-MM-DD")
		}
		updates["birth_date"] = t
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	if err := h.db.Model(&models.Customer{}).Where("id = ?", customerID).Updates(updates).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "profile updated"})
}

// GetStats returns environment stats over the full or filtered history.
func (h *MyPageHandler) GetStats(c *fiber.Ctx) error {
	customerID, err := currentCustomerID(c)
	if err != nil {
		return err
	}

	r, err := parseDateRange(c)
	if err != nil {
		return err
	}

	history, err := h.history.CustomerHistory(c.UserContext(), customerID, r)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": history.Stats.Rounded()})
}

// ListPurchases returns the purchase list, newest first.
func (h *MyPageHandler) ListPurchases(c *fiber.Ctx) error {
	customerID, err := currentCustomerID(c)
	if err != nil {
		return err
	}

	r, err := parseDateRange(c)
	if err != nil {
		return err
	}

	history, err := h.history.CustomerHistory(c.UserContext(), customerID, r)
	if err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	items := history.Items
	total := int64(len(items))
	start, end := pg.Window(len(items))

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       items[start:end],
		"pagination": pg.Meta(total),
	})
}

// GetProgress returns the character progress.
func (h *MyPageHandler) GetProgress(c *fiber.Ctx) error {
	customerID, err := currentCustomerID(c)
	if err != nil {
		return err
	}

	progress, err := h.history.Progress(c.UserContext(), customerID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": progress})
}
