package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cheeze-hyeon/alog/internal/impact"
	"github.com/cheeze-hyeon/alog/internal/loyalty"
	"github.com/cheeze-hyeon/alog/internal/models"
	"github.com/cheeze-hyeon/alog/internal/services"
	"github.com/cheeze-hyeon/alog/internal/utils"
)

// PosHandler serves the store counter: member lookup and checkout.
type PosHandler struct {
	db       *gorm.DB
	levels   *loyalty.Table
	history  *services.HistoryService
	telegram *services.TelegramService
}

// NewPosHandler constructs PosHandler.
func NewPosHandler(db *gorm.DB, levels *loyalty.Table, history *services.HistoryService, telegram *services.TelegramService) *PosHandler {
	return &PosHandler{db: db, levels: levels, history: history, telegram: telegram}
}

// FindCustomer looks a member up by phone number.
func (h *PosHandler) FindCustomer(c *fiber.Ctx) error {
	phone := utils.NormalizePhone(c.Query("phone"))
	if phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "invalid phone")
	}

	var customer models.Customer
	if err := h.db.Preload("Loyalty").Where("phone = ?", phone).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "customer not found")
		}
		return err
	}

	var total int64
	if customer.Loyalty != nil {
		total = customer.Loyalty.TotalAmount
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"customer": customer,
			"progress": h.levels.Progress(total),
		},
	})
}

type registerCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// RegisterCustomer creates a member at the counter.
func (h *PosHandler) RegisterCustomer(c *fiber.Ctx) error {
	var req registerCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	phone := utils.NormalizePhone(req.Phone)
	if phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "invalid phone")
	}

	var existing models.Customer
	if err := h.db.Where("phone = ?", phone).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "customer already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	customer := models.Customer{
		Name:  strPtr(strings.TrimSpace(req.Name)),
		Phone: &phone,
	}
	if err := h.db.Create(&customer).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": customer})
}

type checkoutItemRequest struct {
	ProductID int64   `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

type checkoutRequest struct {
	CustomerID *int64                `json:"customer_id"`
	Phone      string                `json:"phone"`
	Items      []checkoutItemRequest `json:"items"`
}

// Checkout records a sale, updates the member's loyalty counters and returns
// the receipt with its environmental impact.
func (h *PosHandler) Checkout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "items must not be empty")
	}

	productIDs := make([]int64, 0, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID <= 0 || it.Quantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid item")
		}
		productIDs = append(productIDs, it.ProductID)
	}

	var products []models.Product
	if err := h.db.Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return err
	}
	productByID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	var customer *models.Customer
	receipt := models.Receipt{VisitedAt: time.Now()}
	hasRefill := false

	for _, it := range req.Items {
		product, ok := productByID[it.ProductID]
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "unknown product")
		}

		item := models.ReceiptItem{
			ProductID:          &product.ID,
			PurchaseQuantity:   it.Quantity,
			PurchaseUnitPrice:  product.CurrentPrice,
			CarbonEmissionBase: product.CurrentCarbonEmission,
		}
		if product.CurrentCarbonEmission != nil {
			total := *product.CurrentCarbonEmission * it.Quantity
			item.TotalCarbonEmission = &total
		}

		if refill, _ := impact.ClassifyRefill(services.ToImpactProduct(product)); refill {
			hasRefill = true
		}

		receipt.TotalAmount += impact.LinePrice(it.Quantity, product.CurrentPrice)
		receipt.Items = append(receipt.Items, item)
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var err error
		customer, err = h.resolveCustomer(tx, req)
		if err != nil {
			return err
		}
		if customer != nil {
			receipt.CustomerID = &customer.ID
		}

		if err := tx.Create(&receipt).Error; err != nil {
			return err
		}

		if customer == nil {
			return nil
		}
		return addVisit(tx, customer.ID, receipt, hasRefill)
	})
	if err != nil {
		return err
	}

	history := impact.AggregatePurchaseHistory(
		services.ToImpactReceipts([]models.Receipt{receipt}),
		services.ToImpactLineItems(receipt.Items),
		services.ToImpactProducts(products),
		0,
	)

	resp := fiber.Map{
		"receipt": receipt,
		"impact":  history.Stats.Rounded(),
		"items":   history.Items,
	}

	levelName := ""
	if customer != nil {
		progress, err := h.history.Progress(c.UserContext(), customer.ID)
		if err != nil {
			return err
		}
		resp["customer"] = customer
		resp["progress"] = progress
		levelName = fmt.Sprintf("%s Lv.%d", progress.CurrentLevel.GradeName, progress.CurrentLevel.Level)
	}

	log.Info().Str("component", "pos").Int64("receipt_id", receipt.ID).
		Int64("total", receipt.TotalAmount).Bool("member", customer != nil).Msg("checkout")

	go h.notify(receipt, customer, history, levelName)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": resp})
}

// resolveCustomer picks the member for a checkout: by id, else by phone
// (registering the phone on first visit), else anonymous.
func (h *PosHandler) resolveCustomer(tx *gorm.DB, req checkoutRequest) (*models.Customer, error) {
	var customer models.Customer

	if req.CustomerID != nil {
		if err := tx.First(&customer, "id = ?", *req.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fiber.NewError(fiber.StatusBadRequest, "unknown customer")
			}
			return nil, err
		}
		return &customer, nil
	}

	if req.Phone == "" {
		return nil, nil
	}
	phone := utils.NormalizePhone(req.Phone)
	if phone == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid phone")
	}

	err := tx.Where("phone = ?", phone).First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = models.Customer{Phone: &phone}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// addVisit bumps the loyalty counters of a member.
func addVisit(tx *gorm.DB, customerID int64, receipt models.Receipt, hasRefill bool) error {
	refills := 0
	if hasRefill {
		refills = 1
	}
	visitedAt := receipt.VisitedAt

	row := models.CustomerLoyalty{
		CustomerID:  customerID,
		TotalAmount: receipt.TotalAmount,
		RefillCount: refills,
		VisitCount:  1,
		LastVisitAt: &visitedAt,
	}

	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_amount":  gorm.Expr("customer_loyalty.total_amount + ?", receipt.TotalAmount),
			"refill_count":  gorm.Expr("customer_loyalty.refill_count + ?", refills),
			"visit_count":   gorm.Expr("customer_loyalty.visit_count + 1"),
			"last_visit_at": visitedAt,
			"updated_at":    time.Now(),
		}),
	}).Create(&row).Error
}

func (h *PosHandler) notify(receipt models.Receipt, customer *models.Customer, history impact.History, levelName string) {
	if h.telegram == nil {
		return
	}

	n := services.ReceiptNotification{
		ReceiptID:      receipt.ID,
		TotalAmount:    receipt.TotalAmount,
		CO2ReductionKg: history.Stats.CO2ReductionKg,
		LevelName:      levelName,
	}
	if customer != nil {
		n.CustomerName = customer.DisplayName()
	}
	for _, item := range history.Items {
		n.Items = append(n.Items, services.ReceiptItemNotification{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Unit:     item.PricingUnit,
			Price:    item.Price,
		})
	}

	if err := h.telegram.NotifyNewReceipt(n); err != nil {
		log.Warn().Err(err).Str("component", "pos").Int64("receipt_id", receipt.ID).Msg("telegram notification failed")
	}
}
