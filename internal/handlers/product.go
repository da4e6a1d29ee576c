package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/cheeze-hyeon/alog/internal/models"
	"github.com/cheeze-hyeon/alog/internal/utils"
)

// ProductHandler manages product CRUD.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

// ListProducts returns paginated products with optional filters.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{})

	if v := c.Query("category"); v != "" {
		if !models.ProductCategory(v).Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "unknown category")
		}
		query = query.Where("category = ?", v)
	}

	switch c.Query("group") {
	case "food":
		query = query.Where("category IN ?", models.CategoriesWhere(models.ProductCategory.IsFoodCategory))
	case "living":
		query = query.Where("category NOT IN ?", models.CategoriesWhere(models.ProductCategory.IsFoodCategory))
	case "":
	default:
		return fiber.NewError(fiber.StatusBadRequest, "group must be food or living")
	}

	switch c.Query("refill") {
	case "true":
		query = query.Where("is_refill = ?", true)
	case "false":
		query = query.Where("is_refill = ?", false)
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Limit(pg.Limit).Offset(pg.Offset).
		Order("category, name").
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       products,
		"pagination": pg.Meta(total),
	})
}

// GetProduct loads a product.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// ListCategories returns the fixed category set.
func (h *ProductHandler) ListCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": models.Categories})
}

type productRequest struct {
	Name                  *string  `json:"name"`
	Category              *string  `json:"category"`
	IsRefill              *bool    `json:"is_refill"`
	PricingUnit           *string  `json:"pricing_unit"`
	CurrentPrice          *float64 `json:"current_price"`
	CurrentCarbonEmission *float64 `json:"current_carbon_emission"`
}

func (r productRequest) validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name must not be empty")
	}
	if r.Category != nil && !models.ProductCategory(*r.Category).Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "unknown category")
	}
	if r.PricingUnit != nil && *r.PricingUnit != models.PricingUnitGram && *r.PricingUnit != models.PricingUnitPiece {
		return fiber.NewError(fiber.StatusBadRequest, "pricing_unit must be g or ea")
	}
	if r.CurrentPrice != nil && *r.CurrentPrice < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "current_price must not be negative")
	}
	if r.CurrentCarbonEmission != nil && *r.CurrentCarbonEmission < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "current_carbon_emission must not be negative")
	}
	return nil
}

// CreateProduct adds a catalog entry.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == nil || req.Category == nil || req.CurrentPrice == nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}
	if err := req.validate(); err != nil {
		return err
	}

	product := models.Product{
		Name:                  strings.TrimSpace(*req.Name),
		Category:              models.ProductCategory(*req.Category),
		IsRefill:              req.IsRefill,
		PricingUnit:           models.PricingUnitGram,
		CurrentPrice:          *req.CurrentPrice,
		CurrentCarbonEmission: req.CurrentCarbonEmission,
	}
	if req.PricingUnit != nil {
		product.PricingUnit = *req.PricingUnit
	}

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct changes the provided fields of a product.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.IsRefill != nil {
		updates["is_refill"] = *req.IsRefill
	}
	if req.PricingUnit != nil {
		updates["pricing_unit"] = *req.PricingUnit
	}
	if req.CurrentPrice != nil {
		updates["current_price"] = *req.CurrentPrice
	}
	if req.CurrentCarbonEmission != nil {
		updates["current_carbon_emission"] = *req.CurrentCarbonEmission
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	result := h.db.Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "product updated"})
}

// DeleteProduct removes a product. The database clears the product id on
// past receipt items, which the impact aggregation then skips.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	result := h.db.Delete(&models.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "product deleted"})
}
