package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/cheeze-hyeon/alog/internal/impact"
	"github.com/cheeze-hyeon/alog/internal/loyalty"
	"github.com/cheeze-hyeon/alog/internal/models"
	"github.com/cheeze-hyeon/alog/internal/services"
	"github.com/cheeze-hyeon/alog/internal/utils"
)

// AdminHandler manages admin-only endpoints.
type AdminHandler struct {
	db      *gorm.DB
	levels  *loyalty.Table
	history *services.HistoryService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB, levels *loyalty.Table, history *services.HistoryService) *AdminHandler {
	return &AdminHandler{db: db, levels: levels, history: history}
}

func receiptsInRange(db *gorm.DB, r utils.DateRange) *gorm.DB {
	query := db.Model(&models.Receipt{})
	if !r.From.IsZero() {
		query = query.Where("receipts.visited_at >= ?", r.From)
	}
	if !r.To.IsZero() {
		query = query.Where("receipts.visited_at < ?", r.To)
	}
	return query
}

// dashboardDefaultDays is the window used when the dashboard is opened
// without from/to.
const dashboardDefaultDays = 30

// dashboardRange fills in the default window for an unbounded range. A
// range with either bound set is kept as given.
func dashboardRange(r utils.DateRange, now time.Time) utils.DateRange {
	if r.IsZero() {
		return utils.LastDays(now, dashboardDefaultDays, impact.KST)
	}
	return r
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	r, err := parseDateRange(c)
	if err != nil {
		return err
	}
	r = dashboardRange(r, time.Now())
	db := h.db.WithContext(c.UserContext())

	var sales struct {
		Revenue      int64
		ReceiptCount int64
		MemberCount  int64
	}
	if err := receiptsInRange(db, r).
		Select("COALESCE(SUM(total_amount), 0)::bigint AS revenue, COUNT(*) AS receipt_count, COUNT(DISTINCT customer_id) AS member_count").
		Scan(&sales).Error; err != nil {
		return err
	}

	var averageTicket int64
	if sales.ReceiptCount > 0 {
		averageTicket = sales.Revenue / sales.ReceiptCount
	}

	var totalCustomers int64
	if err := db.Model(&models.Customer{}).Count(&totalCustomers).Error; err != nil {
		return err
	}

	newCustomers := db.Model(&models.Customer{})
	if !r.From.IsZero() {
		newCustomers = newCustomers.Where("created_at >= ?", r.From)
	}
	if !r.To.IsZero() {
		newCustomers = newCustomers.Where("created_at < ?", r.To)
	}
	var newCustomerCount int64
	if err := newCustomers.Count(&newCustomerCount).Error; err != nil {
		return err
	}

	history, err := h.history.Aggregate(c.UserContext(), services.HistoryScope{Range: r}, 0)
	if err != nil {
		return err
	}

	distribution, err := h.gradeDistribution(db, totalCustomers)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"from":               r.From,
			"to":                 r.To,
			"revenue":            sales.Revenue,
			"receipt_count":      sales.ReceiptCount,
			"visiting_members":   sales.MemberCount,
			"average_ticket":     averageTicket,
			"total_customers":    totalCustomers,
			"new_customers":      newCustomerCount,
			"refill_items":       history.Stats.RefillCount,
			"environment":        history.Stats.Rounded(),
			"grade_distribution": distribution,
		},
	})
}

type gradeCount struct {
	Grade int    `json:"grade"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Count int64  `json:"count"`
}

// gradeDistribution counts customers per grade. Customers without loyalty
// counters have spent nothing and sit in the first grade.
func (h *AdminHandler) gradeDistribution(db *gorm.DB, totalCustomers int64) ([]gradeCount, error) {
	var totals []int64
	if err := db.Model(&models.CustomerLoyalty{}).Pluck("total_amount", &totals).Error; err != nil {
		return nil, err
	}

	grades := h.levels.Grades()
	counts := make(map[int]int64, len(grades))
	for _, amount := range totals {
		counts[h.levels.LookupGrade(amount).Grade]++
	}
	if missing := totalCustomers - int64(len(totals)); missing > 0 {
		counts[grades[0].Grade] += missing
	}

	out := make([]gradeCount, 0, len(grades))
	for _, g := range grades {
		out = append(out, gradeCount{Grade: g.Grade, Name: g.Name, Emoji: g.Emoji, Count: counts[g.Grade]})
	}
	return out, nil
}

type dailySales struct {
	Day          string `json:"day"`
	Revenue      int64  `json:"revenue"`
	ReceiptCount int64  `json:"receipt_count"`
}

// DailySales returns revenue per store-local day.
func (h *AdminHandler) DailySales(c *fiber.Ctx) error {
	r, err := parseDateRange(c)
	if err != nil {
		return err
	}

	var rows []dailySales
	if err := receiptsInRange(h.db.WithContext(c.UserContext()), r).
		Select("to_char(visited_at AT TIME ZONE 'Asia/Seoul', 'YYYY-MM-DD') AS day, COALESCE(SUM(total_amount), 0)::bigint AS revenue, COUNT(*) AS receipt_count").
		Group("day").
		Order("day").
		Scan(&rows).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": rows})
}

type topProduct struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Revenue   int64   `json:"revenue"`
	Quantity  float64 `json:"quantity"`
	LineCount int64   `json:"line_count"`
}

// TopProducts returns the best sellers by revenue.
func (h *AdminHandler) TopProducts(c *fiber.Ctx) error {
	r, err := parseDateRange(c)
	if err != nil {
		return err
	}

	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit <= 0 || limit > 100 {
		return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 100")
	}

	var rows []topProduct
	if err := receiptsInRange(h.db.WithContext(c.UserContext()), r).
		Joins("JOIN receipt_items ON receipt_items.receipt_id = receipts.id").
		Joins("JOIN products ON products.id = receipt_items.product_id").
		Select(`products.id AS product_id, products.name AS name, products.category AS category,
			COALESCE(SUM(ROUND(receipt_items.purchase_quantity * receipt_items.purchase_unit_price)), 0)::bigint AS revenue,
			COALESCE(SUM(receipt_items.purchase_quantity), 0) AS quantity,
			COUNT(receipt_items.id) AS line_count`).
		Group("products.id, products.name, products.category").
		Order("revenue desc").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": rows})
}

// ListCustomers returns customers with their loyalty totals and level.
func (h *AdminHandler) ListCustomers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.WithContext(c.UserContext()).Model(&models.Customer{})

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, search)
		if digits != "" {
			query = query.Where("name ILIKE ? OR phone LIKE ?", like, "%"+digits+"%")
		} else {
			query = query.Where("name ILIKE ?", like)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var customers []models.Customer
	if err := query.Preload("Loyalty").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&customers).Error; err != nil {
		return err
	}

	type customerResponse struct {
		models.Customer
		Level loyalty.LevelDefinition `json:"level"`
		Grade loyalty.GradeDefinition `json:"grade"`
	}

	result := make([]customerResponse, len(customers))
	for i, cu := range customers {
		var amount int64
		if cu.Loyalty != nil {
			amount = cu.Loyalty.TotalAmount
		}
		result[i] = customerResponse{
			Customer: cu,
			Level:    h.levels.LookupLevel(amount),
			Grade:    h.levels.LookupGrade(amount),
		}
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       result,
		"pagination": pg.Meta(total),
	})
}

// CustomerStats returns one customer's environment stats and progress.
func (h *AdminHandler) CustomerStats(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	r, err := parseDateRange(c)
	if err != nil {
		return err
	}

	var customer models.Customer
	if err := h.db.WithContext(c.UserContext()).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "customer not found")
		}
		return err
	}

	history, err := h.history.CustomerHistory(c.UserContext(), id, r)
	if err != nil {
		return err
	}

	progress, err := h.history.Progress(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"customer":  customer,
			"stats":     history.Stats.Rounded(),
			"purchases": history.Items,
			"progress":  progress,
		},
	})
}

// ListLevels returns the grade ladder and the levels up to ?through=
// (defaults to the level cap, or 62 when the ladder is unbounded).
func (h *AdminHandler) ListLevels(c *fiber.Ctx) error {
	through := h.levels.MaxLevel()
	if through == 0 {
		through = loyalty.DefaultLevelCap
	}
	if v := c.Query("through"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			return fiber.NewError(fiber.StatusBadRequest, "through must be between 1 and 1000")
		}
		through = n
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"grades":    h.levels.Grades(),
			"levels":    h.levels.Levels(through),
			"max_level": h.levels.MaxLevel(),
		},
	})
}
