package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cheeze-hyeon/alog/internal/impact"
	"github.com/cheeze-hyeon/alog/internal/loyalty"
	"github.com/cheeze-hyeon/alog/internal/models"
	"github.com/cheeze-hyeon/alog/internal/utils"
)

// HistoryService loads receipts from the database and folds them with the
// impact engine.
type HistoryService struct {
	db     *gorm.DB
	levels *loyalty.Table
}

// NewHistoryService constructs HistoryService.
func NewHistoryService(db *gorm.DB, levels *loyalty.Table) *HistoryService {
	return &HistoryService{db: db, levels: levels}
}

// HistoryScope selects the receipts to aggregate. A nil CustomerID means
// every customer; zero ReceiptID means no receipt filter.
type HistoryScope struct {
	CustomerID *int64
	ReceiptID  int64
	Range      utils.DateRange
}

// CustomerHistory aggregates the purchase history of one customer. The
// lifetime refill counter is used as a fallback only for the full history.
func (s *HistoryService) CustomerHistory(ctx context.Context, customerID int64, r utils.DateRange) (impact.History, error) {
	refillCount := 0
	if r.IsZero() {
		loyaltyRow, err := s.Loyalty(ctx, customerID)
		if err != nil {
			return impact.History{}, err
		}
		refillCount = loyaltyRow.RefillCount
	}
	return s.Aggregate(ctx, HistoryScope{CustomerID: &customerID, Range: r}, refillCount)
}

// ReceiptHistory aggregates a single receipt.
func (s *HistoryService) ReceiptHistory(ctx context.Context, receiptID int64) (impact.History, error) {
	return s.Aggregate(ctx, HistoryScope{ReceiptID: receiptID}, 0)
}

// Aggregate loads the receipts in scope with their items and products in
// three queries and runs the aggregation.
func (s *HistoryService) Aggregate(ctx context.Context, scope HistoryScope, refillCountFallback int) (impact.History, error) {
	query := s.db.WithContext(ctx).Model(&models.Receipt{})
	if scope.CustomerID != nil {
		query = query.Where("customer_id = ?", *scope.CustomerID)
	}
	if scope.ReceiptID != 0 {
		query = query.Where("id = ?", scope.ReceiptID)
	}
	if !scope.Range.From.IsZero() {
		query = query.Where("visited_at >= ?", scope.Range.From)
	}
	if !scope.Range.To.IsZero() {
		query = query.Where("visited_at < ?", scope.Range.To)
	}

	var receipts []models.Receipt
	if err := query.Order("visited_at desc").Find(&receipts).Error; err != nil {
		return impact.History{}, fmt.Errorf("load receipts: %w", err)
	}

	receiptIDs := make([]int64, 0, len(receipts))
	for _, r := range receipts {
		receiptIDs = append(receiptIDs, r.ID)
	}

	var items []models.ReceiptItem
	if len(receiptIDs) > 0 {
		if err := s.db.WithContext(ctx).Where("receipt_id IN ?", receiptIDs).
			Order("id").Find(&items).Error; err != nil {
			return impact.History{}, fmt.Errorf("load receipt items: %w", err)
		}
	}

	productIDs := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if it.ProductID == nil {
			continue
		}
		if _, ok := seen[*it.ProductID]; ok {
			continue
		}
		seen[*it.ProductID] = struct{}{}
		productIDs = append(productIDs, *it.ProductID)
	}

	var products []models.Product
	if len(productIDs) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", productIDs).Find(&products).Error; err != nil {
			return impact.History{}, fmt.Errorf("load products: %w", err)
		}
	}

	return impact.AggregatePurchaseHistory(
		ToImpactReceipts(receipts),
		ToImpactLineItems(items),
		ToImpactProducts(products),
		refillCountFallback,
	), nil
}

// Loyalty returns the loyalty counters of a customer, zero-valued when the
// customer has never checked out.
func (s *HistoryService) Loyalty(ctx context.Context, customerID int64) (models.CustomerLoyalty, error) {
	var row models.CustomerLoyalty
	err := s.db.WithContext(ctx).First(&row, "customer_id = ?", customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CustomerLoyalty{CustomerID: customerID}, nil
	}
	if err != nil {
		return row, fmt.Errorf("load loyalty: %w", err)
	}
	return row, nil
}

// Progress returns the character progress of a customer.
func (s *HistoryService) Progress(ctx context.Context, customerID int64) (loyalty.CharacterProgress, error) {
	row, err := s.Loyalty(ctx, customerID)
	if err != nil {
		return loyalty.CharacterProgress{}, err
	}
	return s.levels.Progress(row.TotalAmount), nil
}

// ToImpactReceipts maps receipt rows to aggregation input.
func ToImpactReceipts(rows []models.Receipt) []impact.Receipt {
	out := make([]impact.Receipt, 0, len(rows))
	for _, r := range rows {
		out = append(out, impact.Receipt{ID: r.ID, VisitedAt: r.VisitedAt})
	}
	return out
}

// ToImpactLineItems maps receipt item rows to aggregation input.
func ToImpactLineItems(rows []models.ReceiptItem) []impact.LineItem {
	out := make([]impact.LineItem, 0, len(rows))
	for _, it := range rows {
		out = append(out, impact.LineItem{
			ID:                  it.ID,
			ReceiptID:           it.ReceiptID,
			ProductID:           it.ProductID,
			Quantity:            it.PurchaseQuantity,
			UnitPrice:           it.PurchaseUnitPrice,
			TotalCarbonEmission: it.TotalCarbonEmission,
		})
	}
	return out
}

// ToImpactProducts maps catalog rows to aggregation input.
func ToImpactProducts(rows []models.Product) []impact.Product {
	out := make([]impact.Product, 0, len(rows))
	for _, p := range rows {
		out = append(out, ToImpactProduct(p))
	}
	return out
}

// ToImpactProduct maps a single catalog row.
func ToImpactProduct(p models.Product) impact.Product {
	return impact.Product{
		ID:          p.ID,
		Name:        p.Name,
		Category:    string(p.Category),
		IsRefill:    p.IsRefill,
		PricingUnit: p.PricingUnit,
	}
}
