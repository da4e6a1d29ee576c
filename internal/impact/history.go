package impact

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// KST is the store's local time zone. Receipt dates are rendered in it.
var KST = time.FixedZone("KST", 9*60*60)

// AggregatePurchaseHistory folds receipts and their line items into
// environment stats and a purchase list sorted newest first.
//
// Items without a resolvable product are skipped. refillCountFallback is the
// customer's lifetime refill counter; it is used to estimate the impact when
// the itemized history yields none.
//
// The returned stats are unrounded; use EnvironmentStats.Rounded for display.
func AggregatePurchaseHistory(receipts []Receipt, items []LineItem, products []Product, refillCountFallback int) History {
	receiptByID := make(map[int64]Receipt, len(receipts))
	for _, r := range receipts {
		receiptByID[r.ID] = r
	}
	productByID := make(map[int64]Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	var (
		co2Kg       float64
		plasticG    float64
		refillCount int
	)
	purchases := make([]PurchaseItem, 0, len(items))

	for _, item := range items {
		if item.ProductID == nil {
			log.Debug().Int64("line_item_id", item.ID).Msg("line item has no product, skipping")
			continue
		}
		product, ok := productByID[*item.ProductID]
		if !ok {
			log.Debug().Int64("line_item_id", item.ID).Int64("product_id", *item.ProductID).
				Msg("product not found, skipping")
			continue
		}

		isRefill, _ := ClassifyRefill(product)
		unit := NormalizeUnit(product.PricingUnit)
		impact := LineImpact(isRefill, unit, item)

		co2Kg += impact.CO2Kg
		plasticG += impact.PlasticG
		if isRefill {
			refillCount++
		}

		purchases = append(purchases, buildPurchaseItem(receiptByID[item.ReceiptID], product, item, isRefill, unit, impact))
	}

	if refillCount == 0 {
		refillCount = max(refillCountFallback, 0)
	}
	if refillCountFallback > 0 {
		estimateG := float64(refillCountFallback) * EstimatedRefillG
		if co2Kg == 0 {
			co2Kg = ReduceCO2(estimateG)
		}
		if plasticG == 0 {
			plasticG = ReducePlastic(estimateG)
		}
	}

	slices.SortStableFunc(purchases, func(a, b PurchaseItem) int {
		return strings.Compare(b.Date, a.Date)
	})

	return History{
		Stats: EnvironmentStats{
			RefillCount:        refillCount,
			PlasticReductionKg: plasticG / 1000,
			PlasticReductionG:  plasticG,
			TreeReduction:      TreeEquivalent(co2Kg),
			CO2ReductionKg:     co2Kg,
		},
		Items: purchases,
	}
}

func buildPurchaseItem(receipt Receipt, product Product, item LineItem, isRefill bool, unit string, impact ItemImpact) PurchaseItem {
	category := product.Category
	if category == "" {
		category = DefaultCategory
	}
	itemType := ItemTypeProduct
	if isRefill {
		itemType = ItemTypeRefill
	}

	var date, displayDate string
	if !receipt.VisitedAt.IsZero() {
		local := receipt.VisitedAt.In(KST)
		date = local.Format("060102")
		displayDate = local.Format("2006.01.02")
	}

	return PurchaseItem{
		Date:              date,
		DisplayDate:       displayDate,
		ReceiptID:         item.ReceiptID,
		ProductName:       product.Name,
		Category:          category,
		Price:             LinePrice(item.Quantity, item.UnitPrice),
		Quantity:          item.Quantity,
		UnitPrice:         item.UnitPrice,
		PricingUnit:       unit,
		IsRefill:          isRefill,
		Type:              itemType,
		PlasticReductionG: impact.PlasticG,
	}
}

// LinePrice returns round(quantity × unitPrice) in won.
func LinePrice(quantity, unitPrice float64) int64 {
	return decimal.NewFromFloat(quantity).
		Mul(decimal.NewFromFloat(unitPrice)).
		Round(0).
		IntPart()
}

// Rounded returns a copy of s rounded for display: plastic kg to two
// decimals, plastic grams to an integer, CO2 to one decimal, trees to two.
func (s EnvironmentStats) Rounded() EnvironmentStats {
	return EnvironmentStats{
		RefillCount:        s.RefillCount,
		PlasticReductionKg: roundTo(s.PlasticReductionG/1000, 2),
		PlasticReductionG:  math.Round(s.PlasticReductionG),
		TreeReduction:      roundTo(s.TreeReduction, 2),
		CO2ReductionKg:     roundTo(s.CO2ReductionKg, 1),
	}
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
