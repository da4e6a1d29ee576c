package impact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool          { return &v }

func TestAggregatePurchaseHistory_RefillAndProduct(t *testing.T) {
	receipts := []Receipt{
		{ID: 1, VisitedAt: time.Date(2025, 3, 2, 5, 0, 0, 0, time.UTC)},
		{ID: 2, VisitedAt: time.Date(2025, 4, 10, 5, 0, 0, 0, time.UTC)},
	}
	products := []Product{
		{ID: 10, Name: "샴푸 리필", Category: "shampoo", IsRefill: boolPtr(true), PricingUnit: "g"},
		{ID: 20, Name: "고체 치약", Category: "snack_drink_base", IsRefill: boolPtr(false), PricingUnit: "ea"},
	}
	items := []LineItem{
		{ID: 100, ReceiptID: 1, ProductID: int64Ptr(10), Quantity: 250, UnitPrice: 30, TotalCarbonEmission: float64Ptr(99)},
		{ID: 101, ReceiptID: 2, ProductID: int64Ptr(20), Quantity: 2, UnitPrice: 4500},
	}

	h := AggregatePurchaseHistory(receipts, items, products, 0)

	assert.InDelta(t, 0.09405, h.Stats.CO2ReductionKg, 1e-12)
	assert.InDelta(t, 45.0, h.Stats.PlasticReductionG, 1e-12)
	assert.InDelta(t, 0.045, h.Stats.PlasticReductionKg, 1e-12)
	assert.InDelta(t, 0.09405/6.6, h.Stats.TreeReduction, 1e-12)
	assert.Equal(t, 1, h.Stats.RefillCount)

	require.Len(t, h.Items, 2)
	assert.Equal(t, "250410", h.Items[0].Date)
	assert.Equal(t, "2025.04.10", h.Items[0].DisplayDate)
	assert.Equal(t, ItemTypeProduct, h.Items[0].Type)
	assert.Equal(t, int64(9000), h.Items[0].Price)
	assert.Equal(t, "ea", h.Items[0].PricingUnit)

	assert.Equal(t, "250302", h.Items[1].Date)
	assert.Equal(t, ItemTypeRefill, h.Items[1].Type)
	assert.True(t, h.Items[1].IsRefill)
	assert.Equal(t, int64(7500), h.Items[1].Price)
	assert.InDelta(t, 45.0, h.Items[1].PlasticReductionG, 1e-12)
}

func TestAggregatePurchaseHistory_StoredEmissionForNonRefill(t *testing.T) {
	receipts := []Receipt{{ID: 1, VisitedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, KST)}}
	products := []Product{{ID: 1, Name: "녹차", Category: "tea", PricingUnit: "ea"}}
	items := []LineItem{{ID: 1, ReceiptID: 1, ProductID: int64Ptr(1), Quantity: 1, UnitPrice: 8000, TotalCarbonEmission: float64Ptr(0.25)}}

	h := AggregatePurchaseHistory(receipts, items, products, 0)

	assert.InDelta(t, 0.25, h.Stats.CO2ReductionKg, 1e-12)
	assert.Equal(t, 0.0, h.Stats.PlasticReductionG)
	require.Len(t, h.Items, 1)
	assert.False(t, h.Items[0].IsRefill)
	assert.Equal(t, 0.0, h.Items[0].PlasticReductionG)
}

func TestAggregatePurchaseHistory_ZeroQuantityRefill(t *testing.T) {
	receipts := []Receipt{{ID: 1, VisitedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, KST)}}
	products := []Product{{ID: 1, Name: "세제 리필", Category: "detergent", IsRefill: boolPtr(true), PricingUnit: "g"}}
	items := []LineItem{{ID: 1, ReceiptID: 1, ProductID: int64Ptr(1), Quantity: 0, UnitPrice: 12, TotalCarbonEmission: float64Ptr(3)}}

	h := AggregatePurchaseHistory(receipts, items, products, 0)

	assert.Equal(t, 0.0, h.Stats.CO2ReductionKg)
	assert.Equal(t, 0.0, h.Stats.PlasticReductionG)
	require.Len(t, h.Items, 1)
	assert.Equal(t, int64(0), h.Items[0].Price)
	assert.Equal(t, ItemTypeRefill, h.Items[0].Type)
}

func TestAggregatePurchaseHistory_MissingReferences(t *testing.T) {
	receipts := []Receipt{{ID: 1, VisitedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, KST)}}
	products := []Product{{ID: 1, Name: "이름없는 리필"}}
	items := []LineItem{
		{ID: 1, ReceiptID: 1, ProductID: nil, Quantity: 100, UnitPrice: 10},
		{ID: 2, ReceiptID: 1, ProductID: int64Ptr(999), Quantity: 100, UnitPrice: 10},
		{ID: 3, ReceiptID: 1, ProductID: int64Ptr(1), Quantity: 100, UnitPrice: 10},
	}

	h := AggregatePurchaseHistory(receipts, items, products, 0)

	require.Len(t, h.Items, 1)
	item := h.Items[0]
	assert.Equal(t, DefaultCategory, item.Category)
	assert.Equal(t, "g", item.PricingUnit)
	assert.True(t, item.IsRefill, "no flag and no category falls back to refill")
	assert.InDelta(t, ReduceCO2(100), h.Stats.CO2ReductionKg, 1e-12)
}

func TestAggregatePurchaseHistory_RefillCounterFallback(t *testing.T) {
	h := AggregatePurchaseHistory(nil, nil, nil, 5)

	assert.Equal(t, 5, h.Stats.RefillCount)
	assert.InDelta(t, ReduceCO2(500), h.Stats.CO2ReductionKg, 1e-12)
	assert.InDelta(t, ReducePlastic(500), h.Stats.PlasticReductionG, 1e-12)
	assert.Empty(t, h.Items)
}

func TestAggregatePurchaseHistory_FallbackOnlyWhenEmpty(t *testing.T) {
	receipts := []Receipt{{ID: 1, VisitedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, KST)}}
	products := []Product{{ID: 1, Name: "샴푸", Category: "shampoo", PricingUnit: "g"}}
	items := []LineItem{{ID: 1, ReceiptID: 1, ProductID: int64Ptr(1), Quantity: 300, UnitPrice: 20}}

	h := AggregatePurchaseHistory(receipts, items, products, 40)

	assert.InDelta(t, ReduceCO2(300), h.Stats.CO2ReductionKg, 1e-12)
	assert.Equal(t, 1, h.Stats.RefillCount)
}

func TestAggregatePurchaseHistory_DatesUseKST(t *testing.T) {
	// 2025-01-31 16:00 UTC is already February 1st in Seoul.
	receipts := []Receipt{{ID: 1, VisitedAt: time.Date(2025, 1, 31, 16, 0, 0, 0, time.UTC)}}
	products := []Product{{ID: 1, Name: "티", Category: "tea", PricingUnit: "ea"}}
	items := []LineItem{{ID: 1, ReceiptID: 1, ProductID: int64Ptr(1), Quantity: 1, UnitPrice: 1000}}

	h := AggregatePurchaseHistory(receipts, items, products, 0)

	require.Len(t, h.Items, 1)
	assert.Equal(t, "250201", h.Items[0].Date)
}

func TestAggregatePurchaseHistory_StableSort(t *testing.T) {
	day := time.Date(2025, 5, 5, 3, 0, 0, 0, KST)
	receipts := []Receipt{
		{ID: 1, VisitedAt: day},
		{ID: 2, VisitedAt: day.AddDate(0, 0, 1)},
	}
	products := []Product{
		{ID: 1, Name: "a", Category: "tea", PricingUnit: "ea"},
		{ID: 2, Name: "b", Category: "tea", PricingUnit: "ea"},
		{ID: 3, Name: "c", Category: "tea", PricingUnit: "ea"},
	}
	items := []LineItem{
		{ID: 1, ReceiptID: 1, ProductID: int64Ptr(1), Quantity: 1},
		{ID: 2, ReceiptID: 1, ProductID: int64Ptr(2), Quantity: 1},
		{ID: 3, ReceiptID: 2, ProductID: int64Ptr(3), Quantity: 1},
	}

	h := AggregatePurchaseHistory(receipts, items, products, 0)

	require.Len(t, h.Items, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{h.Items[0].ProductName, h.Items[1].ProductName, h.Items[2].ProductName})
}

func TestEnvironmentStats_Rounded(t *testing.T) {
	s := EnvironmentStats{
		RefillCount:       3,
		PlasticReductionG: 1234.56,
		CO2ReductionKg:    2.5803,
		TreeReduction:     2.5803 / 6.6,
	}

	r := s.Rounded()

	assert.Equal(t, 3, r.RefillCount)
	assert.Equal(t, 1235.0, r.PlasticReductionG)
	assert.Equal(t, 1.23, r.PlasticReductionKg)
	assert.Equal(t, 2.6, r.CO2ReductionKg)
	assert.Equal(t, 0.39, r.TreeReduction)
}

func TestLinePrice(t *testing.T) {
	assert.Equal(t, int64(7500), LinePrice(250, 30))
	assert.Equal(t, int64(1234), LinePrice(123.4, 10))
	assert.Equal(t, int64(0), LinePrice(0, 55))
	assert.Equal(t, int64(38), LinePrice(1.5, 25.1))
}
