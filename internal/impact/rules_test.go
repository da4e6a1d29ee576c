package impact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRefill(t *testing.T) {
	tests := []struct {
		name       string
		product    Product
		wantRefill bool
		wantSource RefillSource
	}{
		{"flag true wins over food category", Product{Category: "tea", IsRefill: boolPtr(true)}, true, RefillFromProductFlag},
		{"flag false wins over refill category", Product{Category: "shampoo", IsRefill: boolPtr(false)}, false, RefillFromProductFlag},
		{"refill category", Product{Category: "lotion_oil"}, true, RefillFromCategory},
		{"snack category", Product{Category: "snack_drink_base"}, false, RefillFromCategory},
		{"cooking category", Product{Category: "cooking_ingredient"}, false, RefillFromCategory},
		{"tea category", Product{Category: "tea"}, false, RefillFromCategory},
		{"missing category", Product{}, true, RefillFromCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refill, source := ClassifyRefill(tt.product)
			assert.Equal(t, tt.wantRefill, refill)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestLineImpact(t *testing.T) {
	stored := float64Ptr(1.5)

	tests := []struct {
		name        string
		isRefill    bool
		unit        string
		item        LineItem
		wantCO2     float64
		wantPlastic float64
		wantSource  ImpactSource
	}{
		{"weighed refill ignores stored value", true, UnitGram, LineItem{Quantity: 200, TotalCarbonEmission: stored}, ReduceCO2(200), 36, ImpactRecomputed},
		{"empty weighed refill", true, UnitGram, LineItem{Quantity: 0, TotalCarbonEmission: stored}, 0, 0, ImpactEmptyRefill},
		{"refill sold by piece uses stored", true, UnitPiece, LineItem{Quantity: 2, TotalCarbonEmission: stored}, 1.5, 0, ImpactStored},
		{"product uses stored", false, UnitGram, LineItem{Quantity: 500, TotalCarbonEmission: stored}, 1.5, 0, ImpactStored},
		{"product without stored value", false, UnitPiece, LineItem{Quantity: 1}, 0, 0, ImpactStored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineImpact(tt.isRefill, tt.unit, tt.item)
			assert.InDelta(t, tt.wantCO2, got.CO2Kg, 1e-12)
			assert.InDelta(t, tt.wantPlastic, got.PlasticG, 1e-12)
			assert.Equal(t, tt.wantSource, got.Source)
		})
	}
}

func TestNormalizeUnit(t *testing.T) {
	assert.Equal(t, "ea", NormalizeUnit("ea"))
	assert.Equal(t, "g", NormalizeUnit("g"))
	assert.Equal(t, "g", NormalizeUnit(""))
	assert.Equal(t, "g", NormalizeUnit("ml"))
}
