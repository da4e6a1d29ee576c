package impact

// nonRefillCategories are food categories sold packaged or by the piece.
var nonRefillCategories = map[string]struct{}{
	"snack_drink_base":   {},
	"cooking_ingredient": {},
	"tea":                {},
}

// RefillSource names the rule that decided whether an item is a refill.
type RefillSource string

const (
	RefillFromProductFlag RefillSource = "product_flag"
	RefillFromCategory    RefillSource = "category"
)

type refillRule struct {
	source  RefillSource
	applies func(Product) bool
	decide  func(Product) bool
}

// refillRules are evaluated in order; the first applicable rule wins.
var refillRules = []refillRule{
	{
		source:  RefillFromProductFlag,
		applies: func(p Product) bool { return p.IsRefill != nil },
		decide:  func(p Product) bool { return *p.IsRefill },
	},
	{
		source:  RefillFromCategory,
		applies: func(Product) bool { return true },
		decide:  func(p Product) bool { return IsRefillCategory(p.Category) },
	},
}

// ClassifyRefill reports whether p is a refill product and which rule said so.
func ClassifyRefill(p Product) (bool, RefillSource) {
	for _, r := range refillRules {
		if r.applies(p) {
			return r.decide(p), r.source
		}
	}
	return false, RefillFromCategory
}

// IsRefillCategory is the category-based fallback: everything except the
// food categories is dispensed by weight.
func IsRefillCategory(category string) bool {
	_, food := nonRefillCategories[category]
	return !food
}

// ImpactSource names the branch used to compute an item's impact.
type ImpactSource string

const (
	// ImpactRecomputed recomputes a weighed refill from its quantity.
	ImpactRecomputed ImpactSource = "recomputed"
	// ImpactEmptyRefill is a weighed refill with no quantity.
	ImpactEmptyRefill ImpactSource = "empty_refill"
	// ImpactStored uses the emission value stored at checkout.
	ImpactStored ImpactSource = "stored"
)

// ItemImpact is the contribution of one line item.
type ItemImpact struct {
	CO2Kg    float64
	PlasticG float64
	Source   ImpactSource
}

// LineImpact computes the impact of a single line item. Weighed refills are
// always recomputed and any stored emission value is ignored; everything
// else reports the stored emission and no plastic reduction.
func LineImpact(isRefill bool, pricingUnit string, item LineItem) ItemImpact {
	weighedRefill := isRefill && pricingUnit == UnitGram
	switch {
	case weighedRefill && item.Quantity > 0:
		return ItemImpact{
			CO2Kg:    ReduceCO2(item.Quantity),
			PlasticG: ReducePlastic(item.Quantity),
			Source:   ImpactRecomputed,
		}
	case weighedRefill:
		return ItemImpact{Source: ImpactEmptyRefill}
	default:
		var stored float64
		if item.TotalCarbonEmission != nil {
			stored = *item.TotalCarbonEmission
		}
		return ItemImpact{CO2Kg: stored, Source: ImpactStored}
	}
}

// NormalizeUnit maps a stored pricing unit to "g" or "ea"; unknown or
// missing units are treated as grams.
func NormalizeUnit(unit string) string {
	if unit == UnitPiece {
		return UnitPiece
	}
	return UnitGram
}
