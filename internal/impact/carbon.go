package impact

// Physical constants used to estimate the impact of a refill purchase.
//
// A refill of RefillUnitG grams replaces one 100 ml single-use container
// weighing ContainerWeightG grams of plastic. Producing one kilogram of that
// plastic emits CO2PerKgPlastic kg CO2e.
const (
	// CO2PerKgPlastic is kg CO2e emitted per kg of container plastic.
	CO2PerKgPlastic = 2.09

	// ContainerWeightG is the plastic weight of one avoided container.
	ContainerWeightG = 18.0

	// RefillUnitG is the refill quantity equivalent to one avoided container.
	RefillUnitG = 100.0

	// CO2PerTreeKg is kg CO2 absorbed by one mature pine tree per year.
	CO2PerTreeKg = 6.6

	// EstimatedRefillG is the assumed average quantity of a refill visit,
	// used when itemized data is missing.
	EstimatedRefillG = 100.0
)

// ReduceCO2 returns the kg CO2e avoided by refilling quantityG grams instead
// of buying packaged product. Non-positive quantities yield 0. The result is
// not rounded.
func ReduceCO2(quantityG float64) float64 {
	if quantityG <= 0 {
		return 0
	}
	plasticKg := ReducePlastic(quantityG) / 1000
	return plasticKg * CO2PerKgPlastic
}

// ReducePlastic returns the grams of container plastic avoided by refilling
// quantityG grams. Non-positive quantities yield 0.
func ReducePlastic(quantityG float64) float64 {
	if quantityG <= 0 {
		return 0
	}
	containers := quantityG / RefillUnitG
	return containers * ContainerWeightG
}

// TreeEquivalent converts kg CO2 into the number of pine trees that absorb
// the same amount in a year.
func TreeEquivalent(co2Kg float64) float64 {
	if co2Kg <= 0 {
		return 0
	}
	return co2Kg / CO2PerTreeKg
}
