package impact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduceCO2(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		want     float64
	}{
		{"one container", 100, 0.03762},
		{"250g refill", 250, 0.09405},
		{"one kilogram", 1000, 0.3762},
		{"zero", 0, 0},
		{"negative", -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ReduceCO2(tt.quantity), 1e-12)
		})
	}
}

func TestReduceCO2_MatchesFormula(t *testing.T) {
	for _, q := range []float64{1, 37.5, 100, 333, 12_000} {
		want := q / 100 * 18 / 1000 * 2.09
		assert.InDelta(t, want, ReduceCO2(q), 1e-12, "quantity %v", q)
	}
}

func TestReducePlastic(t *testing.T) {
	assert.InDelta(t, 18.0, ReducePlastic(100), 1e-12)
	assert.InDelta(t, 45.0, ReducePlastic(250), 1e-12)
	assert.Equal(t, 0.0, ReducePlastic(0))
	assert.Equal(t, 0.0, ReducePlastic(-1))

	prev := 0.0
	for q := 0.0; q <= 2_000; q += 12.5 {
		got := ReducePlastic(q)
		assert.GreaterOrEqual(t, got, prev, "quantity %v", q)
		prev = got
	}
}

func TestTreeEquivalent(t *testing.T) {
	assert.InDelta(t, 1.0, TreeEquivalent(6.6), 1e-12)
	assert.Equal(t, 0.0, TreeEquivalent(0))
}
