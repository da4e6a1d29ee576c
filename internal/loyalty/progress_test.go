package loyalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress_Start(t *testing.T) {
	p := NewTable().Progress(0)

	assert.Equal(t, 1, p.CurrentLevel.Level)
	assert.Equal(t, 1, p.CurrentGrade.Grade)
	assert.Equal(t, 0.0, p.ProgressPercentage)
	require.NotNil(t, p.NextLevel)
	assert.Equal(t, 2, p.NextLevel.Level)
	require.NotNil(t, p.NextGrade)
	assert.Equal(t, "유아알맹", p.NextGrade.Name)
	assert.Equal(t, int64(50_000), p.AmountToNextLevel)
	assert.Equal(t, int64(50_000), p.AmountToNextGrade)
}

func TestProgress_GradeBoundaryIsInclusive(t *testing.T) {
	p := NewTable().Progress(50_000)

	assert.Equal(t, 2, p.CurrentGrade.Grade)
	assert.Equal(t, 2, p.CurrentLevel.Level)
	assert.Equal(t, 0.0, p.ProgressPercentage)
	assert.Equal(t, int64(50_000), p.AmountToNextLevel)
	assert.Equal(t, int64(100_000), p.AmountToNextGrade)
}

func TestProgress_PartialLevel(t *testing.T) {
	tests := []struct {
		name        string
		amount      int64
		wantPct     float64
		wantToLevel int64
		wantToGrade int64
	}{
		{"half of level 1", 25_000, 50, 25_000, 25_000},
		{"level 4 rounded to one decimal", 200_000, 42.9, 66_667, 300_000},
		{"almost level 2", 49_999, 100, 1, 1},
	}

	table := NewTable()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := table.Progress(tt.amount)
			assert.InDelta(t, tt.wantPct, p.ProgressPercentage, 1e-9)
			assert.Equal(t, tt.wantToLevel, p.AmountToNextLevel)
			assert.Equal(t, tt.wantToGrade, p.AmountToNextGrade)
		})
	}
}

func TestProgress_TopGradeEntry(t *testing.T) {
	p := NewTable().Progress(1_500_000)

	assert.Equal(t, "어른알맹", p.CurrentGrade.Name)
	assert.Equal(t, 13, p.CurrentLevel.Level)
	assert.Equal(t, int64(300_000), p.AmountToNextLevel)
	assert.Nil(t, p.NextGrade)
	assert.Equal(t, int64(0), p.AmountToNextGrade)
	assert.Equal(t, 0.0, p.ProgressPercentage)
}

func TestProgress_SaturatedAtCap(t *testing.T) {
	table := NewTable()

	for _, amount := range []int64{16_200_000, 16_350_000, 250_000_000} {
		p := table.Progress(amount)
		assert.Equal(t, 62, p.CurrentLevel.Level)
		assert.Nil(t, p.NextLevel)
		assert.Equal(t, 100.0, p.ProgressPercentage)
		assert.Equal(t, int64(0), p.AmountToNextLevel)
		assert.Equal(t, int64(0), p.AmountToNextGrade)
	}
}

func TestProgress_UnboundedKeepsClimbing(t *testing.T) {
	p := NewTable(WithLevelCap(0)).Progress(16_350_000)

	assert.Equal(t, 62, p.CurrentLevel.Level)
	require.NotNil(t, p.NextLevel)
	assert.Equal(t, 63, p.NextLevel.Level)
	assert.Equal(t, 50.0, p.ProgressPercentage)
	assert.Equal(t, int64(150_000), p.AmountToNextLevel)
}
