package loyalty

import "math"

// CharacterProgress describes where a customer stands on the level ladder.
type CharacterProgress struct {
	CurrentLevel       LevelDefinition  `json:"current_level"`
	CurrentGrade       GradeDefinition  `json:"current_grade"`
	NextLevel          *LevelDefinition `json:"next_level"`
	NextGrade          *GradeDefinition `json:"next_grade"`
	AccumulatedAmount  int64            `json:"accumulated_amount"`
	ProgressPercentage float64          `json:"progress_percentage"`
	AmountToNextLevel  int64            `json:"amount_to_next_level"`
	AmountToNextGrade  int64            `json:"amount_to_next_grade"`
}

// Progress computes the progress report for a cumulative spend amount.
func (t *Table) Progress(accumulatedAmount int64) CharacterProgress {
	level := t.LookupLevel(accumulatedAmount)
	grade := t.LookupGrade(accumulatedAmount)

	p := CharacterProgress{
		CurrentLevel:       level,
		CurrentGrade:       grade,
		NextLevel:          t.nextLevel(level),
		NextGrade:          t.nextGrade(grade),
		AccumulatedAmount:  accumulatedAmount,
		ProgressPercentage: 100,
	}

	if p.NextLevel != nil && level.MaxAmount != nil {
		span := float64(*level.MaxAmount - level.MinAmount)
		pct := float64(accumulatedAmount-level.MinAmount) / span * 100
		pct = math.Min(100, math.Max(0, pct))
		p.ProgressPercentage = math.Round(pct*10) / 10
		p.AmountToNextLevel = max(0, p.NextLevel.MinAmount-accumulatedAmount)
	}

	if p.NextGrade != nil {
		p.AmountToNextGrade = max(0, p.NextGrade.MinAmount-accumulatedAmount)
	}

	return p
}
