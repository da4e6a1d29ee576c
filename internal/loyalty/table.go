package loyalty

import "math"

// GradeDefinition is a coarse loyalty tier. MaxAmount is nil for the top grade.
type GradeDefinition struct {
	Grade     int    `json:"grade"`
	Name      string `json:"name"`
	Emoji     string `json:"emoji"`
	MinAmount int64  `json:"min_amount"`
	MaxAmount *int64 `json:"max_amount"`
}

// LevelDefinition is a step within a grade covering [MinAmount, MaxAmount).
type LevelDefinition struct {
	Level     int    `json:"level"`
	Grade     int    `json:"grade"`
	GradeName string `json:"grade_name"`
	Emoji     string `json:"emoji"`
	MinAmount int64  `json:"min_amount"`
	MaxAmount *int64 `json:"max_amount"`
}

// levelsPerGrade is the number of evenly split levels in each bounded grade.
var levelsPerGrade = map[int]int{1: 1, 2: 2, 3: 3, 4: 6}

const (
	// TopLevelWidth is the spend range of each level in the top grade.
	TopLevelWidth int64 = 300_000

	// DefaultLevelCap is the highest level shown to customers today.
	DefaultLevelCap = 62
)

func amountPtr(v int64) *int64 { return &v }

// defaultGrades returns the grade ladder, ordered and contiguous.
func defaultGrades() []GradeDefinition {
	return []GradeDefinition{
		{Grade: 1, Name: "꼬마알맹", Emoji: "🌱", MinAmount: 0, MaxAmount: amountPtr(50_000)},
		{Grade: 2, Name: "유아알맹", Emoji: "🌿", MinAmount: 50_000, MaxAmount: amountPtr(150_000)},
		{Grade: 3, Name: "어린알맹", Emoji: "🍀", MinAmount: 150_000, MaxAmount: amountPtr(500_000)},
		{Grade: 4, Name: "학생알맹", Emoji: "🌳", MinAmount: 500_000, MaxAmount: amountPtr(1_500_000)},
		{Grade: 5, Name: "어른알맹", Emoji: "🌲", MinAmount: 1_500_000, MaxAmount: nil},
	}
}

// Table maps cumulative spend to levels and grades. It is immutable after
// NewTable and safe for concurrent use.
//
// Levels of the bounded grades are generated up front. Levels of the top
// grade are computed on demand, so the ladder has no natural end; a cap can
// still be set to present a maximum level.
type Table struct {
	grades  []GradeDefinition
	bounded []LevelDefinition
	top     GradeDefinition
	cap     int
}

// Option configures a Table.
type Option func(*Table)

// WithLevelCap sets the highest reachable level. Zero or a negative value
// removes the ceiling. Caps below the first top-grade level are raised to it.
func WithLevelCap(level int) Option {
	return func(t *Table) { t.cap = level }
}

// NewTable builds the level table.
func NewTable(opts ...Option) *Table {
	grades := defaultGrades()
	t := &Table{
		grades: grades,
		top:    grades[len(grades)-1],
		cap:    DefaultLevelCap,
	}
	for _, opt := range opts {
		opt(t)
	}

	level := 1
	for _, g := range grades[:len(grades)-1] {
		n := levelsPerGrade[g.Grade]
		span := *g.MaxAmount - g.MinAmount
		width := int64(math.Round(float64(span) / float64(n)))
		for i := 0; i < n; i++ {
			lo := g.MinAmount + int64(i)*width
			hi := lo + width
			if i == n-1 {
				hi = *g.MaxAmount
			}
			t.bounded = append(t.bounded, LevelDefinition{
				Level:     level,
				Grade:     g.Grade,
				GradeName: g.Name,
				Emoji:     g.Emoji,
				MinAmount: lo,
				MaxAmount: amountPtr(hi),
			})
			level++
		}
	}

	if t.cap > 0 && t.cap < t.firstTopLevel() {
		t.cap = t.firstTopLevel()
	}
	return t
}

func (t *Table) firstTopLevel() int {
	return len(t.bounded) + 1
}

// MaxLevel returns the level cap, or 0 when the ladder is unbounded.
func (t *Table) MaxLevel() int {
	if t.cap <= 0 {
		return 0
	}
	return t.cap
}

// Grades returns a copy of the grade ladder.
func (t *Table) Grades() []GradeDefinition {
	out := make([]GradeDefinition, len(t.grades))
	for i := range t.grades {
		out[i] = cloneGrade(t.grades[i])
	}
	return out
}

// Levels returns the levels from 1 to through, inclusive.
func (t *Table) Levels(through int) []LevelDefinition {
	if limit := t.MaxLevel(); limit > 0 && through > limit {
		through = limit
	}
	out := make([]LevelDefinition, 0, through)
	for lv := 1; lv <= through; lv++ {
		out = append(out, t.levelByNumber(lv))
	}
	return out
}

// levelByNumber returns level lv, which must be >= 1.
func (t *Table) levelByNumber(lv int) LevelDefinition {
	if lv <= len(t.bounded) {
		def := t.bounded[lv-1]
		def.MaxAmount = amountPtr(*def.MaxAmount)
		return def
	}
	step := int64(lv - t.firstTopLevel())
	lo := t.top.MinAmount + step*TopLevelWidth
	return LevelDefinition{
		Level:     lv,
		Grade:     t.top.Grade,
		GradeName: t.top.Name,
		Emoji:     t.top.Emoji,
		MinAmount: lo,
		MaxAmount: amountPtr(lo + TopLevelWidth),
	}
}

// LookupLevel returns the level whose range contains amount. Negative
// amounts are treated as zero. At or past the capped level the capped level
// is returned even if its range is exceeded.
func (t *Table) LookupLevel(amount int64) LevelDefinition {
	amount = max(amount, 0)
	if amount < t.top.MinAmount {
		for _, lv := range t.bounded {
			if amount < *lv.MaxAmount {
				return t.levelByNumber(lv.Level)
			}
		}
	}
	lv := t.firstTopLevel() + int((amount-t.top.MinAmount)/TopLevelWidth)
	if limit := t.MaxLevel(); limit > 0 && lv > limit {
		lv = limit
	}
	return t.levelByNumber(lv)
}

// LookupGrade returns the grade whose range contains amount. Negative
// amounts are treated as zero.
func (t *Table) LookupGrade(amount int64) GradeDefinition {
	amount = max(amount, 0)
	for _, g := range t.grades {
		if g.MaxAmount == nil || amount < *g.MaxAmount {
			return cloneGrade(g)
		}
	}
	return cloneGrade(t.top)
}

// nextLevel returns the level after lv, or nil when lv is the cap.
func (t *Table) nextLevel(lv LevelDefinition) *LevelDefinition {
	if limit := t.MaxLevel(); limit > 0 && lv.Level >= limit {
		return nil
	}
	next := t.levelByNumber(lv.Level + 1)
	return &next
}

// nextGrade returns the grade after g, or nil for the top grade.
func (t *Table) nextGrade(g GradeDefinition) *GradeDefinition {
	for i, cur := range t.grades {
		if cur.Grade == g.Grade && i+1 < len(t.grades) {
			next := cloneGrade(t.grades[i+1])
			return &next
		}
	}
	return nil
}

func cloneGrade(g GradeDefinition) GradeDefinition {
	if g.MaxAmount != nil {
		g.MaxAmount = amountPtr(*g.MaxAmount)
	}
	return g
}
