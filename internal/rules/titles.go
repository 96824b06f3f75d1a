package rules

import "fmt"

// Standing is a scored player as seen by comparative titles.
type Standing interface {
	PlacedCount() int
	ArtScore() int
	TasteScore() int
}

// Metric ranks players for a comparative title.
type Metric interface {
	Keyword() string
	Measure(s Standing) int
}

type (
	MostPlaced   struct{}
	HighestArt   struct{}
	HighestTaste struct{}
)

func (MostPlaced) Keyword() string   { return "most_placed_count" }
func (HighestArt) Keyword() string   { return "highest_art_score" }
func (HighestTaste) Keyword() string { return "highest_taste_score" }

func (MostPlaced) Measure(s Standing) int   { return s.PlacedCount() }
func (HighestArt) Measure(s Standing) int   { return s.ArtScore() }
func (HighestTaste) Measure(s Standing) int { return s.TasteScore() }

// ParseMetric resolves a comparative title keyword.
func ParseMetric(keyword string) (Metric, error) {
	for _, m := range []Metric{MostPlaced{}, HighestArt{}, HighestTaste{}} {
		if m.Keyword() == keyword {
			return m, nil
		}
	}
	return nil, fmt.Errorf("unknown comparative title condition %q", keyword)
}

// Record is a scored player as seen by achievement titles.
type Record interface {
	Facts
	// PerfectCustomer reports whether some active customer awarded every one of its rules.
	PerfectCustomer() bool
}

// Achievement is a boolean per-player title condition.
type Achievement interface {
	Keyword() string
	Achieved(r Record) bool
}

type (
	RegionalSetAchievement struct{}
	// SymmetricBlanks needs the symmetry check plus at least MinBlanks empty cells.
	SymmetricBlanks      struct{ MinBlanks int }
	ExactPlaced          struct{ Count int }
	ColorfulBowl         struct{ Colors int }
	UniqueIngredients    struct{ Count int }
	PerfectCustomerVisit struct{}
)

func (RegionalSetAchievement) Keyword() string { return "regional_set_complete" }
func (SymmetricBlanks) Keyword() string        { return "symmetrical_blanks_with_min2" }
func (ExactPlaced) Keyword() string            { return "placed_count_eq_9" }
func (ColorfulBowl) Keyword() string           { return "color_count_gte_6" }
func (UniqueIngredients) Keyword() string      { return "unique_ingredients_gte_3" }
func (PerfectCustomerVisit) Keyword() string   { return "customer_all_conditions_met" }

func (RegionalSetAchievement) Achieved(r Record) bool {
	_, ok := r.RegionalSet()
	return ok
}

func (a SymmetricBlanks) Achieved(r Record) bool {
	return r.Symmetric() && 9-len(r.Placed()) >= a.MinBlanks
}

func (a ExactPlaced) Achieved(r Record) bool { return len(r.Placed()) == a.Count }

func (a ColorfulBowl) Achieved(r Record) bool { return r.ColorCount() >= a.Colors }

func (a UniqueIngredients) Achieved(r Record) bool {
	n, ok := r.UniqueIngredients()
	return ok && n >= a.Count
}

func (PerfectCustomerVisit) Achieved(r Record) bool { return r.PerfectCustomer() }

// ParseAchievement resolves an achievement title keyword.
func ParseAchievement(keyword string) (Achievement, error) {
	all := []Achievement{
		RegionalSetAchievement{},
		SymmetricBlanks{MinBlanks: 2},
		ExactPlaced{Count: 9},
		ColorfulBowl{Colors: 6},
		UniqueIngredients{Count: 3},
		PerfectCustomerVisit{},
	}
	for _, a := range all {
		if a.Keyword() == keyword {
			return a, nil
		}
	}
	return nil, fmt.Errorf("unknown achievement title condition %q", keyword)
}
