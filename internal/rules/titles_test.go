package rules

import "testing"

type stubStanding struct{ placed, art, taste int }

func (s stubStanding) PlacedCount() int { return s.placed }
func (s stubStanding) ArtScore() int    { return s.art }
func (s stubStanding) TasteScore() int  { return s.taste }

func TestParseMetric(t *testing.T) {
	s := stubStanding{placed: 7, art: 5, taste: 9}
	tests := []struct {
		keyword string
		want    int
	}{
		{"most_placed_count", 7},
		{"highest_art_score", 5},
		{"highest_taste_score", 9},
	}
	for _, tt := range tests {
		m, err := ParseMetric(tt.keyword)
		if err != nil {
			t.Fatalf("parse %s: %v", tt.keyword, err)
		}
		if got := m.Measure(s); got != tt.want {
			t.Fatalf("%s measure = %d, want %d", tt.keyword, got, tt.want)
		}
	}
	if _, err := ParseMetric("loudest_slurp"); err == nil {
		t.Fatal("expected error for unknown metric")
	}
}

func TestAchievements(t *testing.T) {
	tests := []struct {
		keyword string
		record  stubFacts
		want    bool
	}{
		{"regional_set_complete", stubFacts{regional: "hakata"}, true},
		{"symmetrical_blanks_with_min2", stubFacts{symmetric: true, placed: make([]string, 7)}, true},
		{"symmetrical_blanks_with_min2", stubFacts{symmetric: true, placed: make([]string, 8)}, false},
		{"placed_count_eq_9", stubFacts{placed: make([]string, 9)}, true},
		{"color_count_gte_6", stubFacts{colors: 5}, false},
		{"unique_ingredients_gte_3", stubFacts{unique: 3, hasRoom: true}, true},
		{"customer_all_conditions_met", stubFacts{perfect: true}, true},
	}
	for _, tt := range tests {
		a, err := ParseAchievement(tt.keyword)
		if err != nil {
			t.Fatalf("parse %s: %v", tt.keyword, err)
		}
		if got := a.Achieved(tt.record); got != tt.want {
			t.Fatalf("%s achieved = %v, want %v", tt.keyword, got, tt.want)
		}
	}
	if _, err := ParseAchievement("first_to_finish"); err == nil {
		t.Fatal("expected error for unknown achievement")
	}
}
