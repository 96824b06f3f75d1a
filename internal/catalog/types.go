package catalog

import (
	"encoding/json"
	"fmt"

	"ramendo/internal/domain"
	"ramendo/internal/rules"
)

// Category groups ingredients for category_count_gte conditions.
type Category string

const (
	CategoryMeat      Category = "meat"
	CategoryEgg       Category = "egg"
	CategoryVegetable Category = "vegetable"
	CategorySeafood   Category = "seafood"
	CategoryTopping   Category = "topping"
)

// Categories lists every valid ingredient category.
var Categories = []Category{CategoryMeat, CategoryEgg, CategoryVegetable, CategorySeafood, CategoryTopping}

// ColorTag is the visual colour an ingredient contributes to the bowl.
type ColorTag string

// ColorTags lists every valid colour tag.
var ColorTags = []ColorTag{"red", "green", "yellow", "white", "brown", "black", "pink"}

type Ingredient struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	ColorTag    ColorTag `json:"colorTag"`
	CardCount   int      `json:"cardCount"`
	Description string   `json:"description,omitempty"`
}

type Soup struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Noodle struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// BonusRule awards Points when Condition holds for a player's bowl.
type BonusRule struct {
	Condition rules.Condition
	Points    int
	Label     string
}

type bonusRuleJSON struct {
	Condition rules.Kind      `json:"condition"`
	Value     json.RawMessage `json:"value,omitempty"`
	Points    int             `json:"points"`
	Label     string          `json:"label"`
}

func (b *BonusRule) UnmarshalJSON(data []byte) error {
	var raw bonusRuleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cond, err := rules.Decode(raw.Condition, raw.Value)
	if err != nil {
		return err
	}
	*b = BonusRule{Condition: cond, Points: raw.Points, Label: raw.Label}
	return nil
}

func (b BonusRule) MarshalJSON() ([]byte, error) {
	if b.Condition == nil {
		return nil, fmt.Errorf("bonus rule %q has no condition", b.Label)
	}
	value, err := json.Marshal(rules.Value(b.Condition))
	if err != nil {
		return nil, err
	}
	return json.Marshal(bonusRuleJSON{
		Condition: b.Condition.Kind(),
		Value:     value,
		Points:    b.Points,
		Label:     b.Label,
	})
}

// Character is a playable chef with personal bonus rules.
type Character struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	MaxBonus    int         `json:"maxBonus"`
	Bonuses     []BonusRule `json:"bonuses"`
}

// Customer is a guest whose preferences score every player's bowl.
type Customer struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	MaxBonus    int         `json:"maxBonus"`
	Bonuses     []BonusRule `json:"bonuses"`
}

type Compatibility struct {
	MaxPoints int                       `json:"maxPoints"`
	Table     map[string]map[string]int `json:"table"`
}

type ColorBonus struct {
	Table map[int]int `json:"table"`
}

type PairRule struct {
	PointsPerPair int           `json:"pointsPerPair"`
	Pairs         []domain.Pair `json:"pairs"`
}

type CenterBonus struct {
	Points int `json:"points"`
}

type DuplicatePenalty struct {
	PointsPerDuplicate int `json:"pointsPerDuplicate"`
}

type SymmetryCheck struct {
	Pairs [][2]domain.Coord `json:"pairs"`
}

// RegionalSet is a soup, noodle and ingredient combo bonus.
type RegionalSet struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	RequiredSoup   string   `json:"requiredSoup"`
	RequiredNoodle string   `json:"requiredNoodle"`
	IngredientPool []string `json:"ingredientPool"`
	MinIngredients int      `json:"minIngredients"`
}

type RegionalSets struct {
	Sets []RegionalSet `json:"sets"`
}

// Scoring holds the layer-one parameters.
type Scoring struct {
	SoupNoodleCompatibility Compatibility    `json:"soupNoodleCompatibility"`
	ColorBonus              ColorBonus       `json:"colorBonus"`
	AdjacencyGoodPairs      PairRule         `json:"adjacencyGoodPairs"`
	AdjacencyBadPairs       PairRule         `json:"adjacencyBadPairs"`
	CenterBonus             CenterBonus      `json:"centerBonus"`
	DuplicatePenalty        DuplicatePenalty `json:"duplicatePenalty"`
	SymmetryCheck           SymmetryCheck    `json:"symmetryCheck"`
	RegionalSets            RegionalSets     `json:"regionalSets"`
}

// TitleCategory separates max-of-metric titles from boolean ones.
type TitleCategory string

const (
	TitleComparative TitleCategory = "comparative"
	TitleAchievement TitleCategory = "achievement"
)

// Title is a cross-player award. Exactly one of Metric and Achievement is set after loading.
type Title struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Category    TitleCategory `json:"-"`
	Condition   string        `json:"condition"`
	Points      int           `json:"points"`

	Metric      rules.Metric      `json:"-"`
	Achievement rules.Achievement `json:"-"`
}

// Titles is the titles table as stored on disk.
type Titles struct {
	Comparative []Title `json:"comparative"`
	Achievement []Title `json:"achievement"`
}

// All returns comparative titles followed by achievements, in table order.
func (t Titles) All() []Title {
	out := make([]Title, 0, len(t.Comparative)+len(t.Achievement))
	out = append(out, t.Comparative...)
	return append(out, t.Achievement...)
}
