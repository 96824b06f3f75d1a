// Package rules holds the closed condition vocabulary used by character and
// customer bonus rules and by title awards.
package rules

// Kind names a BonusRule condition as it appears in content data.
type Kind string

const (
	KindSoupIs                     Kind = "soup_is"
	KindSoupIn                     Kind = "soup_in"
	KindNoodleIs                   Kind = "noodle_is"
	KindHasIngredient              Kind = "has_ingredient"
	KindNotHasIngredient           Kind = "not_has_ingredient"
	KindHasBothIngredients         Kind = "has_both_ingredients"
	KindPlacedCountLTE             Kind = "placed_count_lte"
	KindPlacedCountEq              Kind = "placed_count_eq"
	KindPlacedCountGTE             Kind = "placed_count_gte"
	KindSymmetricalBlanks          Kind = "symmetrical_blanks"
	KindColorCountGTE              Kind = "color_count_gte"
	KindCategoryCountGTE           Kind = "category_count_gte"
	KindAdjacencyPairsGTE          Kind = "adjacency_pairs_gte"
	KindAdjacencyGoodPairsGTE      Kind = "adjacency_good_pairs_gte"
	KindAdjacencyBadPairsEq        Kind = "adjacency_bad_pairs_eq"
	KindCenterIngredientIs         Kind = "center_ingredient_is"
	KindHasBlanks                  Kind = "has_blanks"
	KindUniqueIngredientsGTE       Kind = "unique_ingredients_gte"
	KindRegionalSetComplete        Kind = "regional_set_complete"
	KindSoupNoodleMaxCompatibility Kind = "soup_noodle_max_compatibility"
)

// Facts is the read-only view of one player's bowl that conditions inspect.
type Facts interface {
	Soup() string
	Noodle() string
	Placed() []string
	Center() string
	ColorCount() int
	CategoryCount(category string) int
	// GoodPairs and BadPairs count adjacency matches against the configured pair lists.
	GoodPairs() int
	BadPairs() int
	// Symmetric reports the catalog symmetry check, which needs at least one blank pair.
	Symmetric() bool
	RegionalSet() (string, bool)
	// UniqueIngredients counts placed ids no other player placed. ok is false without room context.
	UniqueIngredients() (n int, ok bool)
	MaxCompatibility() bool
}

// Condition is one variant of the closed condition vocabulary.
type Condition interface {
	Kind() Kind
	Holds(f Facts) bool
}

type (
	SoupIs                     struct{ Soup string }
	SoupIn                     struct{ Soups []string }
	NoodleIs                   struct{ Noodle string }
	HasIngredient              struct{ Ingredient string }
	NotHasIngredient           struct{ Ingredient string }
	HasBothIngredients         struct{ Ingredients []string }
	PlacedCountLTE             struct{ Count int }
	PlacedCountEq              struct{ Count int }
	PlacedCountGTE             struct{ Count int }
	SymmetricalBlanks          struct{}
	ColorCountGTE              struct{ Count int }
	AdjacencyPairsGTE          struct{ Count int }
	AdjacencyGoodPairsGTE      struct{ Count int }
	AdjacencyBadPairsEq        struct{ Count int }
	CenterIngredientIs         struct{ Ingredients []string }
	HasBlanks                  struct{}
	UniqueIngredientsGTE       struct{ Count int }
	RegionalSetComplete        struct{}
	SoupNoodleMaxCompatibility struct{}
)

type CategoryCountGTE struct {
	Category string
	Count    int
}

func (SoupIs) Kind() Kind                     { return KindSoupIs }
func (SoupIn) Kind() Kind                     { return KindSoupIn }
func (NoodleIs) Kind() Kind                   { return KindNoodleIs }
func (HasIngredient) Kind() Kind              { return KindHasIngredient }
func (NotHasIngredient) Kind() Kind           { return KindNotHasIngredient }
func (HasBothIngredients) Kind() Kind         { return KindHasBothIngredients }
func (PlacedCountLTE) Kind() Kind             { return KindPlacedCountLTE }
func (PlacedCountEq) Kind() Kind              { return KindPlacedCountEq }
func (PlacedCountGTE) Kind() Kind             { return KindPlacedCountGTE }
func (SymmetricalBlanks) Kind() Kind          { return KindSymmetricalBlanks }
func (ColorCountGTE) Kind() Kind              { return KindColorCountGTE }
func (CategoryCountGTE) Kind() Kind           { return KindCategoryCountGTE }
func (AdjacencyPairsGTE) Kind() Kind          { return KindAdjacencyPairsGTE }
func (AdjacencyGoodPairsGTE) Kind() Kind      { return KindAdjacencyGoodPairsGTE }
func (AdjacencyBadPairsEq) Kind() Kind        { return KindAdjacencyBadPairsEq }
func (CenterIngredientIs) Kind() Kind         { return KindCenterIngredientIs }
func (HasBlanks) Kind() Kind                  { return KindHasBlanks }
func (UniqueIngredientsGTE) Kind() Kind       { return KindUniqueIngredientsGTE }
func (RegionalSetComplete) Kind() Kind        { return KindRegionalSetComplete }
func (SoupNoodleMaxCompatibility) Kind() Kind { return KindSoupNoodleMaxCompatibility }

func (c SoupIs) Holds(f Facts) bool { return f.Soup() == c.Soup }

func (c SoupIn) Holds(f Facts) bool {
	for _, s := range c.Soups {
		if f.Soup() == s {
			return true
		}
	}
	return false
}

func (c NoodleIs) Holds(f Facts) bool { return f.Noodle() == c.Noodle }

func (c HasIngredient) Holds(f Facts) bool { return contains(f.Placed(), c.Ingredient) }

func (c NotHasIngredient) Holds(f Facts) bool { return !contains(f.Placed(), c.Ingredient) }

func (c HasBothIngredients) Holds(f Facts) bool {
	placed := f.Placed()
	for _, id := range c.Ingredients {
		if !contains(placed, id) {
			return false
		}
	}
	return true
}

func (c PlacedCountLTE) Holds(f Facts) bool { return len(f.Placed()) <= c.Count }

func (c PlacedCountEq) Holds(f Facts) bool { return len(f.Placed()) == c.Count }

func (c PlacedCountGTE) Holds(f Facts) bool { return len(f.Placed()) >= c.Count }

func (SymmetricalBlanks) Holds(f Facts) bool { return f.Symmetric() }

func (c ColorCountGTE) Holds(f Facts) bool { return f.ColorCount() >= c.Count }

func (c CategoryCountGTE) Holds(f Facts) bool { return f.CategoryCount(c.Category) >= c.Count }

// AdjacencyPairsGTE counts good-pair matches, like AdjacencyGoodPairsGTE.
func (c AdjacencyPairsGTE) Holds(f Facts) bool { return f.GoodPairs() >= c.Count }

func (c AdjacencyGoodPairsGTE) Holds(f Facts) bool { return f.GoodPairs() >= c.Count }

func (c AdjacencyBadPairsEq) Holds(f Facts) bool { return f.BadPairs() == c.Count }

func (c CenterIngredientIs) Holds(f Facts) bool {
	center := f.Center()
	return center != "" && contains(c.Ingredients, center)
}

func (HasBlanks) Holds(f Facts) bool { return len(f.Placed()) < 9 }

func (c UniqueIngredientsGTE) Holds(f Facts) bool {
	n, ok := f.UniqueIngredients()
	return ok && n >= c.Count
}

func (RegionalSetComplete) Holds(f Facts) bool {
	_, ok := f.RegionalSet()
	return ok
}

func (SoupNoodleMaxCompatibility) Holds(f Facts) bool { return f.MaxCompatibility() }

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
