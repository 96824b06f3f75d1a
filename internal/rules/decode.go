package rules

import (
	"encoding/json"
	"fmt"
)

type categoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Decode builds the condition variant for kind from its raw content-data value.
// Unknown kinds and ill-shaped values are errors so bad data fails at load time.
func Decode(kind Kind, raw json.RawMessage) (Condition, error) {
	switch kind {
	case KindSoupIs:
		id, err := decodeID(kind, raw)
		return SoupIs{Soup: id}, err
	case KindSoupIn:
		ids, err := decodeIDs(kind, raw)
		return SoupIn{Soups: ids}, err
	case KindNoodleIs:
		id, err := decodeID(kind, raw)
		return NoodleIs{Noodle: id}, err
	case KindHasIngredient:
		id, err := decodeID(kind, raw)
		return HasIngredient{Ingredient: id}, err
	case KindNotHasIngredient:
		id, err := decodeID(kind, raw)
		return NotHasIngredient{Ingredient: id}, err
	case KindHasBothIngredients:
		ids, err := decodeIDs(kind, raw)
		return HasBothIngredients{Ingredients: ids}, err
	case KindPlacedCountLTE:
		n, err := decodeCount(kind, raw)
		return PlacedCountLTE{Count: n}, err
	case KindPlacedCountEq:
		n, err := decodeCount(kind, raw)
		return PlacedCountEq{Count: n}, err
	case KindPlacedCountGTE:
		n, err := decodeCount(kind, raw)
		return PlacedCountGTE{Count: n}, err
	case KindSymmetricalBlanks:
		return SymmetricalBlanks{}, nil
	case KindColorCountGTE:
		n, err := decodeCount(kind, raw)
		return ColorCountGTE{Count: n}, err
	case KindCategoryCountGTE:
		var v categoryCount
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%s: value must be {category, count}: %w", kind, err)
		}
		if v.Category == "" || v.Count < 0 {
			return nil, fmt.Errorf("%s: value needs a category and a non-negative count", kind)
		}
		return CategoryCountGTE{Category: v.Category, Count: v.Count}, nil
	case KindAdjacencyPairsGTE:
		n, err := decodeCount(kind, raw)
		return AdjacencyPairsGTE{Count: n}, err
	case KindAdjacencyGoodPairsGTE:
		n, err := decodeCount(kind, raw)
		return AdjacencyGoodPairsGTE{Count: n}, err
	case KindAdjacencyBadPairsEq:
		n, err := decodeCount(kind, raw)
		return AdjacencyBadPairsEq{Count: n}, err
	case KindCenterIngredientIs:
		ids, err := decodeIDs(kind, raw)
		return CenterIngredientIs{Ingredients: ids}, err
	case KindHasBlanks:
		return HasBlanks{}, nil
	case KindUniqueIngredientsGTE:
		n, err := decodeCount(kind, raw)
		return UniqueIngredientsGTE{Count: n}, err
	case KindRegionalSetComplete:
		return RegionalSetComplete{}, nil
	case KindSoupNoodleMaxCompatibility:
		return SoupNoodleMaxCompatibility{}, nil
	}
	return nil, fmt.Errorf("unknown condition kind %q", kind)
}

// Value returns the content-data value of c, the inverse of Decode.
func Value(c Condition) any {
	switch v := c.(type) {
	case SoupIs:
		return v.Soup
	case SoupIn:
		return v.Soups
	case NoodleIs:
		return v.Noodle
	case HasIngredient:
		return v.Ingredient
	case NotHasIngredient:
		return v.Ingredient
	case HasBothIngredients:
		return v.Ingredients
	case PlacedCountLTE:
		return v.Count
	case PlacedCountEq:
		return v.Count
	case PlacedCountGTE:
		return v.Count
	case ColorCountGTE:
		return v.Count
	case CategoryCountGTE:
		return categoryCount{Category: v.Category, Count: v.Count}
	case AdjacencyPairsGTE:
		return v.Count
	case AdjacencyGoodPairsGTE:
		return v.Count
	case AdjacencyBadPairsEq:
		return v.Count
	case CenterIngredientIs:
		return v.Ingredients
	case UniqueIngredientsGTE:
		return v.Count
	}
	return true
}

// Refs lists the catalog ids a condition points at.
type Refs struct {
	Ingredients []string
	Soups       []string
	Noodles     []string
	Categories  []string
}

// References returns the catalog ids c depends on, for load-time validation.
func References(c Condition) Refs {
	switch v := c.(type) {
	case SoupIs:
		return Refs{Soups: []string{v.Soup}}
	case SoupIn:
		return Refs{Soups: v.Soups}
	case NoodleIs:
		return Refs{Noodles: []string{v.Noodle}}
	case HasIngredient:
		return Refs{Ingredients: []string{v.Ingredient}}
	case NotHasIngredient:
		return Refs{Ingredients: []string{v.Ingredient}}
	case HasBothIngredients:
		return Refs{Ingredients: v.Ingredients}
	case CenterIngredientIs:
		return Refs{Ingredients: v.Ingredients}
	case CategoryCountGTE:
		return Refs{Categories: []string{v.Category}}
	}
	return Refs{}
}

func decodeID(kind Kind, raw json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", fmt.Errorf("%s: value must be an id: %w", kind, err)
	}
	if id == "" {
		return "", fmt.Errorf("%s: value must be a non-empty id", kind)
	}
	return id, nil
}

func decodeIDs(kind Kind, raw json.RawMessage) ([]string, error) {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("%s: value must be a list of ids: %w", kind, err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s: value must list at least one id", kind)
	}
	for _, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%s: empty id in list", kind)
		}
	}
	return ids, nil
}

func decodeCount(kind Kind, raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("%s: value must be an integer: %w", kind, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: value must be non-negative, got %d", kind, n)
	}
	return n, nil
}
