// Package scoring is the one scoring engine used by the authoritative server,
// client previews and local games.
package scoring

import (
	"ramendo/internal/catalog"
	"ramendo/internal/domain"
	"ramendo/internal/rules"
)

// facts answers condition questions about one player. others is nil when the
// evaluation runs without the rest of the room, as in a client preview.
type facts struct {
	cat    *catalog.Catalog
	player *domain.PlayerState
	others []*domain.PlayerState
	room   bool
	placed []string
}

var _ rules.Facts = (*facts)(nil)

func newFacts(cat *catalog.Catalog, player *domain.PlayerState, all []*domain.PlayerState) *facts {
	f := &facts{cat: cat, player: player, room: all != nil, placed: player.Grid.PlacedIngredients()}
	for _, other := range all {
		if other.PlayerID != player.PlayerID {
			f.others = append(f.others, other)
		}
	}
	return f
}

func (f *facts) Soup() string     { return f.player.Soup }
func (f *facts) Noodle() string   { return f.player.Noodle }
func (f *facts) Placed() []string { return f.placed }
func (f *facts) Center() string   { return f.player.Grid.Center() }

func (f *facts) ColorCount() int {
	colors := make(map[catalog.ColorTag]struct{})
	for _, id := range f.placed {
		if ing, ok := f.cat.Ingredient(id); ok {
			colors[ing.ColorTag] = struct{}{}
		}
	}
	return len(colors)
}

func (f *facts) CategoryCount(category string) int {
	n := 0
	for _, id := range f.placed {
		if ing, ok := f.cat.Ingredient(id); ok && string(ing.Category) == category {
			n++
		}
	}
	return n
}

func (f *facts) GoodPairs() int {
	return CountPairs(f.player.Grid, f.cat.Scoring().AdjacencyGoodPairs.Pairs)
}

func (f *facts) BadPairs() int {
	return CountPairs(f.player.Grid, f.cat.Scoring().AdjacencyBadPairs.Pairs)
}

func (f *facts) Symmetric() bool {
	return CheckSymmetry(f.player.Grid, f.cat.Scoring().SymmetryCheck.Pairs)
}

func (f *facts) RegionalSet() (string, bool) {
	return CheckRegionalSet(f.cat.Scoring().RegionalSets.Sets, f.player)
}

func (f *facts) UniqueIngredients() (int, bool) {
	if !f.room {
		return 0, false
	}
	seen := make(map[string]struct{})
	for _, other := range f.others {
		for _, id := range other.Grid.PlacedIngredients() {
			seen[id] = struct{}{}
		}
	}
	n := 0
	for _, id := range f.placed {
		if _, ok := seen[id]; !ok {
			n++
		}
	}
	return n, true
}

func (f *facts) MaxCompatibility() bool {
	v, ok := f.cat.Compatibility(f.player.Soup, f.player.Noodle)
	return ok && v == f.cat.Scoring().SoupNoodleCompatibility.MaxPoints
}

// Evaluate reports whether cond holds for player. all may be nil outside a room.
func Evaluate(cat *catalog.Catalog, cond rules.Condition, player *domain.PlayerState, all []*domain.PlayerState) bool {
	return cond.Holds(newFacts(cat, player, all))
}

// CountPairs counts every (adjacency, configured pair) match. One adjacency
// matching several configured pairs counts once per match.
func CountPairs(grid domain.Grid, configured []domain.Pair) int {
	n := 0
	for _, adj := range grid.AdjacentPairs() {
		for _, p := range configured {
			if p.Matches(adj[0], adj[1]) {
				n++
			}
		}
	}
	return n
}

// CheckSymmetry requires each configured cell pair to be both empty or both
// occupied, and at least one pair to be empty.
func CheckSymmetry(grid domain.Grid, pairs [][2]domain.Coord) bool {
	blank := false
	for _, p := range pairs {
		leftEmpty := grid.At(p[0]) == ""
		rightEmpty := grid.At(p[1]) == ""
		if leftEmpty != rightEmpty {
			return false
		}
		if leftEmpty {
			blank = true
		}
	}
	return blank
}

// CheckRegionalSet returns the first set whose soup and noodle match and whose
// pool has at least the minimum number of its ids placed.
func CheckRegionalSet(sets []catalog.RegionalSet, player *domain.PlayerState) (string, bool) {
	placed := player.Grid.PlacedIngredients()
	for _, set := range sets {
		if player.Soup != set.RequiredSoup || player.Noodle != set.RequiredNoodle {
			continue
		}
		matched := 0
		for _, id := range set.IngredientPool {
			if domain.ContainsCard(placed, id) {
				matched++
			}
		}
		if matched >= set.MinIngredients {
			return set.ID, true
		}
	}
	return "", false
}
