package scoring

import (
	"fmt"

	"ramendo/internal/catalog"
	"ramendo/internal/domain"
)

// Engine scores bowls against one catalog snapshot. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	cat *catalog.Catalog
}

// NewEngine returns an engine bound to cat.
func NewEngine(cat *catalog.Catalog) *Engine {
	return &Engine{cat: cat}
}

// Catalog returns the snapshot the engine scores with.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// Layer1 is the base layout score. ArtScore and TasteScore only feed comparative titles.
type Layer1 struct {
	SoupNoodle       int `json:"soup_noodle"`
	ColorBonus       int `json:"color_bonus"`
	AdjacencyGood    int `json:"adjacency_good"`
	AdjacencyBad     int `json:"adjacency_bad"`
	CenterBonus      int `json:"center_bonus"`
	DuplicatePenalty int `json:"duplicate_penalty"`
	Subtotal         int `json:"subtotal"`
	ArtScore         int `json:"art_score"`
	TasteScore       int `json:"taste_score"`
}

// Award is one satisfied bonus rule.
type Award struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

type Layer2 struct {
	CharacterID string  `json:"character_id"`
	Bonuses     []Award `json:"bonuses"`
	Subtotal    int     `json:"subtotal"`
}

// CustomerScore is one active customer's verdict. RuleCount is the number of
// rules the customer has configured, awarded or not.
type CustomerScore struct {
	CustomerID string  `json:"customer_id"`
	Name       string  `json:"name"`
	Bonuses    []Award `json:"bonuses"`
	Subtotal   int     `json:"subtotal"`
	RuleCount  int     `json:"rule_count"`
}

type Layer3 struct {
	Customers []CustomerScore `json:"customers"`
	Subtotal  int             `json:"subtotal"`
}

// Result is one player's score for layers one to three.
type Result struct {
	PlayerID  string `json:"player_id"`
	Layer1    Layer1 `json:"layer1"`
	Layer2    Layer2 `json:"layer2"`
	Layer3    Layer3 `json:"layer3"`
	BaseTotal int    `json:"base_total"`
}

// PerfectCustomer reports whether some customer awarded all of its rules.
// A customer without rules never qualifies.
func (r Result) PerfectCustomer() bool {
	for _, c := range r.Layer3.Customers {
		if c.RuleCount > 0 && len(c.Bonuses) == c.RuleCount {
			return true
		}
	}
	return false
}

// Calculate scores one player. all is every player in the room, or nil for a
// solo preview, in which case unique-ingredient rules are unmet.
// Ids the catalog does not know are reported as a ConfigError.
func (e *Engine) Calculate(player *domain.PlayerState, character *catalog.Character, customers []*catalog.Customer, all []*domain.PlayerState) (Result, error) {
	if err := e.checkPlayer(player); err != nil {
		return Result{}, err
	}
	if character == nil {
		return Result{}, &domain.ConfigError{Table: "characters", Key: player.CharacterID, Reason: "character missing for player " + player.PlayerID}
	}

	f := newFacts(e.cat, player, all)
	res := Result{
		PlayerID: player.PlayerID,
		Layer1:   e.layer1(f),
		Layer2:   Layer2{CharacterID: character.ID, Bonuses: []Award{}},
		Layer3:   Layer3{Customers: make([]CustomerScore, 0, len(customers))},
	}

	for _, rule := range character.Bonuses {
		if rule.Condition.Holds(f) {
			res.Layer2.Bonuses = append(res.Layer2.Bonuses, Award{Label: rule.Label, Points: rule.Points})
			res.Layer2.Subtotal += rule.Points
		}
	}

	for _, cu := range customers {
		if cu == nil {
			return Result{}, &domain.ConfigError{Table: "customers", Reason: "nil active customer"}
		}
		score := CustomerScore{CustomerID: cu.ID, Name: cu.Name, Bonuses: []Award{}, RuleCount: len(cu.Bonuses)}
		for _, rule := range cu.Bonuses {
			if rule.Condition.Holds(f) {
				score.Bonuses = append(score.Bonuses, Award{Label: rule.Label, Points: rule.Points})
				score.Subtotal += rule.Points
			}
		}
		res.Layer3.Customers = append(res.Layer3.Customers, score)
		res.Layer3.Subtotal += score.Subtotal
	}

	res.BaseTotal = res.Layer1.Subtotal + res.Layer2.Subtotal + res.Layer3.Subtotal
	return res, nil
}

func (e *Engine) checkPlayer(player *domain.PlayerState) error {
	if player == nil {
		return fmt.Errorf("nil player state")
	}
	if _, ok := e.cat.Compatibility(player.Soup, player.Noodle); !ok {
		return &domain.ConfigError{
			Table:  "scoring",
			Key:    "soupNoodleCompatibility",
			Reason: fmt.Sprintf("no score for soup %q and noodle %q of player %s", player.Soup, player.Noodle, player.PlayerID),
		}
	}
	for _, id := range player.Grid.PlacedIngredients() {
		if _, ok := e.cat.Ingredient(id); !ok {
			return &domain.ConfigError{Table: "ingredients", Key: id, Reason: "unknown ingredient in grid of player " + player.PlayerID}
		}
	}
	return nil
}

func (e *Engine) layer1(f *facts) Layer1 {
	sc := e.cat.Scoring()
	var l Layer1
	l.SoupNoodle, _ = e.cat.Compatibility(f.Soup(), f.Noodle())
	l.ColorBonus = sc.ColorBonus.Table[f.ColorCount()]
	l.AdjacencyGood = f.GoodPairs() * sc.AdjacencyGoodPairs.PointsPerPair
	l.AdjacencyBad = f.BadPairs() * sc.AdjacencyBadPairs.PointsPerPair
	if f.Center() != "" {
		l.CenterBonus = sc.CenterBonus.Points
	}
	for _, n := range domain.CountCards(f.Placed()) {
		if n > 1 {
			l.DuplicatePenalty += (n - 1) * sc.DuplicatePenalty.PointsPerDuplicate
		}
	}
	l.Subtotal = l.SoupNoodle + l.ColorBonus + l.AdjacencyGood + l.AdjacencyBad + l.CenterBonus + l.DuplicatePenalty
	l.ArtScore = l.ColorBonus + l.CenterBonus
	l.TasteScore = l.SoupNoodle + l.AdjacencyGood + l.AdjacencyBad
	return l
}
