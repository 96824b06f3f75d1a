package scoring

import (
	"fmt"

	"ramendo/internal/catalog"
	"ramendo/internal/domain"
)

// PlayerScore is one player's bowl and breakdown in a room result.
type PlayerScore struct {
	Player domain.PlayerState `json:"player"`
	Score  Result             `json:"score"`
}

// CustomerRef names an active customer.
type CustomerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoomResult is the consolidated outcome of a game.
type RoomResult struct {
	Players   []PlayerScore  `json:"players"`
	Customers []CustomerRef  `json:"customers"`
	Titles    []AwardedTitle `json:"titles"`
	Rankings  []FinalScore   `json:"rankings"`
}

// ScoreRoom scores every player, awards titles once and ranks the table.
func (e *Engine) ScoreRoom(players []*domain.PlayerState, customerIDs []string) (RoomResult, error) {
	customers := make([]*catalog.Customer, 0, len(customerIDs))
	refs := make([]CustomerRef, 0, len(customerIDs))
	for _, id := range customerIDs {
		cu, ok := e.cat.Customer(id)
		if !ok {
			return RoomResult{}, &domain.ConfigError{Table: "customers", Key: id, Reason: "unknown active customer"}
		}
		customers = append(customers, cu)
		refs = append(refs, CustomerRef{ID: cu.ID, Name: cu.Name})
	}

	entries := make([]Entry, 0, len(players))
	for _, p := range players {
		character, ok := e.cat.Character(p.CharacterID)
		if !ok {
			return RoomResult{}, &domain.ConfigError{Table: "characters", Key: p.CharacterID, Reason: "unknown character for player " + p.PlayerID}
		}
		res, err := e.Calculate(p, character, customers, players)
		if err != nil {
			return RoomResult{}, fmt.Errorf("score player %s: %w", p.PlayerID, err)
		}
		entries = append(entries, Entry{State: p, Result: res})
	}

	titles := e.AwardTitles(entries)
	out := RoomResult{
		Players:   make([]PlayerScore, len(entries)),
		Customers: refs,
		Titles:    titles,
		Rankings:  Rank(entries, titles),
	}
	for i, en := range entries {
		out.Players[i] = PlayerScore{Player: *en.State, Score: en.Result}
	}
	return out, nil
}
