package scoring

import (
	"ramendo/internal/catalog"
	"ramendo/internal/domain"
)

// Entry pairs a player's final state with their layer one to three result.
type Entry struct {
	State  *domain.PlayerState
	Result Result
}

// AwardedTitle is a title with at least one winner.
type AwardedTitle struct {
	TitleID  string                `json:"title_id"`
	Name     string                `json:"name"`
	Category catalog.TitleCategory `json:"category"`
	Points   int                   `json:"points"`
	Winners  []string              `json:"winners"`
}

// record exposes a scored player to title conditions.
type record struct {
	*facts
	result *Result
}

func (r record) PlacedCount() int      { return len(r.placed) }
func (r record) ArtScore() int         { return r.result.Layer1.ArtScore }
func (r record) TasteScore() int       { return r.result.Layer1.TasteScore }
func (r record) PerfectCustomer() bool { return r.result.PerfectCustomer() }

// AwardTitles runs layer four once for the whole room. Comparative titles go to
// every player tied at a strictly positive maximum; achievements go to every
// player who meets them. Titles nobody wins are omitted.
func (e *Engine) AwardTitles(entries []Entry) []AwardedTitle {
	states := make([]*domain.PlayerState, len(entries))
	for i, en := range entries {
		states[i] = en.State
	}
	records := make([]record, len(entries))
	for i := range entries {
		records[i] = record{facts: newFacts(e.cat, entries[i].State, states), result: &entries[i].Result}
	}

	awarded := []AwardedTitle{}
	titles := e.cat.Titles()
	for _, t := range titles.Comparative {
		best := 0
		var winners []string
		for i, r := range records {
			v := t.Metric.Measure(r)
			switch {
			case i == 0 || v > best:
				best = v
				winners = []string{r.player.PlayerID}
			case v == best:
				winners = append(winners, r.player.PlayerID)
			}
		}
		if best > 0 && len(winners) > 0 {
			awarded = append(awarded, newAward(t, winners))
		}
	}
	for _, t := range titles.Achievement {
		var winners []string
		for _, r := range records {
			if t.Achievement.Achieved(r) {
				winners = append(winners, r.player.PlayerID)
			}
		}
		if len(winners) > 0 {
			awarded = append(awarded, newAward(t, winners))
		}
	}
	return awarded
}

func newAward(t catalog.Title, winners []string) AwardedTitle {
	return AwardedTitle{TitleID: t.ID, Name: t.Name, Category: t.Category, Points: t.Points, Winners: winners}
}
