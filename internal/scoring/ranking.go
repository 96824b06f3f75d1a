package scoring

import "sort"

// FinalScore is a player's place after titles are added.
type FinalScore struct {
	PlayerID   string   `json:"player_id"`
	Name       string   `json:"name"`
	BaseTotal  int      `json:"base_total"`
	TitleBonus int      `json:"title_bonus"`
	FinalScore int      `json:"final_score"`
	Rank       int      `json:"rank"`
	Titles     []string `json:"titles"`
}

// Rank adds title points to each base total and orders players by final score,
// highest first. Ties keep their input order. Ranks are 1-based positions.
func Rank(entries []Entry, titles []AwardedTitle) []FinalScore {
	scores := make([]FinalScore, len(entries))
	for i, en := range entries {
		scores[i] = FinalScore{
			PlayerID:  en.State.PlayerID,
			Name:      en.State.Name,
			BaseTotal: en.Result.BaseTotal,
			Titles:    []string{},
		}
		for _, t := range titles {
			for _, w := range t.Winners {
				if w == en.State.PlayerID {
					scores[i].TitleBonus += t.Points
					scores[i].Titles = append(scores[i].Titles, t.TitleID)
				}
			}
		}
		scores[i].FinalScore = scores[i].BaseTotal + scores[i].TitleBonus
	}
	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].FinalScore > scores[b].FinalScore
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}
	return scores
}
