package bot

import (
	"math/rand"

	"ramendo/internal/catalog"
	"ramendo/internal/domain"
)

// GreedyBrain scores every candidate with the room's engine and keeps the
// best one. Ties go to the first candidate in catalog or hand order.
type GreedyBrain struct {
	rng *rand.Rand
}

// ChooseCharacter has nothing to score yet, so it picks at random.
func (b *GreedyBrain) ChooseCharacter(_ View, available []string) string {
	if len(available) == 0 {
		return ""
	}
	return available[b.rng.Intn(len(available))]
}

func (b *GreedyBrain) ChooseSoup(v View) string {
	cat := v.Engine.Catalog()
	best, bestScore := "", unscorable-1
	for _, soup := range cat.SoupIDs() {
		for _, noodle := range cat.NoodleIDs() {
			self := v.Self
			self.Soup, self.Noodle = soup, noodle
			if s := score(v, self); s > bestScore {
				best, bestScore = soup, s
			}
		}
	}
	return best
}

func (b *GreedyBrain) ChooseNoodle(v View) string {
	best, bestScore := "", unscorable-1
	for _, noodle := range v.Engine.Catalog().NoodleIDs() {
		self := v.Self
		self.Noodle = noodle
		if s := score(v, self); s > bestScore {
			best, bestScore = noodle, s
		}
	}
	return best
}

// ChoosePick takes the card that makes the best bowl out of the picks so far.
func (b *GreedyBrain) ChoosePick(v View, hand []string) string {
	best, bestScore := "", unscorable-1
	tried := map[string]bool{}
	for _, card := range hand {
		if tried[card] {
			continue
		}
		tried[card] = true
		picks := append(append([]string(nil), v.Self.Picks...), card)
		self := v.Self
		self.Grid = b.Arrange(v, picks)
		if s := score(v, self); s > bestScore {
			best, bestScore = card, s
		}
	}
	return best
}

// Arrange places cards one at a time where they raise the score most and
// stops when no placement helps.
func (b *GreedyBrain) Arrange(v View, picks []string) domain.Grid {
	self := v.Self
	self.Grid = domain.Grid{}
	remaining := append([]string(nil), picks...)
	current := score(v, self)

	for len(remaining) > 0 {
		bestCard, bestScore := -1, current
		var bestCell [2]int
		for i, card := range remaining {
			if i > 0 && card == remaining[i-1] {
				continue
			}
			for y := 0; y < domain.GridSize; y++ {
				for x := 0; x < domain.GridSize; x++ {
					if self.Grid[y][x] != "" {
						continue
					}
					self.Grid[y][x] = card
					if s := score(v, self); s > bestScore {
						bestCard, bestScore, bestCell = i, s, [2]int{y, x}
					}
					self.Grid[y][x] = ""
				}
			}
		}
		if bestCard < 0 {
			break
		}
		self.Grid[bestCell[0]][bestCell[1]] = remaining[bestCard]
		remaining = append(remaining[:bestCard:bestCard], remaining[bestCard+1:]...)
		current = bestScore
	}
	return self.Grid
}

// score is the solo preview of a bowl: every layer the engine can compute
// without the other players.
func score(v View, self domain.PlayerState) int {
	cat := v.Engine.Catalog()
	if self.Soup == "" || self.Noodle == "" {
		return unscorable
	}
	character, ok := cat.Character(self.CharacterID)
	if !ok {
		character = &catalog.Character{ID: self.CharacterID}
	}
	customers := make([]*catalog.Customer, 0, len(v.Customers))
	for _, id := range v.Customers {
		if cu, ok := cat.Customer(id); ok {
			customers = append(customers, cu)
		}
	}
	res, err := v.Engine.Calculate(&self, character, customers, nil)
	if err != nil {
		return unscorable
	}
	return res.BaseTotal
}
