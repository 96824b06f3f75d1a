package bot

import (
	"math/rand"

	"ramendo/internal/domain"
)

// RandomBrain picks uniformly among the legal options.
type RandomBrain struct {
	rng *rand.Rand
}

func (b *RandomBrain) pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[b.rng.Intn(len(options))]
}

func (b *RandomBrain) ChooseCharacter(_ View, available []string) string {
	return b.pick(available)
}

func (b *RandomBrain) ChooseSoup(v View) string {
	return b.pick(v.Engine.Catalog().SoupIDs())
}

func (b *RandomBrain) ChooseNoodle(v View) string {
	return b.pick(v.Engine.Catalog().NoodleIDs())
}

func (b *RandomBrain) ChoosePick(_ View, hand []string) string {
	return b.pick(hand)
}

// Arrange drops a random subset of picks into random cells.
func (b *RandomBrain) Arrange(_ View, picks []string) domain.Grid {
	var grid domain.Grid
	n := len(picks)
	if n > maxRandomPlacements {
		n = maxRandomPlacements
	}
	if n > minRandomPlacements {
		n = minRandomPlacements + b.rng.Intn(n-minRandomPlacements+1)
	}
	cards := domain.Shuffle(b.rng, picks)
	cells := b.rng.Perm(domain.GridSize * domain.GridSize)
	for i := 0; i < n; i++ {
		grid[cells[i]/domain.GridSize][cells[i]%domain.GridSize] = cards[i]
	}
	return grid
}
