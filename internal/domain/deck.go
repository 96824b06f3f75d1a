package domain

import (
	"fmt"
	"math/rand"
)

// CardCount is how many copies of an ingredient card exist in the pool.
type CardCount struct {
	IngredientID string
	Count        int
}

// Deal is the outcome of dealing the pool to a table.
type Deal struct {
	Hands    [][]string
	Excluded []string
}

// GeneratePool expands every ingredient into its configured number of copies, in catalog order.
func GeneratePool(counts []CardCount) []string {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	pool := make([]string, 0, total)
	for _, c := range counts {
		for i := 0; i < c.Count; i++ {
			pool = append(pool, c.IngredientID)
		}
	}
	return pool
}

// Shuffle returns a uniformly permuted copy of cards.
func Shuffle(rng *rand.Rand, cards []string) []string {
	out := make([]string, len(cards))
	copy(out, cards)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// DealHands shuffles the pool and gives each player a hand sized for the table.
// Cards left over after the deal are excluded from play.
func DealHands(rng *rand.Rand, playerCount int, counts []CardCount, handSizes map[int]int) (Deal, error) {
	size, ok := handSizes[playerCount]
	if !ok || size <= 0 {
		return Deal{}, &ConfigError{Table: "config", Key: "hand_sizes", Reason: fmt.Sprintf("no hand size for %d players", playerCount)}
	}
	pool := Shuffle(rng, GeneratePool(counts))
	if size*playerCount > len(pool) {
		return Deal{}, &ConfigError{
			Table:  "ingredients",
			Key:    "cardCount",
			Reason: fmt.Sprintf("pool of %d cards cannot deal %d hands of %d", len(pool), playerCount, size),
		}
	}

	hands := make([][]string, playerCount)
	for i := range hands {
		hands[i] = append([]string(nil), pool[i*size:(i+1)*size]...)
	}
	return Deal{
		Hands:    hands,
		Excluded: append([]string(nil), pool[playerCount*size:]...),
	}, nil
}
