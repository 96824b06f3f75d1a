package bot

import (
	"fmt"
	"math/rand"
	"time"
)

// NewBrain creates a new AI brain based on the specified level. rng may be nil.
func NewBrain(level Level, rng *rand.Rand) (Brain, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	switch level {
	case LevelRandom:
		return &RandomBrain{rng: rng}, nil
	case LevelGreedy, "":
		return &GreedyBrain{rng: rng}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %s", level)
	}
}
