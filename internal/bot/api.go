package bot

import (
	"ramendo/internal/domain"
	"ramendo/internal/scoring"
)

// Level selects how an AI chef plays.
type Level string

const (
	// LevelRandom plays like the offline AI: random choices and a partly filled bowl.
	LevelRandom Level = "random"
	// LevelGreedy maximises the bowl score the engine would give right now.
	LevelGreedy Level = "greedy"
)

// View is what a bot knows when it decides: its own state, the active
// customers and the engine the room scores with.
type View struct {
	Engine    *scoring.Engine
	Self      domain.PlayerState
	Customers []string
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	ChooseCharacter(v View, available []string) string
	ChooseSoup(v View) string
	ChooseNoodle(v View) string
	ChoosePick(v View, hand []string) string
	Arrange(v View, picks []string) domain.Grid
}
