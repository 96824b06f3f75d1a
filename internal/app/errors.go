package app

import "errors"

// Rejected player actions. They leave the session unchanged and the
// transport drops them, since a late message racing a phase change is normal.
var (
	ErrWrongPhase       = errors.New("action not valid in current phase")
	ErrUnknownPlayer    = errors.New("player not found")
	ErrAlreadySelected  = errors.New("player already selected this phase")
	ErrUnavailable      = errors.New("option not available")
	ErrNotInHand        = errors.New("card not in hand")
	ErrAlreadyPicked    = errors.New("player already picked this round")
	ErrRoundDealing     = errors.New("next draft round not dealt yet")
	ErrInvalidGrid      = errors.New("grid uses cards the player did not draft")
	ErrAlreadySubmitted = errors.New("placement already submitted")
)

var (
	ErrTooFewPlayers  = errors.New("not enough players to start")
	ErrTooManyPlayers = errors.New("too many players for one room")
	ErrNotFinished    = errors.New("game has not finished")
)

var invalidActions = []error{
	ErrWrongPhase,
	ErrUnknownPlayer,
	ErrAlreadySelected,
	ErrUnavailable,
	ErrNotInHand,
	ErrAlreadyPicked,
	ErrRoundDealing,
	ErrInvalidGrid,
	ErrAlreadySubmitted,
}

// IsInvalidAction reports whether err is a rejected player action rather
// than a failure of the room.
func IsInvalidAction(err error) bool {
	for _, target := range invalidActions {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
