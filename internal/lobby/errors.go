package lobby

import (
	"errors"
	"fmt"
)

// Capacity rejection codes sent to a joining client.
const (
	ReasonRoomNotFound   = "room_not_found"
	ReasonRoomFull       = "room_full"
	ReasonGameInProgress = "game_in_progress"
)

// CapacityError rejects a join without touching the room.
type CapacityError struct {
	Code   string
	Reason string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

func capacityError(code, format string, args ...any) error {
	return &CapacityError{Code: code, Reason: fmt.Sprintf(format, args...)}
}

var (
	ErrNotHost          = errors.New("only the host can do that")
	ErrRosterIncomplete = errors.New("room is not full")
	ErrAlreadyInRoom    = errors.New("player is already in another room")
	ErrNotInRoom        = errors.New("player is not in this room")
	ErrInvalidSize      = errors.New("invalid room size")
	ErrCodeSpace        = errors.New("could not allocate a free room code")
)
