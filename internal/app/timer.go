package app

import "time"

// TimerKind tells a session what a fired timer was waiting for.
type TimerKind string

const (
	// TimerPhase is the timeout of the current phase.
	TimerPhase TimerKind = "phase"
	// TimerDraftDeal paces the next draft round after picks are revealed.
	TimerDraftDeal TimerKind = "draft_deal"
)

// PhaseTimer is the single pending timer of a room. Starting a timer replaces
// whatever was pending, so a room never has more than one.
type PhaseTimer struct {
	kind     TimerKind
	deadline time.Time
	active   bool
}

// Start schedules kind to fire at deadline, cancelling any pending timer.
func (t *PhaseTimer) Start(kind TimerKind, deadline time.Time) {
	t.kind = kind
	t.deadline = deadline
	t.active = true
}

// Cancel drops the pending timer, if any.
func (t *PhaseTimer) Cancel() {
	t.active = false
}

// Pending returns the scheduled timer.
func (t *PhaseTimer) Pending() (TimerKind, time.Time, bool) {
	return t.kind, t.deadline, t.active
}

// Due clears and returns the pending timer once now has reached its deadline.
func (t *PhaseTimer) Due(now time.Time) (TimerKind, bool) {
	if !t.active || now.Before(t.deadline) {
		return "", false
	}
	t.active = false
	return t.kind, true
}
