package domain

// Phase represents the lifecycle stage of a ramen room.
type Phase string

const (
	// PhaseWaiting is the pre-game state where players can join.
	PhaseWaiting Phase = "waiting"
	// PhaseCharSelect is where each player claims a distinct character.
	PhaseCharSelect Phase = "char_select"
	// PhaseSoupSelect is where each player picks a soup base.
	PhaseSoupSelect Phase = "soup_select"
	// PhaseNoodleSelect is where each player picks a noodle type.
	PhaseNoodleSelect Phase = "noodle_select"
	// PhaseDraft is the card-passing ingredient draft.
	PhaseDraft Phase = "draft"
	// PhasePlacement is where players arrange drafted cards on their bowl.
	PhasePlacement Phase = "placement"
	// PhaseScoring, PhaseCeremony and PhaseResult are resolved in one synchronous step.
	PhaseScoring  Phase = "scoring"
	PhaseCeremony Phase = "ceremony"
	PhaseResult   Phase = "result"
	// PhaseAborted marks a room that hit an unrecoverable inconsistency.
	PhaseAborted Phase = "aborted"
)

// GamePhases lists the in-game phases in the order a session walks them.
var GamePhases = []Phase{
	PhaseCharSelect,
	PhaseSoupSelect,
	PhaseNoodleSelect,
	PhaseDraft,
	PhasePlacement,
	PhaseScoring,
	PhaseCeremony,
	PhaseResult,
}

// Next returns the phase following p, or p itself when p is terminal.
func (p Phase) Next() Phase {
	for i, phase := range GamePhases {
		if phase == p && i+1 < len(GamePhases) {
			return GamePhases[i+1]
		}
	}
	return p
}

// Timed reports whether the phase runs under a timeout.
func (p Phase) Timed() bool {
	switch p {
	case PhaseCharSelect, PhaseSoupSelect, PhaseNoodleSelect, PhaseDraft, PhasePlacement:
		return true
	}
	return false
}

// Seat is one entry of a room roster in seat order.
type Seat struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Bot      bool   `json:"bot,omitempty"`
}

// PlayerState accumulates everything a player decides over one game.
// The grid is final once placement ends and is never mutated after scoring begins.
type PlayerState struct {
	PlayerID    string   `json:"player_id"`
	Name        string   `json:"name"`
	CharacterID string   `json:"character_id"`
	Soup        string   `json:"soup"`
	Noodle      string   `json:"noodle"`
	Grid        Grid     `json:"grid"`
	Picks       []string `json:"picks"`
}

// NewPlayerState returns an empty state for a seated player.
func NewPlayerState(seat Seat) *PlayerState {
	return &PlayerState{PlayerID: seat.PlayerID, Name: seat.Name}
}
