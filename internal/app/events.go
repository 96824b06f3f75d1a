package app

import (
	"ramendo/internal/domain"
	"ramendo/internal/scoring"
)

// EventKind identifies emitted session events for transport dispatch.
type EventKind string

const (
	EventPhaseStarted       EventKind = "phase_started"
	EventCharacterSelected  EventKind = "character_selected"
	EventSelectionsRevealed EventKind = "selections_revealed"
	EventDraftRound         EventKind = "draft_round"
	EventDraftPicksRevealed EventKind = "draft_picks_revealed"
	EventPlacementSubmitted EventKind = "placement_submitted"
	EventGameResult         EventKind = "game_result"
	EventRoomAborted        EventKind = "room_aborted"
)

// Event is a session event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player IDs; empty means broadcast
}

// PhaseStartedPayload announces a phase. Only the fields relevant to the phase are set.
type PhaseStartedPayload struct {
	Phase      domain.Phase          `json:"phase"`
	TimeLimit  int                   `json:"time_limit"`
	Characters []string              `json:"characters,omitempty"`
	Customers  []scoring.CustomerRef `json:"customers,omitempty"`
	Options    []string              `json:"options,omitempty"`
	Rounds     int                   `json:"rounds,omitempty"`
}

type CharacterSelectedPayload struct {
	PlayerID    string   `json:"player_id"`
	CharacterID string   `json:"character_id"`
	Available   []string `json:"available"`
}

// SelectionsRevealedPayload maps player ID to the value chosen in Phase.
type SelectionsRevealedPayload struct {
	Phase      domain.Phase      `json:"phase"`
	Selections map[string]string `json:"selections"`
}

// DraftRoundPayload is sent privately with the hand a player drafts from.
type DraftRoundPayload struct {
	Round     int      `json:"round"`
	Rounds    int      `json:"rounds"`
	Hand      []string `json:"hand"`
	TimeLimit int      `json:"time_limit"`
}

type DraftPicksRevealedPayload struct {
	Round int               `json:"round"`
	Picks map[string]string `json:"picks"`
}

type PlacementSubmittedPayload struct {
	PlayerID  string `json:"player_id"`
	Submitted int    `json:"submitted"`
	Total     int    `json:"total"`
}

type GameResultPayload struct {
	scoring.RoomResult
}

type RoomAbortedPayload struct {
	Reason string `json:"reason"`
}
