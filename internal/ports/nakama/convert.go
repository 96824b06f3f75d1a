package nakama

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"ramendo/internal/app"
	"ramendo/internal/domain"
	"ramendo/internal/lobby"
)

var eventOpCodes = map[app.EventKind]int64{
	app.EventPhaseStarted:       OpPhaseStarted,
	app.EventCharacterSelected:  OpCharacterSelected,
	app.EventSelectionsRevealed: OpSelectionsRevealed,
	app.EventDraftRound:         OpDraftRound,
	app.EventDraftPicksRevealed: OpDraftPicksRevealed,
	app.EventPlacementSubmitted: OpPlacementSubmitted,
	app.EventGameResult:         OpGameResult,
	app.EventRoomAborted:        OpRoomAborted,
}

// encodeEvent maps a session event to its op code and JSON body.
func encodeEvent(ev app.Event) (int64, []byte, error) {
	op, ok := eventOpCodes[ev.Kind]
	if !ok {
		return 0, nil, fmt.Errorf("no op code for event %s", ev.Kind)
	}
	data, err := json.Marshal(ev.Payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal %s: %w", ev.Kind, err)
	}
	return op, data, nil
}

type StartGameRequest struct {
	FillBots bool `json:"fill_bots"`
}

type SelectRequest struct {
	ID string `json:"id"`
}

type DraftPickRequest struct {
	IngredientID string `json:"ingredient_id"`
}

type PlacementRequest struct {
	Grid domain.Grid `json:"grid"`
}

// decodeRequest unmarshals a client message. An empty body leaves v zeroed.
func decodeRequest(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

type RosterPayload struct {
	Code       string        `json:"code"`
	HostID     string        `json:"host_id"`
	MaxPlayers int           `json:"max_players"`
	Members    []domain.Seat `json:"members"`
	Status     lobby.Status  `json:"status"`
}

func rosterPayload(room lobby.Room) RosterPayload {
	return RosterPayload{
		Code:       room.Code,
		HostID:     room.HostID,
		MaxPlayers: room.MaxPlayers,
		Members:    room.Members,
		Status:     room.Status,
	}
}

type HostChangedPayload struct {
	HostID string `json:"host_id"`
}

type RoomErrorPayload struct {
	Op      int64  `json:"op"`
	Message string `json:"message"`
}

// matchLabel renders the searchable match label.
func matchLabel(room lobby.Room, phase domain.Phase) (string, error) {
	label, err := structpb.NewStruct(map[string]interface{}{
		LabelKeyCode:       room.Code,
		LabelKeyOpenSeats:  room.MaxPlayers - len(room.Members),
		LabelKeyPhase:      string(phase),
		LabelKeyPlayers:    len(room.Members),
		LabelKeyMaxPlayers: room.MaxPlayers,
	})
	if err != nil {
		return "", err
	}
	data, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func encodeJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
