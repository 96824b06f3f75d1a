package nakama

import (
	"encoding/json"
	"testing"

	"ramendo/internal/app"
	"ramendo/internal/domain"
	"ramendo/internal/lobby"
)

func TestEncodeEvent(t *testing.T) {
	op, data, err := encodeEvent(app.Event{
		Kind:    app.EventRoomAborted,
		Payload: app.RoomAbortedPayload{Reason: "room empty"},
	})
	if err != nil {
		t.Fatalf("encodeEvent: %v", err)
	}
	if op != OpRoomAborted {
		t.Fatalf("op = %d, want %d", op, OpRoomAborted)
	}
	var payload app.RoomAbortedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Reason != "room empty" {
		t.Fatalf("reason = %q", payload.Reason)
	}

	if _, _, err := encodeEvent(app.Event{Kind: "mystery"}); err == nil {
		t.Fatal("expected error for unmapped event kind")
	}
}

func TestDecodeRequest(t *testing.T) {
	req := StartGameRequest{}
	if err := decodeRequest(nil, &req); err != nil || req.FillBots {
		t.Fatalf("empty body: %v %+v", err, req)
	}
	if err := decodeRequest([]byte(`{"fill_bots":true}`), &req); err != nil || !req.FillBots {
		t.Fatalf("fill_bots body: %v %+v", err, req)
	}
	if err := decodeRequest([]byte(`{`), &req); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestMatchLabel(t *testing.T) {
	room := lobby.Room{
		Code:       "MISO42",
		HostID:     "host",
		MaxPlayers: 4,
		Members:    []domain.Seat{{PlayerID: "host"}, {PlayerID: "guest"}, {PlayerID: "bot-1", Bot: true}},
	}
	label, err := matchLabel(room, domain.PhaseDraft)
	if err != nil {
		t.Fatalf("matchLabel: %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal([]byte(label), &got); err != nil {
		t.Fatalf("unmarshal label: %v", err)
	}
	want := map[string]interface{}{
		LabelKeyCode:       "MISO42",
		LabelKeyOpenSeats:  float64(1),
		LabelKeyPhase:      "draft",
		LabelKeyPlayers:    float64(3),
		LabelKeyMaxPlayers: float64(4),
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("label[%s] = %v, want %v", k, got[k], v)
		}
	}
}
