package nakama

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"ramendo/internal/bot"
	"ramendo/internal/catalog"
	"ramendo/internal/config"
	"ramendo/internal/domain"
	"ramendo/internal/lobby"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode    int64
	data      []byte
	presences []runtime.Presence
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	sent         []sentMessage
	labelUpdates int
	lastLabel    string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.sent = append(md.sent, sentMessage{opCode: opCode, data: append([]byte(nil), data...), presences: presences})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	md.lastLabel = label
	return nil
}

func (md *mockDispatcher) count(op int64) int {
	n := 0
	for _, m := range md.sent {
		if m.opCode == op {
			n++
		}
	}
	return n
}

func (md *mockDispatcher) last(op int64) (sentMessage, bool) {
	for i := len(md.sent) - 1; i >= 0; i-- {
		if md.sent[i].opCode == op {
			return md.sent[i], true
		}
	}
	return sentMessage{}, false
}

type mockPresence struct {
	userID string
}

func (p *mockPresence) GetHidden() bool                   { return false }
func (p *mockPresence) GetPersistence() bool              { return false }
func (p *mockPresence) GetUsername() string               { return p.userID }
func (p *mockPresence) GetStatus() string                 { return "" }
func (p *mockPresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonUnknown }
func (p *mockPresence) GetUserId() string                 { return p.userID }
func (p *mockPresence) GetSessionId() string              { return "session-" + p.userID }
func (p *mockPresence) GetNodeId() string                 { return "node-1" }

type mockMatchData struct {
	mockPresence
	opCode int64
	data   []byte
}

func (d *mockMatchData) GetOpCode() int64      { return d.opCode }
func (d *mockMatchData) GetData() []byte       { return d.data }
func (d *mockMatchData) GetReliable() bool     { return true }
func (d *mockMatchData) GetReceiveTime() int64 { return 0 }

func message(t *testing.T, userID string, op int64, payload any) runtime.MatchData {
	t.Helper()
	var data []byte
	if payload != nil {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}
	return &mockMatchData{mockPresence: mockPresence{userID: userID}, opCode: op, data: data}
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var testBots = []bot.Identity{
	{UserID: "bot-miso", DisplayName: "Miso Bot", Level: bot.LevelRandom},
	{UserID: "bot-shoyu", DisplayName: "Shoyu Bot", Level: bot.LevelRandom},
	{UserID: "bot-tonkotsu", DisplayName: "Tonkotsu Bot", Level: bot.LevelRandom},
}

func newTestModule(t *testing.T) (*Module, *testClock) {
	t.Helper()
	cfg := config.Default()
	cfg.Bots.MinDelay = 0
	cfg.Bots.MaxDelay = 0
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	m, err := NewModule(cfg, cat, bot.NewPool(testBots), rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("NewModule: %v", err)
	}
	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	m.now = clock.Now
	return m, clock
}

type testRoom struct {
	mh    *matchHandler
	state *MatchState
	disp  *mockDispatcher
}

func (r *testRoom) join(t *testing.T, userID string) {
	t.Helper()
	p := &mockPresence{userID: userID}
	_, ok, reason := r.mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, r.disp, 0, r.state, p, nil)
	if !ok {
		t.Fatalf("join attempt for %s rejected: %s", userID, reason)
	}
	r.mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, r.disp, 0, r.state, []runtime.Presence{p})
}

func (r *testRoom) loop(msgs ...runtime.MatchData) interface{} {
	return r.mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, r.disp, 0, r.state, msgs)
}

func newTestRoom(t *testing.T, m *Module, hostID string) *testRoom {
	t.Helper()
	room, err := m.registry.Create(domain.Seat{PlayerID: hostID, Name: "Host"}, 4)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	mh := &matchHandler{m: m}
	state, tickRate, label := mh.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{ParamRoomCode: room.Code})
	if state == nil || tickRate != m.cfg.TickRate || label == "" {
		t.Fatalf("MatchInit = (%v, %d, %q)", state, tickRate, label)
	}
	r := &testRoom{mh: mh, state: state.(*MatchState), disp: &mockDispatcher{}}
	r.join(t, hostID)
	return r
}

func TestMatchInitUnknownRoom(t *testing.T) {
	m, _ := newTestModule(t)
	mh := &matchHandler{m: m}
	state, _, _ := mh.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{ParamRoomCode: "NOPE00"})
	if state != nil {
		t.Fatalf("expected nil state for unknown room, got %v", state)
	}
}

func TestMatchJoinBroadcastsRosterAndLabel(t *testing.T) {
	m, _ := newTestModule(t)
	r := newTestRoom(t, m, "host")
	r.join(t, "guest")

	msg, ok := r.disp.last(OpRoster)
	if !ok {
		t.Fatal("expected a roster broadcast")
	}
	var roster RosterPayload
	if err := json.Unmarshal(msg.data, &roster); err != nil {
		t.Fatalf("unmarshal roster: %v", err)
	}
	if roster.HostID != "host" || len(roster.Members) != 2 {
		t.Fatalf("unexpected roster %+v", roster)
	}
	if r.disp.labelUpdates == 0 {
		t.Fatal("expected label update on join")
	}
	var label map[string]interface{}
	if err := json.Unmarshal([]byte(r.disp.lastLabel), &label); err != nil {
		t.Fatalf("unmarshal label: %v", err)
	}
	if label[LabelKeyOpenSeats] != float64(2) || label[LabelKeyPhase] != string(domain.PhaseWaiting) {
		t.Fatalf("unexpected label %v", label)
	}
}

func TestMatchJoinAttemptRejectsFullRoom(t *testing.T) {
	m, _ := newTestModule(t)
	r := newTestRoom(t, m, "host")
	for _, id := range []string{"p2", "p3", "p4"} {
		r.join(t, id)
	}

	_, ok, reason := r.mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, r.disp, 0, r.state, &mockPresence{userID: "late"}, nil)
	if ok {
		t.Fatal("expected a full room to reject the join")
	}
	if reason != lobby.ReasonRoomFull {
		t.Fatalf("reason = %q, want %q", reason, lobby.ReasonRoomFull)
	}
}

func TestProcessBotsAutoFillsSoloHost(t *testing.T) {
	m, clock := newTestModule(t)
	r := newTestRoom(t, m, "host")

	r.loop()
	if room, _ := m.registry.Get(r.state.Code); len(room.Members) != 1 {
		t.Fatalf("bots added before the auto-fill delay: %d members", len(room.Members))
	}

	clock.Advance(m.cfg.Bots.AutoFillDelay)
	r.loop()

	room, _ := m.registry.Get(r.state.Code)
	if len(room.Members) != 4 {
		t.Fatalf("expected a full room after auto-fill, got %d members", len(room.Members))
	}
	if len(r.state.Agents) != 3 {
		t.Fatalf("expected 3 agents, got %d", len(r.state.Agents))
	}
	for _, member := range room.Members[1:] {
		if !member.Bot {
			t.Fatalf("member %s should be a bot", member.PlayerID)
		}
	}
	if room.HostID != "host" {
		t.Fatalf("host changed to %s", room.HostID)
	}
}

func TestStartGameRejectsGuestAndIncompleteRoom(t *testing.T) {
	m, _ := newTestModule(t)
	r := newTestRoom(t, m, "host")
	r.join(t, "guest")

	tests := []struct {
		name   string
		sender string
	}{
		{name: "Guest", sender: "guest"},
		{name: "HostWithoutFullRoom", sender: "host"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.disp.sent = nil
			r.loop(message(t, tt.sender, OpStartGame, nil))
			if r.state.Session != nil {
				t.Fatal("session must not start")
			}
			msg, ok := r.disp.last(OpRoomError)
			if !ok {
				t.Fatal("expected a room_error")
			}
			if len(msg.presences) != 1 || msg.presences[0].GetUserId() != tt.sender {
				t.Fatalf("room_error should target %s only", tt.sender)
			}
		})
	}
}

func TestBotsPlayFullGameWithIdleHost(t *testing.T) {
	m, clock := newTestModule(t)
	r := newTestRoom(t, m, "host")

	r.loop(message(t, "host", OpStartGame, StartGameRequest{FillBots: true}))
	if r.state.Session == nil {
		t.Fatal("expected the game to start")
	}
	if r.state.Session.Phase() != domain.PhaseCharSelect {
		t.Fatalf("phase = %s, want char_select", r.state.Session.Phase())
	}
	if room, _ := m.registry.Get(r.state.Code); room.Status != lobby.StatusPlaying {
		t.Fatalf("status = %s, want playing", room.Status)
	}

	// The host never acts, so each tick past the longest timer resolves it.
	for i := 0; i < 100 && r.state.Session.Phase() != domain.PhaseResult; i++ {
		clock.Advance(m.cfg.Timers.Placement + time.Second)
		if r.loop() == nil {
			t.Fatal("match terminated unexpectedly")
		}
		if r.state.Session == nil {
			t.Fatal("session aborted")
		}
	}

	if r.state.Session.Phase() != domain.PhaseResult {
		t.Fatalf("game did not finish, phase %s", r.state.Session.Phase())
	}
	if r.disp.count(OpGameResult) != 1 {
		t.Fatalf("expected one game_result, got %d", r.disp.count(OpGameResult))
	}
	if r.disp.count(OpDraftRound) != m.cfg.DraftRounds {
		t.Fatalf("host should see %d private hands, got %d", m.cfg.DraftRounds, r.disp.count(OpDraftRound))
	}
	if room, _ := m.registry.Get(r.state.Code); room.Status != lobby.StatusWaiting {
		t.Fatalf("status = %s, want waiting after result", room.Status)
	}

	r.loop(message(t, "host", OpRequestNewGame, nil))
	if r.state.Session.Phase() != domain.PhaseCharSelect || r.state.Session.GameNumber() != 2 {
		t.Fatalf("expected game 2 in char_select, got game %d in %s", r.state.Session.GameNumber(), r.state.Session.Phase())
	}
}

func TestHumanSelectionIsBroadcast(t *testing.T) {
	m, _ := newTestModule(t)
	r := newTestRoom(t, m, "host")
	r.loop(message(t, "host", OpStartGame, StartGameRequest{FillBots: true}))

	available := r.state.Session.AvailableCharacters()
	r.disp.sent = nil
	r.loop(message(t, "host", OpSelectCharacter, SelectRequest{ID: available[0]}))

	self, _ := r.state.Session.Player("host")
	if self.CharacterID != available[0] {
		t.Fatalf("host character = %q, want %q", self.CharacterID, available[0])
	}
	if r.disp.count(OpCharacterSelected) == 0 {
		t.Fatal("expected character_selected broadcast")
	}
	if r.disp.count(OpRoomError) != 0 {
		t.Fatal("valid selection must not produce room_error")
	}
}

func TestMatchLeaveHostMigratesToGuest(t *testing.T) {
	m, _ := newTestModule(t)
	r := newTestRoom(t, m, "host")
	r.join(t, "guest")

	out := r.mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, r.disp, 0, r.state, []runtime.Presence{&mockPresence{userID: "host"}})
	if out == nil {
		t.Fatal("room with a remaining human must stay open")
	}
	msg, ok := r.disp.last(OpHostChanged)
	if !ok {
		t.Fatal("expected host_changed")
	}
	var payload HostChangedPayload
	if err := json.Unmarshal(msg.data, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.HostID != "guest" {
		t.Fatalf("new host = %s, want guest", payload.HostID)
	}
}

func TestMatchLeaveLastHumanTerminates(t *testing.T) {
	m, _ := newTestModule(t)
	r := newTestRoom(t, m, "host")
	r.loop(message(t, "host", OpStartGame, StartGameRequest{FillBots: true}))
	sess := r.state.Session

	out := r.mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, r.disp, 0, r.state, []runtime.Presence{&mockPresence{userID: "host"}})
	if out != nil {
		t.Fatal("expected nil state when only bots remain")
	}
	if _, ok := m.registry.Get(r.state.Code); ok {
		t.Fatal("room should be deleted")
	}
	if sess.Phase() != domain.PhaseAborted {
		t.Fatalf("session phase = %s, want aborted", sess.Phase())
	}
	if _, ok := sess.Deadline(); ok {
		t.Fatal("aborted session must not keep a timer")
	}
}

func TestMatchLoopDropsUnknownOpcode(t *testing.T) {
	m, _ := newTestModule(t)
	r := newTestRoom(t, m, "host")
	r.disp.sent = nil
	if r.loop(message(t, "host", 99, nil)) == nil {
		t.Fatal("unknown opcode must not end the match")
	}
	if len(r.disp.sent) != 0 {
		t.Fatalf("unexpected broadcasts: %d", len(r.disp.sent))
	}
}

func TestRemoveMemberDropsBotAgent(t *testing.T) {
	m, clock := newTestModule(t)
	r := newTestRoom(t, m, "host")
	r.join(t, "guest")
	r.mh.fillWithBots(r.state, r.disp, noopLogger{})
	if len(r.state.Agents) != 2 {
		t.Fatalf("agents = %d, want 2", len(r.state.Agents))
	}

	var botID string
	for id := range r.state.Agents {
		botID = id
		break
	}
	if !r.mh.removeMember(r.state, r.disp, noopLogger{}, clock.Now(), botID) {
		t.Fatal("room must survive a bot leaving")
	}
	if _, ok := r.state.Agents[botID]; ok {
		t.Fatalf("agent %s still tracked", botID)
	}
	if room, _ := m.registry.Get(r.state.Code); room.Has(botID) {
		t.Fatalf("bot %s still seated", botID)
	}

	r.mh.removeMember(r.state, r.disp, noopLogger{}, clock.Now(), "guest")
	if r.mh.removeMember(r.state, r.disp, noopLogger{}, clock.Now(), "host") {
		t.Fatal("room should close when the last human leaves")
	}
	if len(r.state.Agents) != 0 {
		t.Fatalf("agents = %d after room closed, want 0", len(r.state.Agents))
	}
}
