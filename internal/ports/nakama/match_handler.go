package nakama

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"ramendo/internal/app"
	"ramendo/internal/bot"
	"ramendo/internal/domain"
	"ramendo/internal/lobby"
)

// MatchState holds the authoritative runtime state of one room.
type MatchState struct {
	Code      string
	Presences map[string]runtime.Presence // user id -> presence for targeted messages
	Session   *app.Session                // nil until the host starts a game
	Agents    map[string]*bot.Agent
	Scheduler *bot.Scheduler
	SoloSince time.Time // when a lone human started waiting, zero otherwise
	rng       *rand.Rand
}

func (ms *MatchState) phase() domain.Phase {
	if ms.Session == nil {
		return domain.PhaseWaiting
	}
	return ms.Session.Phase()
}

func (ms *MatchState) humanCount(room lobby.Room) int {
	n := 0
	for _, m := range room.Members {
		if !m.Bot {
			n++
		}
	}
	return n
}

type matchHandler struct {
	m *Module
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	code, _ := params[ParamRoomCode].(string)
	room, ok := mh.m.registry.Get(code)
	if !ok {
		logger.Error("MatchInit: room %q is not registered", code)
		return nil, 0, ""
	}
	logger.Debug("MatchInit: Initializing room %s.", code)

	rng := rand.New(rand.NewSource(mh.m.now().UnixNano()))
	state := &MatchState{
		Code:      code,
		Presences: make(map[string]runtime.Presence),
		Agents:    make(map[string]*bot.Agent),
		Scheduler: bot.NewScheduler(mh.m.cfg.Bots.MinDelay, mh.m.cfg.Bots.MaxDelay, rng),
		rng:       rng,
	}

	label, err := matchLabel(room, domain.PhaseWaiting)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	return state, mh.m.cfg.TickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	ms, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	room, ok := mh.m.registry.Get(ms.Code)
	if !ok {
		return state, false, "room closed"
	}
	if room.Has(presence.GetUserId()) {
		return state, true, ""
	}
	// Players may join the match directly without the join_room RPC.
	if _, err := mh.m.registry.Join(ms.Code, domain.Seat{PlayerID: presence.GetUserId(), Name: metadata["name"]}); err != nil {
		var capErr *lobby.CapacityError
		if errors.As(err, &capErr) {
			return state, false, capErr.Code
		}
		return state, false, err.Error()
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}
	for _, p := range presences {
		ms.Presences[p.GetUserId()] = p
		logger.Debug("MatchJoin: User %s joined room %s.", p.GetUserId(), ms.Code)
	}
	mh.broadcastRoster(ms, dispatcher, logger)
	mh.updateLabel(ms, dispatcher, logger)
	return ms
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}
	log := logger.WithField("room", ms.Code)
	now := mh.m.now()

	for _, p := range presences {
		userID := p.GetUserId()
		delete(ms.Presences, userID)
		if !mh.removeMember(ms, dispatcher, log, now, userID) {
			log.Info("MatchLeave: Terminating empty room.")
			return nil
		}
	}

	mh.broadcastRoster(ms, dispatcher, logger)
	mh.updateLabel(ms, dispatcher, logger)
	return ms
}

// removeMember takes a player out of the registry and the session. It
// returns false once the room is gone.
func (mh *matchHandler) removeMember(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, now time.Time, userID string) bool {
	res, err := mh.m.registry.Leave(ms.Code, userID)
	if err != nil {
		logger.Warn("MatchLeave: Failed to leave room for %s: %v", userID, err)
	}
	if _, ok := ms.Agents[userID]; ok {
		delete(ms.Agents, userID)
		ms.Scheduler.Forget(userID)
	}
	if res.Deleted {
		for id := range ms.Agents {
			ms.Scheduler.Forget(id)
		}
		ms.Agents = map[string]*bot.Agent{}
	}
	if ms.Session != nil {
		if res.Deleted {
			ms.Session.Abort("room empty")
		} else {
			events, err := ms.Session.RemovePlayer(now, userID)
			mh.afterSessionCall(ms, dispatcher, logger, "", events, err)
		}
	}
	if res.Deleted {
		return false
	}
	if res.HostChanged {
		logger.Info("MatchLeave: Host %s left, %s is the new host.", userID, res.NewHostID)
		mh.broadcast(ms, dispatcher, logger, OpHostChanged, HostChangedPayload{HostID: res.NewHostID}, nil)
	}
	return true
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		return state
	}
	log := logger.WithField("room", ms.Code)
	now := mh.m.now()

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ms, dispatcher, log, now, msg)
		case OpRequestNewGame:
			mh.handleNewGame(ms, dispatcher, log, now, msg)
		case OpSelectCharacter, OpSelectSoup, OpSelectNoodle, OpDraftPick, OpSubmitPlacement:
			mh.handleAction(ms, dispatcher, log, now, msg)
		default:
			log.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if mh.m.cfg.Bots.Enabled {
		mh.processBots(ms, dispatcher, log, now)
	}

	if ms.Session != nil {
		events, err := ms.Session.Tick(now)
		mh.afterSessionCall(ms, dispatcher, log, "", events, err)
	}

	if _, ok := mh.m.registry.Get(ms.Code); !ok {
		log.Info("MatchLoop: Room closed, terminating.")
		return nil
	}
	return ms
}

func (mh *matchHandler) handleStartGame(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, now time.Time, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	logger.Info("StartGame: Request received from %s", senderID)

	request := StartGameRequest{}
	if err := decodeRequest(msg.GetData(), &request); err != nil {
		logger.Warn("StartGame: Invalid request from %s: %v", senderID, err)
		return
	}
	if ms.Session != nil && ms.Session.Phase() != domain.PhaseAborted {
		logger.Warn("StartGame: Game already running in phase %s", ms.Session.Phase())
		return
	}
	if request.FillBots && mh.m.cfg.Bots.Enabled {
		if room, ok := mh.m.registry.Get(ms.Code); ok && room.HostID == senderID {
			mh.fillWithBots(ms, dispatcher, logger)
		}
	}
	if err := mh.m.registry.CanStart(ms.Code, senderID); err != nil {
		logger.Warn("StartGame: User %s cannot start: %v", senderID, err)
		mh.sendError(ms, dispatcher, logger, senderID, OpStartGame, err.Error())
		return
	}

	room, _ := mh.m.registry.Get(ms.Code)
	sess, err := mh.m.service.NewSession(mh.m.catalog, room.Members)
	if err != nil {
		logger.Error("StartGame: Failed to create session: %v", err)
		mh.sendError(ms, dispatcher, logger, senderID, OpStartGame, err.Error())
		return
	}
	ms.Session = sess
	ms.SoloSince = time.Time{}
	if err := mh.m.registry.MarkPlaying(ms.Code); err != nil {
		logger.Warn("StartGame: %v", err)
	}
	events, err := sess.Start(now)
	mh.afterSessionCall(ms, dispatcher, logger, senderID, events, err)
	logger.Info("StartGame: Game started with %d players.", len(room.Members))
}

func (mh *matchHandler) handleNewGame(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, now time.Time, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	room, ok := mh.m.registry.Get(ms.Code)
	if !ok || ms.Session == nil {
		return
	}
	if room.HostID != senderID {
		mh.sendError(ms, dispatcher, logger, senderID, OpRequestNewGame, lobby.ErrNotHost.Error())
		return
	}
	events, err := ms.Session.Restart(now, room.Members)
	if err != nil {
		logger.Warn("NewGame: Restart refused: %v", err)
		mh.sendError(ms, dispatcher, logger, senderID, OpRequestNewGame, err.Error())
		return
	}
	if err := mh.m.registry.MarkPlaying(ms.Code); err != nil {
		logger.Warn("NewGame: %v", err)
	}
	mh.afterSessionCall(ms, dispatcher, logger, senderID, events, nil)
}

// handleAction routes a phase action to the session.
func (mh *matchHandler) handleAction(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, now time.Time, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if ms.Session == nil {
		logger.Debug("handleAction: Game not started, dropping op %d from %s.", msg.GetOpCode(), senderID)
		return
	}

	var (
		events []app.Event
		err    error
	)
	switch msg.GetOpCode() {
	case OpSelectCharacter, OpSelectSoup, OpSelectNoodle:
		req := SelectRequest{}
		if err := decodeRequest(msg.GetData(), &req); err != nil {
			logger.Warn("handleAction: Bad select payload from %s: %v", senderID, err)
			return
		}
		switch msg.GetOpCode() {
		case OpSelectCharacter:
			events, err = ms.Session.SelectCharacter(now, senderID, req.ID)
		case OpSelectSoup:
			events, err = ms.Session.SelectSoup(now, senderID, req.ID)
		default:
			events, err = ms.Session.SelectNoodle(now, senderID, req.ID)
		}
	case OpDraftPick:
		req := DraftPickRequest{}
		if err := decodeRequest(msg.GetData(), &req); err != nil {
			logger.Warn("handleAction: Bad draft payload from %s: %v", senderID, err)
			return
		}
		events, err = ms.Session.DraftPick(now, senderID, req.IngredientID)
	case OpSubmitPlacement:
		req := PlacementRequest{}
		if err := decodeRequest(msg.GetData(), &req); err != nil {
			logger.Warn("handleAction: Bad placement payload from %s: %v", senderID, err)
			return
		}
		events, err = ms.Session.SubmitPlacement(now, senderID, req.Grid)
	}
	mh.afterSessionCall(ms, dispatcher, logger, senderID, events, err)
}

// afterSessionCall delivers events and reacts to the outcome of a session
// operation. Rejected actions are dropped quietly.
func (mh *matchHandler) afterSessionCall(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID string, events []app.Event, err error) {
	for _, ev := range events {
		mh.broadcastEvent(ms, dispatcher, logger, ev)
	}
	if err != nil {
		if app.IsInvalidAction(err) {
			logger.Debug("Session: Ignored action from %s: %v", senderID, err)
		} else {
			logger.Error("Session: %v", err)
			if senderID != "" {
				mh.sendError(ms, dispatcher, logger, senderID, 0, err.Error())
			}
		}
	}
	if ms.Session == nil {
		return
	}
	switch ms.Session.Phase() {
	case domain.PhaseResult:
		if err := mh.m.registry.MarkWaiting(ms.Code); err != nil {
			logger.Warn("Session: %v", err)
		}
	case domain.PhaseAborted:
		logger.Warn("Session: Room aborted: %s", ms.Session.AbortReason())
		ms.Session = nil
		_ = mh.m.registry.MarkWaiting(ms.Code)
	}
	if len(events) > 0 {
		mh.updateLabel(ms, dispatcher, logger)
	}
}

func (mh *matchHandler) processBots(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, now time.Time) {
	room, ok := mh.m.registry.Get(ms.Code)
	if !ok {
		return
	}

	if ms.Session == nil || ms.Session.Phase() == domain.PhaseResult {
		// Auto-fill a lone human's room after a delay.
		if ms.Session == nil && ms.humanCount(room) == 1 && !room.Full() {
			if ms.SoloSince.IsZero() {
				ms.SoloSince = now
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}
			if now.Sub(ms.SoloSince) >= mh.m.cfg.Bots.AutoFillDelay {
				mh.fillWithBots(ms, dispatcher, logger)
				ms.SoloSince = time.Time{}
			}
		} else {
			ms.SoloSince = time.Time{}
		}
		return
	}

	stage := bot.Stage(ms.Session)
	for _, seat := range ms.Session.Seats() {
		agent, ok := ms.Agents[seat.PlayerID]
		if !ok || !ms.Session.Awaiting(agent.ID) {
			continue
		}
		if !ms.Scheduler.Ready(agent.ID, stage, now) {
			continue
		}
		events, err := agent.Act(now, ms.Session)
		if err != nil && !app.IsInvalidAction(err) {
			logger.Error("processBots: Bot %s failed: %v", agent.ID, err)
		}
		mh.afterSessionCall(ms, dispatcher, logger, "", events, nil)
		if ms.Session == nil {
			return
		}
		if next := bot.Stage(ms.Session); next != stage {
			return
		}
	}
}

// fillWithBots seats bots in every free seat.
func (mh *matchHandler) fillWithBots(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	room, ok := mh.m.registry.Get(ms.Code)
	if !ok {
		return
	}
	taken := map[string]bool{}
	for _, m := range room.Members {
		taken[m.PlayerID] = true
	}
	added := 0
	for i := len(room.Members); i < room.MaxPlayers; i++ {
		identity := mh.m.bots.Next(taken, ms.rng)
		agent, err := bot.NewAgent(identity, bot.Level(mh.m.cfg.Bots.Level), ms.rng)
		if err != nil {
			logger.Error("fillWithBots: Failed to create bot agent for %s: %v", identity.UserID, err)
			return
		}
		if _, err := mh.m.registry.Join(ms.Code, agent.Seat()); err != nil {
			logger.Warn("fillWithBots: Could not seat bot %s: %v", identity.UserID, err)
			break
		}
		taken[identity.UserID] = true
		ms.Agents[agent.ID] = agent
		added++
		logger.Info("fillWithBots: Added bot %s (%s)", agent.Name, agent.ID)
	}
	if added > 0 {
		mh.broadcastRoster(ms, dispatcher, logger)
		mh.updateLabel(ms, dispatcher, logger)
	}
}

func (mh *matchHandler) broadcastRoster(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	room, ok := mh.m.registry.Get(ms.Code)
	if !ok {
		return
	}
	mh.broadcast(ms, dispatcher, logger, OpRoster, rosterPayload(room), nil)
}

// broadcastEvent handles the conversion and dispatching of session events to Nakama.
func (mh *matchHandler) broadcastEvent(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	op, data, err := encodeEvent(ev)
	if err != nil {
		logger.Error("broadcastEvent: %v", err)
		return
	}
	mh.send(ms, dispatcher, logger, op, data, ev.Recipients)
}

func (mh *matchHandler) broadcast(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, op int64, payload any, recipients []string) {
	data, err := encodeJSON(payload)
	if err != nil {
		logger.Error("broadcast: Failed to marshal op %d: %v", op, err)
		return
	}
	mh.send(ms, dispatcher, logger, op, data, recipients)
}

func (mh *matchHandler) send(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, op int64, data []byte, recipients []string) {
	var presences []runtime.Presence
	if len(recipients) > 0 {
		for _, uid := range recipients {
			if p, ok := ms.Presences[uid]; ok {
				presences = append(presences, p)
			}
		}
		// Targeted at players who are not connected (bots): send nothing.
		if len(presences) == 0 {
			return
		}
	}
	if err := dispatcher.BroadcastMessage(op, data, presences, nil, true); err != nil {
		logger.Error("send: Failed to broadcast op %d: %v", op, err)
	}
}

// sendError tells one player why a request was refused.
func (mh *matchHandler) sendError(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, op int64, message string) {
	if _, ok := ms.Presences[userID]; !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	mh.broadcast(ms, dispatcher, logger, OpRoomError, RoomErrorPayload{Op: op, Message: message}, []string{userID})
}

func (mh *matchHandler) updateLabel(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	room, ok := mh.m.registry.Get(ms.Code)
	if !ok {
		return
	}
	label, err := matchLabel(room, ms.phase())
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	if ms, ok := state.(*MatchState); ok {
		if ms.Session != nil {
			ms.Session.Abort("server shutting down")
		}
		logger.Debug("MatchTerminate: Room %s terminated (grace %ds)", ms.Code, graceSeconds)
	}
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
