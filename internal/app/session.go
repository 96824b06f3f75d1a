package app

import (
	"fmt"
	"math/rand"
	"time"

	"ramendo/internal/catalog"
	"ramendo/internal/config"
	"ramendo/internal/domain"
	"ramendo/internal/scoring"
)

// Session drives one room through its phases. It is not safe for concurrent
// use: the owner serialises every call, as a Nakama match loop does.
//
// Every operation returns the events to deliver. Rejected actions return one
// of the InvalidAction errors and change nothing. A room that cannot continue
// is aborted and the operation returns both the abort event and the cause.
type Session struct {
	cfg    *config.GameConfig
	cat    *catalog.Catalog
	engine *scoring.Engine
	rng    *rand.Rand

	phase   domain.Phase
	seats   []domain.Seat
	players map[string]*domain.PlayerState

	customers  []string
	selections map[string]string
	claimed    map[string]string
	draft      *DraftCoordinator
	submitted  map[string]bool
	timer      PhaseTimer

	games       int
	result      *scoring.RoomResult
	abortReason string
}

func (s *Session) seat(seats []domain.Seat) {
	s.seats = append([]domain.Seat(nil), seats...)
	s.players = make(map[string]*domain.PlayerState, len(seats))
	for _, seat := range s.seats {
		s.players[seat.PlayerID] = domain.NewPlayerState(seat)
	}
}

// Start leaves the waiting room and enters character selection.
func (s *Session) Start(now time.Time) ([]Event, error) {
	if s.phase != domain.PhaseWaiting {
		return nil, ErrWrongPhase
	}
	return s.begin(now), nil
}

// Restart plays a new game with seats once the previous one has a result.
func (s *Session) Restart(now time.Time, seats []domain.Seat) ([]Event, error) {
	if s.phase != domain.PhaseResult {
		return nil, ErrNotFinished
	}
	if len(seats) < s.cfg.MinPlayers {
		return nil, ErrTooFewPlayers
	}
	if len(seats) > s.cfg.MaxPlayers {
		return nil, ErrTooManyPlayers
	}
	if err := s.cat.CheckCapacity(len(seats), s.cfg.ActiveCustomers); err != nil {
		return nil, err
	}
	s.seat(seats)
	return s.begin(now), nil
}

func (s *Session) begin(now time.Time) []Event {
	s.seat(s.seats)
	s.games++
	s.result = nil
	s.claimed = map[string]string{}
	s.submitted = map[string]bool{}
	s.customers = s.pickCustomers()
	return s.enter(now, domain.PhaseCharSelect)
}

func (s *Session) pickCustomers() []string {
	ids := domain.Shuffle(s.rng, s.cat.CustomerIDs())
	n := s.cfg.ActiveCustomers
	if n > len(ids) {
		n = len(ids)
	}
	return ids[:n]
}

// enter switches to phase, arms its timer and announces it.
func (s *Session) enter(now time.Time, phase domain.Phase) []Event {
	s.phase = phase
	s.selections = map[string]string{}
	s.timer.Cancel()

	limit := s.cfg.Timers.For(phase)
	if phase.Timed() {
		s.timer.Start(TimerPhase, now.Add(limit))
	}
	payload := PhaseStartedPayload{Phase: phase, TimeLimit: int(limit / time.Second)}
	switch phase {
	case domain.PhaseCharSelect:
		payload.Characters = s.AvailableCharacters()
		payload.Customers = s.customerRefs()
	case domain.PhaseSoupSelect:
		payload.Options = s.cat.SoupIDs()
	case domain.PhaseNoodleSelect:
		payload.Options = s.cat.NoodleIDs()
	case domain.PhaseDraft:
		payload.Rounds = s.draft.Rounds()
	case domain.PhasePlacement:
		for _, st := range s.players {
			st.Grid = domain.Grid{}
		}
		s.submitted = map[string]bool{}
	}
	return []Event{{Kind: EventPhaseStarted, Payload: payload}}
}

func (s *Session) customerRefs() []scoring.CustomerRef {
	refs := make([]scoring.CustomerRef, 0, len(s.customers))
	for _, id := range s.customers {
		if cu, ok := s.cat.Customer(id); ok {
			refs = append(refs, scoring.CustomerRef{ID: cu.ID, Name: cu.Name})
		}
	}
	return refs
}

// SelectCharacter claims a character. Characters are exclusive, first come first served.
func (s *Session) SelectCharacter(now time.Time, player, characterID string) ([]Event, error) {
	if err := s.checkSelect(domain.PhaseCharSelect, player); err != nil {
		return nil, err
	}
	if _, ok := s.cat.Character(characterID); !ok {
		return nil, ErrUnavailable
	}
	if _, taken := s.claimed[characterID]; taken {
		return nil, ErrUnavailable
	}
	s.claimed[characterID] = player
	s.selections[player] = characterID
	s.players[player].CharacterID = characterID

	events := []Event{{
		Kind: EventCharacterSelected,
		Payload: CharacterSelectedPayload{
			PlayerID:    player,
			CharacterID: characterID,
			Available:   s.AvailableCharacters(),
		},
	}}
	more, err := s.advanceIfReady(now)
	return append(events, more...), err
}

// SelectSoup records a soup base. Several players may share one.
func (s *Session) SelectSoup(now time.Time, player, soupID string) ([]Event, error) {
	if err := s.checkSelect(domain.PhaseSoupSelect, player); err != nil {
		return nil, err
	}
	if _, ok := s.cat.Soup(soupID); !ok {
		return nil, ErrUnavailable
	}
	s.selections[player] = soupID
	s.players[player].Soup = soupID
	return s.advanceIfReady(now)
}

// SelectNoodle records a noodle type. Several players may share one.
func (s *Session) SelectNoodle(now time.Time, player, noodleID string) ([]Event, error) {
	if err := s.checkSelect(domain.PhaseNoodleSelect, player); err != nil {
		return nil, err
	}
	if _, ok := s.cat.Noodle(noodleID); !ok {
		return nil, ErrUnavailable
	}
	s.selections[player] = noodleID
	s.players[player].Noodle = noodleID
	return s.advanceIfReady(now)
}

func (s *Session) checkSelect(phase domain.Phase, player string) error {
	if s.phase != phase {
		return ErrWrongPhase
	}
	if _, ok := s.players[player]; !ok {
		return ErrUnknownPlayer
	}
	if _, done := s.selections[player]; done {
		return ErrAlreadySelected
	}
	return nil
}

func (s *Session) allSelected() bool {
	for _, seat := range s.seats {
		if _, ok := s.selections[seat.PlayerID]; !ok {
			return false
		}
	}
	return len(s.seats) > 0
}

// advanceIfReady reveals the selections and moves on once every seat chose.
func (s *Session) advanceIfReady(now time.Time) ([]Event, error) {
	if !s.allSelected() {
		return nil, nil
	}
	s.timer.Cancel()
	selections := make(map[string]string, len(s.selections))
	for k, v := range s.selections {
		selections[k] = v
	}
	events := []Event{{
		Kind:    EventSelectionsRevealed,
		Payload: SelectionsRevealedPayload{Phase: s.phase, Selections: selections},
	}}
	next := s.phase.Next()
	if next == domain.PhaseDraft {
		evs, err := s.startDraft(now)
		return append(events, evs...), err
	}
	return append(events, s.enter(now, next)...), nil
}

func (s *Session) startDraft(now time.Time) ([]Event, error) {
	deal, err := domain.DealHands(s.rng, len(s.seats), s.cat.CardCounts(), s.cfg.HandSizes)
	if err != nil {
		return s.Abort(err.Error()), err
	}
	ids := make([]string, len(s.seats))
	for i, seat := range s.seats {
		ids[i] = seat.PlayerID
	}
	s.draft.Start(ids, deal)
	events := s.enter(now, domain.PhaseDraft)
	return append(events, s.dealRound(now)...), nil
}

// dealRound sends every player the hand now in front of them.
func (s *Session) dealRound(now time.Time) []Event {
	s.draft.BeginRound()
	s.timer.Start(TimerPhase, now.Add(s.cfg.Timers.DraftTurn))
	events := make([]Event, 0, len(s.seats))
	for _, seat := range s.seats {
		events = append(events, Event{
			Kind: EventDraftRound,
			Payload: DraftRoundPayload{
				Round:     s.draft.Round(),
				Rounds:    s.draft.Rounds(),
				Hand:      s.draft.Hand(seat.PlayerID),
				TimeLimit: int(s.cfg.Timers.DraftTurn / time.Second),
			},
			Recipients: []string{seat.PlayerID},
		})
	}
	return events
}

// DraftPick takes one card from the player's current hand.
func (s *Session) DraftPick(now time.Time, player, ingredientID string) ([]Event, error) {
	if s.phase != domain.PhaseDraft {
		return nil, ErrWrongPhase
	}
	if _, ok := s.players[player]; !ok {
		return nil, ErrUnknownPlayer
	}
	if err := s.draft.Submit(player, ingredientID); err != nil {
		return nil, err
	}
	s.players[player].Picks = s.draft.Picks(player)
	return s.advanceDraftIfReady(now), nil
}

func (s *Session) advanceDraftIfReady(now time.Time) []Event {
	if s.draft.Dealing() || !s.draft.RoundComplete() {
		return nil
	}
	s.timer.Cancel()
	res := s.draft.Advance()
	events := []Event{{
		Kind:    EventDraftPicksRevealed,
		Payload: DraftPicksRevealedPayload{Round: res.Round, Picks: res.Picks},
	}}
	if res.Finished {
		for _, seat := range s.seats {
			s.players[seat.PlayerID].Picks = s.draft.Picks(seat.PlayerID)
		}
		return append(events, s.enter(now, domain.PhasePlacement)...)
	}
	if delay := s.cfg.Timers.DraftRoundDelay; delay > 0 {
		s.timer.Start(TimerDraftDeal, now.Add(delay))
		return events
	}
	return append(events, s.dealRound(now)...)
}

// SubmitPlacement accepts a player's final bowl once. Every placed card must
// come from the player's drafted picks.
func (s *Session) SubmitPlacement(now time.Time, player string, grid domain.Grid) ([]Event, error) {
	if s.phase != domain.PhasePlacement {
		return nil, ErrWrongPhase
	}
	st, ok := s.players[player]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if s.submitted[player] {
		return nil, ErrAlreadySubmitted
	}
	if !domain.IsSubset(grid.PlacedIngredients(), st.Picks) {
		return nil, ErrInvalidGrid
	}
	st.Grid = grid
	s.submitted[player] = true

	events := []Event{{
		Kind: EventPlacementSubmitted,
		Payload: PlacementSubmittedPayload{
			PlayerID:  player,
			Submitted: len(s.submitted),
			Total:     len(s.seats),
		},
	}}
	more, err := s.finishIfReady(now)
	return append(events, more...), err
}

func (s *Session) finishIfReady(now time.Time) ([]Event, error) {
	for _, seat := range s.seats {
		if !s.submitted[seat.PlayerID] {
			return nil, nil
		}
	}
	if len(s.seats) == 0 {
		return nil, nil
	}
	return s.score()
}

// score runs scoring, ceremony and result as one step.
func (s *Session) score() ([]Event, error) {
	s.timer.Cancel()
	s.phase = domain.PhaseScoring
	players := make([]*domain.PlayerState, len(s.seats))
	for i, seat := range s.seats {
		players[i] = s.players[seat.PlayerID]
	}
	res, err := s.engine.ScoreRoom(players, s.customers)
	if err != nil {
		return s.Abort(err.Error()), fmt.Errorf("score room: %w", err)
	}
	s.result = &res
	s.phase = domain.PhaseResult
	return []Event{{Kind: EventGameResult, Payload: GameResultPayload{RoomResult: res}}}, nil
}

// Tick fires the pending timer once its deadline has passed.
func (s *Session) Tick(now time.Time) ([]Event, error) {
	kind, due := s.timer.Due(now)
	if !due {
		return nil, nil
	}
	switch kind {
	case TimerDraftDeal:
		if s.phase == domain.PhaseDraft && s.draft.Dealing() {
			return s.dealRound(now), nil
		}
		return nil, nil
	default:
		return s.resolveTimeout(now)
	}
}

// resolveTimeout acts for every player who has not acted, through the same
// path a player action takes.
func (s *Session) resolveTimeout(now time.Time) ([]Event, error) {
	phase := s.phase
	round := s.draft.Round()
	var events []Event
	act := func(evs []Event, err error) error {
		events = append(events, evs...)
		if IsInvalidAction(err) {
			return nil
		}
		return err
	}

	for _, seat := range s.Seats() {
		if s.phase != phase || s.draft.Round() != round {
			break
		}
		id := seat.PlayerID
		var err error
		switch phase {
		case domain.PhaseCharSelect:
			if _, done := s.selections[id]; done {
				continue
			}
			available := s.AvailableCharacters()
			if len(available) == 0 {
				cfgErr := &domain.ConfigError{Table: "characters", Reason: "no character left to assign"}
				return append(events, s.Abort(cfgErr.Error())...), cfgErr
			}
			err = act(s.SelectCharacter(now, id, available[s.rng.Intn(len(available))]))
		case domain.PhaseSoupSelect:
			if _, done := s.selections[id]; done {
				continue
			}
			soups := s.cat.SoupIDs()
			err = act(s.SelectSoup(now, id, soups[s.rng.Intn(len(soups))]))
		case domain.PhaseNoodleSelect:
			if _, done := s.selections[id]; done {
				continue
			}
			noodles := s.cat.NoodleIDs()
			err = act(s.SelectNoodle(now, id, noodles[s.rng.Intn(len(noodles))]))
		case domain.PhaseDraft:
			card, ok := s.draft.AutoPicks()[id]
			if !ok {
				continue
			}
			err = act(s.DraftPick(now, id, card))
		case domain.PhasePlacement:
			if s.submitted[id] {
				continue
			}
			err = act(s.SubmitPlacement(now, id, domain.Grid{}))
		}
		if err != nil {
			return events, err
		}
	}

	if phase == domain.PhaseDraft && s.phase == domain.PhaseDraft && s.draft.Round() == round && !s.draft.Dealing() && !s.draft.RoundComplete() {
		cfgErr := &domain.ConfigError{Table: "config", Key: "hand_sizes", Reason: "draft hand ran out before the last round"}
		return append(events, s.Abort(cfgErr.Error())...), cfgErr
	}
	return events, nil
}

// RemovePlayer drops a player who left. The game goes on with the others and
// the phase advances if the leaver was the last one it waited for. The last
// player leaving aborts the session and cancels its timer.
func (s *Session) RemovePlayer(now time.Time, player string) ([]Event, error) {
	idx := -1
	for i, seat := range s.seats {
		if seat.PlayerID == player {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrUnknownPlayer
	}
	s.seats = append(s.seats[:idx:idx], s.seats[idx+1:]...)
	delete(s.players, player)
	delete(s.selections, player)
	delete(s.submitted, player)
	for id, owner := range s.claimed {
		if owner == player {
			delete(s.claimed, id)
		}
	}
	s.draft.RemoveSeat(player)

	if len(s.seats) == 0 {
		return s.Abort("room empty"), nil
	}
	switch s.phase {
	case domain.PhaseCharSelect, domain.PhaseSoupSelect, domain.PhaseNoodleSelect:
		return s.advanceIfReady(now)
	case domain.PhaseDraft:
		return s.advanceDraftIfReady(now), nil
	case domain.PhasePlacement:
		return s.finishIfReady(now)
	}
	return nil, nil
}

// Abort stops the room for good. Aborting twice emits nothing.
func (s *Session) Abort(reason string) []Event {
	s.timer.Cancel()
	if s.phase == domain.PhaseAborted {
		return nil
	}
	s.phase = domain.PhaseAborted
	s.abortReason = reason
	return []Event{{Kind: EventRoomAborted, Payload: RoomAbortedPayload{Reason: reason}}}
}

func (s *Session) Phase() domain.Phase         { return s.phase }
func (s *Session) GameNumber() int             { return s.games }
func (s *Session) Catalog() *catalog.Catalog   { return s.cat }
func (s *Session) Engine() *scoring.Engine     { return s.engine }
func (s *Session) AbortReason() string         { return s.abortReason }
func (s *Session) Customers() []string         { return append([]string(nil), s.customers...) }
func (s *Session) Seats() []domain.Seat        { return append([]domain.Seat(nil), s.seats...) }
func (s *Session) DraftRound() (int, int)      { return s.draft.Round(), s.draft.Rounds() }
func (s *Session) Hand(player string) []string { return s.draft.Hand(player) }

// Deadline returns when the pending timer fires.
func (s *Session) Deadline() (time.Time, bool) {
	_, deadline, ok := s.timer.Pending()
	return deadline, ok
}

// Player returns a copy of a seated player's state.
func (s *Session) Player(id string) (domain.PlayerState, bool) {
	st, ok := s.players[id]
	if !ok {
		return domain.PlayerState{}, false
	}
	out := *st
	out.Picks = append([]string(nil), st.Picks...)
	return out, true
}

// Result returns the scored outcome once the game reached its result.
func (s *Session) Result() (scoring.RoomResult, bool) {
	if s.result == nil {
		return scoring.RoomResult{}, false
	}
	return *s.result, true
}

// AvailableCharacters lists unclaimed characters in catalog order.
func (s *Session) AvailableCharacters() []string {
	ids := s.cat.CharacterIDs()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, taken := s.claimed[id]; !taken {
			out = append(out, id)
		}
	}
	return out
}

// Awaiting reports whether the phase is still waiting on player.
func (s *Session) Awaiting(player string) bool {
	if _, ok := s.players[player]; !ok {
		return false
	}
	switch s.phase {
	case domain.PhaseCharSelect, domain.PhaseSoupSelect, domain.PhaseNoodleSelect:
		_, done := s.selections[player]
		return !done
	case domain.PhaseDraft:
		return !s.draft.Dealing() && !s.draft.Finished() && !s.draft.HasPicked(player)
	case domain.PhasePlacement:
		return !s.submitted[player]
	}
	return false
}
