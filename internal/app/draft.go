package app

import "ramendo/internal/domain"

// RoundResult is what one completed draft round revealed.
type RoundResult struct {
	Round    int
	Picks    map[string]string
	Finished bool
}

// DraftCoordinator runs the card-passing draft: every seat picks one card
// from the hand in front of it, then hands move one seat and the next round
// starts, until the configured number of rounds is reached.
type DraftCoordinator struct {
	rounds  int
	round   int
	seats   []string
	hands   [][]string
	picks   map[string][]string
	dealing bool
}

// NewDraftCoordinator returns a coordinator for a draft of the given length.
func NewDraftCoordinator(rounds int) *DraftCoordinator {
	return &DraftCoordinator{rounds: rounds, picks: map[string][]string{}}
}

// Start seats players in order with the dealt hands and resets all picks.
func (d *DraftCoordinator) Start(seats []string, deal domain.Deal) {
	d.round = 0
	d.dealing = false
	d.seats = append([]string(nil), seats...)
	d.hands = make([][]string, len(deal.Hands))
	for i, h := range deal.Hands {
		d.hands[i] = append([]string(nil), h...)
	}
	d.picks = make(map[string][]string, len(seats))
	for _, id := range seats {
		d.picks[id] = []string{}
	}
}

func (d *DraftCoordinator) Round() int  { return d.round }
func (d *DraftCoordinator) Rounds() int { return d.rounds }

// Finished reports whether every round has been played.
func (d *DraftCoordinator) Finished() bool { return d.round >= d.rounds }

// Dealing reports whether the draft is between rounds, waiting for the next deal.
func (d *DraftCoordinator) Dealing() bool { return d.dealing }

// BeginRound ends the pause between rounds.
func (d *DraftCoordinator) BeginRound() { d.dealing = false }

func (d *DraftCoordinator) seatOf(player string) int {
	for i, id := range d.seats {
		if id == player {
			return i
		}
	}
	return -1
}

// Hand returns a copy of the hand currently in front of player.
func (d *DraftCoordinator) Hand(player string) []string {
	seat := d.seatOf(player)
	if seat < 0 || seat >= len(d.hands) {
		return nil
	}
	return append([]string(nil), d.hands[seat]...)
}

// Picks returns a copy of the cards player has drafted so far.
func (d *DraftCoordinator) Picks(player string) []string {
	return append([]string(nil), d.picks[player]...)
}

// HasPicked reports whether player already picked in the current round.
func (d *DraftCoordinator) HasPicked(player string) bool {
	return len(d.picks[player]) > d.round
}

// Submit takes card from player's hand into their picks.
func (d *DraftCoordinator) Submit(player, card string) error {
	seat := d.seatOf(player)
	if seat < 0 {
		return ErrUnknownPlayer
	}
	if d.Finished() {
		return ErrWrongPhase
	}
	if d.dealing {
		return ErrRoundDealing
	}
	if d.HasPicked(player) {
		return ErrAlreadyPicked
	}
	hand, ok := domain.RemoveCard(d.hands[seat], card)
	if !ok {
		return ErrNotInHand
	}
	d.hands[seat] = hand
	d.picks[player] = append(d.picks[player], card)
	return nil
}

// RoundComplete reports whether every seated player has picked this round.
func (d *DraftCoordinator) RoundComplete() bool {
	if len(d.seats) == 0 || d.Finished() {
		return false
	}
	for _, id := range d.seats {
		if !d.HasPicked(id) {
			return false
		}
	}
	return true
}

// AutoPicks returns the first card of every hand whose holder has not picked,
// keyed by player. Hands that ran dry are skipped.
func (d *DraftCoordinator) AutoPicks() map[string]string {
	out := map[string]string{}
	if d.dealing || d.Finished() {
		return out
	}
	for i, id := range d.seats {
		if d.HasPicked(id) || i >= len(d.hands) || len(d.hands[i]) == 0 {
			continue
		}
		out[id] = d.hands[i][0]
	}
	return out
}

// Advance closes a complete round: hands rotate left so each seat receives
// the hand of the seat after it, and the round index moves on.
func (d *DraftCoordinator) Advance() RoundResult {
	res := RoundResult{Round: d.round, Picks: make(map[string]string, len(d.seats))}
	for _, id := range d.seats {
		if p := d.picks[id]; len(p) > d.round {
			res.Picks[id] = p[d.round]
		}
	}
	if len(d.hands) > 1 {
		d.hands = append(d.hands[1:], d.hands[0])
	}
	d.round++
	res.Finished = d.Finished()
	d.dealing = !res.Finished
	return res
}

// RemoveSeat drops a player and the hand in front of them from the draft.
func (d *DraftCoordinator) RemoveSeat(player string) {
	seat := d.seatOf(player)
	if seat < 0 {
		return
	}
	d.seats = append(d.seats[:seat:seat], d.seats[seat+1:]...)
	if seat < len(d.hands) {
		d.hands = append(d.hands[:seat:seat], d.hands[seat+1:]...)
	}
	delete(d.picks, player)
}
