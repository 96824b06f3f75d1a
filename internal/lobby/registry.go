// Package lobby keeps track of open rooms and who sits in them. It knows
// nothing about game rules; a room is a code, a host and a roster.
package lobby

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"ramendo/internal/domain"
)

// CodeAlphabet avoids characters that read alike (0/O, 1/I).
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	CodeLength      = 6
	maxCodeAttempts = 64
)

type Status string

const (
	StatusWaiting Status = "waiting"
	StatusPlaying Status = "playing"
)

// Room is a snapshot of one open room.
type Room struct {
	Code       string        `json:"code"`
	HostID     string        `json:"host_id"`
	MaxPlayers int           `json:"max_players"`
	Members    []domain.Seat `json:"members"`
	Status     Status        `json:"status"`
	MatchID    string        `json:"match_id,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Full reports whether every seat is taken.
func (r Room) Full() bool { return len(r.Members) >= r.MaxPlayers }

// Has reports whether player sits in the room.
func (r Room) Has(player string) bool {
	for _, m := range r.Members {
		if m.PlayerID == player {
			return true
		}
	}
	return false
}

func (r *Room) clone() Room {
	out := *r
	out.Members = append([]domain.Seat(nil), r.Members...)
	return out
}

// LeaveResult describes what a departure did to the room.
type LeaveResult struct {
	Room        Room
	HostChanged bool
	NewHostID   string
	Deleted     bool
}

// Registry maps room codes to rooms. It is safe for concurrent use.
type Registry struct {
	minSize int
	maxSize int
	now     func() time.Time

	mu       sync.Mutex
	rng      *rand.Rand
	rooms    map[string]*Room
	byPlayer map[string]string
}

// NewRegistry accepts rooms of minSize to maxSize seats. rng may be nil.
func NewRegistry(minSize, maxSize int, rng *rand.Rand) *Registry {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Registry{
		minSize:  minSize,
		maxSize:  maxSize,
		now:      time.Now,
		rng:      rng,
		rooms:    map[string]*Room{},
		byPlayer: map[string]string{},
	}
}

// Create opens a room with host in the first seat.
func (r *Registry) Create(host domain.Seat, maxPlayers int) (Room, error) {
	if maxPlayers < r.minSize || maxPlayers > r.maxSize {
		return Room{}, ErrInvalidSize
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, busy := r.byPlayer[host.PlayerID]; busy {
		return Room{}, ErrAlreadyInRoom
	}
	code, err := r.newCode()
	if err != nil {
		return Room{}, err
	}
	host.Name = r.displayName(host.Name)
	room := &Room{
		Code:       code,
		HostID:     host.PlayerID,
		MaxPlayers: maxPlayers,
		Members:    []domain.Seat{host},
		Status:     StatusWaiting,
		CreatedAt:  r.now(),
	}
	r.rooms[code] = room
	r.byPlayer[host.PlayerID] = code
	return room.clone(), nil
}

func (r *Registry) newCode() (string, error) {
	var b strings.Builder
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		b.Reset()
		for i := 0; i < CodeLength; i++ {
			b.WriteByte(CodeAlphabet[r.rng.Intn(len(CodeAlphabet))])
		}
		if _, taken := r.rooms[b.String()]; !taken {
			return b.String(), nil
		}
	}
	return "", ErrCodeSpace
}

func (r *Registry) displayName(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return FriendlyName(r.rng)
}

// Join seats a player. Joining a room one already sits in is a no-op.
func (r *Registry) Join(code string, seat domain.Seat) (Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code = strings.ToUpper(strings.TrimSpace(code))
	room, ok := r.rooms[code]
	if !ok {
		return Room{}, capacityError(ReasonRoomNotFound, "room %s does not exist", code)
	}
	if room.Has(seat.PlayerID) {
		return room.clone(), nil
	}
	if other, busy := r.byPlayer[seat.PlayerID]; busy && other != code {
		return Room{}, ErrAlreadyInRoom
	}
	if room.Status != StatusWaiting {
		return Room{}, capacityError(ReasonGameInProgress, "room %s is already playing", code)
	}
	if room.Full() {
		return Room{}, capacityError(ReasonRoomFull, "room %s is full (%d/%d)", code, len(room.Members), room.MaxPlayers)
	}
	seat.Name = r.displayName(seat.Name)
	room.Members = append(room.Members, seat)
	r.byPlayer[seat.PlayerID] = code
	return room.clone(), nil
}

// Leave removes a player, hands the host role to the next remaining human
// (or anyone if only bots remain) and deletes the room once it is empty.
func (r *Registry) Leave(code, player string) (LeaveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[code]
	if !ok {
		return LeaveResult{}, capacityError(ReasonRoomNotFound, "room %s does not exist", code)
	}
	idx := -1
	for i, m := range room.Members {
		if m.PlayerID == player {
			idx = i
			break
		}
	}
	if idx < 0 {
		return LeaveResult{}, ErrNotInRoom
	}
	room.Members = append(room.Members[:idx:idx], room.Members[idx+1:]...)
	delete(r.byPlayer, player)

	res := LeaveResult{}
	if !hasHuman(room.Members) {
		for _, m := range room.Members {
			delete(r.byPlayer, m.PlayerID)
		}
		room.Members = nil
	}
	if len(room.Members) == 0 {
		delete(r.rooms, code)
		res.Deleted = true
		res.Room = room.clone()
		return res, nil
	}
	if room.HostID == player {
		room.HostID = nextHost(room.Members)
		res.HostChanged = true
		res.NewHostID = room.HostID
	}
	res.Room = room.clone()
	return res, nil
}

func hasHuman(members []domain.Seat) bool {
	for _, m := range members {
		if !m.Bot {
			return true
		}
	}
	return false
}

func nextHost(members []domain.Seat) string {
	for _, m := range members {
		if !m.Bot {
			return m.PlayerID
		}
	}
	return members[0].PlayerID
}

// CanStart checks that requester hosts a full room.
func (r *Registry) CanStart(code, requester string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[code]
	if !ok {
		return capacityError(ReasonRoomNotFound, "room %s does not exist", code)
	}
	if room.HostID != requester {
		return ErrNotHost
	}
	if !room.Full() {
		return ErrRosterIncomplete
	}
	return nil
}

func (r *Registry) MarkPlaying(code string) error { return r.setStatus(code, StatusPlaying) }
func (r *Registry) MarkWaiting(code string) error { return r.setStatus(code, StatusWaiting) }

func (r *Registry) setStatus(code string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[code]
	if !ok {
		return capacityError(ReasonRoomNotFound, "room %s does not exist", code)
	}
	room.Status = status
	return nil
}

// AttachMatch records the Nakama match serving the room.
func (r *Registry) AttachMatch(code, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[code]
	if !ok {
		return capacityError(ReasonRoomNotFound, "room %s does not exist", code)
	}
	room.MatchID = matchID
	return nil
}

func (r *Registry) Get(code string) (Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[strings.ToUpper(code)]
	if !ok {
		return Room{}, false
	}
	return room.clone(), true
}

func (r *Registry) FindByPlayer(player string) (Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.byPlayer[player]
	if !ok {
		return Room{}, false
	}
	return r.rooms[code].clone(), true
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}
