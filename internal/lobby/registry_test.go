package lobby

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"ramendo/internal/domain"
)

func newTestRegistry() *Registry {
	return NewRegistry(3, 4, rand.New(rand.NewSource(11)))
}

func seat(id string) domain.Seat { return domain.Seat{PlayerID: id, Name: "Player " + id} }

func TestCreateAllocatesCodes(t *testing.T) {
	reg := newTestRegistry()
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		room, err := reg.Create(seat(string(rune('a'+i%26))+strings.Repeat("x", i/26)), 3)
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if len(room.Code) != CodeLength {
			t.Fatalf("code %q length = %d", room.Code, len(room.Code))
		}
		for _, c := range room.Code {
			if !strings.ContainsRune(CodeAlphabet, c) {
				t.Fatalf("code %q uses %q outside the alphabet", room.Code, c)
			}
		}
		if seen[room.Code] {
			t.Fatalf("code %q reused", room.Code)
		}
		seen[room.Code] = true
	}
	if reg.Count() != 200 {
		t.Fatalf("count = %d", reg.Count())
	}
}

func TestCreateValidates(t *testing.T) {
	reg := newTestRegistry()
	if _, err := reg.Create(seat("h"), 5); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("err = %v, want ErrInvalidSize", err)
	}
	if _, err := reg.Create(seat("h"), 4); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := reg.Create(seat("h"), 4); !errors.Is(err, ErrAlreadyInRoom) {
		t.Fatalf("err = %v, want ErrAlreadyInRoom", err)
	}
}

func TestJoinCapacity(t *testing.T) {
	reg := newTestRegistry()
	room, _ := reg.Create(seat("h"), 3)

	var capErr *CapacityError
	if _, err := reg.Join("ZZZZZZ", seat("x")); !errors.As(err, &capErr) || capErr.Code != ReasonRoomNotFound {
		t.Fatalf("err = %v, want room_not_found", err)
	}
	for _, id := range []string{"a", "b"} {
		if _, err := reg.Join(strings.ToLower(room.Code), seat(id)); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}
	if _, err := reg.Join(room.Code, seat("a")); err != nil {
		t.Fatalf("rejoin should be a no-op: %v", err)
	}
	if _, err := reg.Join(room.Code, seat("c")); !errors.As(err, &capErr) || capErr.Code != ReasonRoomFull {
		t.Fatalf("err = %v, want room_full", err)
	}

	got, _ := reg.Get(room.Code)
	if len(got.Members) != 3 {
		t.Fatalf("members = %v", got.Members)
	}
}

func TestJoinWhilePlaying(t *testing.T) {
	reg := newTestRegistry()
	room, _ := reg.Create(seat("h"), 4)
	if err := reg.MarkPlaying(room.Code); err != nil {
		t.Fatalf("mark playing: %v", err)
	}
	var capErr *CapacityError
	if _, err := reg.Join(room.Code, seat("a")); !errors.As(err, &capErr) || capErr.Code != ReasonGameInProgress {
		t.Fatalf("err = %v, want game_in_progress", err)
	}
	if capErr.Reason == "" {
		t.Fatal("capacity error needs a readable reason")
	}
}

func TestJoinFillsBlankNames(t *testing.T) {
	reg := newTestRegistry()
	room, _ := reg.Create(domain.Seat{PlayerID: "h"}, 3)
	if room.Members[0].Name == "" {
		t.Fatal("host got no name")
	}
	room, _ = reg.Join(room.Code, domain.Seat{PlayerID: "a", Name: "  "})
	if strings.TrimSpace(room.Members[1].Name) == "" {
		t.Fatal("joiner got no name")
	}
}

func TestLeaveMigratesHostAndDeletes(t *testing.T) {
	reg := newTestRegistry()
	room, _ := reg.Create(seat("h"), 4)
	reg.Join(room.Code, seat("a"))
	reg.Join(room.Code, seat("b"))

	res, err := reg.Leave(room.Code, "h")
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if !res.HostChanged || res.NewHostID != "a" || res.Deleted {
		t.Fatalf("result = %+v", res)
	}
	if _, ok := reg.FindByPlayer("h"); ok {
		t.Fatal("host still indexed")
	}

	res, _ = reg.Leave(room.Code, "b")
	if res.HostChanged {
		t.Fatal("non-host leaving must not change host")
	}
	if _, err := reg.Leave(room.Code, "b"); !errors.Is(err, ErrNotInRoom) {
		t.Fatalf("err = %v, want ErrNotInRoom", err)
	}
	res, _ = reg.Leave(room.Code, "a")
	if !res.Deleted || reg.Count() != 0 {
		t.Fatalf("room not deleted: %+v count=%d", res, reg.Count())
	}
}

func TestLeaveDeletesRoomWithOnlyBots(t *testing.T) {
	reg := newTestRegistry()
	room, _ := reg.Create(seat("h"), 3)
	reg.Join(room.Code, domain.Seat{PlayerID: "bot-1", Name: "Bot", Bot: true})
	res, err := reg.Leave(room.Code, "h")
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if !res.Deleted {
		t.Fatalf("room with only bots should close: %+v", res)
	}
	if _, ok := reg.FindByPlayer("bot-1"); ok {
		t.Fatal("bot still indexed")
	}
}

func TestCanStart(t *testing.T) {
	reg := newTestRegistry()
	room, _ := reg.Create(seat("h"), 3)
	reg.Join(room.Code, seat("a"))
	if err := reg.CanStart(room.Code, "h"); !errors.Is(err, ErrRosterIncomplete) {
		t.Fatalf("err = %v, want ErrRosterIncomplete", err)
	}
	reg.Join(room.Code, seat("b"))
	if err := reg.CanStart(room.Code, "a"); !errors.Is(err, ErrNotHost) {
		t.Fatalf("err = %v, want ErrNotHost", err)
	}
	if err := reg.CanStart(room.Code, "h"); err != nil {
		t.Fatalf("can start: %v", err)
	}
}

func TestFriendlyName(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 20; i++ {
		name := FriendlyName(rng)
		if len(name) < 6 {
			t.Fatalf("name %q too short", name)
		}
	}
}
