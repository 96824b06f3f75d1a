package main

import (
	"io"
	"log/slog"
	"testing"

	"ramendo/internal/bot"
	"ramendo/internal/scoring"
)

func TestRunPlaysToResult(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, players := range []int{3, 4} {
		out, err := run(logger, options{players: players, level: bot.LevelRandom, seed: 7})
		if err != nil {
			t.Fatalf("run with %d players: %v", players, err)
		}
		res, ok := out.(scoring.RoomResult)
		if !ok {
			t.Fatalf("unexpected result type %T", out)
		}
		if len(res.Rankings) != players {
			t.Fatalf("rankings = %d, want %d", len(res.Rankings), players)
		}
	}
}

func TestRunRejectsBadRoomSize(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := run(logger, options{players: 2, level: bot.LevelRandom, seed: 1}); err == nil {
		t.Fatal("expected error for a two player room")
	}
}
