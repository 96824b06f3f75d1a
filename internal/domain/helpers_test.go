package domain

import (
	"reflect"
	"testing"
)

func TestRemoveCard(t *testing.T) {
	tests := []struct {
		name   string
		hand   []string
		card   string
		want   []string
		wantOK bool
	}{
		{name: "removes single copy", hand: []string{"negi", "nori", "negi"}, card: "negi", want: []string{"nori", "negi"}, wantOK: true},
		{name: "missing card", hand: []string{"nori"}, card: "corn", want: []string{"nori"}, wantOK: false},
		{name: "last card", hand: []string{"corn"}, card: "corn", want: []string{}, wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RemoveCard(tt.hand, tt.card)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("hand = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemoveCardDoesNotAliasInput(t *testing.T) {
	hand := []string{"a", "b", "c"}
	if _, ok := RemoveCard(hand, "a"); !ok {
		t.Fatal("expected removal")
	}
	if !reflect.DeepEqual(hand, []string{"a", "b", "c"}) {
		t.Fatalf("input mutated: %v", hand)
	}
}

func TestIsSubset(t *testing.T) {
	tests := []struct {
		name string
		sub  []string
		of   []string
		want bool
	}{
		{name: "empty", sub: nil, of: []string{"a"}, want: true},
		{name: "distinct", sub: []string{"a", "b"}, of: []string{"b", "a", "c"}, want: true},
		{name: "duplicates covered", sub: []string{"a", "a"}, of: []string{"a", "b", "a"}, want: true},
		{name: "duplicates not covered", sub: []string{"a", "a"}, of: []string{"a", "b"}, want: false},
		{name: "foreign card", sub: []string{"z"}, of: []string{"a"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSubset(tt.sub, tt.of); got != tt.want {
				t.Fatalf("IsSubset(%v, %v) = %v, want %v", tt.sub, tt.of, got, tt.want)
			}
		})
	}
}

func TestPhaseNext(t *testing.T) {
	want := []Phase{PhaseSoupSelect, PhaseNoodleSelect, PhaseDraft, PhasePlacement, PhaseScoring, PhaseCeremony, PhaseResult, PhaseResult}
	for i, phase := range GamePhases {
		if got := phase.Next(); got != want[i] {
			t.Fatalf("%s.Next() = %s, want %s", phase, got, want[i])
		}
	}
	if PhaseWaiting.Next() != PhaseWaiting {
		t.Fatalf("waiting should not advance on its own")
	}
}
