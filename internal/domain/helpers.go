package domain

// RemoveCard removes one copy of card from hand and reports whether it was present.
func RemoveCard(hand []string, card string) ([]string, bool) {
	for i, c := range hand {
		if c == card {
			out := make([]string, 0, len(hand)-1)
			out = append(out, hand[:i]...)
			return append(out, hand[i+1:]...), true
		}
	}
	return hand, false
}

// ContainsCard reports whether card is in hand.
func ContainsCard(hand []string, card string) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}

// CountCards tallies copies per id.
func CountCards(cards []string) map[string]int {
	counts := make(map[string]int, len(cards))
	for _, c := range cards {
		counts[c]++
	}
	return counts
}

// IsSubset reports whether every card of sub is covered by a distinct copy in of.
func IsSubset(sub, of []string) bool {
	available := CountCards(of)
	for _, c := range sub {
		if available[c] == 0 {
			return false
		}
		available[c]--
	}
	return true
}
