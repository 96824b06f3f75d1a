package lobby

import (
	"fmt"
	"math/rand"
)

var (
	nameAdjectives = []string{"Slurpy", "Spicy", "Steamy", "Savory", "Crispy", "Golden", "Umami", "Hungry", "Silky", "Toasty"}
	nameNouns      = []string{"Noodle", "Chashu", "Nori", "Menma", "Naruto", "Tamago", "Broth", "Ladle", "Dumpling", "Chopstick"}
)

// FriendlyName builds a display name for a player who did not pick one.
func FriendlyName(rng *rand.Rand) string {
	adj := nameAdjectives[rng.Intn(len(nameAdjectives))]
	noun := nameNouns[rng.Intn(len(nameNouns))]
	num := rng.Intn(90) + 10
	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
