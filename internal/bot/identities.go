package bot

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/google/uuid"
)

type Identity struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Level       Level  `json:"level"`
}

// Pool hands out bot identities. It is read-only after construction.
type Pool struct {
	identities []Identity
	byID       map[string]Identity
}

// LoadIdentities loads the bot profiles from the given path.
func LoadIdentities(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot identities: %w", err)
	}
	var identities []Identity
	if err := json.Unmarshal(data, &identities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bot identities: %w", err)
	}
	return NewPool(identities), nil
}

// NewPool indexes identities. Entries without a user id are skipped.
func NewPool(identities []Identity) *Pool {
	p := &Pool{byID: map[string]Identity{}}
	for _, id := range identities {
		if id.UserID == "" {
			continue
		}
		p.identities = append(p.identities, id)
		p.byID[id.UserID] = id
	}
	return p
}

// IsBot reports whether the given user ID belongs to the bot pool.
func (p *Pool) IsBot(userID string) bool {
	_, ok := p.byID[userID]
	return ok
}

// Next returns an identity not in taken. When the pool is exhausted a fresh
// identity with a random id is made up.
func (p *Pool) Next(taken map[string]bool, rng *rand.Rand) Identity {
	free := make([]Identity, 0, len(p.identities))
	for _, id := range p.identities {
		if !taken[id.UserID] {
			free = append(free, id)
		}
	}
	if len(free) > 0 {
		return free[rng.Intn(len(free))]
	}
	return Identity{
		UserID:      "bot-" + uuid.NewString(),
		DisplayName: fmt.Sprintf("AI Chef %d", len(taken)+1),
	}
}

// NewAgent builds an agent for identity, playing at its level or fallback.
func NewAgent(identity Identity, fallback Level, rng *rand.Rand) (*Agent, error) {
	level := identity.Level
	if level == "" {
		level = fallback
	}
	brain, err := NewBrain(level, rng)
	if err != nil {
		return nil, err
	}
	return &Agent{ID: identity.UserID, Name: identity.DisplayName, Brain: brain}, nil
}
