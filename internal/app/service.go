package app

import (
	"math/rand"
	"sync"
	"time"

	"ramendo/internal/catalog"
	"ramendo/internal/config"
	"ramendo/internal/domain"
	"ramendo/internal/scoring"
)

// Service creates game sessions sharing one configuration. It is safe for
// concurrent use; each session it creates is not.
type Service struct {
	cfg *config.GameConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
// A nil cfg uses config.Default().
func NewService(cfg *config.GameConfig, rng *rand.Rand) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{cfg: cfg, rng: rng}
}

func (s *Service) Config() *config.GameConfig { return s.cfg }

// NewSession seats the roster in a waiting session scored against cat.
// The session keeps cat for its whole life, so reloading content never
// changes the rules of a game in flight.
func (s *Service) NewSession(cat *catalog.Catalog, seats []domain.Seat) (*Session, error) {
	if err := s.checkRoster(cat, seats); err != nil {
		return nil, err
	}
	s.mu.Lock()
	seed := s.rng.Int63()
	s.mu.Unlock()

	sess := &Session{
		cfg:    s.cfg,
		cat:    cat,
		engine: scoring.NewEngine(cat),
		rng:    rand.New(rand.NewSource(seed)),
		phase:  domain.PhaseWaiting,
		draft:  NewDraftCoordinator(s.cfg.DraftRounds),
	}
	sess.seat(seats)
	return sess, nil
}

func (s *Service) checkRoster(cat *catalog.Catalog, seats []domain.Seat) error {
	if len(seats) < s.cfg.MinPlayers {
		return ErrTooFewPlayers
	}
	if len(seats) > s.cfg.MaxPlayers {
		return ErrTooManyPlayers
	}
	return cat.CheckCapacity(len(seats), s.cfg.ActiveCustomers)
}
