package bot

import (
	"math/rand"
	"time"
)

// Scheduler spaces out bot moves so they do not all answer on the same tick.
// Each agent waits a random delay between min and max after a new stage
// (phase or draft round) begins.
type Scheduler struct {
	minDelay time.Duration
	maxDelay time.Duration
	rng      *rand.Rand

	stage map[string]string
	due   map[string]time.Time
}

func NewScheduler(minDelay, maxDelay time.Duration, rng *rand.Rand) *Scheduler {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Scheduler{
		minDelay: minDelay,
		maxDelay: maxDelay,
		rng:      rng,
		stage:    map[string]string{},
		due:      map[string]time.Time{},
	}
}

// Ready reports whether agent may act in stage at now. The first call for a
// new stage arms the agent's delay.
func (s *Scheduler) Ready(agent, stage string, now time.Time) bool {
	if s.stage[agent] != stage {
		s.stage[agent] = stage
		s.due[agent] = now.Add(s.delay())
	}
	return !now.Before(s.due[agent])
}

func (s *Scheduler) delay() time.Duration {
	span := s.maxDelay - s.minDelay
	if span <= 0 {
		return s.minDelay
	}
	return s.minDelay + time.Duration(s.rng.Int63n(int64(span)+1))
}

// Forget drops an agent that left.
func (s *Scheduler) Forget(agent string) {
	delete(s.stage, agent)
	delete(s.due, agent)
}
