// Command ramen-sim plays one room offline with AI players and prints the
// result as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"ramendo/internal/app"
	"ramendo/internal/bot"
	"ramendo/internal/catalog"
	"ramendo/internal/config"
	"ramendo/internal/domain"
	"ramendo/internal/scoring"
)

// maxSteps bounds a run in case a session stops making progress.
const maxSteps = 10000

func main() {
	var (
		players    = flag.Int("players", 4, "number of AI players (3 or 4)")
		configPath = flag.String("config", "", "game config YAML file")
		catalogDir = flag.String("catalog", "", "catalog data directory (embedded tables when empty)")
		identities = flag.String("bots", "", "bot identities JSON file")
		level      = flag.String("level", string(bot.LevelGreedy), "AI level: random or greedy")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		verbose    = flag.Bool("v", false, "log every event")
	)
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})).With("component", "ramen-sim")
	slog.SetDefault(logger)

	result, err := run(logger, options{
		players:    *players,
		configPath: *configPath,
		catalogDir: *catalogDir,
		identities: *identities,
		level:      bot.Level(*level),
		seed:       *seed,
	})
	if err != nil {
		logger.Error("Simulation failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("Failed to write result", "error", err)
		os.Exit(1)
	}
}

type options struct {
	players    int
	configPath string
	catalogDir string
	identities string
	level      bot.Level
	seed       int64
}

func run(logger *slog.Logger, opts options) (any, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.catalogDir != "" {
		cfg.CatalogDir = opts.catalogDir
	}

	var (
		cat *catalog.Catalog
		err error
	)
	if cfg.CatalogDir == "" {
		cat, err = catalog.Default()
	} else {
		cat, err = catalog.Load(cfg.CatalogDir)
	}
	if err != nil {
		return nil, err
	}

	pool := bot.NewPool(nil)
	if opts.identities != "" {
		if pool, err = bot.LoadIdentities(opts.identities); err != nil {
			return nil, err
		}
	}

	rng := rand.New(rand.NewSource(opts.seed))
	agents := make([]*bot.Agent, 0, opts.players)
	seats := make([]domain.Seat, 0, opts.players)
	taken := map[string]bool{}
	for i := 0; i < opts.players; i++ {
		agent, err := bot.NewAgent(pool.Next(taken, rng), opts.level, rng)
		if err != nil {
			return nil, err
		}
		taken[agent.ID] = true
		agents = append(agents, agent)
		seats = append(seats, agent.Seat())
	}

	sess, err := app.NewService(cfg, rng).NewSession(cat, seats)
	if err != nil {
		return nil, err
	}
	logger.Info("Room created", "players", len(seats), "seed", opts.seed, "level", opts.level)

	now := time.Unix(0, 0).UTC()
	events, err := sess.Start(now)
	logEvents(logger, events)
	if err != nil {
		return nil, err
	}

	for step := 0; step < maxSteps; step++ {
		switch sess.Phase() {
		case domain.PhaseResult:
			res, _ := sess.Result()
			logger.Info("Game finished", "customers", len(res.Customers), "winner", winner(res.Rankings))
			return res, nil
		case domain.PhaseAborted:
			return nil, fmt.Errorf("room aborted: %s", sess.AbortReason())
		}

		acted := false
		for _, agent := range agents {
			if !sess.Awaiting(agent.ID) {
				continue
			}
			events, err := agent.Act(now, sess)
			logEvents(logger, events)
			if err != nil {
				if !app.IsInvalidAction(err) {
					return nil, err
				}
				continue
			}
			acted = true
		}
		if acted {
			continue
		}

		// Nobody can move: jump to the pending timer.
		deadline, ok := sess.Deadline()
		if !ok {
			return nil, fmt.Errorf("session stuck in phase %s", sess.Phase())
		}
		now = deadline
		events, err := sess.Tick(now)
		logEvents(logger, events)
		if err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("no result after %d steps", maxSteps)
}

func winner(rankings []scoring.FinalScore) string {
	if len(rankings) == 0 {
		return ""
	}
	return rankings[0].Name
}

func logEvents(logger *slog.Logger, events []app.Event) {
	for _, ev := range events {
		logger.Debug("Event", "kind", ev.Kind, "recipients", ev.Recipients)
	}
}
