package nakama

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"ramendo/internal/app"
	"ramendo/internal/bot"
	"ramendo/internal/catalog"
	"ramendo/internal/config"
	"ramendo/internal/lobby"
	"ramendo/internal/scoring"
)

// Module owns everything the RPCs and room matches share.
type Module struct {
	cfg      *config.GameConfig
	catalog  *catalog.Catalog
	engine   *scoring.Engine
	service  *app.Service
	registry *lobby.Registry
	bots     *bot.Pool
	voice    *app.VoiceService
	now      func() time.Time
}

// NewModule builds the shared state. A nil pool means generated bot ids.
func NewModule(cfg *config.GameConfig, cat *catalog.Catalog, bots *bot.Pool, rng *rand.Rand) (*Module, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cat.CheckCapacity(cfg.MaxPlayers, cfg.ActiveCustomers); err != nil {
		return nil, fmt.Errorf("catalog cannot serve a %d player room: %w", cfg.MaxPlayers, err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if bots == nil {
		bots = bot.NewPool(nil)
	}
	return &Module{
		cfg:      cfg,
		catalog:  cat,
		engine:   scoring.NewEngine(cat),
		service:  app.NewService(cfg, rand.New(rand.NewSource(rng.Int63()))),
		registry: lobby.NewRegistry(cfg.MinPlayers, cfg.MaxPlayers, rand.New(rand.NewSource(rng.Int63()))),
		bots:     bots,
		voice:    app.NewVoiceService(cfg.Voice, rand.New(rand.NewSource(rng.Int63()))),
		now:      time.Now,
	}, nil
}

// Register wires RPCs and the room match handler.
func (m *Module) Register(initializer runtime.Initializer) error {
	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcCreateRoom:   m.RpcCreateRoom,
		RpcJoinRoom:     m.RpcJoinRoom,
		RpcPreviewScore: m.RpcPreviewScore,
		RpcCatalog:      m.RpcCatalog,
		RpcVoiceToken:   m.RpcVoiceToken,
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return fmt.Errorf("register rpc %s: %w", id, err)
		}
	}

	return initializer.RegisterMatch(MatchNameRamen, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return &matchHandler{m: m}, nil
	})
}

// loadConfig reads the config file named in env, then env overrides.
func loadConfig(env map[string]string) (*config.GameConfig, error) {
	cfg := config.Default()
	if path := env[config.EnvConfigPath]; path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.Default()
	}
	return catalog.Load(dir)
}

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)

	cfg, err := loadConfig(env)
	if err != nil {
		logger.Error("InitModule: Invalid game config: %v", err)
		return err
	}
	cat, err := loadCatalog(cfg.CatalogDir)
	if err != nil {
		logger.Error("InitModule: Failed to load catalog: %v", err)
		return err
	}

	var pool *bot.Pool
	if cfg.Bots.IdentitiesPath != "" {
		pool, err = bot.LoadIdentities(cfg.Bots.IdentitiesPath)
		if err != nil {
			logger.Warn("InitModule: Using generated bot identities: %v", err)
			pool = nil
		}
	}

	m, err := NewModule(cfg, cat, pool, nil)
	if err != nil {
		logger.Error("InitModule: %v", err)
		return err
	}
	if !m.voice.Enabled() {
		logger.Warn("InitModule: Voice tokens disabled, set %s, %s and %s.", config.EnvVoiceSecret, config.EnvVoiceIssuer, config.EnvVoiceDomain)
	}
	if err := m.Register(initializer); err != nil {
		return err
	}

	logger.Info("Ramen Go module loaded.")
	return nil
}
