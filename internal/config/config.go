package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"ramendo/internal/domain"

	"gopkg.in/yaml.v3"
)

// Env keys read from the Nakama runtime environment.
const (
	EnvConfigPath     = "ramen_config_path"
	EnvCatalogDir     = "ramen_catalog_dir"
	EnvBotIdentities  = "ramen_bot_identities_path"
	EnvBotsEnabled    = "ramen_bots_enabled"
	EnvBotMinDelaySec = "ramen_bot_min_delay_sec"
	EnvBotMaxDelaySec = "ramen_bot_max_delay_sec"
	EnvBotAutoFillSec = "ramen_bot_auto_fill_delay_sec"
	EnvVoiceSecret    = "ramen_voice_secret"
	EnvVoiceIssuer    = "ramen_voice_issuer"
	EnvVoiceDomain    = "ramen_voice_domain"
)

type Timers struct {
	CharSelect      time.Duration `yaml:"char_select"`
	SoupSelect      time.Duration `yaml:"soup_select"`
	NoodleSelect    time.Duration `yaml:"noodle_select"`
	DraftTurn       time.Duration `yaml:"draft_turn"`
	Placement       time.Duration `yaml:"placement"`
	DraftRoundDelay time.Duration `yaml:"draft_round_delay"`
}

// For returns the timeout of a timed phase, zero for untimed phases.
func (t Timers) For(phase domain.Phase) time.Duration {
	switch phase {
	case domain.PhaseCharSelect:
		return t.CharSelect
	case domain.PhaseSoupSelect:
		return t.SoupSelect
	case domain.PhaseNoodleSelect:
		return t.NoodleSelect
	case domain.PhaseDraft:
		return t.DraftTurn
	case domain.PhasePlacement:
		return t.Placement
	}
	return 0
}

type Bots struct {
	Enabled        bool          `yaml:"enabled"`
	Level          string        `yaml:"level"`
	MinDelay       time.Duration `yaml:"min_delay"`
	MaxDelay       time.Duration `yaml:"max_delay"`
	AutoFillDelay  time.Duration `yaml:"auto_fill_delay"`
	IdentitiesPath string        `yaml:"identities_path"`
}

type Voice struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
	Domain string `yaml:"domain"`
}

// GameConfig holds the tunables of a ramen room.
type GameConfig struct {
	Timers          Timers      `yaml:"timers"`
	HandSizes       map[int]int `yaml:"hand_sizes"`
	DraftRounds     int         `yaml:"draft_rounds"`
	ActiveCustomers int         `yaml:"active_customers"`
	MinPlayers      int         `yaml:"min_players"`
	MaxPlayers      int         `yaml:"max_players"`
	TickRate        int         `yaml:"tick_rate"`
	CatalogDir      string      `yaml:"catalog_dir"`
	Bots            Bots        `yaml:"bots"`
	Voice           Voice       `yaml:"voice"`
}

// Default returns the standard rules: 3 or 4 players, nine draft rounds.
func Default() *GameConfig {
	return &GameConfig{
		Timers: Timers{
			CharSelect:      15 * time.Second,
			SoupSelect:      10 * time.Second,
			NoodleSelect:    10 * time.Second,
			DraftTurn:       15 * time.Second,
			Placement:       60 * time.Second,
			DraftRoundDelay: 1500 * time.Millisecond,
		},
		HandSizes:       map[int]int{3: 10, 4: 9},
		DraftRounds:     9,
		ActiveCustomers: 2,
		MinPlayers:      3,
		MaxPlayers:      4,
		TickRate:        5,
		Bots: Bots{
			Enabled:       true,
			Level:         "greedy",
			MinDelay:      time.Second,
			MaxDelay:      3 * time.Second,
			AutoFillDelay: 5 * time.Second,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the Nakama runtime environment.
func (c *GameConfig) ApplyEnv(env map[string]string) error {
	if v, ok := env[EnvCatalogDir]; ok && v != "" {
		c.CatalogDir = v
	}
	if v, ok := env[EnvBotIdentities]; ok && v != "" {
		c.Bots.IdentitiesPath = v
	}
	if v, ok := env[EnvBotsEnabled]; ok {
		c.Bots.Enabled = v == "true"
	}
	seconds := []struct {
		key string
		dst *time.Duration
	}{
		{EnvBotMinDelaySec, &c.Bots.MinDelay},
		{EnvBotMaxDelaySec, &c.Bots.MaxDelay},
		{EnvBotAutoFillSec, &c.Bots.AutoFillDelay},
	}
	for _, s := range seconds {
		v, ok := env[s.key]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", s.key, v, err)
		}
		*s.dst = time.Duration(n) * time.Second
	}
	if v, ok := env[EnvVoiceSecret]; ok {
		c.Voice.Secret = v
	}
	if v, ok := env[EnvVoiceIssuer]; ok {
		c.Voice.Issuer = v
	}
	if v, ok := env[EnvVoiceDomain]; ok {
		c.Voice.Domain = v
	}
	return c.Validate()
}

// Validate reports settings no room could be played with.
func (c *GameConfig) Validate() error {
	if c.MinPlayers < 1 || c.MaxPlayers < c.MinPlayers {
		return &domain.ConfigError{Table: "config", Key: "players", Reason: fmt.Sprintf("invalid player range %d..%d", c.MinPlayers, c.MaxPlayers)}
	}
	for n := c.MinPlayers; n <= c.MaxPlayers; n++ {
		size, ok := c.HandSizes[n]
		if !ok {
			return &domain.ConfigError{Table: "config", Key: "hand_sizes", Reason: fmt.Sprintf("no hand size for %d players", n)}
		}
		if size < c.DraftRounds {
			return &domain.ConfigError{Table: "config", Key: "hand_sizes", Reason: fmt.Sprintf("hand of %d cannot last %d draft rounds", size, c.DraftRounds)}
		}
	}
	if c.DraftRounds < 1 {
		return &domain.ConfigError{Table: "config", Key: "draft_rounds", Reason: "must be positive"}
	}
	if c.ActiveCustomers < 0 {
		return &domain.ConfigError{Table: "config", Key: "active_customers", Reason: "must not be negative"}
	}
	for _, phase := range []domain.Phase{domain.PhaseCharSelect, domain.PhaseSoupSelect, domain.PhaseNoodleSelect, domain.PhaseDraft, domain.PhasePlacement} {
		if c.Timers.For(phase) <= 0 {
			return &domain.ConfigError{Table: "config", Key: "timers." + string(phase), Reason: "must be positive"}
		}
	}
	if c.Timers.DraftRoundDelay < 0 {
		return &domain.ConfigError{Table: "config", Key: "timers.draft_round_delay", Reason: "must not be negative"}
	}
	if c.TickRate < 1 {
		return &domain.ConfigError{Table: "config", Key: "tick_rate", Reason: "must be positive"}
	}
	if c.Bots.MinDelay < 0 || c.Bots.MaxDelay < c.Bots.MinDelay {
		return &domain.ConfigError{Table: "config", Key: "bots", Reason: "max_delay must not be below min_delay"}
	}
	return nil
}
