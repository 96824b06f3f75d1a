package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ramendo/internal/domain"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.HandSizes[3] != 10 || cfg.HandSizes[4] != 9 {
		t.Fatalf("hand sizes = %v", cfg.HandSizes)
	}
	if cfg.Timers.For(domain.PhaseDraft) != 15*time.Second {
		t.Fatalf("draft timer = %v", cfg.Timers.For(domain.PhaseDraft))
	}
	if cfg.Timers.For(domain.PhaseResult) != 0 {
		t.Fatal("result phase is untimed")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	data := []byte(`
timers:
  placement: 90s
  draft_round_delay: 500ms
bots:
  enabled: false
  level: random
active_customers: 3
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Timers.Placement != 90*time.Second || cfg.Timers.DraftRoundDelay != 500*time.Millisecond {
		t.Fatalf("timers = %+v", cfg.Timers)
	}
	if cfg.Timers.CharSelect != 15*time.Second {
		t.Fatalf("unset timer lost its default: %v", cfg.Timers.CharSelect)
	}
	if cfg.Bots.Enabled || cfg.Bots.Level != "random" || cfg.ActiveCustomers != 3 {
		t.Fatalf("bots/customers = %+v/%d", cfg.Bots, cfg.ActiveCustomers)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	if err := os.WriteFile(path, []byte("draft_rounds: 12\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := Load(path)
	var cfgErr *domain.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(map[string]string{
		EnvBotsEnabled:    "false",
		EnvBotMaxDelaySec: "7",
		EnvCatalogDir:     "/srv/catalog",
		EnvVoiceIssuer:    "issuer",
	})
	if err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.Bots.Enabled || cfg.Bots.MaxDelay != 7*time.Second || cfg.CatalogDir != "/srv/catalog" || cfg.Voice.Issuer != "issuer" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if err := cfg.ApplyEnv(map[string]string{EnvBotMinDelaySec: "soon"}); err == nil {
		t.Fatal("expected error for non-numeric delay")
	}
}
