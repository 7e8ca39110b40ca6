package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/tatianab/lifegit/internal/engine"
)

// Narrator backends.
const (
	NarratorAuto    = "auto"
	NarratorGemini  = "gemini"
	NarratorOpenAI  = "openai"
	NarratorOffline = "offline"
)

// Config holds the application configuration.
type Config struct {
	Narrator         string        `env:"LIFEGIT_NARRATOR" envDefault:"auto"`
	GeminiAPIKey     string        `env:"GEMINI_API_KEY"`
	GeminiModel      string        `env:"LIFEGIT_GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIModel      string        `env:"LIFEGIT_OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	NarrationTimeout time.Duration `env:"LIFEGIT_NARRATION_TIMEOUT" envDefault:"15s"`
	NarrationRPS     float64       `env:"LIFEGIT_NARRATION_RPS" envDefault:"1"`
	NarrateCheckout  bool          `env:"LIFEGIT_NARRATE_CHECKOUT"`
	RulesFile        string        `env:"LIFEGIT_RULES"`
	Seed             int64         `env:"LIFEGIT_SEED"`
	LogFile          string        `env:"LIFEGIT_LOG_FILE"`
	LogLevel         string        `env:"LIFEGIT_LOG_LEVEL" envDefault:"info"`

	// Rules come from LIFEGIT_RULES, not the environment.
	Rules engine.Rules
}

// LoadConfig loads the configuration from a .env file if present, then the
// environment, then the optional rules file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse(env.Options{})
}

// Parse reads the configuration using opts. Tests pass an Environment map.
func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Narrator = strings.ToLower(strings.TrimSpace(cfg.Narrator))

	cfg.Rules = engine.DefaultRules()
	if cfg.RulesFile != "" {
		if err := LoadRules(&cfg.Rules, cfg.RulesFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadRules overlays the TOML file at path onto rules.
func LoadRules(rules *engine.Rules, path string) error {
	if _, err := toml.DecodeFile(path, rules); err != nil {
		return fmt.Errorf("failed to decode rules file %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration can start a game.
func (c *Config) Validate() error {
	switch c.Narrator {
	case NarratorAuto, NarratorOffline:
	case NarratorGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable is not set")
		}
	case NarratorOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
	default:
		return fmt.Errorf("unknown narrator %q, want auto, gemini, openai or offline", c.Narrator)
	}
	if c.NarrationTimeout <= 0 {
		return fmt.Errorf("narration timeout must be positive, got %s", c.NarrationTimeout)
	}
	return ValidateRules(c.Rules)
}

// ValidateRules checks game rules.
func ValidateRules(r engine.Rules) error {
	if strings.TrimSpace(r.DangerMarker) == "" {
		return fmt.Errorf("danger_marker must not be empty")
	}
	if r.DeathChance < 0 || r.DeathChance > 1 {
		return fmt.Errorf("death_chance must be between 0 and 1, got %v", r.DeathChance)
	}
	if r.BranchMasterThreshold < 1 {
		return fmt.Errorf("branch_master_threshold must be at least 1, got %d", r.BranchMasterThreshold)
	}
	if r.ExplorerThreshold < 1 {
		return fmt.Errorf("explorer_threshold must be at least 1, got %d", r.ExplorerThreshold)
	}
	return nil
}

// Backend resolves auto to the first backend with a key.
func (c *Config) Backend() string {
	if c.Narrator != NarratorAuto {
		return c.Narrator
	}
	switch {
	case c.GeminiAPIKey != "":
		return NarratorGemini
	case c.OpenAIAPIKey != "":
		return NarratorOpenAI
	}
	return NarratorOffline
}
