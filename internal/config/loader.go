package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if BINGO_CONFIG is set
//  3. env (prefix BINGO_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("BINGO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: BINGO_ADDR, BINGO_TEAM_NAMES, ...
	// Map env keys like BINGO_TEAM_NAMES -> team_names (flat keys),
	// preserving underscores to match koanf tags on the struct.
	envProvider := env.Provider("BINGO_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "bingo_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.WriteLockTimeoutMS <= 0 {
		return fmt.Errorf("%w: write_lock_timeout_ms must be positive", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.TeamNames))
	for _, team := range c.TeamNames {
		if strings.TrimSpace(team) == "" {
			return fmt.Errorf("%w: team names must not be blank", ErrInvalidConfig)
		}
		if seen[team] {
			return fmt.Errorf("%w: duplicate team %q", ErrInvalidConfig, team)
		}
		seen[team] = true
	}
	for team := range c.TeamPasswords {
		if !seen[team] {
			return fmt.Errorf("%w: password for unknown team %q", ErrInvalidConfig, team)
		}
	}
	return nil
}
