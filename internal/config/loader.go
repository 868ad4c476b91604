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
//  2. file (YAML) if CREWOPS_CONFIG is set
//  3. env (prefix CREWOPS_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("CREWOPS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: CREWOPS_ADDR, CREWOPS_BATCH_WORKER_COUNT, ...
	// Map env keys like CREWOPS_BATCH_WORKER_COUNT -> batch_worker_count;
	// underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("CREWOPS_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "crewops_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.BatchWorkerCount <= 0 {
		return nil, fmt.Errorf("%w: batch_worker_count must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
