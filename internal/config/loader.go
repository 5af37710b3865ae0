package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	// envPrefix namespaces threadscan environment overrides.
	envPrefix = "THREADSCAN_"
)

// Load builds the configuration in precedence order:
//
//  1. Environment variables (THREADSCAN_DETECTION_MIN_NOISE_HITS, ...)
//  2. YAML config file (optional; configPath may be empty)
//  3. Built-in defaults (DefaultConfig)
//
// The enrichment credential is taken from OPENAI_API_KEY; its presence is
// the only thing that activates the enrichment overlay.
//
// Environment variables map the first underscore-delimited token to a
// config section and keep the rest as the field name:
//
//	THREADSCAN_DETECTION_MIN_NOISE_HITS -> detection.min_noise_hits
//	THREADSCAN_ENRICHMENT_TIER1_MODEL   -> enrichment.tier1_model
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Credential presence is resolved once, here. The rest of the
	// pipeline only sees the derived Enabled() flag.
	if !cfg.Enrichment.APIKey.IsSet() {
		cfg.Enrichment.APIKey = Secret(strings.TrimSpace(os.Getenv("OPENAI_API_KEY")))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// readConfigFile opens and validates the config file, enforcing the size
// limit on the already-open descriptor to avoid a stat/read race.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}
