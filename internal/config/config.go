// Package config loads server configuration from environment variables
// and the optional fees YAML file. All values are resolved once in main
// and treated as immutable afterwards.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sokocargo/sokocargo/internal/pricing"
	"github.com/sokocargo/sokocargo/internal/tracking"
)

// Config holds server configuration.
type Config struct {
	Port        string
	DBPath      string
	AuditDBPath string
	RedisAddr   string
	ServiceName string

	// FeesFile optionally points at a YAML file overriding the default
	// fee structure. Empty means use pricing.DefaultFees.
	FeesFile string

	// StrictProgression, when true, makes the orders service reject
	// backward status jumps from the admin endpoint. Advancing is always
	// single-step regardless of this flag.
	StrictProgression bool

	Fees     pricing.FeeStructure
	Sequence tracking.Sequence
}

// feesFile is the on-disk shape of the fees override. Stages is optional;
// when present it replaces the canonical status sequence.
type feesFile struct {
	Fees   pricing.FeeStructure `yaml:"fees"`
	Stages []string             `yaml:"stages"`
}

// Load resolves configuration from the environment. A missing or malformed
// fee structure is fatal: the server must not boot with zeroed fees.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DBPath:            getEnv("DB_PATH", "./data/sokocargo.db"),
		AuditDBPath:       getEnv("AUDIT_DB_PATH", "./data/audit.db"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		ServiceName:       getEnv("OTEL_SERVICE_NAME", "sokocargo"),
		FeesFile:          os.Getenv("FEES_FILE"),
		StrictProgression: getEnv("STRICT_PROGRESSION", "true") != "false",
		Fees:              pricing.DefaultFees,
		Sequence:          tracking.Canonical(),
	}

	if cfg.FeesFile != "" {
		if err := cfg.applyFeesFile(cfg.FeesFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.Fees.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyFeesFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read fees file %q: %w", path, err)
	}

	var ff feesFile
	if err := yaml.Unmarshal(raw, &ff); err != nil {
		return fmt.Errorf("config: parse fees file %q: %w", path, err)
	}

	c.Fees = ff.Fees
	if len(ff.Stages) > 0 {
		stages := make([]tracking.Stage, len(ff.Stages))
		for i, s := range ff.Stages {
			stages[i] = tracking.Stage(strings.TrimSpace(s))
		}
		seq, err := tracking.NewSequence(stages...)
		if err != nil {
			return fmt.Errorf("config: fees file %q: %w", path, err)
		}
		c.Sequence = seq
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
