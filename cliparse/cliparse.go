// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/safeballot/safeballot/db"
)

const DefaultPort = 3318

type Config struct {
	Port         int    `yaml:"port"         envconfig:"PORT"`
	DatabaseURL  string `yaml:"databaseUrl"  envconfig:"DATABASE_URL"`
	DatabaseType string `yaml:"databaseType" envconfig:"DATABASE_TYPE"`
	IPHashSalt   string `yaml:"ipHashSalt"   envconfig:"IP_HASH_SALT"`
	// Empty disables bearer caller identities
	JWTSecret string `yaml:"jwtSecret" envconfig:"JWT_SECRET"`

	// Demo overrides; strict when false
	AutoVerifyVoters bool `yaml:"autoVerifyVoters" envconfig:"DEMO_AUTO_VERIFY"`
	AllowRevote      bool `yaml:"allowRevote"      envconfig:"DEMO_ALLOW_REVOTE"`

	RequireActiveBallot bool `yaml:"requireActiveBallot" envconfig:"REQUIRE_ACTIVE_BALLOT"`

	Debug         bool   `yaml:"debug"         envconfig:"DEBUG"`
	Tracing       bool   `yaml:"tracing"       envconfig:"TRACING"`
	TracingStdout bool   `yaml:"tracingStdout" envconfig:"TRACING_STDOUT"`
	ConfigFile    string `yaml:"-"             envconfig:"CONFIG_FILE"`
}

// ParseFlags builds the configuration from defaults, an optional YAML file,
// environment variables and CLI flags, in increasing order of precedence.
func ParseFlags(args []string) (Config, error) {
	var cli Config

	fs := flag.NewFlagSet("safeballot", flag.ContinueOnError)

	// Network and storage
	fs.IntVar(&cli.Port, "p", 0, "Server port")
	fs.StringVar(&cli.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cli.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cli.ConfigFile, "config", "", "Path to YAML config file")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cli.IPHashSalt, "ip-salt", "", "IP hash salt (prefer env)")
	fs.StringVar(&cli.JWTSecret, "jwt-secret", "", "Caller token HMAC secret (prefer env)")

	// Voting modes
	fs.BoolVar(&cli.AutoVerifyVoters, "demo-auto-verify", false, "Auto-verify unverified voters (demo only)")
	fs.BoolVar(&cli.AllowRevote, "demo-allow-revote", false, "Let voters vote again (demo only)")
	fs.BoolVar(&cli.RequireActiveBallot, "require-active", false, "Reject votes on ballots that are not active")

	// Observability
	fs.BoolVar(&cli.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&cli.Tracing, "tracing", false, "Export OpenTelemetry traces over OTLP/HTTP")
	fs.BoolVar(&cli.TracingStdout, "tracing-stdout", false, "Export OpenTelemetry traces to stdout")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := Config{Port: DefaultPort}

	configFile := cli.ConfigFile
	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	if configFile != "" {
		if err := loadFile(configFile, &cfg); err != nil {
			return Config{}, err
		}
		cfg.ConfigFile = configFile
	}

	// Fall back to environment variables
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	overlay(&cfg, cli, set)

	if err := validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	return nil
}

// overlay copies the flags given on the command line over cfg.
func overlay(cfg *Config, cli Config, set map[string]bool) {
	if set["p"] {
		cfg.Port = cli.Port
	}
	if set["d"] {
		cfg.DatabaseURL = cli.DatabaseURL
	}
	if set["t"] {
		cfg.DatabaseType = cli.DatabaseType
	}
	if set["config"] {
		cfg.ConfigFile = cli.ConfigFile
	}
	if set["ip-salt"] {
		cfg.IPHashSalt = cli.IPHashSalt
	}
	if set["jwt-secret"] {
		cfg.JWTSecret = cli.JWTSecret
	}
	if set["demo-auto-verify"] {
		cfg.AutoVerifyVoters = cli.AutoVerifyVoters
	}
	if set["demo-allow-revote"] {
		cfg.AllowRevote = cli.AllowRevote
	}
	if set["require-active"] {
		cfg.RequireActiveBallot = cli.RequireActiveBallot
	}
	if set["debug"] {
		cfg.Debug = cli.Debug
	}
	if set["tracing"] {
		cfg.Tracing = cli.Tracing
	}
	if set["tracing-stdout"] {
		cfg.TracingStdout = cli.TracingStdout
	}
}

func validate(cfg *Config) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", cfg.Port)
	}

	if cfg.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return err
	}
	cfg.DatabaseType = string(dialect)

	// Secrets - MUST be provided
	if cfg.IPHashSalt == "" {
		return errors.New("IP_HASH_SALT required")
	}

	return nil
}
