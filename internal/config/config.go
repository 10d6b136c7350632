// Package config loads wren settings from wren.yml and WREN_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/simonhull/firebird-suite/wren/internal/fields"
	"github.com/simonhull/firebird-suite/wren/internal/generator"
)

// FileName is the config file name (without extension) looked up in the project root.
const FileName = "wren"

// EnvPrefix prefixes environment overrides, e.g. WREN_OUTPUT_STATE.
const EnvPrefix = "WREN"

// Conflict strategies for destination files that already exist.
const (
	StrategyOverwrite   = generator.StrategyOverwrite
	StrategySkip        = generator.StrategySkip
	StrategyDiff        = generator.StrategyDiff
	StrategyInteractive = generator.StrategyInteractive
)

// Config holds resolved settings.
type Config struct {
	TemplatesDir     string
	TransactionPath  string
	StatePath        string
	DefaultType      string
	ConflictStrategy string
	FormatCommand    string

	// File is the config file that was read, empty when defaults were used.
	File string
}

// Default returns the settings used when no config file is present.
func Default() *Config {
	return &Config{
		TransactionPath:  "src/tx.rs",
		StatePath:        "src/state.rs",
		DefaultType:      fields.DefaultType,
		ConflictStrategy: StrategyOverwrite,
		FormatCommand:    "cargo fmt",
	}
}

// Load reads wren.yml from projectRoot, or explicitPath when given, and
// applies environment overrides. A missing wren.yml is not an error; a
// missing explicit file is.
func Load(fsys afero.Fs, projectRoot, explicitPath string) (*Config, error) {
	def := Default()

	v := viper.New()
	if fsys != nil {
		v.SetFs(fsys)
	}
	v.SetDefault("templates.dir", def.TemplatesDir)
	v.SetDefault("output.transaction", def.TransactionPath)
	v.SetDefault("output.state", def.StatePath)
	v.SetDefault("fields.default_type", def.DefaultType)
	v.SetDefault("conflict.strategy", def.ConflictStrategy)
	v.SetDefault("format.command", def.FormatCommand)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(projectRoot)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		TemplatesDir:     v.GetString("templates.dir"),
		TransactionPath:  v.GetString("output.transaction"),
		StatePath:        v.GetString("output.state"),
		DefaultType:      v.GetString("fields.default_type"),
		ConflictStrategy: strings.ToLower(v.GetString("conflict.strategy")),
		FormatCommand:    v.GetString("format.command"),
		File:             v.ConfigFileUsed(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that paths are set and the conflict strategy is known.
func (c *Config) Validate() error {
	if c.TransactionPath == "" {
		return fmt.Errorf("output.transaction must not be empty")
	}
	if c.StatePath == "" {
		return fmt.Errorf("output.state must not be empty")
	}
	if c.TransactionPath == c.StatePath {
		return fmt.Errorf("output.transaction and output.state both point to %s", c.StatePath)
	}

	switch c.ConflictStrategy {
	case StrategyOverwrite, StrategySkip, StrategyDiff, StrategyInteractive:
		return nil
	default:
		return fmt.Errorf("unsupported conflict strategy %q (supported: %s, %s, %s, %s)",
			c.ConflictStrategy, StrategyOverwrite, StrategySkip, StrategyDiff, StrategyInteractive)
	}
}
