// Package config loads settings from flags, KIN_* environment variables and
// an optional config file, in that order of precedence.
package config

import (
	"fmt"
	"strings"
	"sync"

	"kin/searcher"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug             = "debug"
	ConfigConfigFile        = "config"
	ConfigGame              = "game"
	ConfigAddress           = "address"
	ConfigExplorationFactor = "exploration-factor"
	ConfigSearchIterations  = "search-iterations"
	ConfigSeed              = "seed"
	ConfigMaxPlies          = "max-plies"
	ConfigSetup             = "setup"
	ConfigOutputDir         = "output-dir"
	ConfigBenchmarkRuns     = "benchmark-runs"
)

// Defaults.
const (
	DefaultGame          = "tictactoe"
	DefaultMaxPlies      = 300
	DefaultOutputDir     = "experiments"
	DefaultBenchmarkRuns = 100
)

type Config struct {
	sync.Mutex
	*viper.Viper
}

// Load parses args and reads the config file if one is named. Unknown flags
// are an error.
func (c *Config) Load(args []string) error {
	c.Lock()
	defer c.Unlock()

	c.Viper = viper.New()

	fs := pflag.NewFlagSet("kin", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "log at debug level")
	fs.String(ConfigConfigFile, "", "path of a YAML, TOML or JSON config file")
	fs.String(ConfigGame, DefaultGame, "game to play: tictactoe or counter")
	fs.String(ConfigAddress, "127.0.0.1:0", "address the search server listens on")
	fs.Float64(ConfigExplorationFactor, searcher.DefaultExplorationFactor, "UCB1 exploration constant")
	fs.Int(ConfigSearchIterations, searcher.DefaultSearchIterations, "iterations per search")
	fs.Uint64(ConfigSeed, 0, "random seed, 0 for a random one")
	fs.Int(ConfigMaxPlies, DefaultMaxPlies, "moves after which a game is stopped")
	fs.String(ConfigSetup, "", "experiment setup file")
	fs.String(ConfigOutputDir, DefaultOutputDir, "directory for experiment results")
	fs.Int(ConfigBenchmarkRuns, DefaultBenchmarkRuns, "timed searches in a benchmark")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if err := c.BindPFlags(fs); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	c.SetEnvPrefix("kin")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if path := c.GetString(ConfigConfigFile); path != "" {
		c.SetConfigFile(path)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return nil
}

// SearchParameters collects the searcher settings.
func (c *Config) SearchParameters() searcher.Parameters {
	return searcher.Parameters{
		ExplorationFactor: c.GetFloat64(ConfigExplorationFactor),
		SearchIterations:  c.GetInt(ConfigSearchIterations),
	}
}

// SearcherOptions seeds searchers when a seed is configured.
func (c *Config) SearcherOptions() []searcher.Option {
	if seed := c.GetUint64(ConfigSeed); seed != 0 {
		return []searcher.Option{searcher.WithSeed(seed)}
	}
	return nil
}

// Validate checks the values a typo would make meaningless.
func (c *Config) Validate() error {
	if n := c.GetInt(ConfigSearchIterations); n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", ConfigSearchIterations, n)
	}
	if f := c.GetFloat64(ConfigExplorationFactor); f < 0 {
		return fmt.Errorf("%s must not be negative, got %v", ConfigExplorationFactor, f)
	}
	if n := c.GetInt(ConfigMaxPlies); n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", ConfigMaxPlies, n)
	}
	switch game := c.GetString(ConfigGame); game {
	case "tictactoe", "counter":
	default:
		return fmt.Errorf("unknown game %q", game)
	}
	return nil
}

// SanitizedSettings is the settings map for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
