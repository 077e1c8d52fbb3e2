// Package config loads solver settings from the environment and an
// optional config file.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Keys understood in config files, the environment (PATIENCE_ prefix),
// and the shell's set command.
const (
	KeyDraw          = "draw"
	KeyRecycleLimit  = "recycle-limit"
	KeyMoveTreeLimit = "move-tree-limit"
	KeyThreads       = "threads"
	KeyDebug         = "debug"
	KeyCPUProfile    = "cpu-profile"
)

// Config wraps a viper instance with the solver's defaults.
type Config struct {
	*viper.Viper
}

// New builds a Config with defaults applied, environment variables
// bound, and the optional config file read if cfgFile is non-empty.
func New(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyDraw, 1)
	v.SetDefault(KeyRecycleLimit, -1)
	v.SetDefault(KeyMoveTreeLimit, 12_000_000)
	v.SetDefault(KeyThreads, 0)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyCPUProfile, "")

	v.SetEnvPrefix("patience")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return &Config{v}, nil
}

// Settings renders the current values for logging.
func (c *Config) Settings() map[string]any {
	return map[string]any{
		KeyDraw:          c.GetInt(KeyDraw),
		KeyRecycleLimit:  c.GetInt(KeyRecycleLimit),
		KeyMoveTreeLimit: c.GetInt(KeyMoveTreeLimit),
		KeyThreads:       c.GetInt(KeyThreads),
		KeyDebug:         c.GetBool(KeyDebug),
	}
}
