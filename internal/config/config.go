package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config interface {
	EnvConfig
	HTTPConfig
	StorageConfig
	NavigationConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

// Settings is the concrete Config. Every field can be overridden after New
// returns, which is how the CLI applies its flags.
type Settings struct {
	EnvVars
	HTTP
	Storage
	Navigation
}

var _ Config = (*Settings)(nil)

// New reads the configuration from the environment, applying defaults for
// anything that is not set.
func New() (*Settings, error) {
	s := &Settings{}
	if err := env.Parse(s); err != nil {
		return nil, fmt.Errorf("[config New] parse env: %w", err)
	}
	return s, nil
}
