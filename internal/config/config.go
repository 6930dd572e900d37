package config

import (
	"fmt"

	"github.com/cristalhq/aconfig"
)

const (
	EnvPrefix = "TASKS"

	// TransportURLOpt is the default group option overridden by TransportURL.
	TransportURLOpt = "transport-url"
)

// Config holds the process settings. Option values that belong to the
// registry (like the transport URL) are only overrides here.
type Config struct {
	ConfigFile      string `env:"CONFIG_FILE" flag:"config-file" usage:"path to a TOML options file"`
	TransportURL    string `env:"TRANSPORT_URL" flag:"transport-url" usage:"AMQP connection URL, overrides the options file" validate:"omitempty,url"`
	LogLevel        string `env:"LOG_LEVEL" flag:"log-level" default:"info" usage:"debug, info, warn or error" validate:"oneof=debug info warn error"`
	Env             string `env:"ENV" flag:"env" default:"development" usage:"environment name attached to log lines"`
	ConnectionName  string `env:"CONNECTION_NAME" flag:"connection-name" default:"task-queues" usage:"AMQP client connection name prefix" validate:"required"`
	Format          string `env:"FORMAT" flag:"format" default:"toml" usage:"output format: toml or json" validate:"oneof=toml json"`
	DefinitionsFile string `env:"DEFINITIONS_FILE" flag:"definitions-file" usage:"TOML file of exchanges, queues and bindings to declare instead of the task queue"`
}

// Load reads the settings from TASKS_* environment variables and from args.
func Load(args []string) (*Config, error) {
	if args == nil {
		args = []string{}
	}

	var config Config
	loader := aconfig.LoaderFor(&config, aconfig.Config{
		SkipFiles:        true,
		EnvPrefix:        EnvPrefix,
		AllowUnknownEnvs: true,
		Args:             args,
	})

	if err := loader.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &config, nil
}

// Apply loads the options file, if any, into the registry, then applies a
// non-empty TransportURL on top of it.
func (c *Config) Apply(reg *Registry) error {
	if c.ConfigFile != "" {
		if err := reg.LoadFile(c.ConfigFile); err != nil {
			return err
		}
	}
	if c.TransportURL == "" {
		return nil
	}
	return reg.Set(DefaultGroup, TransportURLOpt, c.TransportURL)
}
