package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CORVID_POOL_WORKERS=64.
const EnvPrefix = "CORVID"

// Load reads the configuration. Values come from Default(), then from the file at path
// (if path isn't empty; format is inferred from the extension), then from environment
// variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if len(path) > 0 {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("pool.workers", d.Pool.Workers)
	v.SetDefault("pool.queue_size", d.Pool.QueueSize)
	v.SetDefault("net.read_buffer_size", d.NET.ReadBufferSize)
	v.SetDefault("net.max_request_size", d.NET.MaxRequestSize)
	v.SetDefault("net.read_timeout", d.NET.ReadTimeout)
	v.SetDefault("net.write_timeout", d.NET.WriteTimeout)
	v.SetDefault("net.accept_loop_interrupt_period", d.NET.AcceptLoopInterruptPeriod)
	v.SetDefault("log.level", d.Log.Level)
}
