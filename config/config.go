package config

import (
	"errors"
	"fmt"
	"time"
)

type (
	Pool struct {
		// Workers is the number of connections served simultaneously. Workers are spawned once
		// and the number never changes at runtime.
		Workers int `mapstructure:"workers" toml:"workers"`
		// QueueSize limits how many accepted connections may wait for a free worker. Zero
		// disables the limit, so the queue grows for as long as the memory lasts. When the
		// limit is reached, new connections are answered with 503 Service Unavailable.
		QueueSize int `mapstructure:"queue_size" toml:"queue_size" test:"nullable"`
	}

	NET struct {
		// ReadBufferSize is the size of a single read from the socket.
		ReadBufferSize int `mapstructure:"read_buffer_size" toml:"read_buffer_size"`
		// MaxRequestSize caps the whole request (head and body). Everything past it is
		// silently truncated, the same way as if the client had sent less.
		MaxRequestSize int `mapstructure:"max_request_size" toml:"max_request_size"`
		// ReadTimeout limits how long the server waits for the next piece of the request.
		ReadTimeout time.Duration `mapstructure:"read_timeout" toml:"read_timeout"`
		// WriteTimeout limits writing the response.
		WriteTimeout time.Duration `mapstructure:"write_timeout" toml:"write_timeout"`
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop.
		AcceptLoopInterruptPeriod time.Duration `mapstructure:"accept_loop_interrupt_period" toml:"accept_loop_interrupt_period"`
	}

	Log struct {
		// Level is one of debug, info, warn, error or off.
		Level string `mapstructure:"level" toml:"level"`
	}
)

// Config holds settings used across the server, mainly restrictions, limitations
// and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Pool Pool `mapstructure:"pool" toml:"pool"`
	NET  NET  `mapstructure:"net" toml:"net"`
	Log  Log  `mapstructure:"log" toml:"log"`
}

// Default returns default config.
func Default() *Config {
	return &Config{
		Pool: Pool{
			Workers:   32,
			QueueSize: 0,
		},
		NET: NET{
			ReadBufferSize:            1024,
			MaxRequestSize:            1024 * 1024,
			ReadTimeout:               90 * time.Second,
			WriteTimeout:              90 * time.Second,
			AcceptLoopInterruptPeriod: time.Second,
		},
		Log: Log{
			Level: "info",
		},
	}
}

var ErrInvalid = errors.New("invalid configuration")

// Validate reports the first setting that can't work.
func (c *Config) Validate() error {
	switch {
	case c.Pool.Workers <= 0:
		return fmt.Errorf("%w: pool.workers must be positive, got %d", ErrInvalid, c.Pool.Workers)
	case c.Pool.QueueSize < 0:
		return fmt.Errorf("%w: pool.queue_size must not be negative, got %d", ErrInvalid, c.Pool.QueueSize)
	case c.NET.ReadBufferSize <= 0:
		return fmt.Errorf("%w: net.read_buffer_size must be positive, got %d", ErrInvalid, c.NET.ReadBufferSize)
	case c.NET.MaxRequestSize < c.NET.ReadBufferSize:
		return fmt.Errorf(
			"%w: net.max_request_size (%d) must not be less than net.read_buffer_size (%d)",
			ErrInvalid, c.NET.MaxRequestSize, c.NET.ReadBufferSize,
		)
	case c.NET.AcceptLoopInterruptPeriod <= 0:
		return fmt.Errorf("%w: net.accept_loop_interrupt_period must be positive", ErrInvalid)
	}

	return nil
}
