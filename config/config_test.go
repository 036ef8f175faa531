package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoZeroFields(t *testing.T) {
	cfg := Default()

	for _, field := range visit(newVar(*cfg), "Config", false) {
		assert.Fail(t, "zero-value field", field)
	}
}

type variable struct {
	Type  reflect.Type
	Value reflect.Value
}

func newVar(a any) variable {
	return variable{reflect.TypeOf(a), reflect.ValueOf(a)}
}

func visit(a variable, name string, nullable bool) (fields []string) {
	if a.Type.Kind() == reflect.Struct {
		for field := range a.Value.NumField() {
			v1 := variable{a.Type.Field(field).Type, a.Value.Field(field)}
			fieldname := a.Type.Field(field).Name
			isNullable := a.Type.Field(field).Tag.Get("test") == "nullable"
			fields = append(fields, visit(v1, name+"."+fieldname, isNullable)...)
		}

		return fields
	}

	if a.Value.IsZero() && !nullable {
		return []string{name}
	}

	return nil
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	for name, mutate := range map[string]func(*Config){
		"no workers":       func(c *Config) { c.Pool.Workers = 0 },
		"negative queue":   func(c *Config) { c.Pool.QueueSize = -1 },
		"no read buffer":   func(c *Config) { c.NET.ReadBufferSize = 0 },
		"cap below buffer": func(c *Config) { c.NET.MaxRequestSize = c.NET.ReadBufferSize - 1 },
		"no interrupt":     func(c *Config) { c.NET.AcceptLoopInterruptPeriod = 0 },
	} {
		cfg := Default()
		mutate(cfg)
		require.ErrorIs(t, cfg.Validate(), ErrInvalid, name)
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
	})

	t.Run("toml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corvid.toml")
		const content = `
[pool]
workers = 4
queue_size = 128

[net]
read_timeout = "5s"

[log]
level = "debug"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, 4, cfg.Pool.Workers)
		require.Equal(t, 128, cfg.Pool.QueueSize)
		require.Equal(t, 5*time.Second, cfg.NET.ReadTimeout)
		require.Equal(t, Default().NET.ReadBufferSize, cfg.NET.ReadBufferSize)
		require.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("CORVID_POOL_WORKERS", "7")
		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, 7, cfg.Pool.Workers)
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Setenv("CORVID_POOL_WORKERS", "0")
		_, err := Load("")
		require.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corvid.toml")
		require.NoError(t, os.WriteFile(path, []byte("[pool\nworkers="), 0o644))
		_, err := Load(path)
		require.Error(t, err)
	})
}
