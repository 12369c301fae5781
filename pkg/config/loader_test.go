package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoaderLoadFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		l := NewLoader()
		err := l.LoadFile("/nonexistent/config.yaml")
		assert.ErrorIs(t, err, ErrConfigFileNotFound)
	})

	t.Run("unmarshal struct", func(t *testing.T) {
		path := writeTempConfig(t, `
unifi:
  host: controller.local
  port: 8443
  site: default
`)
		l := NewLoader()
		require.NoError(t, l.LoadFile(path))

		var cfg struct {
			Unifi struct {
				Host string `mapstructure:"host"`
				Port int    `mapstructure:"port"`
				Site string `mapstructure:"site"`
			} `mapstructure:"unifi"`
		}
		require.NoError(t, l.Unmarshal(&cfg))
		assert.Equal(t, "controller.local", cfg.Unifi.Host)
		assert.Equal(t, 8443, cfg.Unifi.Port)
		assert.Equal(t, "default", cfg.Unifi.Site)
	})

	t.Run("unmarshal key", func(t *testing.T) {
		path := writeTempConfig(t, `
log:
  level: debug
`)
		l := NewLoader()
		require.NoError(t, l.LoadFile(path))

		var logCfg struct {
			Level string `mapstructure:"level"`
		}
		require.NoError(t, l.UnmarshalKey("log", &logCfg))
		assert.Equal(t, "debug", logCfg.Level)
	})

	t.Run("defaults apply", func(t *testing.T) {
		l := NewLoader(WithDefaults(map[string]any{"unifi.port": 443}))
		assert.Equal(t, "443", l.GetString("unifi.port"))
	})

	t.Run("env override", func(t *testing.T) {
		path := writeTempConfig(t, `
unifi:
  host: from-file
`)
		t.Setenv("UNIFI_MCP_UNIFI_HOST", "from-env")

		l := NewLoader()
		require.NoError(t, l.LoadFile(path))
		l.BindEnv("UNIFI_MCP")

		assert.Equal(t, "from-env", l.GetString("unifi.host"))
	})
}

func TestValidator(t *testing.T) {
	type unifiSettings struct {
		Host string `validate:"required"`
		Kind string `validate:"oneof=standard appliance"`
		Port int    `validate:"min=1,max=65535"`
	}

	v := NewValidator()

	t.Run("valid", func(t *testing.T) {
		err := v.Validate(&unifiSettings{Host: "a", Kind: "standard", Port: 443})
		assert.NoError(t, err)
	})

	t.Run("missing required", func(t *testing.T) {
		err := v.Validate(&unifiSettings{Kind: "appliance", Port: 443})
		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.Contains(t, err.Error(), "Host")
	})

	t.Run("bad enum", func(t *testing.T) {
		err := v.Validate(&unifiSettings{Host: "a", Kind: "cloud", Port: 443})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("nil config", func(t *testing.T) {
		assert.ErrorIs(t, v.Validate(nil), ErrNilConfig)
	})

	t.Run("single field", func(t *testing.T) {
		assert.NoError(t, v.ValidateField("aa:bb:cc:dd:ee:ff", "mac"))
		assert.ErrorIs(t, v.ValidateField("not-a-mac", "mac"), ErrValidationFailed)
	})
}
