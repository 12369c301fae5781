package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("file output without path", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EnableFile = true
		cfg.OutputPath = ""
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidOutputPath)
	})

	t.Run("no output at all", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EnableConsole = false
		cfg.EnableFile = false
		assert.ErrorIs(t, cfg.Validate(), ErrNoOutputEnabled)
	})

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})
}

func TestNew(t *testing.T) {
	t.Run("partial config merges defaults", func(t *testing.T) {
		l, err := New(&Config{Level: DebugLevel})
		require.NoError(t, err)
		assert.Equal(t, DebugLevel, l.config.Level)
		assert.True(t, l.config.EnableConsole)
	})

	t.Run("file output writes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		l, err := New(&Config{
			Format:        JSONFormat,
			EnableConsole: false,
			EnableFile:    true,
			OutputPath:    path,
		})
		require.NoError(t, err)

		l.Info("hello", "key", "value")
		_ = l.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "hello")
		assert.Contains(t, string(data), `"key":"value"`)
	})

	t.Run("named and with fields", func(t *testing.T) {
		l, err := New(nil, WithName("gateway"))
		require.NoError(t, err)

		derived := l.Named("session").WithFields("site", "default")
		assert.NotNil(t, derived)
		derived.Info("session ready")
	})
}

func TestToZapFields(t *testing.T) {
	fields := toZapFields("a", 1, "b", "two")
	assert.Len(t, fields, 2)

	// 奇数个参数时丢弃最后一个
	fields = toZapFields("a", 1, "orphan")
	assert.Len(t, fields, 1)
}
