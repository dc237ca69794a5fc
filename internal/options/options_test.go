package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// detectorConfig stands in for the kind of config struct the module's
// public packages specialize Option against.
type detectorConfig struct {
	FilePath   string
	MaxReaders int
	MemoryMode bool
}

func (c *detectorConfig) setMaxReaders(n int) error {
	if n < 0 {
		return errors.New("max readers cannot be negative")
	}
	c.MaxReaders = n

	return nil
}

func TestNew(t *testing.T) {
	t.Run("applies the wrapped function", func(t *testing.T) {
		cfg := &detectorConfig{}
		opt := New(func(c *detectorConfig) error {
			return c.setMaxReaders(8)
		})

		require.NoError(t, opt(cfg))
		require.Equal(t, 8, cfg.MaxReaders)
	})

	t.Run("propagates validation errors", func(t *testing.T) {
		cfg := &detectorConfig{}
		opt := New(func(c *detectorConfig) error {
			return c.setMaxReaders(-1)
		})

		err := opt(cfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "cannot be negative")
	})
}

func TestNoError(t *testing.T) {
	cfg := &detectorConfig{}
	opt := NoError(func(c *detectorConfig) {
		c.MemoryMode = true
	})

	require.NoError(t, opt(cfg))
	require.True(t, cfg.MemoryMode)
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		cfg := &detectorConfig{}
		err := Apply(cfg,
			NoError(func(c *detectorConfig) { c.FilePath = "first.dat" }),
			NoError(func(c *detectorConfig) { c.FilePath = "second.dat" }),
			New(func(c *detectorConfig) error { return c.setMaxReaders(4) }),
		)

		require.NoError(t, err)
		require.Equal(t, "second.dat", cfg.FilePath, "later options win")
		require.Equal(t, 4, cfg.MaxReaders)
	})

	t.Run("stops at the first error", func(t *testing.T) {
		cfg := &detectorConfig{}
		err := Apply(cfg,
			NoError(func(c *detectorConfig) { c.MemoryMode = true }),
			New(func(c *detectorConfig) error { return c.setMaxReaders(-1) }),
			NoError(func(c *detectorConfig) { c.FilePath = "never.dat" }),
		)

		require.Error(t, err)
		require.True(t, cfg.MemoryMode, "options before the failure stick")
		require.Empty(t, cfg.FilePath, "options after the failure never run")
	})

	t.Run("no options is a no-op", func(t *testing.T) {
		cfg := &detectorConfig{}
		require.NoError(t, Apply(cfg))
		require.Equal(t, detectorConfig{}, *cfg)
	})
}
