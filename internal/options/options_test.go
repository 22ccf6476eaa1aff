package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type sinkConfig struct {
	threshold int
	name      string
}

var errNegative = errors.New("threshold cannot be negative")

func withThreshold(n int) Option[*sinkConfig] {
	return New(func(c *sinkConfig) error {
		if n < 0 {
			return errNegative
		}
		c.threshold = n

		return nil
	})
}

func withName(name string) Option[*sinkConfig] {
	return NoError(func(c *sinkConfig) {
		c.name = name
	})
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &sinkConfig{}
		err := Apply(cfg, withThreshold(10), withName("a"), withThreshold(20), withName("b"))

		require.NoError(t, err)
		require.Equal(t, 20, cfg.threshold)
		require.Equal(t, "b", cfg.name)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &sinkConfig{}
		err := Apply(cfg, withName("kept"), withThreshold(-1), withName("skipped"))

		require.ErrorIs(t, err, errNegative)
		require.Equal(t, "kept", cfg.name)
	})

	t.Run("nil options are skipped", func(t *testing.T) {
		cfg := &sinkConfig{}
		require.NoError(t, Apply[*sinkConfig](cfg, nil, withThreshold(3)))
		require.Equal(t, 3, cfg.threshold)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &sinkConfig{threshold: 7}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 7, cfg.threshold)
	})
}
