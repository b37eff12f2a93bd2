package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("positional profile path with params", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"-params", "paramfile.yaml", "run.hcl"}, &out)
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "run.hcl", cfg.ProfilePath)
		assert.Equal(t, "paramfile.yaml", cfg.ParamsPath)
		assert.Equal(t, 1, cfg.Threads)
		assert.Equal(t, 4, cfg.Workers)
		assert.False(t, cfg.KeepGoing)
	})

	t.Run("profile flag and shorthand", func(t *testing.T) {
		var out bytes.Buffer
		cfg, _, err := Parse([]string{"-profile", "a.hcl", "-params", "p.yaml"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "a.hcl", cfg.ProfilePath)

		cfg, _, err = Parse([]string{"-p", "b.yaml", "-params", "p.yaml"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "b.yaml", cfg.ProfilePath)
	})

	t.Run("resource and policy flags pass through", func(t *testing.T) {
		var out bytes.Buffer
		cfg, _, err := Parse([]string{
			"-params", "p.yaml",
			"-threads", "8",
			"-workers", "16",
			"-keep-going",
			"-stages-path", "stages",
			"run.yaml",
		}, &out)
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.Threads)
		assert.Equal(t, 16, cfg.Workers)
		assert.True(t, cfg.KeepGoing)
		assert.Equal(t, "stages", cfg.StagesPath)
	})

	t.Run("no profile prints usage and exits cleanly", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"-params", "p.yaml"}, &out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("missing params is an exit code 2 error", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"run.hcl"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
		assert.Contains(t, exitErr.Message, "parameter file")
	})

	t.Run("invalid log format", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"-params", "p.yaml", "-log-format", "xml", "run.hcl"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Contains(t, exitErr.Message, "log-format")
	})

	t.Run("invalid log level", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"-params", "p.yaml", "-log-level", "loud", "run.hcl"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Contains(t, exitErr.Message, "log-level")
	})
}
