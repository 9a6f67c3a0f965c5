package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "caravan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
	})

	t.Run("file overrides defaults per field", func(t *testing.T) {
		path := writeConfig(t, "simulations: 500\nworkers: 8\nseed: 99\n")

		cfg, err := Load(path)
		require.NoError(t, err)

		require.Equal(t, 500, cfg.Simulations)
		require.Equal(t, 8, cfg.Workers)
		require.EqualValues(t, 99, cfg.Seed)
		require.Equal(t, Default().ExplorationWeight, cfg.ExplorationWeight,
			"Unset fields keep their defaults")
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		cases := []string{
			"simulations: -1\n",
			"exploration_weight: 0\n",
			"workers: 0\n",
			"settlements: 1\n",
			"traders: -3\n",
		}
		for _, body := range cases {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err, "config %q should not validate", body)
		}
	})

	t.Run("garbage yaml errors", func(t *testing.T) {
		_, err := Load(writeConfig(t, "simulations: [oops\n"))
		require.Error(t, err)
	})
}
