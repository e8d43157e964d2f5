package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"minichess/searcher"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `
games: 4
swap_colors: true
agents:
  - name: mm
    kind: minimax
    depth: 2
  - name: mc
    kind: mcts
    simulations: 100
    seed: 7
matchups:
  - [mm, mc]
`)

		cfg, err := loadConfig(path)

		require.NoError(t, err)
		require.Equal(t, 4, cfg.Games)
		require.Equal(t, 200, cfg.MaxPlies, "unset fields keep defaults")
		require.True(t, cfg.SwapColors)
		require.Len(t, cfg.Agents, 2)
		require.Equal(t, [2]string{"mm", "mc"}, cfg.Matchups[0])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("empty roster rejected", func(t *testing.T) {
		path := writeConfig(t, "games: 1\n")
		_, err := loadConfig(path)
		require.Error(t, err)
	})
}

func TestBuildAgent(t *testing.T) {
	kinds := map[string]agentConfig{
		"random":  {Kind: "random", Seed: 1},
		"greedy":  {Kind: "greedy"},
		"minimax": {Kind: "minimax", Depth: 2, TimeLimitMS: 100},
		"mcts":    {Kind: "mcts", Simulations: 50, Seed: 1},
	}
	for name, cfg := range kinds {
		t.Run(name, func(t *testing.T) {
			agent, err := buildAgent(cfg)
			require.NoError(t, err)
			require.NotNil(t, agent)
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		_, err := buildAgent(agentConfig{Kind: "oracle"})
		require.ErrorIs(t, err, searcher.ErrInvalidConfig)
	})

	t.Run("bad parameters surface", func(t *testing.T) {
		_, err := buildAgent(agentConfig{Kind: "minimax", Depth: -1})
		require.ErrorIs(t, err, searcher.ErrInvalidConfig)
	})
}
