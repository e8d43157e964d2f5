package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"minichess/engine"
	"minichess/experiments/metrics"
	"minichess/searcher"
)

type agentConfig struct {
	Name         string  `yaml:"name"`
	Kind         string  `yaml:"kind"` // random, greedy, minimax, mcts
	Depth        int     `yaml:"depth"`
	Simulations  int     `yaml:"simulations"`
	TimeLimitMS  int     `yaml:"time_limit_ms"`
	Exploration  float64 `yaml:"exploration"`
	RolloutDepth int     `yaml:"rollout_depth"`
	Seed         uint64  `yaml:"seed"`
}

type experimentConfig struct {
	Games      int           `yaml:"games"` // per matchup
	MaxPlies   int           `yaml:"max_plies"`
	SwapColors bool          `yaml:"swap_colors"`
	OutputDir  string        `yaml:"output_dir"`
	Agents     []agentConfig `yaml:"agents"`
	Matchups   [][2]string   `yaml:"matchups"`
}

type tally struct {
	whiteWins int
	blackWins int
	draws     int
	wins      map[string]int
	plies     int
}

func main() {
	configPath := flag.String("config", "experiment.yaml", "experiment configuration file")
	verbose := flag.Bool("v", false, "log every move")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if err := runExperiment(cfg); err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}
}

func loadConfig(path string) (experimentConfig, error) {
	cfg := experimentConfig{
		Games:     10,
		MaxPlies:  200,
		OutputDir: "experiments/results",
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.Agents) == 0 || len(cfg.Matchups) == 0 {
		return cfg, fmt.Errorf("config needs at least one agent and one matchup")
	}
	return cfg, nil
}

func runExperiment(cfg experimentConfig) error {
	roster := make(map[string]agentConfig, len(cfg.Agents))
	configIDs := make(map[string]int, len(cfg.Agents))
	var configs []metrics.AgentConfig
	for i, a := range cfg.Agents {
		if _, ok := roster[a.Name]; ok {
			return fmt.Errorf("duplicate agent name %q", a.Name)
		}
		roster[a.Name] = a
		configIDs[a.Name] = i
		configs = append(configs, metrics.AgentConfig{
			ID:           i,
			Name:         a.Name,
			Kind:         a.Kind,
			Depth:        a.Depth,
			Simulations:  a.Simulations,
			TimeLimit:    time.Duration(a.TimeLimitMS) * time.Millisecond,
			RolloutDepth: a.RolloutDepth,
			Seed:         a.Seed,
		})
	}
	// Fail fast on bad agent parameters before spawning games.
	for _, a := range cfg.Agents {
		if _, err := buildAgent(a); err != nil {
			return fmt.Errorf("agent %q: %w", a.Name, err)
		}
	}

	writer, err := metrics.NewWriter(cfg.OutputDir)
	if err != nil {
		return err
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return err
	}
	log.Info().Str("dir", writer.Dir()).Msg("writing results")

	var mu sync.Mutex
	var gameRecords []metrics.GameRecord
	var moveRecords []metrics.MoveRecord

	for _, matchup := range cfg.Matchups {
		nameA, nameB := matchup[0], matchup[1]
		cfgA, okA := roster[nameA]
		cfgB, okB := roster[nameB]
		if !okA || !okB {
			return fmt.Errorf("matchup references unknown agent: %v", matchup)
		}

		t := tally{wins: map[string]int{}}
		var group errgroup.Group
		group.SetLimit(runtime.NumCPU())

		for i := 0; i < cfg.Games; i++ {
			whiteCfg, blackCfg := cfgA, cfgB
			if cfg.SwapColors && i%2 == 1 {
				whiteCfg, blackCfg = cfgB, cfgA
			}

			group.Go(func() error {
				// Fresh agents per game: instances are not safe for
				// concurrent ChooseMove calls.
				white, err := buildAgent(whiteCfg)
				if err != nil {
					return err
				}
				black, err := buildAgent(blackCfg)
				if err != nil {
					return err
				}

				e := engine.Local(white, black, engine.WithMaxPlies(cfg.MaxPlies))
				metric, err := e.Run()
				if err != nil {
					return fmt.Errorf("%s vs %s: %w", whiteCfg.Name, blackCfg.Name, err)
				}
				metric.White = whiteCfg.Name
				metric.Black = blackCfg.Name

				mu.Lock()
				defer mu.Unlock()
				id := len(gameRecords)
				gameRecords = append(gameRecords, metrics.GameRecord{
					ID:         id,
					White:      configIDs[whiteCfg.Name],
					Black:      configIDs[blackCfg.Name],
					GameMetric: metric,
				})
				for _, mm := range e.Moves() {
					moveRecords = append(moveRecords, metrics.MoveRecord{Game: id, MoveMetric: mm})
				}
				t.record(metric)
				return nil
			})
		}

		if err := group.Wait(); err != nil {
			return err
		}

		log.Info().
			Str("matchup", nameA+" vs "+nameB).
			Int("white_wins", t.whiteWins).
			Int("black_wins", t.blackWins).
			Int("draws", t.draws).
			Int(nameA, t.wins[nameA]).
			Int(nameB, t.wins[nameB]).
			Float64("avg_plies", float64(t.plies)/float64(cfg.Games)).
			Msg("matchup finished")
	}

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return err
	}
	return writer.WriteMoveRecords(moveRecords)
}

// record tallies one finished game; call with the records mutex held.
func (t *tally) record(metric metrics.GameMetric) {
	t.plies += metric.Plies
	switch {
	case metric.Result > 0:
		t.whiteWins++
		t.wins[metric.White]++
	case metric.Result < 0:
		t.blackWins++
		t.wins[metric.Black]++
	default:
		t.draws++
	}
}

func buildAgent(cfg agentConfig) (searcher.Agent, error) {
	switch cfg.Kind {
	case "random":
		if cfg.Seed != 0 {
			return searcher.NewSeededRandom(cfg.Seed), nil
		}
		return searcher.NewRandom(), nil
	case "greedy":
		return searcher.NewGreedy(), nil
	case "minimax":
		var options []searcher.MinimaxOption
		if cfg.Depth != 0 {
			options = append(options, searcher.WithDepth(cfg.Depth))
		}
		if cfg.TimeLimitMS != 0 {
			options = append(options, searcher.WithSearchTime(time.Duration(cfg.TimeLimitMS)*time.Millisecond))
		}
		return searcher.NewMinimax(options...)
	case "mcts":
		options := []searcher.MCTSOption{searcher.WithCollector(metrics.NewCollector())}
		if cfg.Simulations != 0 {
			options = append(options, searcher.WithSimulations(cfg.Simulations))
		}
		if cfg.TimeLimitMS != 0 {
			options = append(options, searcher.WithTimeLimit(time.Duration(cfg.TimeLimitMS)*time.Millisecond))
		}
		if cfg.Exploration != 0 {
			options = append(options, searcher.WithExploration(cfg.Exploration))
		}
		if cfg.RolloutDepth != 0 {
			options = append(options, searcher.WithRolloutDepth(cfg.RolloutDepth))
		}
		if cfg.Seed != 0 {
			options = append(options, searcher.WithSeed(cfg.Seed))
		}
		return searcher.NewMCTS(options...)
	default:
		return nil, fmt.Errorf("%w: unknown agent kind %q", searcher.ErrInvalidConfig, cfg.Kind)
	}
}
