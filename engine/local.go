package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"minichess/experiments/metrics"
	"minichess/game"
	"minichess/searcher"
)

// metricSource is implemented by agents that collect search metrics.
type metricSource interface {
	Metric() metrics.SearchMetric
}

// Engine runs a local game between two agents from the initial
// position to a terminal state or a ply cap.
type Engine struct {
	State    game.State
	White    searcher.Agent
	Black    searcher.Agent
	MaxPlies int

	moves []metrics.MoveMetric
}

type Option func(*Engine)

// WithMaxPlies caps game length; a capped game scores as a draw.
func WithMaxPlies(plies int) Option {
	return func(e *Engine) {
		if plies > 0 {
			e.MaxPlies = plies
		}
	}
}

// WithStartState overrides the initial position.
func WithStartState(state game.State) Option {
	return func(e *Engine) {
		e.State = state
	}
}

func Local(white, black searcher.Agent, options ...Option) *Engine {
	e := &Engine{
		State:    game.InitialState(),
		White:    white,
		Black:    black,
		MaxPlies: 200,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run plays the game out and returns its metric. Agent errors abort
// the game.
func (e *Engine) Run() (metrics.GameMetric, error) {
	start := time.Now()
	ply := 0
	terminal, result := e.State.TerminalResult()

	for !terminal && ply < e.MaxPlies {
		agent := e.White
		if e.State.ToMove == game.Black {
			agent = e.Black
		}

		moveStart := time.Now()
		move, err := agent.ChooseMove(e.State)
		if err != nil {
			return metrics.GameMetric{}, fmt.Errorf("ply %d: %w", ply, err)
		}

		// Agents draw from LegalMoves, so skip re-validation.
		e.State = e.State.Apply(move)
		ply++

		metric := metrics.MoveMetric{
			Ply:    ply,
			Player: string(rune(e.State.ToMove.Opponent())),
		}
		if source, ok := agent.(metricSource); ok {
			metric.SearchMetric = source.Metric()
		}
		metric.SearchMetric.Duration = time.Since(moveStart)
		e.moves = append(e.moves, metric)

		log.Debug().
			Int("ply", ply).
			Str("move", move.String()).
			Str("player", metric.Player).
			Dur("took", metric.Duration).
			Msg("move played")

		terminal, result = e.State.TerminalResult()
	}

	if !terminal {
		// Ply cap reached; score it as a draw.
		result = 0
	}

	end := time.Now()
	log.Info().
		Float64("result", result).
		Int("plies", ply).
		Dur("duration", end.Sub(start)).
		Msg("game over")

	return metrics.GameMetric{
		Result:    result,
		Plies:     ply,
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
	}, nil
}

// Moves returns the per-move metrics of the last run.
func (e *Engine) Moves() []metrics.MoveMetric {
	return e.moves
}
