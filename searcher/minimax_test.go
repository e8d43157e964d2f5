package searcher

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"minichess/game"
)

func boardFrom(t *testing.T, rows [game.Size]string) game.Board {
	t.Helper()
	var b game.Board
	for r, row := range rows {
		require.Len(t, row, game.Size)
		for c := 0; c < game.Size; c++ {
			if row[c] != '.' {
				b[r][c] = game.Piece(row[c])
			}
		}
	}
	return b
}

func stateFrom(t *testing.T, rows [game.Size]string, toMove game.Color) game.State {
	t.Helper()
	return game.State{Board: boardFrom(t, rows), ToMove: toMove}
}

// mateInOne: the white rook takes the black king up the a-file.
func mateInOneState(t *testing.T) game.State {
	t.Helper()
	return stateFrom(t, [game.Size]string{
		"K....",
		"R....",
		".....",
		".....",
		"k....",
	}, game.White)
}

func TestNewMinimaxValidation(t *testing.T) {
	t.Run("negative depth", func(t *testing.T) {
		_, err := NewMinimax(WithDepth(-1))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("non-positive time limit", func(t *testing.T) {
		_, err := NewMinimax(WithSearchTime(0))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("defaults are valid", func(t *testing.T) {
		agent, err := NewMinimax()
		require.NoError(t, err)
		require.NotNil(t, agent)
	})
}

func TestMinimaxReturnsLegalMove(t *testing.T) {
	state := game.InitialState()
	agent, err := NewMinimax(WithDepth(2))
	require.NoError(t, err)

	move, err := agent.ChooseMove(state)

	require.NoError(t, err)
	require.Contains(t, state.LegalMoves(), move)
}

func TestMinimaxDepthZero(t *testing.T) {
	state := game.InitialState()
	agent, err := NewMinimax(WithDepth(0))
	require.NoError(t, err)

	move, err := agent.ChooseMove(state)

	require.NoError(t, err)
	require.Equal(t, state.LegalMoves()[0], move, "depth 0 skips search entirely")
}

func TestMinimaxNoLegalMoves(t *testing.T) {
	// Stalemated black king.
	state := stateFrom(t, [game.Size]string{
		"K....",
		".....",
		".Q...",
		".....",
		"k....",
	}, game.Black)
	agent, err := NewMinimax(WithDepth(2))
	require.NoError(t, err)

	_, err = agent.ChooseMove(state)

	require.ErrorIs(t, err, ErrNoLegalMoves)
}

func TestMinimaxFindsMateInOne(t *testing.T) {
	state := mateInOneState(t)
	agent, err := NewMinimax(WithDepth(2))
	require.NoError(t, err)

	move, err := agent.ChooseMove(state)
	require.NoError(t, err)

	next, err := state.MakeMove(move, true)
	require.NoError(t, err)
	require.True(t, next.IsTerminal(), "chosen move should end the game, got %v", move)
	result, err := next.Result()
	require.NoError(t, err)
	require.Equal(t, 1.0, result)
}

func TestMinimaxAvoidsHangingMaterial(t *testing.T) {
	// The white queen hangs to the black rook, and the rook itself is
	// poisoned: the king guards it. Depth 2 sees both recaptures and
	// retreats the queen instead.
	state := stateFrom(t, [game.Size]string{
		"K....",
		"...Q.",
		".....",
		"...r.",
		"....k",
	}, game.White)
	agent, err := NewMinimax(WithDepth(2))
	require.NoError(t, err)

	move, err := agent.ChooseMove(state)
	require.NoError(t, err)

	next := state.Apply(move)
	for _, reply := range next.LegalMoves() {
		require.GreaterOrEqual(t, game.MaterialBalanceFor(next.Apply(reply), game.White), 4,
			"black reply %v wins material after white played %v", reply, move)
	}
}

func TestMinimaxRespectsTimeBudget(t *testing.T) {
	state := game.InitialState()
	budget := 50 * time.Millisecond
	agent, err := NewMinimax(WithDepth(50), WithSearchTime(budget))
	require.NoError(t, err)

	start := time.Now()
	move, err := agent.ChooseMove(state)
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Contains(t, state.LegalMoves(), move)
	require.Less(t, elapsed, 2*budget, "soft deadline overshoot should stay within one step")
}

// referenceMinimax is plain full-width minimax with no pruning and no
// caching; alpha-beta with a transposition table must agree with it.
func referenceMinimax(state game.State, depth int, maximizingColor game.Color) float64 {
	if terminal, result := state.TerminalResult(); terminal {
		score := result * terminalScale
		if maximizingColor == game.Black {
			score = -score
		}
		return score
	}
	if depth <= 0 {
		return evaluate(state, maximizingColor)
	}

	maximizing := state.ToMove == maximizingColor
	value := math.Inf(-1)
	if !maximizing {
		value = math.Inf(1)
	}
	for _, mv := range state.LegalMoves() {
		childValue := referenceMinimax(state.Apply(mv), depth-1, maximizingColor)
		if maximizing && childValue > value {
			value = childValue
		}
		if !maximizing && childValue < value {
			value = childValue
		}
	}
	return value
}

func TestSearchMatchesReferenceMinimax(t *testing.T) {
	positions := map[string]game.State{
		"initial":     game.InitialState(),
		"mate in one": mateInOneState(t),
		"midgame": stateFrom(t, [game.Size]string{
			"K.R..",
			".P...",
			"..n..",
			"...p.",
			"..q.k",
		}, game.White),
	}

	for name, state := range positions {
		t.Run(name, func(t *testing.T) {
			const depth = 3
			want := referenceMinimax(state, depth, state.ToMove)

			agent, err := NewMinimax(WithDepth(depth))
			require.NoError(t, err)
			agent.table = make(transTable)
			got := agent.search(state, depth, math.Inf(-1), math.Inf(1), state.ToMove, time.Time{})

			require.Equal(t, want, got,
				"pruning and caching must not change the minimax value")
		})
	}
}

func TestOrderMoves(t *testing.T) {
	state := stateFrom(t, [game.Size]string{
		"K....",
		"...Q.",
		".....",
		"...r.",
		"....k",
	}, game.White)
	moves := state.LegalMoves()

	var capture game.Move
	for _, m := range moves {
		if state.Board[m.To.Row][m.To.Col] != game.NoPiece {
			capture = m
		}
	}
	require.NotZero(t, capture.To, "expected Qxr in the move list")

	var quiet game.Move
	for _, m := range moves {
		if state.Board[m.To.Row][m.To.Col] == game.NoPiece {
			quiet = m
			break
		}
	}

	t.Run("captures precede quiet moves", func(t *testing.T) {
		ordered := orderMoves(state, moves, game.Move{})
		require.Equal(t, capture, ordered[0])
	})

	t.Run("pv move jumps the queue", func(t *testing.T) {
		ordered := orderMoves(state, moves, quiet)
		require.Equal(t, quiet, ordered[0])
		require.Equal(t, capture, ordered[1])
	})
}
