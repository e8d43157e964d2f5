package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"minichess/game"
)

// Every agent implements the shared interface.
var (
	_ Agent = (*Random)(nil)
	_ Agent = (*Greedy)(nil)
	_ Agent = (*Minimax)(nil)
	_ Agent = (*MCTS)(nil)
)

func TestRandomReturnsLegalMove(t *testing.T) {
	state := game.InitialState()
	agent := NewRandom()

	for i := 0; i < 20; i++ {
		move, err := agent.ChooseMove(state)
		require.NoError(t, err)
		require.Contains(t, state.LegalMoves(), move)
	}
}

func TestRandomSeededDeterminism(t *testing.T) {
	state := game.InitialState()

	first, err := NewSeededRandom(11).ChooseMove(state)
	require.NoError(t, err)
	second, err := NewSeededRandom(11).ChooseMove(state)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestRandomNoLegalMoves(t *testing.T) {
	state := stateFrom(t, [game.Size]string{
		"K....",
		".....",
		".Q...",
		".....",
		"k....",
	}, game.Black)

	_, err := NewRandom().ChooseMove(state)

	require.ErrorIs(t, err, ErrNoLegalMoves)
}

func TestGreedyTakesBiggestCapture(t *testing.T) {
	// The rook can take either the queen or the knight.
	state := stateFrom(t, [game.Size]string{
		"K....",
		".R..q",
		".....",
		".n...",
		"....k",
	}, game.White)

	move, err := NewGreedy().ChooseMove(state)

	require.NoError(t, err)
	require.Equal(t, game.Move{From: game.Square{Row: 1, Col: 1}, To: game.Square{Row: 1, Col: 4}}, move)
}

func TestGreedyFallsBackToFirstMove(t *testing.T) {
	// Nothing to capture; greedy falls back to the first legal move.
	state := game.InitialState()

	move, err := NewGreedy().ChooseMove(state)

	require.NoError(t, err)
	require.Equal(t, state.LegalMoves()[0], move)
}
