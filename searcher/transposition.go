package searcher

import "minichess/game"

// Transposition entry bound types.
type ttFlag int8

const (
	flagExact ttFlag = iota // score is exact
	flagLower               // score is a lower bound (failed high)
	flagUpper               // score is an upper bound (failed low)
)

type ttEntry struct {
	depth int
	score float64
	flag  ttFlag
	move  game.Move // best move found at this node; zero when none
}

// transTable caches search results keyed by position content. Entries
// never survive a top-level ChooseMove call.
type transTable map[game.PositionKey]ttEntry

// probe tightens the alpha/beta window from a stored entry searched at
// least as deep as the remaining depth. It returns a score and true
// when the entry alone decides this node.
func (tt transTable) probe(key game.PositionKey, depth int, alpha, beta *float64) (ttEntry, bool, bool) {
	entry, found := tt[key]
	if !found {
		return ttEntry{}, false, false
	}
	if entry.depth >= depth {
		switch entry.flag {
		case flagExact:
			return entry, true, true
		case flagLower:
			if entry.score > *alpha {
				*alpha = entry.score
			}
		case flagUpper:
			if entry.score < *beta {
				*beta = entry.score
			}
		}
		if *alpha >= *beta {
			return entry, true, true
		}
	}
	return entry, true, false
}

// store records a search result, tagged against the window the node
// was entered with.
func (tt transTable) store(key game.PositionKey, depth int, score, entryAlpha, entryBeta float64, best game.Move) {
	flag := flagExact
	if score <= entryAlpha {
		flag = flagUpper
	} else if score >= entryBeta {
		flag = flagLower
	}
	tt[key] = ttEntry{depth: depth, score: score, flag: flag, move: best}
}
