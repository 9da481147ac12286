// Package engine implements the negamax search engine: alpha-beta pruning
// driven by a null-window iterator over a contracting score window, backed
// by a transposition table and a small move-ordering buffer.
package engine

import (
	"github.com/rs/zerolog/log"

	"github.com/benjaminrall/connect-four-ai/internal/position"
)

// centreColumns is a fixed permutation of column indices biased towards the
// centre, reflecting the standard Connect Four heuristic that central
// columns dominate: for Width=7, [3,2,4,1,5,0,6].
var centreColumns = func() [position.Width]int {
	var cols [position.Width]int
	for i := 0; i < position.Width; i++ {
		cols[i] = position.Width/2 + (1-2*(i%2))*(i+1)/2
	}
	return cols
}()

// Solver computes the exact game-theoretic score of a Connect Four position
// under optimal play, optionally short-circuiting through a precomputed
// OpeningBook. A Solver owns mutable search state (its transposition table
// and node counter) and must not be used concurrently by more than one
// caller at a time — see BookGenerator for how parallel searches give each
// worker its own Solver instance.
type Solver struct {
	// ExploredPositions counts the nodes visited during the most recent Solve call.
	ExploredPositions int

	tt   *transpositionTable
	book BookLookup
}

// BookLookup is the subset of OpeningBook's interface the solver depends on,
// so that internal/book can depend on internal/engine (for BookGenerator's
// per-worker Solvers) without the reverse dependency creating a cycle.
type BookLookup interface {
	Get(pos *position.Position) (int8, bool)
}

// New creates a Solver with no opening book attached. Callers that have a
// book should use NewWithBook; this package never loads a book itself (that
// lives in internal/book, an external collaborator from the engine's
// perspective).
func New() *Solver {
	return &Solver{tt: newTranspositionTable()}
}

// NewWithBook creates a Solver that consults the given book before falling
// back to search. A nil book behaves exactly like New().
func NewWithBook(book BookLookup) *Solver {
	return &Solver{tt: newTranspositionTable(), book: book}
}

// Reset clears the solver's search state: the explored-node counter and the
// transposition table (an O(1) generation bump).
func (s *Solver) Reset() {
	s.ExploredPositions = 0
	s.tt.reset()
}

// Solve returns the exact score of pos from the side-to-move's perspective:
// positive if the side to move wins, negative if they lose, zero for a draw.
// pos must not already be a terminal win for the side that just moved.
func (s *Solver) Solve(pos *position.Position) int8 {
	s.ExploredPositions = 0

	if s.book != nil {
		if score, ok := s.book.Get(pos); ok {
			return score
		}
	}

	remaining := int8(position.BoardSize - pos.Plies())
	min := -(remaining / 2)
	max := (remaining + 1) / 2

	for min < max {
		mid := min + (max-min)/2
		if mid <= 0 && min/2 < mid {
			mid = min / 2
		} else if mid >= 0 && max/2 > mid {
			mid = max / 2
		}

		r := s.negamax(pos, uint8(remaining), mid, mid+1)
		if r <= mid {
			max = r
		} else {
			min = r
		}
	}

	log.Debug().
		Int("plies", pos.Plies()).
		Int8("score", min).
		Int("explored", s.ExploredPositions).
		Msg("solve")
	return min
}

// negamax returns pos's score from the side-to-move's perspective, within
// the fail-soft alpha-beta semantics of a null-window search: the true
// score is only guaranteed to be returned exactly when it falls in [α, β).
func (s *Solver) negamax(pos *position.Position, depth uint8, alpha, beta int8) int8 {
	s.ExploredPositions++

	if depth == 0 {
		return 0
	}

	// Immediate win check: must precede the TT probe, since entries stored
	// below never cover a position with an immediate win (it always returns
	// here instead), so probing first would read bounds computed under a
	// different, unsound contract.
	for col := 0; col < position.Width; col++ {
		if pos.IsPlayable(col) && pos.IsWinningMove(col) {
			return int8(position.BoardSize+1-pos.Plies()) / 2
		}
	}

	alphaOrig := alpha
	key := pos.Key()
	if entry, ok := s.tt.get(key); ok && entry.depth >= depth {
		switch entry.flag {
		case ttExact:
			return entry.value
		case ttLowerBound:
			if entry.value >= beta {
				return entry.value
			}
		case ttUpperBound:
			if entry.value <= alpha {
				return entry.value
			}
		}
	}

	possible := pos.PossibleNonLosingMoves()
	if possible == 0 {
		return -int8(position.BoardSize-pos.Plies()) / 2
	}

	// Tighten bounds: the mover cannot win in <=1 ply (handled above), and
	// the opponent cannot win in 1 ply (possible excludes those moves).
	lo := -int8(position.BoardSize-pos.Plies()-2) / 2
	if alpha < lo {
		if lo >= beta {
			return lo
		}
		alpha = lo
	}
	hi := int8(position.BoardSize-pos.Plies()-1) / 2
	if beta > hi {
		if alpha >= hi {
			return hi
		}
		beta = hi
	}

	var moves moveSorter
	for i := position.Width - 1; i >= 0; i-- {
		col := centreColumns[i]
		moveBit := possible & position.ColumnMask(col)
		if moveBit != 0 {
			moves.add(col, pos.ScoreMove(moveBit))
		}
	}

	for {
		col, ok := moves.next()
		if !ok {
			break
		}
		next := *pos
		next.Play(col)
		score := -s.negamax(&next, depth-1, -beta, -alpha)
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}

	var flag ttFlag
	switch {
	case alpha <= alphaOrig:
		flag = ttUpperBound
	case alpha >= beta:
		flag = ttLowerBound
	default:
		flag = ttExact
	}
	s.tt.put(key, alpha, flag, depth)

	return alpha
}

// AllMoveScores returns the score of playing each column, from the side to
// move's perspective, or nil for columns that are full. If pos is already a
// won position, search is not entered and every entry is nil (property 6).
func (s *Solver) AllMoveScores(pos *position.Position) [position.Width]*int8 {
	var scores [position.Width]*int8
	if pos.IsWonPosition() {
		return scores
	}

	for _, col := range centreColumns {
		if !pos.IsPlayable(col) {
			continue
		}
		var score int8
		if pos.IsWinningMove(col) {
			score = int8(position.BoardSize-pos.Plies()+1) / 2
		} else {
			next := *pos
			next.Play(col)
			score = -s.Solve(&next)
		}
		scores[col] = &score
	}
	return scores
}
