package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benjaminrall/connect-four-ai/internal/engine"
	"github.com/benjaminrall/connect-four-ai/internal/position"
)

func mustPosition(t *testing.T, moves string) *position.Position {
	t.Helper()
	p, err := position.FromMoves(moves)
	require.NoError(t, err)
	return p
}

func TestSolveEmptyBoardIsFirstPlayerWin(t *testing.T) {
	s := engine.New()
	p := mustPosition(t, "")
	require.EqualValues(t, 18, s.Solve(p))
}

func TestSolveAfterFirstMoveIsSecondPlayerWin(t *testing.T) {
	s := engine.New()
	p := mustPosition(t, "4")
	require.EqualValues(t, -18, s.Solve(p))
}

func TestSolveConcretePositionMatchesBestReply(t *testing.T) {
	s := engine.New()
	p := mustPosition(t, "4455454221")

	want := s.Solve(p)

	scores := s.AllMoveScores(p)
	best := int8(-127)
	for _, sc := range scores {
		if sc != nil && *sc > best {
			best = *sc
		}
	}
	require.Equal(t, want, best)

	// Playing the optimal column and solving the child must negate back to
	// the parent's score.
	for col, sc := range scores {
		if sc == nil || *sc != best {
			continue
		}
		child := *p
		child.Play(col)
		require.Equal(t, want, -s.Solve(&child))
		break
	}
}

func TestAllMoveScoresNilForWonPosition(t *testing.T) {
	s := engine.New()
	// Four x pieces stacked in column 1 (0-indexed 0) and no opponent pieces:
	// not reachable by legal play, but FromBoardString accepts it and
	// IsWonPosition only looks at alignments.
	p, err := position.FromBoardString(
		"......." +
			"......." +
			"x......" +
			"x......" +
			"x......" +
			"x......",
	)
	require.NoError(t, err)
	require.True(t, p.IsWonPosition())

	scores := s.AllMoveScores(p)
	for _, sc := range scores {
		require.Nil(t, sc)
	}
}

func TestAllMoveScoresNoneForFullColumn(t *testing.T) {
	s := engine.New()
	p := mustPosition(t, "444444")
	scores := s.AllMoveScores(p)
	require.Nil(t, scores[3])
	for col, sc := range scores {
		if col == 3 {
			continue
		}
		require.NotNil(t, sc)
	}
}

func TestResetClearsExploredCounter(t *testing.T) {
	s := engine.New()
	p := mustPosition(t, "444")
	s.Solve(p)
	require.NotZero(t, s.ExploredPositions)
	s.Reset()
	require.Zero(t, s.ExploredPositions)
}

func TestSolveIsInvariantUnderMirroring(t *testing.T) {
	s := engine.New()
	p1 := mustPosition(t, "1234")
	p2 := mustPosition(t, "7654")
	require.Equal(t, s.Solve(p1), s.Solve(p2))
}
