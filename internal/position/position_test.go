package position_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benjaminrall/connect-four-ai/internal/position"
)

func TestNewPositionIsEmpty(t *testing.T) {
	p := position.NewPosition()
	require.Equal(t, 0, p.Plies())
	require.Equal(t, uint64(0), p.Board)
	require.Equal(t, uint64(0), p.Mask)
}

func TestFromMovesEmptyStringIsInitialPosition(t *testing.T) {
	p, err := position.FromMoves("")
	require.NoError(t, err)
	require.Equal(t, 0, p.Plies())
}

func TestFromMovesPlaysColumnsInOrder(t *testing.T) {
	p, err := position.FromMoves("4455")
	require.NoError(t, err)
	require.Equal(t, 4, p.Plies())
}

func TestFromMovesRejectsNonDigit(t *testing.T) {
	_, err := position.FromMoves("4x5")
	require.Error(t, err)
	var want position.InvalidCharacter
	require.ErrorAs(t, err, &want)
}

func TestFromMovesRejectsFullColumn(t *testing.T) {
	_, err := position.FromMoves("444444" + "4")
	require.Error(t, err)
	var want position.InvalidFullColumnMove
	require.ErrorAs(t, err, &want)
}

func TestFromMovesRejectsImmediateWin(t *testing.T) {
	// x plays column 1 three times, o plays elsewhere; x's fourth column-1
	// move would complete a vertical four-in-a-row.
	_, err := position.FromMoves("1212131")
	require.Error(t, err)
	var want position.InvalidWinningMove
	require.ErrorAs(t, err, &want)
}

func TestFromBoardStringRequiresExactLength(t *testing.T) {
	_, err := position.FromBoardString("...")
	require.Error(t, err)
	var want position.InvalidBoardStringLength
	require.ErrorAs(t, err, &want)
}

func TestColumnFullAfterSixPlays(t *testing.T) {
	p, err := position.FromMoves("444444")
	require.NoError(t, err)
	require.False(t, p.IsPlayable(3))
	for col := 0; col < position.Width; col++ {
		if col == 3 {
			continue
		}
		require.True(t, p.IsPlayable(col))
	}
}

func TestPossibleCountsNonFullColumns(t *testing.T) {
	p, err := position.FromMoves("444444")
	require.NoError(t, err)
	require.Equal(t, position.Width-1, popcount(p.Possible()))
}

func TestCanWinNextDetectsThreeInARow(t *testing.T) {
	// Bottom row, left to right: x x x . . . . (padded to 42 cells, row-major top-to-bottom).
	row := "xxx...."
	board := strings.Repeat(".......", 5) + row
	p, err := position.FromBoardString(board)
	require.NoError(t, err)
	require.True(t, p.CanWinNext())
	require.True(t, p.IsWinningMove(3))
}

func TestPlayTogglesCurrentPlayerAndIncrementsPlies(t *testing.T) {
	p := position.NewPosition()
	before := *p // struct copy: captures Board/Mask/plies before the move
	p.Play(3)

	require.Equal(t, before.Plies()+1, p.Plies())
	// Play() is defined as Board ^= Mask (using the pre-move mask) then
	// adding the new piece to Mask; check the Board half of that directly.
	require.Equal(t, before.Board^before.Mask, p.Board)
}

func TestKeyIsSymmetricUnderMirroring(t *testing.T) {
	p1, err := position.FromMoves("1234")
	require.NoError(t, err)
	p2, err := position.FromMoves("7654")
	require.NoError(t, err)
	require.Equal(t, p1.Key(), p2.Key())
}

func TestPossibleNonLosingMovesSubsetOfPossible(t *testing.T) {
	p, err := position.FromMoves("4455454221")
	require.NoError(t, err)
	require.Equal(t, uint64(0), p.PossibleNonLosingMoves()&^p.Possible())
}

func TestIsWonPositionFalseForFreshGame(t *testing.T) {
	p := position.NewPosition()
	require.False(t, p.IsWonPosition())
}

func popcount(mask uint64) int {
	count := 0
	for mask != 0 {
		mask &= mask - 1
		count++
	}
	return count
}
