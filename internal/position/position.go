// Package position implements the bit-packed Connect Four board representation
// and the constant-time primitives used by the solver: legal move
// enumeration, win detection, forced-move detection and per-move heuristic
// scoring.
package position

import (
	"strings"
)

// Represents a Connect Four position compactly as a bitboard.
//
// The standard, 6x7 Connect Four board can be represented unambiguously using 49 bits
// in the following bit order:
//
// ```comment
//   6 13 20 27 34 41 48
//  ---------------------
// | 5 12 19 26 33 40 47 |
// | 4 11 18 25 32 39 46 |
// | 3 10 17 24 31 38 45 |
// | 2  9 16 23 30 37 44 |
// | 1  8 15 22 29 36 43 |
// | 0  7 14 21 28 35 42 |
//  ---------------------
//```
//
// The extra row of bits at the top identifies full columns and prevents bits from
// overflowing into the next column. Positions are stored using two `uint64` numbers:
// one to store a mask of all occupied tiles, and the other to store a mask of the
// current player's tiles.

const (
	Width     int = 7
	Height    int = 6
	BoardSize int = Width * Height
	Centre    int = Width / 2
)

// Position is a value type: copying it copies the whole game state.
type Position struct {
	Board uint64
	Mask  uint64
	moves int
}

// a mask for the bottom row of the board.
func bottomMask() uint64 {
	var mask uint64 = 0
	for i := 0; i < Width; i++ {
		mask |= bottomMaskCol(i)
	}
	return mask
}

// A mask for all positions excluding the extra overflow row.
func boardMask() uint64 {
	return bottomMask() * ((1 << Height) - 1)
}

// NewPosition creates a new `Position` instance for the initial state of the game.
func NewPosition() *Position {
	return &Position{
		Board: 0,
		Mask:  0,
		moves: 0,
	}
}

// FromBoardString parses a `Position` from a string representation of a Connect Four board.
//
// The input string should contain exactly 42 characters from the set ['.', 'o', 'x'],
// representing the board row by row from the top-left to the bottom-right. All other
// characters are ignored. 'x' is the current player, and 'o' is the opponent.
//
// This function assumes that a correctly formatted board string is a valid game
// position; callers that need move-legality checking should use FromMoves instead.
func FromBoardString(boardString string) (*Position, error) {
	boardString = strings.ToLower(boardString)
	var chars []rune
	for _, c := range boardString {
		if c == '.' || c == 'o' || c == 'x' {
			chars = append(chars, c)
		}
	}

	// Validates exact number of `chars` required for a full board
	if len(chars) != BoardSize {
		return nil, InvalidBoardStringLength{Actual: len(chars), Expected: BoardSize}
	}

	var board uint64 = 0
	var mask uint64 = 0
	var moves int = 0

	for i, c := range chars {
		if c == '.' {
			continue
		}

		row := Height - (i / Width) - 1
		col := i % Width

		bitIndex := row + col*(Height+1)
		var boardBit uint64
		if c == 'x' {
			boardBit = 1
		} else {
			boardBit = 0
		}

		board |= boardBit << bitIndex
		mask |= uint64(1) << uint64(bitIndex)
		moves++
	}

	return &Position{board, mask, moves}, nil
}

// FromMoves parses a `Position` from a 1-indexed column-digit move sequence.
//
// Each character must be a digit '1'..'7'; an empty string yields the initial
// position. Returns an error if a move is out of range, plays into a full
// column, or immediately wins (the solver's contract forbids terminal inputs).
func FromMoves(moveSequence string) (*Position, error) {
	pos := NewPosition()

	for i, c := range moveSequence {
		if c < '0' || c > '9' {
			return nil, InvalidCharacter{Character: c, Index: i}
		}
		col := int(c-'0') - 1
		if col < 0 || col >= Width {
			return nil, InvalidColumn{Column: col, Index: i}
		}
		if !pos.IsPlayable(col) {
			return nil, InvalidFullColumnMove{Column: col, Index: i}
		}
		if pos.IsWinningMove(col) {
			return nil, InvalidWinningMove{Column: col, Index: i}
		}
		pos.Play(col)
	}
	return pos, nil
}

// Plies returns the number of moves played so far.
func (p *Position) Plies() int {
	return p.moves
}

// Key returns the canonical position identifier: the smaller of the position's
// own key and the key of its horizontal mirror, so that symmetric positions
// share a single opening-book entry.
func (p *Position) Key() uint64 {
	key := p.Board + p.Mask

	mirroredBoard, mirroredMask := p.mirroredBitmasks()
	mirroredKey := mirroredBoard + mirroredMask

	if mirroredKey < key {
		return mirroredKey
	}
	return key
}

func (p *Position) mirroredBitmasks() (uint64, uint64) {
	var mirroredBoard uint64 = 0
	var mirroredMask uint64 = 0

	// Swaps columns within the position and mask up to the centre column
	for col := 0; col < Centre; col++ {
		mirroredCol := Width - 1 - col
		shift := (mirroredCol - col) * (Height + 1)
		mirroredBoard |= ((p.Board & columnMask(col)) << uint64(shift)) |
			((p.Board & columnMask(mirroredCol)) >> uint64(shift))
		mirroredMask |= ((p.Mask & columnMask(col)) << uint64(shift)) |
			((p.Mask & columnMask(mirroredCol)) >> uint64(shift))
	}

	if Width&1 == 1 {
		mirroredBoard |= p.Board & columnMask(Centre)
		mirroredMask |= p.Mask & columnMask(Centre)
	}

	return mirroredBoard, mirroredMask
}

// IsPlayable indicates whether a given column is playable.
//
// `col` is the 0-based index of a column.
func (p *Position) IsPlayable(col int) bool {
	return p.Mask&topMaskCol(col) == 0
}

// IsWinningMove indicates whether the current player can win with their next
// move by playing the given, playable, column.
func (p *Position) IsWinningMove(col int) bool {
	return p.winningPositions()&p.Possible()&columnMask(col) > 0
}

// CanWinNext indicates if the current player can win on their next turn.
func (p *Position) CanWinNext() bool {
	return p.winningPositions()&p.Possible() > 0
}

// Play plays a move in the given, playable, column.
func (p *Position) Play(col int) {
	// Switches the bits of the current and opponent player
	p.Board ^= p.Mask

	// Adds an extra mask bit to the played column
	p.Mask |= p.Mask + bottomMaskCol(col)

	p.moves++
}

// Possible returns a mask of the single landing cell in each non-full column.
func (p *Position) Possible() uint64 {
	return (p.Mask + bottomMask()) & boardMask()
}

// PossibleNonLosingMoves returns a mask of moves that do not hand the
// opponent an immediate win on their next turn.
//
// If the opponent already has two distinct winning moves available, there is
// no way to block both and the result is empty (the position is lost).
func (p *Position) PossibleNonLosingMoves() uint64 {
	possible := p.Possible()
	opponentWins := p.opponentWinningPositions()

	// Checks if there are any forced moves to avoid the opponent winning
	forcedMoves := possible & opponentWins
	if forcedMoves > 0 {
		if forcedMoves&(forcedMoves-1) > 0 {
			// The opponent has two winning moves; they can't both be stopped.
			return 0
		}
		possible = forcedMoves
	}

	// Avoid playing below any of the opponent's winning positions
	return possible & ^(opponentWins >> 1)
}

// ScoreMove returns the number of winning cells the current player would have
// after playing moveBit (threats that already existed are counted too), used
// as a move-ordering heuristic.
func (p *Position) ScoreMove(moveBit uint64) uint8 {
	return countOnes(computeWinningPositions(p.Board|moveBit, p.Mask))
}

func (p *Position) winningPositions() uint64 {
	return computeWinningPositions(p.Board, p.Mask)
}

func (p *Position) opponentWinningPositions() uint64 {
	return computeWinningPositions(p.Board^p.Mask, p.Mask)
}

// computeWinningPositions computes a mask of all cells that, if filled by the
// player occupying `position`, would complete a four-in-a-row alignment.
// Equivalent to a mask of all open-ended three-alignments, including
// unreachable floating positions, masked down to empty in-board cells.
func computeWinningPositions(position uint64, mask uint64) uint64 {
	// Vertical alignment (can only extend upward given gravity)
	var r uint64 = (position << 1) & (position << 2) & (position << 3)

	// Horizontal alignment
	var p uint64 = (position << (Height + 1)) & (position << (2 * (Height + 1)))
	r |= p & (position << (3 * (Height + 1)))
	r |= p & (position >> (Height + 1))
	p >>= 3 * (Height + 1)
	r |= p & (position << (Height + 1))
	r |= p & (position >> (3 * (Height + 1)))

	// Diagonal alignment 1 (top-left to bottom-right)
	var p2 uint64 = (position << Height) & (position << (2 * Height))
	r |= p2 & (position << (3 * Height))
	r |= p2 & (position >> Height)
	p2 >>= 3 * Height
	r |= p2 & (position << Height)
	r |= p2 & (position >> (3 * Height))

	// Diagonal alignment 2 (bottom-left to top-right)
	var p3 uint64 = (position << (Height + 2)) & (position << (2 * (Height + 2)))
	r |= p3 & (position << (3 * (Height + 2)))
	r |= p3 & (position >> (Height + 2))
	p3 >>= 3 * (Height + 2)
	r |= p3 & (position << (Height + 2))
	r |= p3 & (position >> (3 * (Height + 2)))

	return r & (boardMask() ^ mask)
}

func countOnes(mask uint64) uint8 {
	var count uint8 = 0
	for mask != 0 {
		mask &= mask - 1
		count++
	}
	return count
}

// IsWonPosition indicates whether either colour already has a four-in-a-row.
// Used outside the search (generators, caller sanity checks) — the solver
// relies on never being called with a position where this is true.
func (p *Position) IsWonPosition() bool {
	return computeWonPosition(p.Board) || computeWonPosition(p.Board^p.Mask)
}

func computeWonPosition(position uint64) bool {
	// Horizontal alignment
	var m uint64 = position & (position >> (Height + 1))
	if m&(m>>(2*(Height+1))) > 0 {
		return true
	}

	// Diagonal alignment 1
	var m2 uint64 = position & (position >> Height)
	if m2&(m2>>(2*Height)) > 0 {
		return true
	}

	// Diagonal alignment 2
	var m3 uint64 = position & (position >> (Height + 2))
	if m3&(m3>>(2*(Height+2))) > 0 {
		return true
	}

	// Vertical alignment
	var m4 uint64 = position & (position >> 1)
	if m4&(m4>>2) > 0 {
		return true
	}
	return false
}

func topMaskCol(col int) uint64 {
	return uint64(1) << (Height - 1 + col*(Height+1))
}

func bottomMaskCol(col int) uint64 {
	return uint64(1) << (col * (Height + 1))
}

// ColumnMask returns a mask of every playable cell (excluding the sentinel
// row) in the given column. Exported so that callers in sibling packages (the search
// engine) can restrict a moves mask down to a single column without
// depending on unexported layout details.
func ColumnMask(col int) uint64 {
	return columnMask(col)
}

func columnMask(col int) uint64 {
	return ((uint64(1) << Height) - 1) << (col * (Height + 1))
}
