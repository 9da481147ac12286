package engine

import "github.com/benjaminrall/connect-four-ai/internal/position"

// moveEntry is a single candidate move and its heuristic score.
type moveEntry struct {
	column int
	score  uint8
}

// moveSorter is a fixed-capacity, insertion-sorted buffer of candidate moves.
// Entries are kept in ascending score order so that popping from the tail
// yields moves best-first, with no heap allocation: its backing array is
// sized to the board width and lives on the stack of its owning negamax
// frame.
type moveSorter struct {
	size    int
	entries [position.Width]moveEntry
}

// add inserts a move, shifting higher-scored entries up to keep the buffer
// sorted ascending by score. On ties, the most recently inserted entry sits
// closer to the tail and is popped first, so callers should insert columns
// in order of their static positional preference (most preferred last) to
// break ties sensibly.
func (s *moveSorter) add(column int, score uint8) {
	pos := s.size
	for pos > 0 && s.entries[pos-1].score > score {
		s.entries[pos] = s.entries[pos-1]
		pos--
	}
	s.entries[pos] = moveEntry{column: column, score: score}
	s.size++
}

// next pops the highest-scored remaining move.
func (s *moveSorter) next() (int, bool) {
	if s.size == 0 {
		return 0, false
	}
	s.size--
	return s.entries[s.size].column, true
}
