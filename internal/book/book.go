// Package book implements the opening book: a precomputed mapping from
// canonical position keys to game-theoretic scores, and the parallel
// breadth-first generator that populates it by invoking the solver on each
// reachable position up to a configured ply depth.
package book

import (
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/benjaminrall/connect-four-ai/internal/position"
)

// OpeningBook maps canonical position keys to their solved score. It is
// safe for concurrent use: BookGenerator writes to it from multiple
// goroutines under its own mutex.
type OpeningBook struct {
	mu sync.RWMutex
	m  map[uint64]int8
}

// New creates a new, empty opening book.
func New() *OpeningBook {
	return &OpeningBook{m: make(map[uint64]int8)}
}

// Get looks up pos's score in the book. Since stored keys are already
// canonical (the minimum of a position's key and its mirror's, per
// Position.Key), a single lookup suffices.
func (b *OpeningBook) Get(pos *position.Position) (int8, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	score, ok := b.m[pos.Key()]
	return score, ok
}

// insert records a solved score for key, overwriting any prior value. Used
// by BookGenerator, which writes from many goroutines concurrently.
func (b *OpeningBook) insert(key uint64, score int8) {
	b.mu.Lock()
	b.m[key] = score
	b.mu.Unlock()
}

// Len returns the number of entries currently in the book.
func (b *OpeningBook) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.m)
}

// FromStaticBytes decodes a book from an in-memory byte slice, such as one
// embedded into the binary with go:embed.
func FromStaticBytes(data []byte) (*OpeningBook, error) {
	m, err := decode(data)
	if err != nil {
		return nil, errors.Wrap(err, "decoding embedded opening book")
	}
	return &OpeningBook{m: m}, nil
}

// Load reads and decodes a book previously written by Save.
func Load(path string) (*OpeningBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading opening book file %q", path)
	}
	return FromStaticBytes(data)
}

// Save writes the book to path in a compact, zstd-compressed binary format
// that round-trips through Load.
func (b *OpeningBook) Save(path string) error {
	b.mu.RLock()
	data, err := encode(b.m, true)
	b.mu.RUnlock()
	if err != nil {
		return errors.Wrap(err, "encoding opening book")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing opening book file %q", path)
	}
	return nil
}
