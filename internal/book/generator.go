package book

import (
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/benjaminrall/connect-four-ai/internal/engine"
	"github.com/benjaminrall/connect-four-ai/internal/position"
)

// BookGenerator performs a breadth-first, parallel enumeration of reachable
// positions up to a configured ply depth, solving and recording each one
// into an OpeningBook.
//
// Each frontier (one ply depth) is a join barrier: every position at depth d
// is solved before depth d+1 begins. Within a depth, positions are solved
// concurrently, each worker using its own Solver instance (Solver is not
// safe for concurrent use by itself) drawn from a pool so that its
// transposition table is reused across the positions that worker handles.
type BookGenerator struct {
	// solvers is a thread-local pool of Solver instances: one per
	// concurrently-running worker, reused across the positions that worker
	// handles within and across frontiers.
	solvers sync.Pool
}

// NewGenerator creates a BookGenerator.
func NewGenerator() *BookGenerator {
	return &BookGenerator{
		solvers: sync.Pool{New: func() any { return engine.New() }},
	}
}

// Generate runs the breadth-first enumeration from the empty position up to
// and including maxDepth plies, returning the populated book. If onDepth is
// given, it is called once per depth after that depth's frontier has been
// fully solved, with the depth just completed and the number of positions it
// contained — cmd/bookgen uses this to drive a progress bar.
func (g *BookGenerator) Generate(maxDepth int, onDepth ...func(depth, frontierSize int)) *OpeningBook {
	result := New()

	seenMu := sync.Mutex{}
	seen := map[uint64]struct{}{}

	start := position.NewPosition()
	seen[start.Key()] = struct{}{}
	frontier := []*position.Position{start}

	limit := runtime.GOMAXPROCS(0)

	for depth := 0; depth <= maxDepth && len(frontier) > 0; depth++ {
		processed := len(frontier)
		log.Info().Int("depth", depth).Int("positions", processed).Msg("book-generation-frontier")

		var childrenMu sync.Mutex
		var allChildren []*position.Position

		eg := &errgroup.Group{}
		eg.SetLimit(limit)
		for _, pos := range frontier {
			pos := pos
			eg.Go(func() error {
				solver := g.solvers.Get().(*engine.Solver)
				defer g.solvers.Put(solver)

				key := pos.Key()
				score := solver.Solve(pos)
				result.insert(key, score)

				children := childPositions(pos)
				if len(children) > 0 {
					childrenMu.Lock()
					allChildren = append(allChildren, children...)
					childrenMu.Unlock()
				}
				return nil
			})
		}
		// errgroup.Group.Go never returns a non-nil error here, so Wait
		// cannot fail; the return value is ignored.
		_ = eg.Wait()

		frontier = frontier[:0]
		seenMu.Lock()
		for _, child := range allChildren {
			key := child.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			frontier = append(frontier, child)
		}
		seenMu.Unlock()

		for _, cb := range onDepth {
			cb(depth, processed)
		}
	}

	log.Info().Int("entries", result.Len()).Msg("book-generation-complete")
	return result
}

// childPositions returns every legal, non-terminal child of pos.
func childPositions(pos *position.Position) []*position.Position {
	possible := pos.Possible()
	children := make([]*position.Position, 0, position.Width)
	for col := 0; col < position.Width; col++ {
		if possible&position.ColumnMask(col) == 0 {
			continue
		}
		child := *pos
		child.Play(col)
		if child.IsWonPosition() {
			continue
		}
		children = append(children, &child)
	}
	return children
}
