package gups

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Engine applies the GUPS update to a table from a fixed set of lanes.
// Each lane owns one sequence state, seeded far enough apart that lanes do
// not overlap for one pass of updates.
//
// Lanes are partitioned into contiguous blocks, one per worker goroutine.
// A worker only ever writes its own lane states, but all workers write to
// the table without synchronization; concurrent updates of the same cell
// may be lost.
type Engine struct {
	table         *Table
	lanes         []uint64
	blocks        [][]uint64
	updates       uint64
	roundsPerJoin uint64
}

type engineOptions struct {
	lanes         int
	workers       int
	roundsPerJoin int
}

// EngineOption configures an Engine
type EngineOption func(*engineOptions)

// WithLanes sets the number of independent sequence streams.
func WithLanes(n int) EngineOption {
	return func(o *engineOptions) { o.lanes = n }
}

// WithWorkers sets the number of goroutines the lanes are spread over.
// Zero selects GOMAXPROCS.
func WithWorkers(n int) EngineOption {
	return func(o *engineOptions) { o.workers = n }
}

// WithRoundsPerJoin sets how many rounds each worker runs between joins.
// One joins every round, like a parallel-for over the lanes.
func WithRoundsPerJoin(n int) EngineOption {
	return func(o *engineOptions) { o.roundsPerJoin = n }
}

// NewEngine seeds the lanes for updates total updates per pass over table.
// updates must be a non-zero multiple of the lane count. Lane j starts at
// position (updates/lanes)*j of the global sequence.
func NewEngine(table *Table, updates uint64, opts ...EngineOption) (*Engine, error) {
	o := engineOptions{
		lanes:         DefaultLanes,
		roundsPerJoin: DefaultRoundsPerJoin,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if table == nil || table.Words() == nil {
		return nil, ErrReleased
	}
	if o.lanes <= 0 {
		return nil, NewInvalidArgError("NewEngine", fmt.Sprintf("invalid lane count %d", o.lanes))
	}
	if o.workers < 0 {
		return nil, NewInvalidArgError("NewEngine", fmt.Sprintf("invalid worker count %d", o.workers))
	}
	if o.roundsPerJoin <= 0 {
		return nil, NewInvalidArgError("NewEngine", fmt.Sprintf("invalid rounds per join %d", o.roundsPerJoin))
	}
	if updates == 0 || updates%uint64(o.lanes) != 0 {
		return nil, ErrUnevenUpdates
	}

	workers := o.workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > o.lanes {
		workers = o.lanes
	}

	e := &Engine{
		table:         table,
		lanes:         make([]uint64, o.lanes),
		updates:       updates,
		roundsPerJoin: uint64(o.roundsPerJoin),
	}

	stride := updates / uint64(o.lanes)
	for j := range e.lanes {
		e.lanes[j] = SeedAt(int64(stride * uint64(j)))
	}

	// Spread any remainder over the first blocks.
	per, extra := o.lanes/workers, o.lanes%workers
	start := 0
	for w := 0; w < workers; w++ {
		end := start + per
		if w < extra {
			end++
		}
		e.blocks = append(e.blocks, e.lanes[start:end:end])
		start = end
	}
	return e, nil
}

// Run performs iterations passes of the configured number of updates.
// Lane states carry over between passes; they are never re-seeded.
func (e *Engine) Run(iterations uint64) error {
	words := e.table.Words()
	if words == nil {
		return ErrReleased
	}
	mask := e.table.Mask()
	rounds := e.updates / uint64(len(e.lanes))

	for k := uint64(0); k < iterations; k++ {
		for r := uint64(0); r < rounds; r += e.roundsPerJoin {
			n := e.roundsPerJoin
			if rounds-r < n {
				n = rounds - r
			}
			if err := e.join(words, mask, n); err != nil {
				return NewExecutionError("Run", "worker failed", err)
			}
		}
	}
	return nil
}

// join runs every block for the given number of rounds and waits for all
// of them before returning.
func (e *Engine) join(words []uint64, mask uint64, rounds uint64) error {
	if len(e.blocks) == 1 {
		advance(words, mask, e.blocks[0], rounds)
		return nil
	}

	var g errgroup.Group
	for _, block := range e.blocks {
		g.Go(func() error {
			advance(words, mask, block, rounds)
			return nil
		})
	}
	return g.Wait()
}

// advance is the update kernel. The table store is a plain read-modify-write.
func advance(words []uint64, mask uint64, lanes []uint64, rounds uint64) {
	for r := uint64(0); r < rounds; r++ {
		for j, s := range lanes {
			s = Step(s)
			lanes[j] = s
			words[s&mask] ^= s
		}
	}
}

// Lanes returns a copy of the current lane states.
func (e *Engine) Lanes() []uint64 {
	out := make([]uint64, len(e.lanes))
	copy(out, e.lanes)
	return out
}

// Workers returns the number of worker goroutines per join.
func (e *Engine) Workers() int {
	return len(e.blocks)
}

// Updates returns the number of updates in one pass.
func (e *Engine) Updates() uint64 {
	return e.updates
}

// Table returns the table the engine updates.
func (e *Engine) Table() *Table {
	return e.table
}

// Release frees the table. The engine cannot run afterwards.
func (e *Engine) Release() error {
	return e.table.Release()
}
