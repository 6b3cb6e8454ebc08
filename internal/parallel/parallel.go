// Package parallel is an optional Lazy-SMP extension over the primary
// single-threaded engine.Search. It is not required by any core operation:
// callers that only need engine.Search.GetBestMove should use that directly.
//
// Grounded on the teacher's engine.go/worker.go worker-pool orchestration
// (goroutines sharing one transposition table, depth-staggered start
// depths, a result channel collecting each worker's latest iteration), with
// the Stockfish-derived per-worker machinery (NNUE, tablebase probing,
// correction/continuation history, singular extensions) stripped: each
// worker is just an engine.Search sharing the pool's transposition table.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"golang.org/x/sync/errgroup"
)

// Result is one worker's latest completed iteration.
type Result struct {
	WorkerID int
	Move     board.Move
	Score    int
	Depth    int
	PV       []board.Move
	Nodes    uint64
}

// Pool runs several engine.Search instances concurrently against the same
// position, all sharing one transposition table so that helper threads'
// discoveries feed the table entries the main thread probes (the "Lazy" in
// Lazy SMP: no work division, just shared memory and depth staggering to
// reduce duplicate shallow work).
type Pool struct {
	tt      *engine.TranspositionTable
	workers int

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewPool creates a pool of the given size sharing tt. workers<=0 uses
// GOMAXPROCS.
func NewPool(tt *engine.TranspositionTable, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{tt: tt, workers: workers}
}

// Stop aborts the in-flight Search call, if any. Safe to call concurrently
// with Search from another goroutine.
func (p *Pool) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Search runs the pool against pos for at most maxDepth plies or timeLimitMs
// milliseconds (0 = no time limit), returning the move from whichever
// worker reached the greatest depth (ties broken by score). Each worker
// gets its own pawn-structure cache; only the transposition table is
// shared.
func (p *Pool) Search(pos *board.Position, maxDepth int, timeLimitMs int) (board.Move, Result) {
	p.tt.NewSearch()

	ctx := context.Background()
	var cancel context.CancelFunc
	if timeLimitMs > 0 {
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeLimitMs)*time.Millisecond)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()
	defer func() {
		cancel()
		p.mu.Lock()
		p.cancel = nil
		p.mu.Unlock()
	}()

	results := make([]Result, p.workers)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		i := i
		g.Go(func() error {
			pawnTable := engine.NewPawnTable(4)
			search := engine.NewSearch(p.tt, pawnTable)

			startDepth := depthOffset(i)

			watchdog := make(chan struct{})
			go func() {
				select {
				case <-gctx.Done():
					search.Stop()
				case <-watchdog:
				}
			}()
			defer close(watchdog)

			move, stats := search.GetBestMoveFrom(pos, startDepth, maxDepth, remainingMs(gctx, timeLimitMs), false)
			results[i] = Result{
				WorkerID: i,
				Move:     move,
				Score:    stats.Score,
				Depth:    stats.MaxDepthReached,
				PV:       search.GetPV(),
				Nodes:    stats.Nodes,
			}
			return nil
		})
	}
	_ = g.Wait()

	best := results[0]
	for _, r := range results[1:] {
		if r.Move == board.NoMove {
			continue
		}
		if r.Depth > best.Depth || (r.Depth == best.Depth && r.Score > best.Score) {
			best = r
		}
	}
	return best.Move, best
}

// depthOffset staggers helper workers' starting depth so they don't
// duplicate the main worker's shallow iterations; the main worker (id 0)
// always starts at depth 1.
func depthOffset(workerID int) int {
	switch {
	case workerID == 0:
		return 1
	case workerID < 3:
		return 2
	case workerID < 6:
		return 3
	default:
		return 4
	}
}

func remainingMs(ctx context.Context, timeLimitMs int) int {
	if timeLimitMs <= 0 {
		return 0
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return timeLimitMs
	}
	remaining := int(time.Until(deadline) / time.Millisecond)
	if remaining < 0 {
		return 0
	}
	return remaining
}
