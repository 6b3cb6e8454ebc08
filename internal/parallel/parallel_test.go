package parallel

import (
	"testing"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

func TestPoolSearchFindsLegalMove(t *testing.T) {
	tt := engine.NewTranspositionTable(16)
	pool := NewPool(tt, 4)

	pos := board.NewPosition()
	move, result := pool.Search(pos, 6, 500)

	if move == board.NoMove {
		t.Fatal("pool search returned NoMove for starting position")
	}
	if result.Move != move {
		t.Errorf("returned move %s does not match best result %s", move, result.Move)
	}
	if result.Depth < 1 {
		t.Errorf("expected best result to have reached depth >= 1, got %d", result.Depth)
	}
}

func TestPoolSearchSharesTranspositionTable(t *testing.T) {
	tt := engine.NewTranspositionTable(16)
	pool := NewPool(tt, 2)

	pos := board.NewPosition()
	if _, _ = pool.Search(pos, 5, 300); tt.HashFull() == 0 {
		t.Error("expected the shared transposition table to have entries after a pool search")
	}
}

// TestPoolStopAbortsInFlightSearch exercises Pool.Stop from a second
// goroutine while Search is still running, verifying the call returns well
// before the requested time budget elapses.
func TestPoolStopAbortsInFlightSearch(t *testing.T) {
	tt := engine.NewTranspositionTable(16)
	pool := NewPool(tt, 4)
	pos := board.NewPosition()

	done := make(chan struct{})
	go func() {
		time.Sleep(50 * time.Millisecond)
		pool.Stop()
	}()

	start := time.Now()
	pool.Search(pos, engine.MaxPly, 60000)
	close(done)

	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Stop did not abort the search promptly: took %v", elapsed)
	}
}
