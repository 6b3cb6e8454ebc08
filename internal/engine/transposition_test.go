package engine

import (
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func TestTranspositionTableStoreProbe(t *testing.T) {
	tt := NewTranspositionTable(1)
	pos := board.NewPosition()

	if _, found := tt.Probe(pos.Hash); found {
		t.Error("expected a miss on an empty table")
	}

	move := board.NewMove(board.E2, board.E4)
	tt.Store(pos.Hash, 4, 123, TTExact, move)

	entry, found := tt.Probe(pos.Hash)
	if !found {
		t.Fatal("expected a hit after Store")
	}
	if entry.Score != 123 || entry.Depth != 4 || entry.Flag != TTExact || entry.BestMove != move {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestTranspositionTableResizeReallocatesAndClears(t *testing.T) {
	tt := NewTranspositionTable(1)
	smallSize := tt.Size()

	pos := board.NewPosition()
	tt.Store(pos.Hash, 4, 50, TTExact, board.NoMove)
	tt.NewSearch()

	tt.Resize(8)

	if tt.Size() <= smallSize {
		t.Errorf("Size() after Resize(8) = %d, want greater than the 1MB size %d", tt.Size(), smallSize)
	}
	if _, found := tt.Probe(pos.Hash); found {
		t.Error("expected Resize to clear existing entries")
	}
	if tt.HashFull() != 0 {
		t.Errorf("HashFull() after Resize = %d, want 0", tt.HashFull())
	}
}

func TestEngineResizeTT(t *testing.T) {
	eng := NewEngine(1)
	before := eng.tt.Size()

	eng.ResizeTT(16)

	if eng.tt.Size() <= before {
		t.Errorf("tt.Size() after ResizeTT(16) = %d, want greater than %d", eng.tt.Size(), before)
	}
	if eng.opts.TTSizeMB != 16 {
		t.Errorf("opts.TTSizeMB after ResizeTT(16) = %d, want 16", eng.opts.TTSizeMB)
	}
}
