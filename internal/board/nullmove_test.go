package board

import "testing"

func TestMakeNullMoveIncrementsHalfMoveClock(t *testing.T) {
	pos := NewPosition()
	before := pos.HalfMoveClock

	undo := pos.MakeNullMove()
	if pos.HalfMoveClock != before+1 {
		t.Errorf("HalfMoveClock after MakeNullMove = %d, want %d", pos.HalfMoveClock, before+1)
	}

	pos.UnmakeNullMove(undo)
	if pos.HalfMoveClock != before {
		t.Errorf("HalfMoveClock after UnmakeNullMove = %d, want %d (restored)", pos.HalfMoveClock, before)
	}
}

func TestMakeNullMoveTogglesSideAndRestoresHash(t *testing.T) {
	pos := NewPosition()
	beforeHash := pos.Hash
	beforeSide := pos.SideToMove

	undo := pos.MakeNullMove()
	if pos.SideToMove == beforeSide {
		t.Error("MakeNullMove did not toggle side to move")
	}
	if pos.Hash == beforeHash {
		t.Error("MakeNullMove did not change the hash (side-to-move term should flip it)")
	}

	pos.UnmakeNullMove(undo)
	if pos.SideToMove != beforeSide {
		t.Error("UnmakeNullMove did not restore side to move")
	}
	if pos.Hash != beforeHash {
		t.Error("UnmakeNullMove did not restore the hash")
	}
}
