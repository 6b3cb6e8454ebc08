package board

import "testing"

// shuffle plays a king-shuffle sequence back and forth, pushing history the
// same way Search does (MakeMove, then PushHistory), and reports whether a
// repetition is flagged after each move.
func shuffle(t *testing.T, pos *Position, moves []Move) []bool {
	t.Helper()
	flags := make([]bool, len(moves))
	for i, m := range moves {
		undo := pos.MakeMove(m)
		if !undo.Valid {
			t.Fatalf("move %d (%s) was not valid", i, m)
		}
		pos.PushHistory()
		flags[i] = pos.IsRepetition()
	}
	return flags
}

func TestIsRepetitionRequiresThreefold(t *testing.T) {
	pos, err := ParseFEN("7k/8/8/8/8/8/8/K6R w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	// Three round trips of Ka1-a2-a1 / Kh8-h7-h8 (4 plies each). Each of the
	// 4 distinct positions within one round trip (A: after ply 1, B: after
	// ply 2, C: after ply 3, D: after ply 4) recurs once per round trip, so
	// each first reaches its own threefold repetition in the third round
	// trip: A at ply 9, B at ply 10, C at ply 11, D at ply 12. D is also the
	// starting position, but that one was never pushed into the history
	// buffer, so IsRepetition does not count it. Before ply 9, every position
	// has at most two counted occurrences.
	moves := []Move{
		NewMove(A1, A2), NewMove(H8, H7),
		NewMove(A2, A1), NewMove(H7, H8), // plies 1-4: 1st occurrence of A, B, C, D
		NewMove(A1, A2), NewMove(H8, H7),
		NewMove(A2, A1), NewMove(H7, H8), // plies 5-8: 2nd occurrence (twofold)
		NewMove(A1, A2), NewMove(H8, H7),
		NewMove(A2, A1), NewMove(H7, H8), // plies 9-12: 3rd occurrence (threefold)
	}

	flags := shuffle(t, pos, moves)

	for i := 0; i < 8; i++ {
		if flags[i] {
			t.Errorf("ply %d: IsRepetition() = true, want false (not yet threefold)", i+1)
		}
	}
	for i := 8; i < 12; i++ {
		if !flags[i] {
			t.Errorf("ply %d: IsRepetition() = false, want true (this position has now occurred three times)", i+1)
		}
	}
}

func TestIsRepetitionFalseOnFirstOccurrence(t *testing.T) {
	pos := NewPosition()
	if pos.IsRepetition() {
		t.Error("starting position should never be flagged as a repetition")
	}

	undo := pos.MakeMove(NewMove(E2, E4))
	if !undo.Valid {
		t.Fatal("e2e4 should be a valid move from the starting position")
	}
	pos.PushHistory()

	if pos.IsRepetition() {
		t.Error("a position reached for the first time must not be flagged as a repetition")
	}
}
