package engine

import (
	"testing"

	"github.com/hailam/chesscore/internal/board"
	"github.com/stretchr/testify/assert"
)

// symmetricFENs are positions whose piece placement is unchanged under the
// color-mirror transform (swap White/Black, flip ranks). For such a
// position, Evaluate from White's perspective (side to move "w") must equal
// Evaluate from Black's perspective (side to move "b") exactly: the board
// looks identical to whichever side is asked to move.
var symmetricFENs = []string{
	board.StartFEN,
	"4k3/8/8/4p3/4P3/8/8/4K3 %v - - 0 1",
	"r3k3/8/8/8/8/8/8/R3K3 %v Qq - 0 1",
	"4k2r/8/8/3p4/3P4/8/8/4K2R %v Kk - 0 1",
}

func TestEvaluateSymmetry(t *testing.T) {
	for _, tmpl := range symmetricFENs {
		fenWhite := fenFor(tmpl, "w")
		fenBlack := fenFor(tmpl, "b")

		posWhite, err := board.ParseFEN(fenWhite)
		assert.NoError(t, err, fenWhite)
		posBlack, err := board.ParseFEN(fenBlack)
		assert.NoError(t, err, fenBlack)

		assert.Equal(t, Evaluate(posWhite), Evaluate(posBlack),
			"symmetric position scored differently depending on side to move: %s", fenWhite)
	}
}

func fenFor(tmpl, side string) string {
	if !containsPercent(tmpl) {
		return tmpl
	}
	out := make([]byte, 0, len(tmpl)+1)
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] == '%' && i+1 < len(tmpl) && tmpl[i+1] == 'v' {
			out = append(out, side...)
			i++
			continue
		}
		out = append(out, tmpl[i])
	}
	return string(out)
}

func containsPercent(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '%' {
			return true
		}
	}
	return false
}

func TestEvaluateStartingPositionIsBalanced(t *testing.T) {
	pos := board.NewPosition()
	assert.Equal(t, 0, Evaluate(pos), "starting position should evaluate to exactly 0")
}

func TestEvaluateMaterialCountsBishopPair(t *testing.T) {
	noBishopPair, err := board.ParseFEN("4k3/8/8/8/8/8/8/2B1K3 w - - 0 1")
	assert.NoError(t, err)
	withBishopPair, err := board.ParseFEN("4k3/8/8/8/8/8/8/2BBK3 w - - 0 1")
	assert.NoError(t, err)

	diff := Evaluate(withBishopPair) - Evaluate(noBishopPair)
	assert.Greater(t, diff, BishopValue, "adding a second bishop should add its value plus the bishop-pair bonus")
}

func TestEvaluateRookOnOpenFile(t *testing.T) {
	closedFile, err := board.ParseFEN("4k3/4p3/8/8/8/8/4P3/4R1K1 w - - 0 1")
	assert.NoError(t, err)
	openFile, err := board.ParseFEN("4k3/8/8/8/8/8/8/4R1K1 w - - 0 1")
	assert.NoError(t, err)

	assert.Greater(t, Evaluate(openFile), Evaluate(closedFile),
		"a rook on a fully open file should score higher than one on a closed file")
}

func TestEvaluateWithPawnTableMatchesUncached(t *testing.T) {
	pos, err := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	assert.NoError(t, err)

	pt := NewPawnTable(1)
	assert.Equal(t, Evaluate(pos), EvaluateWithPawnTable(pos, pt))
	// Second call should hit the now-populated cache and still agree.
	assert.Equal(t, Evaluate(pos), EvaluateWithPawnTable(pos, pt))
}
