package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Move ordering priorities, in the exact order the search wants moves tried.
const (
	TTMoveScore     = 1000000 // TT move gets highest priority
	MVVLVABase      = 100000  // Base score for captures, scored by MVV-LVA
	PromotionBase   = 90000   // Base score for non-capture promotions
	KillerScore1    = 80000   // First killer move
	KillerScore2    = 79000   // Second killer move
	historyOverflow = 10000   // history halves once any entry crosses this
)

// MoveOrderer holds per-search mutable move-ordering state: killer moves and
// the history heuristic table. At the top of each search the killers are
// cleared and the history table is halved, retaining some signal across
// searches.
type MoveOrderer struct {
	// Killer moves (quiet moves that caused a beta cutoff), indexed by ply.
	killers [MaxPly][2]board.Move

	// History heuristic, indexed by [color][from][to].
	history [2][64][64]int
}

// NewMoveOrderer creates a new move orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear resets killers and halves the history table for a new search.
func (mo *MoveOrderer) Clear() {
	for i := range mo.killers {
		mo.killers[i][0] = board.NoMove
		mo.killers[i][1] = board.NoMove
	}
	for c := range mo.history {
		for i := range mo.history[c] {
			for j := range mo.history[c][i] {
				mo.history[c][i][j] /= 2
			}
		}
	}
}

// ScoreMoves assigns ordering scores to every move in the list.
func (mo *MoveOrderer) ScoreMoves(pos *board.Position, moves *board.MoveList, ply int, ttMove board.Move) []int {
	scores := make([]int, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		scores[i] = mo.scoreMove(pos, moves.Get(i), ply, ttMove)
	}
	return scores
}

// scoreMove returns the ordering score for a single move, per the priority
// table: TT move > MVV-LVA captures > promotions > killers > history.
func (mo *MoveOrderer) scoreMove(pos *board.Position, m board.Move, ply int, ttMove board.Move) int {
	if m == ttMove {
		return TTMoveScore
	}

	from := m.From()
	to := m.To()

	if m.IsCapture() {
		attackerPiece := pos.PieceAt(from)
		if attackerPiece == board.NoPiece {
			return MVVLVABase
		}
		attacker := attackerPiece.Type()

		var victim board.PieceType
		if m.IsEnPassant() {
			victim = board.Pawn
		} else {
			capturedPiece := pos.PieceAt(to)
			if capturedPiece == board.NoPiece {
				return MVVLVABase
			}
			victim = capturedPiece.Type()
		}

		return MVVLVABase + 10*int(victim) - int(attacker)
	}

	if m.IsPromotion() {
		return PromotionBase + int(m.Promotion())
	}

	if m == mo.killers[ply][0] {
		return KillerScore1
	}
	if m == mo.killers[ply][1] {
		return KillerScore2
	}

	return mo.history[pos.SideToMove][from][to]
}

// SortMoves sorts moves by their scores, descending.
func SortMoves(moves *board.MoveList, scores []int) {
	n := moves.Len()
	for i := 0; i < n-1; i++ {
		best := i
		for j := i + 1; j < n; j++ {
			if scores[j] > scores[best] {
				best = j
			}
		}
		if best != i {
			moves.Swap(i, best)
			scores[i], scores[best] = scores[best], scores[i]
		}
	}
}

// PickMove selects the best remaining move and swaps it into index, allowing
// lazy move sorting: only as many moves are sorted as the caller examines.
func PickMove(moves *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// UpdateKillers records a killer move at ply, shifting the previous first
// killer into the second slot.
func (mo *MoveOrderer) UpdateKillers(m board.Move, ply int) {
	if ply >= MaxPly {
		return
	}
	if mo.killers[ply][0] == m {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// UpdateHistory bumps the history score for a quiet move that caused a beta
// cutoff, halving the whole table if any entry crosses the overflow bound.
func (mo *MoveOrderer) UpdateHistory(color board.Color, m board.Move, depth int) {
	from := m.From()
	to := m.To()

	mo.history[color][from][to] += depth * depth

	if mo.history[color][from][to] > historyOverflow {
		for c := range mo.history {
			for i := range mo.history[c] {
				for j := range mo.history[c][i] {
					mo.history[c][i][j] /= 2
				}
			}
		}
	}
}
