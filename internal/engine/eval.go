// Package engine implements the chess AI search engine.
package engine

import (
	"github.com/hailam/chesscore/internal/board"
	"github.com/seekerror/stdlib/pkg/util/mathx"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

// Piece values array for quick lookup
var pieceValues = [7]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue, 0}

const bishopPairBonus = 50

// Mobility weight: flat 2cp per target square not blocked by an own piece,
// for knights, bishops, rooks and queens.
const mobilityWeight = 2

const (
	pawnShieldBonus   = 10  // Bonus per own pawn adjacent to own king
	kingAttackPenalty = -15 // Penalty per enemy attacker of the own-king square
)

const threatByPawnBonus = 25 // Enemy non-pawn piece attacked by one of our pawns

const (
	isolatedPawnPenalty = -20
	doubledPawnPenalty  = -10
	passedPawnBase      = 20
	passedPawnPerRank   = 10
)

// Opening-principles constants, active through full-move 20 (queen term
// through full-move 10 only).
const (
	centerPawnBonus     = 20
	centerControlBonus  = 5
	developmentBonus    = 15
	castlingRightsBonus = 30
	earlyQueenPenalty   = -20
	openingMoveLimit    = 20
	earlyQueenMoveLimit = 10
)

const endgamePieceLimit = 10 // total pieces (both colors, all types) at or below which king centralization applies

const (
	rookOpenFileBonus     = 25
	rookSemiOpenFileBonus = 15
)

// Game phase weights and the phase at which a position is "all middlegame".
var phaseWeight = [6]int{0, 1, 1, 2, 4, 0} // Pawn, Knight, Bishop, Rook, Queen, King

const maxPhase = 24

// centerSquares are the four central squares used by the opening-principles
// term: e4, d4, e5, d5.
var centerSquares = board.SquareBB(board.E4) | board.SquareBB(board.D4) |
	board.SquareBB(board.E5) | board.SquareBB(board.D5)

// Piece-Square Tables (PST) for positional evaluation.
// Values are from White's perspective, written rank 8 first (index 0 is a8,
// index 63 is h1). White therefore looks up sq XOR 56; Black, seen from its
// own side of the board, looks up sq directly.

var pawnMgPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var pawnEgPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	80, 80, 80, 80, 80, 80, 80, 80,
	50, 50, 50, 50, 50, 50, 50, 50,
	20, 20, 20, 25, 25, 20, 20, 20,
	10, 10, 10, 15, 15, 10, 10, 10,
	5, 5, 5, 5, 5, 5, 5, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightMgPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

// knightEgPST penalizes edge/corner knights more severely than the
// middlegame table: with fewer pawns to shelter behind, a cornered knight
// has far fewer safe outposts and struggles to re-enter play.
var knightEgPST = [64]int{
	-60, -50, -40, -40, -40, -40, -50, -60,
	-50, -30, 0, 0, 0, 0, -30, -50,
	-40, 0, 15, 20, 20, 15, 0, -40,
	-40, 10, 20, 25, 25, 20, 10, -40,
	-40, 5, 20, 25, 25, 20, 5, -40,
	-40, 0, 15, 20, 20, 15, 0, -40,
	-50, -30, 0, 5, 5, 0, -30, -50,
	-60, -50, -40, -40, -40, -40, -50, -60,
}

var bishopMgPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

// bishopEgPST flattens the back-rank penalty (development no longer
// matters) and rewards long-diagonal centralization more heavily, since an
// endgame bishop's value comes from diagonal reach, not piece safety.
var bishopEgPST = [64]int{
	-15, -10, -10, -10, -10, -10, -10, -15,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 0, 10, 15, 15, 10, 0, -10,
	-10, 5, 15, 20, 20, 15, 5, -10,
	-10, 0, 15, 20, 20, 15, 0, -10,
	-10, 5, 10, 15, 15, 10, 5, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-15, -10, -10, -10, -10, -10, -10, -15,
}

var rookMgPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

// rookEgPST raises the middlegame's seventh-rank bonus and adds a small
// bonus for the central files on the other ranks, alongside the open-file
// term that otherwise dominates rook evaluation in the endgame.
var rookEgPST = [64]int{
	5, 5, 5, 5, 5, 5, 5, 5,
	15, 20, 20, 20, 20, 20, 20, 15,
	0, 0, 5, 5, 5, 5, 0, 0,
	0, 0, 5, 5, 5, 5, 0, 0,
	0, 0, 5, 5, 5, 5, 0, 0,
	0, 0, 5, 5, 5, 5, 0, 0,
	0, 0, 5, 5, 5, 5, 0, 0,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenMgPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

// queenEgPST rewards central queen placement more strongly: with kings and
// pawn structures simplified, an endgame queen's mobility from the center
// matters more than early development concerns.
var queenEgPST = [64]int{
	-10, -5, -5, 0, 0, -5, -5, -10,
	-5, 5, 5, 5, 5, 5, 5, -5,
	-5, 5, 10, 10, 10, 10, 5, -5,
	0, 5, 10, 15, 15, 10, 5, 0,
	0, 5, 10, 15, 15, 10, 5, 0,
	-5, 5, 10, 10, 10, 10, 5, -5,
	-5, 5, 5, 5, 5, 5, 5, -5,
	-10, -5, -5, 0, 0, -5, -5, -10,
}

var kingMgPST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEgPST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

var mgPST = [6][64]int{pawnMgPST, knightMgPST, bishopMgPST, rookMgPST, queenMgPST, kingMgPST}
var egPST = [6][64]int{pawnEgPST, knightEgPST, bishopEgPST, rookEgPST, queenEgPST, kingEgPST}

// Evaluate returns the static evaluation of the position in centipawns, from
// the side-to-move's perspective. Computed from White's perspective
// internally, negated for Black at the end.
func Evaluate(pos *board.Position) int {
	return evaluate(pos, nil)
}

// EvaluateWithPawnTable is like Evaluate but reads/writes the pawn-structure
// term through a shared cache, keyed by the position's pawn Zobrist key.
func EvaluateWithPawnTable(pos *board.Position, pawnTable *PawnTable) int {
	return evaluate(pos, pawnTable)
}

func evaluate(pos *board.Position, pawnTable *PawnTable) int {
	var mg, eg, phase int

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}

		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()

				mg += sign * pieceValues[pt]
				eg += sign * pieceValues[pt]

				pstSq := sq.Mirror()
				if c == board.Black {
					pstSq = sq
				}
				mg += sign * mgPST[pt][pstSq]
				eg += sign * egPST[pt][pstSq]

				phase += phaseWeight[pt]
			}
		}

		if pos.Pieces[c][board.Bishop].PopCount() >= 2 {
			mg += sign * bishopPairBonus
			eg += sign * bishopPairBonus
		}
	}

	if phase > maxPhase {
		phase = maxPhase
	}

	psMg, psEg := evaluatePawnStructureWithCache(pos, pawnTable)
	mg += psMg
	eg += psEg

	mobMg, mobEg := evaluateMobility(pos)
	mg += mobMg
	eg += mobEg

	if phase >= maxPhase/2 {
		ks := evaluateKingSafety(pos)
		mg += ks
	}

	thr := evaluateThreats(pos)
	mg += thr
	eg += thr

	if pos.FullMoveNumber <= openingMoveLimit {
		mg += evaluateOpeningPrinciples(pos)
	}

	totalPieces := (pos.AllOccupied).PopCount()
	if totalPieces <= endgamePieceLimit {
		eg += evaluateEndgameKingPlacement(pos)
	}

	rfMg, rfEg := evaluateRooksOnFiles(pos)
	mg += rfMg
	eg += rfEg

	score := (mg*phase + eg*(maxPhase-phase)) / maxPhase

	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

// EvaluateMaterial returns just the material balance (kings excluded), from
// the side-to-move's perspective.
func EvaluateMaterial(pos *board.Position) int {
	score := 0
	for pt := board.Pawn; pt < board.King; pt++ {
		score += pos.Pieces[board.White][pt].PopCount() * pieceValues[pt]
		score -= pos.Pieces[board.Black][pt].PopCount() * pieceValues[pt]
	}
	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

// isPassedPawn reports whether the pawn at sq has no enemy pawn on its own
// or an adjacent file anywhere ahead of it.
func isPassedPawn(pos *board.Position, sq board.Square, color board.Color) bool {
	file := sq.File()
	enemyPawns := pos.Pieces[color.Other()][board.Pawn]

	fileMask := board.FileMask[file]
	if file > 0 {
		fileMask |= board.FileMask[file-1]
	}
	if file < 7 {
		fileMask |= board.FileMask[file+1]
	}

	var frontMask board.Bitboard
	if color == board.White {
		frontMask = board.SquareBB(sq).NorthFill() &^ board.SquareBB(sq)
	} else {
		frontMask = board.SquareBB(sq).SouthFill() &^ board.SquareBB(sq)
	}

	return (enemyPawns & fileMask & frontMask) == 0
}

// evaluatePawnStructure scores isolated/doubled/passed pawns per §4.5 term 3.
func evaluatePawnStructure(pos *board.Position) (mg, eg int) {
	for color := board.White; color <= board.Black; color++ {
		sign := 1
		if color == board.Black {
			sign = -1
		}

		pawns := pos.Pieces[color][board.Pawn]
		allPawns := pawns

		for pawns != 0 {
			sq := pawns.PopLSB()
			file := sq.File()
			fileMask := board.FileMask[file]

			var adjacentFiles board.Bitboard
			if file > 0 {
				adjacentFiles |= board.FileMask[file-1]
			}
			if file < 7 {
				adjacentFiles |= board.FileMask[file+1]
			}
			if (allPawns & adjacentFiles) == 0 {
				mg += sign * isolatedPawnPenalty
				eg += sign * isolatedPawnPenalty
			}

			if (allPawns & fileMask).PopCount() > 1 {
				mg += sign * doubledPawnPenalty
				eg += sign * doubledPawnPenalty
			}

			if isPassedPawn(pos, sq, color) {
				relRank := sq.RelativeRank(color)
				bonus := passedPawnBase + passedPawnPerRank*relRank
				mg += sign * bonus
				eg += sign * bonus
			}
		}
	}
	return mg, eg
}

func evaluatePawnStructureWithCache(pos *board.Position, pt *PawnTable) (mg, eg int) {
	if pt == nil {
		return evaluatePawnStructure(pos)
	}
	if mg, eg, found := pt.Probe(pos.PawnKey); found {
		return mg, eg
	}
	mg, eg = evaluatePawnStructure(pos)
	pt.Store(pos.PawnKey, mg, eg)
	return mg, eg
}

// evaluateMobility scores +2cp per pseudo-legal, non-own-blocked target
// square for knights, bishops, rooks, and queens.
func evaluateMobility(pos *board.Position) (mg, eg int) {
	occupied := pos.AllOccupied

	for color := board.White; color <= board.Black; color++ {
		sign := 1
		if color == board.Black {
			sign = -1
		}
		ownPieces := pos.Occupied[color]

		knights := pos.Pieces[color][board.Knight]
		for knights != 0 {
			sq := knights.PopLSB()
			count := (board.KnightAttacks(sq) &^ ownPieces).PopCount()
			mg += sign * mobilityWeight * count
			eg += sign * mobilityWeight * count
		}

		bishops := pos.Pieces[color][board.Bishop]
		for bishops != 0 {
			sq := bishops.PopLSB()
			count := (board.BishopAttacks(sq, occupied) &^ ownPieces).PopCount()
			mg += sign * mobilityWeight * count
			eg += sign * mobilityWeight * count
		}

		rooks := pos.Pieces[color][board.Rook]
		for rooks != 0 {
			sq := rooks.PopLSB()
			count := (board.RookAttacks(sq, occupied) &^ ownPieces).PopCount()
			mg += sign * mobilityWeight * count
			eg += sign * mobilityWeight * count
		}

		queens := pos.Pieces[color][board.Queen]
		for queens != 0 {
			sq := queens.PopLSB()
			count := (board.QueenAttacks(sq, occupied) &^ ownPieces).PopCount()
			mg += sign * mobilityWeight * count
			eg += sign * mobilityWeight * count
		}
	}

	return mg, eg
}

// evaluateKingSafety scores the pawn shield and enemy attackers of the own
// king square, active only while the game phase is at least maxPhase/2
// (at least half of the non-pawn material is still on the board).
func evaluateKingSafety(pos *board.Position) int {
	var score int
	occupied := pos.AllOccupied

	for color := board.White; color <= board.Black; color++ {
		sign := 1
		if color == board.Black {
			sign = -1
		}

		kingSq := pos.KingSquare[color]
		ownPawns := pos.Pieces[color][board.Pawn]
		shield := board.KingAttacks(kingSq) & ownPawns
		score += sign * pawnShieldBonus * shield.PopCount()

		enemy := color.Other()
		attackerCount := countAttackersTo(pos, kingSq, enemy, occupied)
		score += sign * kingAttackPenalty * attackerCount
	}

	return score
}

// countAttackersTo counts how many of color's pieces attack sq.
func countAttackersTo(pos *board.Position, sq board.Square, color board.Color, occupied board.Bitboard) int {
	count := 0
	if board.PawnAttacks(sq, color.Other())&pos.Pieces[color][board.Pawn] != 0 {
		count += (board.PawnAttacks(sq, color.Other()) & pos.Pieces[color][board.Pawn]).PopCount()
	}
	count += (board.KnightAttacks(sq) & pos.Pieces[color][board.Knight]).PopCount()
	count += (board.BishopAttacks(sq, occupied) & pos.Pieces[color][board.Bishop]).PopCount()
	count += (board.RookAttacks(sq, occupied) & pos.Pieces[color][board.Rook]).PopCount()
	count += (board.QueenAttacks(sq, occupied) & pos.Pieces[color][board.Queen]).PopCount()
	return count
}

// evaluateThreats scores enemy non-pawn pieces attacked by our pawns.
func evaluateThreats(pos *board.Position) int {
	var score int
	for color := board.White; color <= board.Black; color++ {
		sign := 1
		if color == board.Black {
			sign = -1
		}
		enemy := color.Other()
		ourPawnAttacks := computePawnAttacksBB(pos, color)
		enemyNonPawns := pos.Occupied[enemy] &^ pos.Pieces[enemy][board.Pawn]
		count := (enemyNonPawns & ourPawnAttacks).PopCount()
		score += sign * count * threatByPawnBonus
	}
	return score
}

// evaluateOpeningPrinciples scores center control, development, castling
// rights, and early-queen development, active through full-move 20 (the
// queen sub-term through full-move 10 only).
func evaluateOpeningPrinciples(pos *board.Position) int {
	var score int
	occupied := pos.AllOccupied

	for color := board.White; color <= board.Black; color++ {
		sign := 1
		if color == board.Black {
			sign = -1
		}
		enemy := color.Other()

		centerPawns := pos.Pieces[color][board.Pawn] & centerSquares
		centerTerm := centerPawnBonus * centerPawns.PopCount()

		ourAttacks := computeKnightAttacksBB(pos, color) | computeBishopAttacksBB(pos, color, occupied) |
			computeRookAttacksBB(pos, color, occupied) | computeQueenAttacksBB(pos, color, occupied) |
			computePawnAttacksBB(pos, color)
		enemyAttacks := computeKnightAttacksBB(pos, enemy) | computeBishopAttacksBB(pos, enemy, occupied) |
			computeRookAttacksBB(pos, enemy, occupied) | computeQueenAttacksBB(pos, enemy, occupied) |
			computePawnAttacksBB(pos, enemy)

		temp := centerSquares
		for temp != 0 {
			csq := temp.PopLSB()
			csBB := board.SquareBB(csq)
			ourCount := 0
			enemyCount := 0
			if ourAttacks&csBB != 0 {
				ourCount = 1
			}
			if enemyAttacks&csBB != 0 {
				enemyCount = 1
			}
			centerTerm += centerControlBonus * (ourCount - enemyCount)
		}
		score += sign * centerTerm * 2

		var backRank board.Bitboard
		if color == board.White {
			backRank = board.Rank1
		} else {
			backRank = board.Rank8
		}
		developed := (pos.Pieces[color][board.Knight] | pos.Pieces[color][board.Bishop]) &^ backRank
		score += sign * developmentBonus * developed.PopCount() * 2

		if color == board.White {
			if pos.CastlingRights&(board.WhiteKingSideCastle|board.WhiteQueenSideCastle) != 0 {
				score += castlingRightsBonus
			}
		} else {
			if pos.CastlingRights&(board.BlackKingSideCastle|board.BlackQueenSideCastle) != 0 {
				score -= castlingRightsBonus
			}
		}

		if pos.FullMoveNumber <= earlyQueenMoveLimit {
			queens := pos.Pieces[color][board.Queen] &^ backRank
			score += sign * earlyQueenPenalty * queens.PopCount()
		}
	}

	return score
}

// evaluateEndgameKingPlacement rewards king centralization once total board
// material drops to endgamePieceLimit pieces or fewer.
func evaluateEndgameKingPlacement(pos *board.Position) int {
	var score int
	for color := board.White; color <= board.Black; color++ {
		sign := 1
		if color == board.Black {
			sign = -1
		}
		sq := pos.KingSquare[color]
		file, rank := int(sq.File()), int(sq.Rank())
		dist := abs(file-3) + abs(file-4) + abs(rank-3) + abs(rank-4)
		score += sign * 5 * (14 - dist)
	}
	return score
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// evaluateRooksOnFiles returns bonus for rooks on open/semi-open files.
func evaluateRooksOnFiles(pos *board.Position) (mg, eg int) {
	for color := board.White; color <= board.Black; color++ {
		sign := 1
		if color == board.Black {
			sign = -1
		}

		ownPawns := pos.Pieces[color][board.Pawn]
		enemyPawns := pos.Pieces[color.Other()][board.Pawn]

		rooks := pos.Pieces[color][board.Rook]
		for rooks != 0 {
			sq := rooks.PopLSB()
			fileMask := board.FileMask[sq.File()]

			hasOwnPawn := (ownPawns & fileMask) != 0
			hasEnemyPawn := (enemyPawns & fileMask) != 0

			if !hasOwnPawn {
				if !hasEnemyPawn {
					mg += sign * rookOpenFileBonus
					eg += sign * rookOpenFileBonus
				} else {
					mg += sign * rookSemiOpenFileBonus
					eg += sign * rookSemiOpenFileBonus
				}
			}
		}
	}
	return mg, eg
}

// SEE (Static Exchange Evaluation) estimates the result of a capture
// sequence, from the perspective of the moving side. Used by quiescence to
// skip losing captures, not by the static evaluator.
func SEE(pos *board.Position, m board.Move) int {
	from := m.From()
	to := m.To()

	attacker := pos.PieceAt(from)
	if attacker == board.NoPiece {
		return 0
	}

	var capturedValue int
	if m.IsEnPassant() {
		capturedValue = PawnValue
	} else {
		victim := pos.PieceAt(to)
		if victim == board.NoPiece {
			return 0
		}
		capturedValue = pieceValues[victim.Type()]
	}

	if m.IsPromotion() {
		capturedValue += pieceValues[m.Promotion()] - PawnValue
	}

	return seeSwap(pos, to, from, attacker, capturedValue)
}

// seeSwap runs the standard swap algorithm: alternating captures on target,
// negamaxed back to the root to find the net material result.
func seeSwap(pos *board.Position, target, excludeFrom board.Square, firstAttacker board.Piece, initialGain int) int {
	var gain [32]int
	d := 0
	gain[d] = initialGain

	occupied := pos.AllOccupied &^ board.SquareBB(excludeFrom)
	attackerValue := pieceValues[firstAttacker.Type()]
	side := firstAttacker.Color().Other()

	for {
		d++
		gain[d] = attackerValue - gain[d-1]
		if mathx.Max(-gain[d-1], gain[d]) < 0 {
			break
		}

		attackerSq, attackerPiece := getLeastValuableAttacker(pos, target, side, occupied)
		if attackerSq == board.NoSquare {
			break
		}

		occupied &^= board.SquareBB(attackerSq)
		attackerValue = pieceValues[attackerPiece.Type()]
		side = side.Other()
	}

	for d--; d > 0; d-- {
		gain[d-1] = -mathx.Max(-gain[d-1], gain[d])
	}

	return gain[0]
}

// getLeastValuableAttacker finds the cheapest piece of side attacking
// target, or NoSquare if none remain.
func getLeastValuableAttacker(pos *board.Position, target board.Square, side board.Color, occupied board.Bitboard) (board.Square, board.Piece) {
	pawns := pos.Pieces[side][board.Pawn]
	if attackers := pawns & board.PawnAttacks(target, side.Other()) & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Pawn, side)
	}

	knights := pos.Pieces[side][board.Knight]
	if attackers := knights & board.KnightAttacks(target) & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Knight, side)
	}

	bishopAttacks := board.BishopAttacks(target, occupied)
	if attackers := pos.Pieces[side][board.Bishop] & bishopAttacks & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Bishop, side)
	}

	rookAttacks := board.RookAttacks(target, occupied)
	if attackers := pos.Pieces[side][board.Rook] & rookAttacks & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Rook, side)
	}

	if attackers := pos.Pieces[side][board.Queen] & (bishopAttacks | rookAttacks) & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Queen, side)
	}

	if attackers := pos.Pieces[side][board.King] & board.KingAttacks(target) & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.King, side)
	}

	return board.NoSquare, board.NoPiece
}

func computePawnAttacksBB(pos *board.Position, color board.Color) board.Bitboard {
	pawns := pos.Pieces[color][board.Pawn]
	if color == board.White {
		return pawns.NorthEast() | pawns.NorthWest()
	}
	return pawns.SouthEast() | pawns.SouthWest()
}

func computeKnightAttacksBB(pos *board.Position, color board.Color) board.Bitboard {
	knights := pos.Pieces[color][board.Knight]
	var attacks board.Bitboard
	for knights != 0 {
		attacks |= board.KnightAttacks(knights.PopLSB())
	}
	return attacks
}

func computeBishopAttacksBB(pos *board.Position, color board.Color, occupied board.Bitboard) board.Bitboard {
	bishops := pos.Pieces[color][board.Bishop]
	var attacks board.Bitboard
	for bishops != 0 {
		attacks |= board.BishopAttacks(bishops.PopLSB(), occupied)
	}
	return attacks
}

func computeRookAttacksBB(pos *board.Position, color board.Color, occupied board.Bitboard) board.Bitboard {
	rooks := pos.Pieces[color][board.Rook]
	var attacks board.Bitboard
	for rooks != 0 {
		attacks |= board.RookAttacks(rooks.PopLSB(), occupied)
	}
	return attacks
}

func computeQueenAttacksBB(pos *board.Position, color board.Color, occupied board.Bitboard) board.Bitboard {
	queens := pos.Pieces[color][board.Queen]
	var attacks board.Bitboard
	for queens != 0 {
		attacks |= board.QueenAttacks(queens.PopLSB(), occupied)
	}
	return attacks
}
