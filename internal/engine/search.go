package engine

import (
	"sync/atomic"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// futilityMargins[depth] is the margin used by futility pruning at depth<=3;
// index 0 is unused (futility pruning never fires at depth 0, quiescence
// takes over there).
var futilityMargins = [4]int{0, 200, 300, 500}

// PVTable stores the principal variation as a triangular array.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// SearchStats reports counters and timing for one getBestMove call.
type SearchStats struct {
	Nodes            uint64
	QNodes           uint64
	TTHits           uint64
	TTMisses         uint64
	BetaCutoffs      uint64
	FirstMoveCutoffs uint64
	MaxDepthReached  int
	ElapsedSec       float64
	Score            int
}

// Search performs a single-threaded iterative-deepening alpha-beta search.
// All mutable state (position, stacks, TT) is owned by one Search instance
// for the duration of one GetBestMove call; see SPEC_FULL.md's concurrency
// model for why this stays single-threaded (internal/parallel is the
// explicitly optional Lazy-SMP extension).
type Search struct {
	pos       *board.Position
	tt        *TranspositionTable
	pawnTable *PawnTable
	orderer   *MoveOrderer

	nodes, qNodes                    uint64
	ttHits, ttMisses                 uint64
	betaCutoffs, firstMoveCutoffs    uint64
	maxDepthReached                  int

	stopFlag  atomic.Bool
	startTime time.Time
	deadline  time.Time

	pv        PVTable
	undoStack [MaxPly]board.UndoInfo

	// OnDepth, if set, is called after each completed iterative-deepening
	// iteration with the PV and stats gathered so far.
	OnDepth func(pv []board.Move, stats SearchStats)

	// excludeRoot lists root moves to skip, for MultiPV's successive
	// lines (each excludes every move already reported).
	excludeRoot []board.Move
}

// SetExcludedRootMoves restricts the next GetBestMove call to skip the
// given root moves, for MultiPV.
func (s *Search) SetExcludedRootMoves(moves []board.Move) {
	s.excludeRoot = moves
}

// NewSearch creates a search bound to a transposition table and an optional
// pawn-structure cache (pass nil to evaluate pawn structure uncached).
func NewSearch(tt *TranspositionTable, pawnTable *PawnTable) *Search {
	return &Search{
		tt:        tt,
		pawnTable: pawnTable,
		orderer:   NewMoveOrderer(),
	}
}

// Stop signals the search to abort at its next node-count or time poll.
func (s *Search) Stop() {
	s.stopFlag.Store(true)
}

func (s *Search) reset() {
	s.stopFlag.Store(false)
	s.nodes = 0
	s.qNodes = 0
	s.ttHits = 0
	s.ttMisses = 0
	s.betaCutoffs = 0
	s.firstMoveCutoffs = 0
	s.maxDepthReached = 0
	s.orderer.Clear()
}

// GetBestMove runs iterative deepening from depth 1 to maxDepth, stopping
// early if timeLimitMs elapses (0 means no time limit) or Stop is called.
// The move returned is the root of the PV recorded at the deepest
// iteration that completed; if an iteration is aborted mid-search, the
// previous iteration's move is kept.
func (s *Search) GetBestMove(pos *board.Position, maxDepth int, timeLimitMs int) (board.Move, SearchStats) {
	return s.GetBestMoveFrom(pos, 1, maxDepth, timeLimitMs, true)
}

// GetBestMoveFrom is GetBestMove with the starting iteration depth and the
// table's NewSearch/age bump both made explicit, so a Lazy-SMP pool of
// several Search instances sharing one TranspositionTable can stagger
// helper workers' start depth and bump the shared age exactly once per
// pool-wide search rather than once per worker (see internal/parallel).
func (s *Search) GetBestMoveFrom(pos *board.Position, startDepth, maxDepth, timeLimitMs int, bumpTTAge bool) (board.Move, SearchStats) {
	s.pos = pos.Copy()
	s.reset()
	s.startTime = time.Now()
	if timeLimitMs > 0 {
		s.deadline = s.startTime.Add(time.Duration(timeLimitMs) * time.Millisecond)
	} else {
		s.deadline = time.Time{}
	}
	if bumpTTAge {
		s.tt.NewSearch()
	}

	var bestMove board.Move
	var bestScore int

	if startDepth < 1 {
		startDepth = 1
	}
	for depth := startDepth; depth <= maxDepth; depth++ {
		score := s.negamax(depth, 0, -Infinity, Infinity, true)

		if s.stopFlag.Load() && depth > 1 {
			break
		}

		if s.pv.length[0] > 0 {
			bestMove = s.pv.moves[0][0]
		}
		bestScore = score
		s.maxDepthReached = depth

		if s.OnDepth != nil {
			s.OnDepth(s.GetPV(), SearchStats{
				Nodes:            s.nodes,
				QNodes:           s.qNodes,
				TTHits:           s.ttHits,
				TTMisses:         s.ttMisses,
				BetaCutoffs:      s.betaCutoffs,
				FirstMoveCutoffs: s.firstMoveCutoffs,
				MaxDepthReached:  s.maxDepthReached,
				ElapsedSec:       time.Since(s.startTime).Seconds(),
				Score:            bestScore,
			})
		}

		if s.stopFlag.Load() || s.timeExpired() {
			break
		}
	}

	stats := SearchStats{
		Nodes:            s.nodes,
		QNodes:           s.qNodes,
		TTHits:           s.ttHits,
		TTMisses:         s.ttMisses,
		BetaCutoffs:      s.betaCutoffs,
		FirstMoveCutoffs: s.firstMoveCutoffs,
		MaxDepthReached:  s.maxDepthReached,
		ElapsedSec:       time.Since(s.startTime).Seconds(),
		Score:            bestScore,
	}
	s.excludeRoot = nil
	return bestMove, stats
}

func (s *Search) timeExpired() bool {
	return !s.deadline.IsZero() && time.Now().After(s.deadline)
}

// pollStop checks the cooperative-cancellation conditions every 4096 nodes.
func (s *Search) pollStop() bool {
	if s.nodes&4095 != 0 {
		return s.stopFlag.Load()
	}
	if s.stopFlag.Load() || s.timeExpired() {
		s.stopFlag.Store(true)
		return true
	}
	return false
}

func (s *Search) evaluate() int {
	if s.pawnTable != nil {
		return EvaluateWithPawnTable(s.pos, s.pawnTable)
	}
	return Evaluate(s.pos)
}

// negamax implements alpha-beta negamax with PVS, null-move pruning,
// futility pruning, and late-move reductions, per SPEC_FULL.md §4.7.
func (s *Search) negamax(depth, ply int, alpha, beta int, pvNode bool) int {
	if s.pollStop() {
		return 0
	}
	s.nodes++
	s.pv.length[ply] = ply

	if ply >= MaxPly-1 {
		return s.evaluate()
	}

	if ply > 0 {
		if s.pos.HalfMoveClock >= 100 || s.pos.IsInsufficientMaterial() || s.pos.IsRepetition() {
			return 0
		}

		// Mate-distance pruning.
		if a := -MateScore + ply; alpha < a {
			alpha = a
		}
		if b := MateScore - ply - 1; beta > b {
			beta = b
		}
		if alpha >= beta {
			return alpha
		}
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	inCheck := s.pos.InCheck()

	var ttMove board.Move
	ttEntry, found := s.tt.Probe(s.pos.Hash)
	if found {
		s.ttHits++
		ttMove = ttEntry.BestMove
		if !pvNode && int(ttEntry.Depth) >= depth {
			score := AdjustScoreFromTT(int(ttEntry.Score), ply)
			switch ttEntry.Flag {
			case TTExact:
				return score
			case TTLowerBound:
				if score >= beta {
					return score
				}
			case TTUpperBound:
				if score <= alpha {
					return score
				}
			}
		}
	} else {
		s.ttMisses++
	}

	// Null-move pruning.
	if !pvNode && !inCheck && depth >= 3 && ply > 0 && s.pos.HasNonPawnMaterial() {
		r := 2
		if depth > 6 {
			r = 3
		}
		undo := s.pos.MakeNullMove()
		score := -s.negamax(depth-1-r, ply+1, -beta, -beta+1, false)
		s.pos.UnmakeNullMove(undo)
		if s.stopFlag.Load() {
			return 0
		}
		if score >= beta {
			return beta
		}
	}

	moves := s.pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	staticEval := 0
	if depth <= 3 && !pvNode && !inCheck {
		staticEval = s.evaluate()
	}

	mover := s.pos.SideToMove
	scores := s.orderer.ScoreMoves(s.pos, moves, ply, ttMove)

	bestScore := -Infinity
	bestMove := board.NoMove
	flag := TTUpperBound
	moveCount := 0

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		if ply == 0 && containsMove(s.excludeRoot, move) {
			continue
		}

		isCapture := move.IsCapture()
		isPromotion := move.IsPromotion()

		if depth <= 3 && !pvNode && !inCheck && moveCount > 1 && !isCapture && !isPromotion {
			if staticEval+futilityMargins[depth] <= alpha {
				continue
			}
		}

		s.undoStack[ply] = s.pos.MakeMove(move)
		if !s.undoStack[ply].Valid {
			s.pos.UnmakeMove(move, s.undoStack[ply])
			continue
		}
		s.pos.PushHistory()
		moveCount++

		givesCheck := s.pos.InCheck()

		reduction := 0
		if depth >= 3 && moveCount > 3 && !pvNode && !isCapture && !isPromotion && !inCheck && !givesCheck {
			reduction = 1
			if depth >= 6 && moveCount >= 8 {
				reduction = 2
			}
		}

		var score int
		if moveCount == 1 {
			score = -s.negamax(depth-1, ply+1, -beta, -alpha, pvNode)
		} else {
			score = -s.negamax(depth-1-reduction, ply+1, -alpha-1, -alpha, false)
			if score > alpha && score < beta {
				if reduction > 0 {
					score = -s.negamax(depth-1, ply+1, -alpha-1, -alpha, false)
				}
				if score > alpha && pvNode {
					score = -s.negamax(depth-1, ply+1, -beta, -alpha, true)
				}
			}
		}

		s.pos.PopHistory()
		s.pos.UnmakeMove(move, s.undoStack[ply])

		if s.stopFlag.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move

			if score > alpha {
				alpha = score
				flag = TTExact

				s.pv.moves[ply][ply] = move
				for j := ply + 1; j < s.pv.length[ply+1]; j++ {
					s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
				}
				s.pv.length[ply] = s.pv.length[ply+1]
			}
		}

		if score >= beta {
			s.betaCutoffs++
			if moveCount == 1 {
				s.firstMoveCutoffs++
			}

			s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(score, ply), TTLowerBound, bestMove)

			if !isCapture {
				s.orderer.UpdateKillers(move, ply)
				s.orderer.UpdateHistory(mover, move, depth)
			}

			return score
		}
	}

	s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)

	return bestScore
}

// quiescence searches captures and promotions only, to avoid the search
// horizon hiding a hanging piece at the leaf. Stand-pat uses the evaluator; captures with a
// negative SEE are skipped.
func (s *Search) quiescence(ply int, alpha, beta int) int {
	if s.pollStop() {
		return 0
	}
	s.nodes++
	s.qNodes++

	if ply >= MaxPly-1 {
		return s.evaluate()
	}

	standPat := s.evaluate()
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	if standPat+QueenValue+200 < alpha {
		return alpha
	}

	moves := s.pos.GenerateCaptures()
	scores := s.orderer.ScoreMoves(s.pos, moves, ply, board.NoMove)

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		if SEE(s.pos, move) < 0 {
			continue
		}

		undo := s.pos.MakeMove(move)
		if !undo.Valid {
			s.pos.UnmakeMove(move, undo)
			continue
		}
		s.pos.PushHistory()

		score := -s.quiescence(ply+1, -beta, -alpha)

		s.pos.PopHistory()
		s.pos.UnmakeMove(move, undo)

		if s.stopFlag.Load() {
			return 0
		}

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

func containsMove(moves []board.Move, m board.Move) bool {
	for _, mv := range moves {
		if mv == m {
			return true
		}
	}
	return false
}

// GetPV returns the principal variation from the last completed iteration.
func (s *Search) GetPV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	for i := 0; i < s.pv.length[0]; i++ {
		pv[i] = s.pv.moves[0][i]
	}
	return pv
}
