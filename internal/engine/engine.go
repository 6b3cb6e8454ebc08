package engine

import (
	"context"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 1, 0)

// SearchInfo contains information about the current search, reported once
// per completed iterative-deepening iteration.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // Permille of hash table used
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth    int           // Maximum depth (0 = no limit)
	MoveTime time.Duration // Time for this move (0 = no limit)
}

// SearchResult contains the result of a single PV search.
type SearchResult struct {
	Move  board.Move
	Score int
	PV    []board.Move
	Depth int
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // ~2-3 ply, 500ms
	Medium                   // ~7 ply, 1s
	Hard                     // Maximum strength, 3s
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 3, MoveTime: 500 * time.Millisecond},
	Medium: {Depth: 7, MoveTime: 1 * time.Second},
	Hard:   {Depth: 40, MoveTime: 3 * time.Second}, // Max strength (time-limited)
}

// Options configures a new Engine, mirroring the small-options-struct
// constructor pattern (TT size, pawn-cache size) used across this code's
// family instead of a sprawl of setter calls.
type Options struct {
	// TTSizeMB is the transposition table size in MB. Defaults to 64 if zero.
	TTSizeMB int
	// PawnCacheSizeMB is the pawn-structure cache size in MB. Defaults to 8
	// if zero.
	PawnCacheSizeMB int
}

func (o Options) String() string {
	return "{ttSizeMB=" + itoa(o.TTSizeMB) + ", pawnCacheSizeMB=" + itoa(o.PawnCacheSizeMB) + "}"
}

func (o Options) withDefaults() Options {
	if o.TTSizeMB <= 0 {
		o.TTSizeMB = 64
	}
	if o.PawnCacheSizeMB <= 0 {
		o.PawnCacheSizeMB = 8
	}
	return o
}

// Engine wraps the single-threaded Search with difficulty presets, UCI time
// management, and position-history plumbing. Parallel (Lazy-SMP) search is
// an explicitly separate, opt-in extension; see internal/parallel.
type Engine struct {
	opts      Options
	tt        *TranspositionTable
	pawnTable *PawnTable
	search    *Search

	difficulty Difficulty

	// Position history for repetition detection, applied to the position
	// before each search via Position.PushRootHash.
	rootPosHashes []uint64

	// OnInfo, if set, is called once per completed iterative-deepening
	// iteration.
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine with the given transposition table
// size in MB and default pawn-cache sizing; equivalent to
// NewEngineWithOptions(Options{TTSizeMB: ttSizeMB}).
func NewEngine(ttSizeMB int) *Engine {
	return NewEngineWithOptions(Options{TTSizeMB: ttSizeMB})
}

// NewEngineWithOptions creates a new chess engine from an explicit Options
// value, applying defaults for any zero field.
func NewEngineWithOptions(opts Options) *Engine {
	opts = opts.withDefaults()

	tt := NewTranspositionTable(opts.TTSizeMB)
	pawnTable := NewPawnTable(opts.PawnCacheSizeMB)

	e := &Engine{
		opts:       opts,
		tt:         tt,
		pawnTable:  pawnTable,
		search:     NewSearch(tt, pawnTable),
		difficulty: Medium,
	}

	e.search.OnDepth = func(pv []board.Move, stats SearchStats) {
		if e.OnInfo == nil {
			return
		}
		e.OnInfo(SearchInfo{
			Depth:    stats.MaxDepthReached,
			Score:    stats.Score,
			Nodes:    stats.Nodes,
			Time:     time.Duration(stats.ElapsedSec * float64(time.Second)),
			PV:       pv,
			HashFull: e.tt.HashFull(),
		})
	}

	return e
}

// Name returns the engine name and version, for UCI-style identification.
func Name() string {
	return "chesscore " + version.String()
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// SetPositionHistory sets the position history for repetition detection.
// This should be called before Search() with hashes from the game's move
// history, oldest first.
func (e *Engine) SetPositionHistory(hashes []uint64) {
	e.rootPosHashes = make([]uint64, len(hashes))
	copy(e.rootPosHashes, hashes)
}

func (e *Engine) applyHistory(pos *board.Position) {
	for _, h := range e.rootPosHashes {
		pos.PushRootHash(h)
	}
}

// Search finds the best move for the given position using the current
// difficulty's limits.
func (e *Engine) Search(ctx context.Context, pos *board.Position) board.Move {
	return e.SearchWithLimits(ctx, pos, DifficultySettings[e.difficulty])
}

// SearchWithLimits finds the best move with specific search limits.
func (e *Engine) SearchWithLimits(ctx context.Context, pos *board.Position, limits SearchLimits) board.Move {
	logw.Infof(ctx, "search start: sideToMove=%v limits=%+v", pos.SideToMove, limits)

	e.applyHistory(pos)

	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	move, stats := e.search.GetBestMove(pos, maxDepth, int(limits.MoveTime/time.Millisecond))
	if move == board.NoMove {
		logw.Errorf(ctx, "search found no move: depth=%d nodes=%d", stats.MaxDepthReached, stats.Nodes)
	} else {
		logw.Infof(ctx, "search done: depth=%d nodes=%d score=%d move=%v", stats.MaxDepthReached, stats.Nodes, stats.Score, move)
	}
	return move
}

// SearchWithUCILimits finds the best move using UCI time controls (wtime,
// btime, winc, binc), grounded on TimeManager's clock-based optimum/maximum
// estimate rather than a fixed per-move budget.
func (e *Engine) SearchWithUCILimits(ctx context.Context, pos *board.Position, limits UCILimits, ply int) board.Move {
	e.applyHistory(pos)

	tm := NewTimeManager()
	tm.Init(limits, pos.SideToMove, ply)

	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	var lastBestMove board.Move
	var stabilityCount int

	e.search.OnDepth = func(pv []board.Move, stats SearchStats) {
		move := board.NoMove
		if len(pv) > 0 {
			move = pv[0]
		}
		if move == lastBestMove {
			stabilityCount++
		} else {
			stabilityCount = 0
			lastBestMove = move
		}
		if stabilityCount >= 4 {
			tm.AdjustForStability(stabilityCount)
		} else {
			tm.AdjustForInstability(1)
		}
		if tm.PastOptimum() && stabilityCount >= 4 {
			e.search.Stop()
		}
		logw.Debugf(ctx, "info depth=%d score=%d nodes=%d pv=%v", stats.MaxDepthReached, stats.Score, stats.Nodes, pv)
		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:    stats.MaxDepthReached,
				Score:    stats.Score,
				Nodes:    stats.Nodes,
				Time:     tm.Elapsed(),
				PV:       pv,
				HashFull: e.tt.HashFull(),
			})
		}
	}

	timeLimitMs := int(tm.MaximumTime() / time.Millisecond)
	move, _ := e.search.GetBestMove(pos, maxDepth, timeLimitMs)
	return move
}

// SearchMultiPV finds multiple best moves (principal variations) for
// analysis, by repeatedly searching with prior best moves excluded at the
// root. This is a simple, correctness-first MultiPV: each line re-searches
// from depth 1 rather than sharing work across lines.
func (e *Engine) SearchMultiPV(pos *board.Position, limits SearchLimits, numPV int) []SearchResult {
	if numPV <= 0 {
		numPV = 1
	}

	results := make([]SearchResult, 0, numPV)
	var excluded []board.Move

	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}
	timeLimitMs := int(limits.MoveTime / time.Millisecond)

	for i := 0; i < numPV; i++ {
		e.search.SetExcludedRootMoves(excluded)

		move, stats := e.search.GetBestMove(pos, maxDepth, timeLimitMs)
		if move == board.NoMove {
			break
		}

		results = append(results, SearchResult{
			Move:  move,
			Score: stats.Score,
			PV:    e.search.GetPV(),
			Depth: stats.MaxDepthReached,
		})
		excluded = append(excluded, move)
	}

	return results
}

// Stop stops the current search.
func (e *Engine) Stop() {
	e.search.Stop()
}

// Clear clears the transposition table and pawn cache.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.pawnTable.Clear()
}

// ResizeTT reallocates the transposition table to the given size in MB,
// clearing it in the process.
func (e *Engine) ResizeTT(sizeMB int) {
	e.opts.TTSizeMB = sizeMB
	e.tt.Resize(sizeMB)
}

// Perft performs a perft test (for debugging move generation), delegating
// to Position's own implementation.
func (e *Engine) Perft(pos *board.Position, depth int) int64 {
	return pos.Perft(depth)
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-100 {
		mateIn := (MateScore - score + 1) / 2
		return "Mate in " + itoa(mateIn)
	}
	if score < -MateScore+100 {
		mateIn := (MateScore + score + 1) / 2
		return "Mated in " + itoa(mateIn)
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	return sign + itoa(pawns) + "." + itoa(centipawns)
}

// itoa is a tiny integer-to-string helper to avoid pulling in fmt/strconv
// for this one formatting path.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	s := ""
	for n > 0 {
		s = string('0'+byte(n%10)) + s
		n /= 10
	}
	return s
}
