// chesscore-bench is a thin manual/CI verification tool: it wires a FEN and
// a depth/time budget into engine.Engine.SearchWithLimits or Position.Perft and
// prints UCI-style info lines. It is not a UCI protocol implementation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/seekerror/logw"
)

var (
	position = flag.String("fen", "", "Start position (default to standard)")
	depth    = flag.Int("depth", 6, "Search depth limit")
	moveTime = flag.Duration("movetime", 2*time.Second, "Time budget for the search")
	ttSizeMB = flag.Int("hash", 64, "Transposition table size in MB")
	perft    = flag.Bool("perft", false, "Run perft instead of a search")
	divide   = flag.Bool("divide", false, "With -perft, print per-root-move subtree counts")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: chesscore-bench [options]

chesscore-bench exercises getBestMove and perft over a FEN position and
prints UCI-style info lines, for manual or CI verification of the search
and move generator.

Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	fen := *position
	if fen == "" {
		fen = board.StartFEN
	}

	pos, err := board.ParseFEN(fen)
	if err != nil {
		logw.Exitf(ctx, "Invalid fen %q: %v", fen, err)
	}

	if *perft {
		runPerft(ctx, pos, *depth, *divide)
		return
	}

	runBench(ctx, pos, *depth, *moveTime, *ttSizeMB)
}

func runPerft(ctx context.Context, pos *board.Position, maxDepth int, divide bool) {
	for d := 1; d <= maxDepth; d++ {
		start := time.Now()
		nodes := pos.Perft(d)
		elapsed := time.Since(start)

		nps := float64(0)
		if elapsed > 0 {
			nps = float64(nodes) / elapsed.Seconds()
		}
		logw.Infof(ctx, "perft depth=%d nodes=%d time=%v nps=%.0f", d, nodes, elapsed, nps)
	}

	if divide {
		moves := pos.GenerateLegalMoves()
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			undo := pos.MakeMove(m)
			pos.PushHistory()
			nodes := pos.Perft(maxDepth - 1)
			pos.PopHistory()
			pos.UnmakeMove(m, undo)
			fmt.Printf("%v: %d\n", m, nodes)
		}
	}
}

func runBench(ctx context.Context, pos *board.Position, maxDepth int, moveTime time.Duration, ttSizeMB int) {
	eng := engine.NewEngineWithOptions(engine.Options{TTSizeMB: ttSizeMB})
	eng.OnInfo = func(info engine.SearchInfo) {
		fmt.Printf("info depth %d score cp %d nodes %d time %d nps %.0f pv %s\n",
			info.Depth, info.Score, info.Nodes, info.Time.Milliseconds(), nps(info),
			formatPV(info.PV))
	}

	move := eng.SearchWithLimits(ctx, pos, engine.SearchLimits{
		Depth:    maxDepth,
		MoveTime: moveTime,
	})

	if move == board.NoMove {
		fmt.Println("bestmove (none)")
		return
	}
	fmt.Printf("bestmove %v\n", move)
}

func nps(info engine.SearchInfo) float64 {
	secs := info.Time.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(info.Nodes) / secs
}

func formatPV(pv []board.Move) string {
	s := ""
	for i, m := range pv {
		if i > 0 {
			s += " "
		}
		s += m.String()
	}
	return s
}
