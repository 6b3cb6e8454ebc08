package engine

import (
	"github.com/dgraph-io/ristretto/v2"
)

// pawnScore is the cached middlegame/endgame pawn-structure contribution for
// one pawn-key. Pawn structure rarely changes between sibling search nodes
// (most moves don't touch a pawn), so caching it by PawnKey saves re-walking
// every pawn on every evaluate() call.
type pawnScore struct {
	mg, eg int16
}

// PawnTable caches pawn-structure evaluation by pawn Zobrist key, backed by
// ristretto's concurrent admission-sampled cache so it can be shared across
// Lazy-SMP search workers without its own locking.
type PawnTable struct {
	cache *ristretto.Cache[uint64, pawnScore]
}

// NewPawnTable creates a pawn hash cache sized in MB.
func NewPawnTable(sizeMB int) *PawnTable {
	maxCost := int64(sizeMB) * 1024 * 1024
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, pawnScore]{
		NumCounters: maxCost / 8, // ~8 bytes/entry expected
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		// A misconfigured cache is a programmer error, not a runtime
		// condition callers can recover from.
		panic(err)
	}
	return &PawnTable{cache: cache}
}

// Probe looks up the cached middlegame/endgame pawn-structure scores.
func (pt *PawnTable) Probe(key uint64) (mg, eg int, found bool) {
	v, ok := pt.cache.Get(key)
	if !ok {
		return 0, 0, false
	}
	return int(v.mg), int(v.eg), true
}

// Store caches the middlegame/endgame pawn-structure scores for key. It
// waits for ristretto's write buffer to drain, so an admitted entry is
// visible to Probe as soon as Store returns.
func (pt *PawnTable) Store(key uint64, mg, eg int) {
	pt.cache.Set(key, pawnScore{mg: int16(mg), eg: int16(eg)}, 1)
	pt.cache.Wait()
}

// Clear empties the pawn hash cache.
func (pt *PawnTable) Clear() {
	pt.cache.Clear()
}
