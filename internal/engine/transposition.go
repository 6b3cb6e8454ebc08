package engine

import (
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/zstd"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/storage"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

// TTEntry represents an entry in the transposition table, keyed by the full
// 64-bit Zobrist hash (not a truncated upper-bits check) per the data model.
type TTEntry struct {
	Key      uint64
	BestMove board.Move
	Score    int16
	Depth    int8
	Flag     TTFlag
	Age      uint8
}

const ttSnapshotKey = "tt-entries-v1"

// TranspositionTable is a hash table for storing search results.
type TranspositionTable struct {
	entries []TTEntry
	size    uint64
	mask    uint64
	age     uint8

	hits   uint64
	probes uint64
}

// NewTranspositionTable creates a transposition table with the given size in MB.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	tt := &TranspositionTable{}
	tt.alloc(sizeMB)
	return tt
}

// alloc computes the entry count for sizeMB and (re)allocates entries.
func (tt *TranspositionTable) alloc(sizeMB int) {
	entrySize := uint64(24)
	numEntries := (uint64(sizeMB) * 1024 * 1024) / entrySize

	numEntries = roundDownToPowerOf2(numEntries)
	if numEntries == 0 {
		numEntries = 1
	}

	tt.entries = make([]TTEntry, numEntries)
	tt.size = numEntries
	tt.mask = numEntries - 1
}

func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up a position by its full hash. Returns the entry and true if
// found, otherwise an empty entry and false.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++

	idx := hash & tt.mask
	entry := tt.entries[idx]

	if entry.Key == hash && entry.Depth > 0 {
		tt.hits++
		return entry, true
	}

	return TTEntry{}, false
}

// Store saves a position's search result, replacing the existing slot if:
// it is empty, holds a different position, its recorded depth is no greater
// than the new depth, or its age differs from the current search's age.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move) {
	idx := hash & tt.mask
	entry := &tt.entries[idx]

	empty := entry.Depth == 0 && entry.Key == 0
	samePosition := entry.Key == hash
	depthNotGreater := depth >= int(entry.Depth)
	ageDiffers := entry.Age != tt.age

	if empty || samePosition || depthNotGreater || ageDiffers {
		entry.Key = hash
		entry.BestMove = bestMove
		entry.Score = int16(score)
		entry.Depth = int8(depth)
		entry.Flag = flag
		entry.Age = tt.age
	}
}

// Resize reallocates the table to the given size in MB and clears it, per
// the resizeTT contract ("resizing reallocates and clears").
func (tt *TranspositionTable) Resize(sizeMB int) {
	tt.alloc(sizeMB)
	tt.age = 0
	tt.hits = 0
	tt.probes = 0
}

// NewSearch increments the age counter for a new search.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
}

// Clear clears the transposition table.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 0
	tt.hits = 0
	tt.probes = 0
}

// HashFull returns the permille (parts per thousand) of the table in use.
func (tt *TranspositionTable) HashFull() int {
	used := 0
	sampleSize := 1000
	if uint64(sampleSize) > tt.size {
		sampleSize = int(tt.size)
	}

	for i := 0; i < sampleSize; i++ {
		if tt.entries[i].Depth > 0 && tt.entries[i].Age == tt.age {
			used++
		}
	}

	return (used * 1000) / sampleSize
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Size returns the number of entries in the table.
func (tt *TranspositionTable) Size() uint64 {
	return tt.size
}

// SaveSnapshot persists the table's populated entries to a badger store at
// path, zstd-compressed. This is an optional convenience for warm-starting a
// long bench/perft run — not part of the required Search API.
func (tt *TranspositionTable) SaveSnapshot(path string) error {
	store, err := storage.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	var raw bytes.Buffer
	for _, e := range tt.entries {
		if e.Depth == 0 && e.Key == 0 {
			continue
		}
		writeTTEntry(&raw, e)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	defer enc.Close()

	compressed := enc.EncodeAll(raw.Bytes(), nil)
	return store.Set(ttSnapshotKey, compressed)
}

// LoadSnapshot restores entries previously written by SaveSnapshot, merging
// them into the current table through Store's normal replacement rule (on
// equal depth the loaded entry replaces the existing one).
func (tt *TranspositionTable) LoadSnapshot(path string) error {
	store, err := storage.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	compressed, found, err := store.Get(ttSnapshotKey)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return err
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return err
	}

	r := bytes.NewReader(raw)
	for r.Len() > 0 {
		e, err := readTTEntry(r)
		if err != nil {
			return err
		}
		tt.Store(e.Key, int(e.Depth), int(e.Score), e.Flag, e.BestMove)
	}

	return nil
}

const ttEntryWireSize = 8 + 2 + 2 + 1 + 1 + 1 // key, move, score, depth, flag, age

func writeTTEntry(buf *bytes.Buffer, e TTEntry) {
	var tmp [ttEntryWireSize]byte
	binary.LittleEndian.PutUint64(tmp[0:8], e.Key)
	binary.LittleEndian.PutUint16(tmp[8:10], uint16(e.BestMove))
	binary.LittleEndian.PutUint16(tmp[10:12], uint16(e.Score))
	tmp[12] = byte(e.Depth)
	tmp[13] = byte(e.Flag)
	tmp[14] = e.Age
	buf.Write(tmp[:])
}

func readTTEntry(r *bytes.Reader) (TTEntry, error) {
	var tmp [ttEntryWireSize]byte
	if _, err := r.Read(tmp[:]); err != nil {
		return TTEntry{}, err
	}
	return TTEntry{
		Key:      binary.LittleEndian.Uint64(tmp[0:8]),
		BestMove: board.Move(binary.LittleEndian.Uint16(tmp[8:10])),
		Score:    int16(binary.LittleEndian.Uint16(tmp[10:12])),
		Depth:    int8(tmp[12]),
		Flag:     TTFlag(tmp[13]),
		Age:      tmp[14],
	}, nil
}

// AdjustScoreFromTT adjusts a score read from the transposition table back
// to the current ply's frame of reference. Mate scores are ply-relative.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT adjusts a score for storage in the transposition table.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
