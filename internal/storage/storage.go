package storage

import (
	"github.com/dgraph-io/badger/v4"
)

// Store wraps a BadgerDB instance used to persist opaque byte-slice blobs
// keyed by a caller-chosen string. The transposition table's optional
// snapshot feature is the sole current consumer: it stores zstd-compressed
// entry records under a fixed key per snapshot file.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) the badger store at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Set stores value under key, overwriting any existing value.
func (s *Store) Set(key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// Get retrieves the value stored under key. Returns (nil, false, nil) if the
// key is absent.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var value []byte
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			value = append([]byte(nil), val...)
			return nil
		})
	})

	return value, found, err
}
