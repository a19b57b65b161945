// Package persistence snapshots and restores meta-index state across
// process restarts. The core packages (partition, metaindex) are
// deliberately silent on durability — spec.md lists persistence as a
// non-goal of the index itself — so this package lives one layer up, as
// opaque blob storage the snapshot tool and daemon drive explicitly.
//
// Storage is BadgerDB, grounded the way the pack's own embedded-storage
// layer opens and configures it: a directory-backed LSM KV store, synced
// writes for durability, internal logging routed through go-kit/log
// instead of BadgerDB's own logger interface.
package persistence

import (
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/klauspost/compress/zstd"
)

// Store is a directory-backed blob store keyed by opaque byte keys, used
// to persist one compressed snapshot blob per partition.ID.
type Store struct {
	db      *badger.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	logger  log.Logger
}

// badgerLogger adapts go-kit/log to BadgerDB's four-method Logger
// interface.
type badgerLogger struct {
	logger log.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	level.Error(l.logger).Log("msg", fmt.Sprintf(format, args...))
}
func (l badgerLogger) Warningf(format string, args ...interface{}) {
	level.Warn(l.logger).Log("msg", fmt.Sprintf(format, args...))
}
func (l badgerLogger) Infof(format string, args ...interface{}) {
	level.Info(l.logger).Log("msg", fmt.Sprintf(format, args...))
}
func (l badgerLogger) Debugf(format string, args ...interface{}) {
	level.Debug(l.logger).Log("msg", fmt.Sprintf(format, args...))
}

// Open opens (creating if necessary) a Store rooted at dir. Pass "" for
// dir to open an in-memory store, useful in tests and for the daemon's
// --snapshot-path unset case.
func Open(dir string, logger log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("persistence: create snapshot directory %s: %w", dir, err)
		}
		opts = badger.DefaultOptions(dir).WithSyncWrites(true)
	}
	opts = opts.WithLogger(badgerLogger{logger: logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("persistence: open snapshot store: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("persistence: build zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("persistence: build zstd decoder: %w", err)
	}
	return &Store{db: db, encoder: enc, decoder: dec, logger: logger}, nil
}

// Close releases the underlying BadgerDB handle and codec resources.
func (s *Store) Close() error {
	s.encoder.Close()
	s.decoder.Close()
	return s.db.Close()
}

// Put stores blob, zstd-compressed, under key. The caller owns
// serialization of whatever domain object blob represents; Store treats
// it as opaque bytes, per spec.md's persistence non-goal.
func (s *Store) Put(key []byte, blob []byte) error {
	compressed := s.encoder.EncodeAll(blob, nil)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, compressed)
	})
}

// Get retrieves and decompresses the blob stored under key. ok is false
// if no value is stored under key.
func (s *Store) Get(key []byte) (blob []byte, ok bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		compressed, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		blob, err = s.decoder.DecodeAll(compressed, nil)
		if err != nil {
			return fmt.Errorf("persistence: decompress blob for key %x: %w", key, err)
		}
		ok = true
		return nil
	})
	return blob, ok, err
}

// Each calls fn for every stored key, stopping at the first error fn
// returns. Values are not decompressed eagerly; fn receives a Getter
// closure so replay tools can skip entries cheaply.
func (s *Store) Each(fn func(key []byte, get func() ([]byte, error)) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := append([]byte(nil), item.Key()...)
			get := func() ([]byte, error) {
				compressed, err := item.ValueCopy(nil)
				if err != nil {
					return nil, err
				}
				return s.decoder.DecodeAll(compressed, nil)
			}
			if err := fn(key, get); err != nil {
				return err
			}
		}
		return nil
	})
}
