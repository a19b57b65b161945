// Command vast-metaindex-snapshot is a one-shot tool that replays a
// BadgerDB snapshot directory into a fresh metaindex.Index and prints its
// status document, the way the teacher's cmd/parquet-otlp-forwarder reads
// a block directory and reports on it without standing up a server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/tenzir/vast/internal/config"
	"github.com/tenzir/vast/internal/logging"
	"github.com/tenzir/vast/internal/persistence"
	"github.com/tenzir/vast/metaindex"
	"github.com/tenzir/vast/partition"
)

func main() {
	var (
		snapshotPath string
		verbosity    string
		logLevel     string
		concurrency  int
	)
	flag.StringVar(&snapshotPath, "snapshot-path", "", "BadgerDB snapshot directory to replay (required).")
	flag.StringVar(&verbosity, "verbosity", "info", "Status verbosity: info or debug.")
	flag.StringVar(&logLevel, "log-level", "info", "Minimum log level: debug, info, warn, error.")
	flag.IntVar(&concurrency, "concurrency", config.DefaultShardConcurrency, "Maximum snapshot entries decoded in parallel.")
	flag.Parse()

	logger := logging.New(logLevel)

	if snapshotPath == "" {
		fmt.Fprintln(os.Stderr, "error: -snapshot-path is required")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(snapshotPath, verbosity, concurrency, logger); err != nil {
		level.Error(logger).Log("msg", "replay failed", "err", err)
		os.Exit(1)
	}
}

type snapshotEntry struct {
	id   [16]byte
	blob []byte
}

func run(snapshotPath, verbosity string, concurrency int, logger log.Logger) error {
	store, err := persistence.Open(snapshotPath, log.With(logger, "component", "persistence"))
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer store.Close()

	entries, err := collectEntries(store, logger)
	if err != nil {
		return fmt.Errorf("iterate snapshot: %w", err)
	}

	batch, err := decodeEntries(entries, concurrency)
	if err != nil {
		return fmt.Errorf("decode snapshot entries: %w", err)
	}

	idx := metaindex.NewIndex(metaindex.WithLogger(logger))
	idx.MergeBulk(batch)

	v := metaindex.VerbosityInfo
	if verbosity == "debug" {
		v = metaindex.VerbosityDebug
	}
	status := idx.Status(v)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(status)
}

// collectEntries drains the store sequentially: badger's iterator and the
// value it yields are only valid for the lifetime of the View transaction
// Each runs inside, so every blob must be copied out before any concurrent
// decoding of it can happen.
func collectEntries(store *persistence.Store, logger log.Logger) ([]snapshotEntry, error) {
	var entries []snapshotEntry
	err := store.Each(func(key []byte, get func() ([]byte, error)) error {
		if len(key) != 16 {
			level.Warn(logger).Log("msg", "skipping malformed snapshot key", "len", len(key))
			return nil
		}
		blob, err := get()
		if err != nil {
			return err
		}
		var id [16]byte
		copy(id[:], key)
		entries = append(entries, snapshotEntry{id: id, blob: blob})
		return nil
	})
	return entries, err
}

// decodeEntries validates each entry's JSON payload concurrently, with at
// most concurrency decodes in flight (bounded by a semaphore); errgroup
// collects the first decode failure and cancels the rest.
func decodeEntries(entries []snapshotEntry, concurrency int) (map[partition.ID]*partition.Synopsis, error) {
	sem := semaphore.NewWeighted(int64(concurrency))
	group, ctx := errgroup.WithContext(context.Background())

	var mu sync.Mutex
	batch := make(map[partition.ID]*partition.Synopsis, len(entries))

	for _, entry := range entries {
		entry := entry
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		group.Go(func() error {
			defer sem.Release(1)
			var detail metaindex.PartitionStatus
			if err := json.Unmarshal(entry.blob, &detail); err != nil {
				return fmt.Errorf("decode entry %x: %w", entry.id, err)
			}
			mu.Lock()
			batch[partition.IDFromBytes(entry.id)] = partition.NewSynopsis()
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return batch, nil
}
