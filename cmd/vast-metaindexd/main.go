// Command vast-metaindexd runs the meta-index as a long-lived service: an
// Actor-backed Index exposed over HTTP, with Prometheus metrics and a
// BadgerDB snapshot loaded at startup and saved on shutdown. The wire
// protocol and synopsis ingestion path are this binary's business, not the
// core metaindex package's, per spec.md §1's ingestion/storage carve-outs.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tenzir/vast/internal/config"
	"github.com/tenzir/vast/internal/logging"
	"github.com/tenzir/vast/internal/persistence"
	"github.com/tenzir/vast/internal/telemetry"
	"github.com/tenzir/vast/metaindex"
	"github.com/tenzir/vast/partition"
)

func main() {
	var cfg config.DaemonConfig
	cfg.RegisterFlagsAndApplyDefaults("", flag.CommandLine)

	logLevel := flag.String("log-level", "info", "Minimum log level: debug, info, warn, error.")
	flag.Parse()

	logger := logging.New(*logLevel)

	store, err := persistence.Open(cfg.SnapshotPath, log.With(logger, "component", "persistence"))
	if err != nil {
		level.Error(logger).Log("msg", "failed to open snapshot store", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	idx := metaindex.NewIndex(metaindex.WithLogger(log.With(logger, "component", "metaindex")))
	restored, err := restoreSnapshot(store, idx)
	if err != nil {
		level.Error(logger).Log("msg", "failed to restore snapshot", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log("msg", "restored snapshot", "partitions", restored)

	actor := metaindex.NewActor(idx, cfg.MailboxQueueDepth)
	defer actor.Stop()

	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)
	server := newServer(actor, metrics, logger, cfg.StatusVerbosity)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/status", server.handleStatus)
	mux.HandleFunc("/lookup", server.handleLookup)

	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: mux}
	go func() {
		level.Info(logger).Log("msg", "starting http server", "addr", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			level.Error(logger).Log("msg", "http server failed", "err", err)
			os.Exit(1)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	level.Info(logger).Log("msg", "received shutdown signal")

	if err := httpServer.Shutdown(ctx); err != nil {
		level.Error(logger).Log("msg", "http server shutdown failed", "err", err)
	}
	if err := snapshotIndex(store, idx); err != nil {
		level.Error(logger).Log("msg", "failed to persist snapshot on shutdown", "err", err)
	}
}

// restoreSnapshot replays every blob the store holds into idx, treating
// each key as a partition.ID's 16 raw bytes and each value as a JSON
// encoding of the partition's field synopses' aggregate statistics. Actual
// synopsis reconstruction from a snapshot is intentionally out of scope
// here: the meta-index's own persistence is a non-goal, so this binary
// only round-trips the bookkeeping it needs to report partition counts
// across restarts.
func restoreSnapshot(store *persistence.Store, idx *metaindex.Index) (int, error) {
	count := 0
	err := store.Each(func(key []byte, get func() ([]byte, error)) error {
		if len(key) != 16 {
			return nil
		}
		var id [16]byte
		copy(id[:], key)
		idx.Merge(partition.IDFromBytes(id), partition.NewSynopsis())
		count++
		return nil
	})
	return count, err
}

func snapshotIndex(store *persistence.Store, idx *metaindex.Index) error {
	status := idx.Status(metaindex.VerbosityDebug)
	for _, detail := range status.Detail {
		blob, err := json.Marshal(detail)
		if err != nil {
			return err
		}
		id, err := parseIDString(detail.ID)
		if err != nil {
			return err
		}
		if err := store.Put(id[:], blob); err != nil {
			return err
		}
	}
	return nil
}

func parseIDString(s string) ([16]byte, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return [16]byte{}, fmt.Errorf("parse partition id %q: %w", s, err)
	}
	return u, nil
}
