package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/tenzir/vast/data"
	"github.com/tenzir/vast/expr"
	"github.com/tenzir/vast/internal/telemetry"
	"github.com/tenzir/vast/metaindex"
)

var errPredicateFieldRequired = errors.New("metaindexd: lookup request requires a non-empty field")

// server adapts the actor-backed index to HTTP, matching the teacher's
// metrics-server-alongside-business-logic split in its *-otlp-forwarder
// binaries.
type server struct {
	actor     *metaindex.Actor
	metrics   *telemetry.Metrics
	logger    log.Logger
	verbosity metaindex.Verbosity
}

func newServer(actor *metaindex.Actor, metrics *telemetry.Metrics, logger log.Logger, verbosityName string) *server {
	v := metaindex.VerbosityInfo
	if verbosityName == "debug" {
		v = metaindex.VerbosityDebug
	}
	return &server{actor: actor, metrics: metrics, logger: logger, verbosity: v}
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, err := s.actor.Status(ctx, s.verbosity)
	if err != nil {
		level.Error(s.logger).Log("msg", "status request failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.metrics.MemoryBytesGauge.Set(float64(status.MemoryBytes))
	s.metrics.PartitionsGauge.Set(float64(status.Partitions))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}

// lookupRequest is the wire shape for POST /lookup: a single flat
// equality predicate, the minimal surface needed to exercise the index
// over HTTP without dragging the external expression parser (explicitly
// out of scope, per spec.md §1) into this binary.
type lookupRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (s *server) handleLookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := fieldEqualsString(req.Field, req.Value)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ids, stats, err := s.actor.Lookup(ctx, e)
	if err != nil {
		level.Error(s.logger).Log("msg", "lookup request failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.metrics.LookupsTotal.Inc()
	s.metrics.LookupCandidates.Observe(float64(len(ids)))
	s.metrics.LookupSeconds.Observe(stats.Elapsed.Seconds())

	partitions := make([]string, len(ids))
	for i, id := range ids {
		partitions[i] = id.String()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"partitions": partitions, "elapsed_us": stats.Elapsed.Microseconds()})
}

// fieldEqualsString builds the `field == "value"` predicate the HTTP
// lookup surface supports, standing in for the external expression parser
// spec.md §1 assumes but excludes from this module's scope.
func fieldEqualsString(field, value string) (expr.Expression, error) {
	if field == "" {
		return expr.Nil, errPredicateFieldRequired
	}
	return expr.NewPredicate(expr.Predicate{
		LHS: expr.FieldExtractor(field),
		Op:  data.OpEqual,
		RHS: data.String(value),
	}), nil
}
