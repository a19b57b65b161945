package metaindex

import (
	"context"

	"github.com/tenzir/vast/expr"
	"github.com/tenzir/vast/partition"
)

// Actor wraps an Index behind a single-consumer mailbox, giving the
// ordering guarantee spec.md §5 requires: requests are processed one at a
// time, to completion, with no interleaving between a lookup and a merge.
// A host process may run multiple Actors in parallel, each owning its state
// exclusively.
type Actor struct {
	commands chan command
	done     chan struct{}
}

type command struct {
	run  func(*Index)
	done chan struct{}
}

// NewActor starts a mailbox goroutine over idx and returns a handle to it.
// Stop must be called to release the goroutine. queueDepth buffers that
// many pending requests before Merge/Erase/Lookup callers block on send;
// 0 gives the unbuffered, fully synchronous mailbox spec.md §5 describes.
func NewActor(idx *Index, queueDepth int) *Actor {
	a := &Actor{
		commands: make(chan command, queueDepth),
		done:     make(chan struct{}),
	}
	go a.run(idx)
	return a
}

func (a *Actor) run(idx *Index) {
	defer close(a.done)
	for cmd := range a.commands {
		cmd.run(idx)
		close(cmd.done)
	}
}

// Stop closes the mailbox and waits for the consumer goroutine to exit.
// Teardown simply releases all synopses; there is no terminal state to
// persist, per spec.md §4.G.
func (a *Actor) Stop() {
	close(a.commands)
	<-a.done
}

func (a *Actor) submit(ctx context.Context, run func(*Index)) error {
	cmd := command{run: run, done: make(chan struct{})}
	select {
	case a.commands <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-cmd.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Merge enqueues a merge request.
func (a *Actor) Merge(ctx context.Context, id partition.ID, syn *partition.Synopsis) error {
	return a.submit(ctx, func(idx *Index) { idx.Merge(id, syn) })
}

// MergeBulk enqueues a batch merge request, applied as a sequence of merges
// in iteration order, per spec.md §4.G.
func (a *Actor) MergeBulk(ctx context.Context, batch map[partition.ID]*partition.Synopsis) error {
	return a.submit(ctx, func(idx *Index) { idx.MergeBulk(batch) })
}

// Erase enqueues an erase request.
func (a *Actor) Erase(ctx context.Context, id partition.ID) error {
	return a.submit(ctx, func(idx *Index) { idx.Erase(id) })
}

// Lookup enqueues a lookup request and returns its result once the mailbox
// processes it. ctx never interrupts a handler that has started: it runs
// to completion. If ctx ends while the request waits in the mailbox or
// while its handler runs, Lookup returns ctx.Err() and the result is
// dropped.
func (a *Actor) Lookup(ctx context.Context, e expr.Expression) ([]partition.ID, LookupStats, error) {
	var (
		ids   []partition.ID
		stats LookupStats
		err   error
	)
	submitErr := a.submit(ctx, func(idx *Index) { ids, stats, err = idx.Lookup(e) })
	if submitErr != nil {
		return nil, LookupStats{}, submitErr
	}
	return ids, stats, err
}

// MemoryUsage enqueues a memory usage query.
func (a *Actor) MemoryUsage(ctx context.Context) (uint64, error) {
	var usage uint64
	err := a.submit(ctx, func(idx *Index) { usage = idx.MemoryUsage() })
	return usage, err
}

// Status enqueues a status query at the given verbosity.
func (a *Actor) Status(ctx context.Context, v Verbosity) (Status, error) {
	var status Status
	err := a.submit(ctx, func(idx *Index) { status = idx.Status(v) })
	return status, err
}
