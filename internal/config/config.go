// Package config holds the meta-index daemon's tunables: synopsis build
// parameters, mailbox sizing, and status verbosity. None of this is
// consumed by the core packages (schema, data, expr, synopsis, partition,
// metaindex) — construction of concrete synopses and the choice of
// verbosity are caller decisions the core only receives as arguments. This
// package exists for the binaries in cmd/.
package config

import "flag"

const (
	// DefaultBloomFP is the default for SynopsisConfig.BloomFP.
	// synopsis.Bloom does not read it: its xor filter has a fixed
	// fingerprint width and so a fixed false-positive rate.
	DefaultBloomFP = .01

	// DefaultBloomMinKeys is the default for SynopsisConfig.BloomMinKeys.
	// synopsis.Bloom does not read it: it builds its xor filter from any
	// non-empty key set.
	DefaultBloomMinKeys = 2

	// DefaultMailboxQueueDepth bounds how many in-flight requests an Actor's
	// mailbox channel buffers before Merge/Erase/Lookup callers block.
	DefaultMailboxQueueDepth = 64

	// DefaultStatusVerbosity is "info": partition count and memory usage,
	// no per-partition detail.
	DefaultStatusVerbosity = "info"

	// DefaultShardConcurrency is the default for
	// DaemonConfig.ShardConcurrency and for how many snapshot entries
	// cmd/vast-metaindex-snapshot decodes in parallel. cmd/vast-metaindexd
	// serves a single Index and does not read ShardConcurrency.
	DefaultShardConcurrency = 4

	// DefaultListenAddr is the address the daemon's HTTP server (status,
	// lookup, and Prometheus metrics) listens on.
	DefaultListenAddr = ":10002"
)

// SynopsisConfig holds Bloom synopsis settings. The synopsis constructors
// (synopsis.NewBloom, synopsis.NewMinMax, synopsis.NewBoolTally) take no
// parameters, and nothing in this repository passes these values to them.
type SynopsisConfig struct {
	BloomFP      float64 `yaml:"bloom_false_positive"`
	BloomMinKeys int     `yaml:"bloom_min_keys"`
}

// DaemonConfig holds the long-running service's tunables.
type DaemonConfig struct {
	Synopsis          SynopsisConfig `yaml:"synopsis"`
	MailboxQueueDepth int            `yaml:"mailbox_queue_depth"`
	StatusVerbosity   string         `yaml:"status_verbosity"`
	ShardConcurrency  int            `yaml:"shard_concurrency"`
	ListenAddr        string         `yaml:"listen_addr"`
	SnapshotPath      string         `yaml:"snapshot_path"`
}

// RegisterFlagsAndApplyDefaults registers cfg's fields on f under prefix
// and applies every Default* constant, mirroring the teacher's
// BlockConfig.RegisterFlagsAndApplyDefaults convention.
func (cfg *DaemonConfig) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	f.Float64Var(&cfg.Synopsis.BloomFP, prefixConfig(prefix, "synopsis.bloom-false-positive"), DefaultBloomFP, "Target false-positive rate for Bloom synopses.")
	f.IntVar(&cfg.Synopsis.BloomMinKeys, prefixConfig(prefix, "synopsis.bloom-min-keys"), DefaultBloomMinKeys, "Minimum key count before a Bloom synopsis builds its xor filter.")
	f.IntVar(&cfg.MailboxQueueDepth, prefixConfig(prefix, "mailbox-queue-depth"), DefaultMailboxQueueDepth, "Number of in-flight requests an actor's mailbox buffers.")
	f.StringVar(&cfg.StatusVerbosity, prefixConfig(prefix, "status-verbosity"), DefaultStatusVerbosity, "Status document verbosity: info or debug.")
	f.IntVar(&cfg.ShardConcurrency, prefixConfig(prefix, "shard-concurrency"), DefaultShardConcurrency, "Maximum shards queried in parallel for one lookup.")
	f.StringVar(&cfg.ListenAddr, prefixConfig(prefix, "listen-addr"), DefaultListenAddr, "Address the status/lookup/metrics HTTP server listens on.")
	f.StringVar(&cfg.SnapshotPath, prefixConfig(prefix, "snapshot-path"), "", "Snapshot directory to load at startup, if set.")
}

func prefixConfig(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
