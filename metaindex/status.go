package metaindex

// Verbosity selects how much detail Status includes, per spec.md §6.
type Verbosity uint8

const (
	VerbosityInfo Verbosity = iota
	VerbosityDebug
)

// PartitionStatus is one partition's entry in a debug-verbosity Status
// document.
type PartitionStatus struct {
	ID          string `json:"id"`
	MemoryBytes uint64 `json:"memory_bytes"`
	Fields      int    `json:"fields"`
}

// Status is the nested key/value document spec.md §6 requires: at least
// {partitions, memory_bytes}, with per-partition entries at debug
// verbosity.
type Status struct {
	Partitions  int               `json:"partitions"`
	MemoryBytes uint64            `json:"memory_bytes"`
	Detail      []PartitionStatus `json:"detail,omitempty"`
}

// Status reports the index's current telemetry document.
func (idx *Index) Status(v Verbosity) Status {
	status := Status{
		Partitions:  idx.Len(),
		MemoryBytes: idx.MemoryUsage(),
	}
	if v < VerbosityDebug {
		return status
	}
	status.Detail = make([]PartitionStatus, 0, len(idx.synopses))
	for id, syn := range idx.synopses {
		status.Detail = append(status.Detail, PartitionStatus{
			ID:          id.String(),
			MemoryBytes: syn.MemoryUsage(),
			Fields:      len(syn.Fields()),
		})
	}
	return status
}
