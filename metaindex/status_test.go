package metaindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusInfoOmitsDetail(t *testing.T) {
	idx, _, _, _ := buildABC(t)
	status := idx.Status(VerbosityInfo)
	assert.Equal(t, 3, status.Partitions)
	assert.Nil(t, status.Detail)
}

func TestStatusDebugIncludesPerPartitionEntries(t *testing.T) {
	idx, _, _, _ := buildABC(t)
	status := idx.Status(VerbosityDebug)
	assert.Equal(t, 3, status.Partitions)
	assert.Len(t, status.Detail, 3)
}
