package checkpoint

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleRows() []Row {
	return []Row{
		{OriginID: 1, DestinationID: 2, RouteSet: []uint32{100, 101}, Cost: 2.0, Mask: true, PathOverlap: 1.0, Probability: 0.731},
		{OriginID: 1, DestinationID: 3, RouteSet: []uint32{102}, Cost: 3.0, Mask: true, PathOverlap: 1.0, Probability: 0.269},
		{OriginID: 5, DestinationID: 2, RouteSet: []uint32{200}, Cost: 1.5, Mask: false, PathOverlap: 0.5, Probability: 0.0},
	}
}

func TestWriteBatchRoundTripsPerOriginPartitions(t *testing.T) {
	dir, err := os.MkdirTemp("", "routechoice-checkpoint-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	w := New(dir, Overwrite)
	require.NoError(t, w.WriteBatch(sampleRows()))

	origin1, err := ReadPartition(dir, 1)
	require.NoError(t, err)
	require.Len(t, origin1, 2)
	require.Equal(t, uint32(2), origin1[0].DestinationID)
	require.Equal(t, []uint32{100, 101}, origin1[0].RouteSet)
	require.InDelta(t, 2.0, origin1[0].Cost, 1e-9)
	require.True(t, origin1[0].Mask)
	require.InDelta(t, 0.731, origin1[0].Probability, 1e-9)

	origin5, err := ReadPartition(dir, 5)
	require.NoError(t, err)
	require.Len(t, origin5, 1)
	require.False(t, origin5[0].Mask)
}

func TestIgnoreExistingLeavesPriorPartitionUntouched(t *testing.T) {
	dir, err := os.MkdirTemp("", "routechoice-checkpoint-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	w := New(dir, Overwrite)
	require.NoError(t, w.WriteBatch([]Row{{OriginID: 1, DestinationID: 2, RouteSet: []uint32{1}, Cost: 1.0}}))

	w2 := New(dir, IgnoreExisting)
	require.NoError(t, w2.WriteBatch([]Row{{OriginID: 1, DestinationID: 9, RouteSet: []uint32{2}, Cost: 9.0}}))

	rows, err := ReadPartition(dir, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, uint32(2), rows[0].DestinationID)
	require.InDelta(t, 1.0, rows[0].Cost, 1e-9)
}

func TestOverwriteReplacesExistingPartition(t *testing.T) {
	dir, err := os.MkdirTemp("", "routechoice-checkpoint-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	w := New(dir, Overwrite)
	require.NoError(t, w.WriteBatch([]Row{{OriginID: 1, DestinationID: 2, RouteSet: []uint32{1}, Cost: 1.0}}))
	require.NoError(t, w.WriteBatch([]Row{{OriginID: 1, DestinationID: 9, RouteSet: []uint32{2}, Cost: 9.0}}))

	rows, err := ReadPartition(dir, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, uint32(9), rows[0].DestinationID)
}

func TestWriteBatchGroupsMultipleOriginsIntoSeparatePartitions(t *testing.T) {
	dir, err := os.MkdirTemp("", "routechoice-checkpoint-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	w := New(dir, Overwrite)
	require.NoError(t, w.WriteBatch(sampleRows()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2) // origin_id=1 and origin_id=5
}
