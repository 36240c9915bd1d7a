package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lintang-b-s/routechoice/pkg/routechoice/graph"
)

func triangleGraph() *graph.Graph {
	b := graph.NewBuilder(3, 0)
	b.SetExternalNode(0, 0)
	b.SetExternalNode(1, 1)
	b.SetExternalNode(2, 2)
	b.AddLink(0, 1, 1, []uint32{100})
	b.AddLink(1, 2, 1, []uint32{101})
	b.AddLink(0, 2, 3, []uint32{102})
	return b.Build()
}

func TestBatchedTriangleEndToEnd(t *testing.T) {
	g := triangleGraph()
	p := DefaultParams()
	p.OriginDestinations = []OD{{Origin: 0, Destination: 2}}
	p.MaxRoutes = 2
	p.MaxDepth = 10
	p.PathSizeLogit = true

	res, err := Batched(context.Background(), g, p, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	for _, row := range res.Rows {
		require.Equal(t, int64(0), row.OriginID)
		require.Equal(t, int64(2), row.DestinationID)
		require.True(t, row.Mask)
		require.Greater(t, row.Probability, 0.0)
	}
}

func TestRunSingleODConvenienceWrapper(t *testing.T) {
	g := triangleGraph()
	p := DefaultParams()
	p.MaxRoutes = 1
	p.MaxDepth = 10

	res, err := Run(context.Background(), g, 0, 2, 0, p, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, []uint32{100, 101}, res.Rows[0].RouteSet)
}

func TestBatchedRejectsBothLimitsZero(t *testing.T) {
	g := triangleGraph()
	p := DefaultParams()
	p.OriginDestinations = []OD{{Origin: 0, Destination: 2}}

	_, err := Batched(context.Background(), g, p, zap.NewNop())
	require.Error(t, err)
}

func TestBatchedRejectsUnknownNode(t *testing.T) {
	g := triangleGraph()
	p := DefaultParams()
	p.MaxRoutes = 2
	p.OriginDestinations = []OD{{Origin: 0, Destination: 999}}

	_, err := Batched(context.Background(), g, p, zap.NewNop())
	require.Error(t, err)
}

// scenario 6: duplicate OD pairs are silently collapsed, so the batch
// produces exactly the routes of the unique pair, not a multiple.
func TestBatchedDedupesDuplicateODs(t *testing.T) {
	g := triangleGraph()
	p := DefaultParams()
	p.MaxRoutes = 2
	p.MaxDepth = 10
	p.OriginDestinations = []OD{
		{Origin: 0, Destination: 2},
		{Origin: 0, Destination: 2},
	}

	res, err := Batched(context.Background(), g, p, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
}

func TestBatchedRejectsEagerLinkLoadingWithoutPathSizeLogit(t *testing.T) {
	g := triangleGraph()
	p := DefaultParams()
	p.MaxRoutes = 2
	p.MaxDepth = 10
	p.OriginDestinations = []OD{{Origin: 0, Destination: 2}}
	p.EagerLinkLoading = true

	_, err := Batched(context.Background(), g, p, zap.NewNop())
	require.Error(t, err)
}

func TestBatchedEagerLinkLoadingPopulatesNetworkLinkIDs(t *testing.T) {
	g := triangleGraph()
	p := DefaultParams()
	p.MaxRoutes = 2
	p.MaxDepth = 10
	p.PathSizeLogit = true
	p.EagerLinkLoading = true
	p.OriginDestinations = []OD{{Origin: 0, Destination: 2}}

	res, err := Batched(context.Background(), g, p, zap.NewNop())
	require.NoError(t, err)
	// ordinal order follows forward-star layout: node 0's two out-links
	// (network 100, 102) before node 1's out-link (network 101).
	require.Equal(t, []uint32{100, 102, 101}, res.NetworkLinkIDs)
	require.Empty(t, res.TotalLinkLoad) // no demand columns configured
}
