package enumerator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/routechoice/pkg/routechoice/graph"
)

func TestLinkSetHashIsOrderIndependent(t *testing.T) {
	a := EmptyLinkSet().With(1).With(2).With(3)
	b := EmptyLinkSet().With(3).With(1).With(2)

	require.Equal(t, a.Hash(), b.Hash())
	require.True(t, a.Equal(b))
}

func TestLinkSetWithIsPersistentNotMutating(t *testing.T) {
	base := EmptyLinkSet().With(1)
	branchA := base.With(2)
	branchB := base.With(3)

	require.True(t, base.Contains(1))
	require.False(t, base.Contains(2))
	require.False(t, base.Contains(3))
	require.True(t, branchA.Contains(2))
	require.False(t, branchA.Contains(3))
	require.True(t, branchB.Contains(3))
	require.False(t, branchB.Contains(2))
}

func TestLinkSetWithDuplicateMemberIsNoop(t *testing.T) {
	base := EmptyLinkSet().With(5)
	again := base.With(5)
	require.Equal(t, base.Hash(), again.Hash())
	require.Equal(t, 1, again.Len())
}

func TestVisitedSetsDetectsDuplicatesAcrossExpansionOrders(t *testing.T) {
	v := NewVisitedSets()
	first := EmptyLinkSet().With(1).With(2)
	v.Add(first)

	second := EmptyLinkSet().With(2).With(1)
	require.True(t, v.Contains(second))

	third := EmptyLinkSet().With(1).With(3)
	require.False(t, v.Contains(third))
}

func TestLinkSetEqualRejectsDifferentMembership(t *testing.T) {
	a := EmptyLinkSet().With(1)
	b := EmptyLinkSet().With(2)
	require.False(t, a.Equal(b))
}

func TestLinkSetForEachVisitsEveryMember(t *testing.T) {
	s := EmptyLinkSet().With(1).With(2).With(3)
	seen := make(map[graph.Index]bool)
	s.ForEach(func(l graph.Index) { seen[l] = true })
	require.Len(t, seen, 3)
	require.True(t, seen[1] && seen[2] && seen[3])
}
