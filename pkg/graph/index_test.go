package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndexAddRemoveEdge(t *testing.T) {
	idx := newIndex()
	e := &Edge{ID: 1, Source: 10, Target: 20, Kind: EdgeCalls}
	idx.addEdge(e)

	require.Contains(t, idx.outgoing[10], EdgeID(1))
	require.Contains(t, idx.incoming[20], EdgeID(1))
	require.Contains(t, idx.pair[nodePair{10, 20}], EdgeID(1))

	idx.removeEdge(e)
	require.NotContains(t, idx.outgoing, NodeID(10))
	require.NotContains(t, idx.incoming, NodeID(20))
	require.NotContains(t, idx.pair, nodePair{10, 20})
}

func TestIndexSelfLoopCountsBothDirections(t *testing.T) {
	idx := newIndex()
	e := &Edge{ID: 1, Source: 5, Target: 5, Kind: EdgeReferences}
	idx.addEdge(e)

	incident := idx.incidentEdges(5)
	require.Len(t, incident, 1)
	require.Contains(t, idx.outgoing[5], EdgeID(1))
	require.Contains(t, idx.incoming[5], EdgeID(1))
}

func TestIndexMultiEdgeBetweenSamePair(t *testing.T) {
	idx := newIndex()
	idx.addEdge(&Edge{ID: 1, Source: 1, Target: 2, Kind: EdgeCalls})
	idx.addEdge(&Edge{ID: 2, Source: 1, Target: 2, Kind: EdgeUses})

	edges := idx.edgesBetween(1, 2)
	require.ElementsMatch(t, []EdgeID{1, 2}, edges)
}

func TestIndexEdgesBetweenEmptyWhenNoEdge(t *testing.T) {
	idx := newIndex()
	edges := idx.edgesBetween(1, 2)
	require.Empty(t, edges)
}

func TestIndexNeighborsDirections(t *testing.T) {
	idx := newIndex()
	edges := map[EdgeID]*Edge{
		1: {ID: 1, Source: 1, Target: 2, Kind: EdgeCalls},
		2: {ID: 2, Source: 3, Target: 1, Kind: EdgeCalls},
	}
	for _, e := range edges {
		idx.addEdge(e)
	}
	edgeOf := func(id EdgeID) *Edge { return edges[id] }

	out := idx.neighbors(1, Outgoing, edgeOf)
	require.ElementsMatch(t, []NodeID{2}, out)

	in := idx.neighbors(1, Incoming, edgeOf)
	require.ElementsMatch(t, []NodeID{3}, in)

	both := idx.neighbors(1, Both, edgeOf)
	require.ElementsMatch(t, []NodeID{2, 3}, both)
}

func TestIndexLastEdgeRemovalDeletesEmptyBucket(t *testing.T) {
	idx := newIndex()
	e := &Edge{ID: 1, Source: 1, Target: 2, Kind: EdgeCalls}
	idx.addEdge(e)
	idx.removeEdge(e)

	_, ok := idx.pair[nodePair{1, 2}]
	require.False(t, ok)
	_, ok = idx.outgoing[1]
	require.False(t, ok)
	_, ok = idx.incoming[2]
	require.False(t, ok)
}
