package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryBackendPutGetDelete(t *testing.T) {
	b := NewMemoryBackend()
	defer b.Close()

	id, err := b.NextNodeID()
	require.NoError(t, err)
	require.Equal(t, NodeID(0), id)

	node := &Node{ID: id, Kind: KindFile, Properties: NewPropertyMap().With("path", StringValue("a.go"))}
	require.NoError(t, b.PutNode(node))

	got, err := b.GetNode(id)
	require.NoError(t, err)
	require.True(t, node.Equal(got))

	existed, err := b.DeleteNode(id)
	require.NoError(t, err)
	require.True(t, existed)

	_, err = b.GetNode(id)
	require.True(t, IsNotFound(err))

	existed, err = b.DeleteNode(id)
	require.NoError(t, err)
	require.False(t, existed)
}

func TestMemoryBackendCounterMonotonic(t *testing.T) {
	b := NewMemoryBackend()
	defer b.Close()

	var ids []NodeID
	for i := 0; i < 5; i++ {
		id, err := b.NextNodeID()
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.Equal(t, []NodeID{0, 1, 2, 3, 4}, ids)
}

func TestMemoryBackendIterationOrder(t *testing.T) {
	b := NewMemoryBackend()
	defer b.Close()

	for i := 0; i < 3; i++ {
		id, _ := b.NextNodeID()
		require.NoError(t, b.PutNode(&Node{ID: id, Kind: KindFile, Properties: NewPropertyMap()}))
	}

	it := b.IterNodes()
	defer it.Close()

	var seen []NodeID
	for it.Next() {
		id, _ := it.Node()
		seen = append(seen, id)
	}
	require.NoError(t, it.Err())
	require.Equal(t, []NodeID{0, 1, 2}, seen)
}

func TestMemoryBackendBatchCommit(t *testing.T) {
	b := NewMemoryBackend()
	defer b.Close()

	id0, _ := b.NextNodeID()
	id1, _ := b.NextNodeID()

	batch := b.NewBatch()
	batch.PutNode(&Node{ID: id0, Kind: KindFile, Properties: NewPropertyMap()})
	batch.PutNode(&Node{ID: id1, Kind: KindFile, Properties: NewPropertyMap()})
	require.NoError(t, batch.Commit())

	_, err := b.GetNode(id0)
	require.NoError(t, err)
	_, err = b.GetNode(id1)
	require.NoError(t, err)
}

func TestMemoryBackendClear(t *testing.T) {
	b := NewMemoryBackend()
	defer b.Close()

	id, _ := b.NextNodeID()
	require.NoError(t, b.PutNode(&Node{ID: id, Kind: KindFile, Properties: NewPropertyMap()}))

	require.NoError(t, b.Clear())

	_, err := b.GetNode(id)
	require.True(t, IsNotFound(err))

	newID, err := b.NextNodeID()
	require.NoError(t, err)
	require.Equal(t, NodeID(0), newID)
}
