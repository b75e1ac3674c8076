package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeNodeKnownKind(t *testing.T) {
	n := &Node{
		ID:         5,
		Kind:       KindFunction,
		Properties: NewPropertyMap().With("name", StringValue("main")),
	}
	data := encodeNode(n)
	got, err := decodeNode(5, data)
	require.NoError(t, err)
	require.True(t, n.Equal(got))
}

func TestEncodeDecodeNodeOtherKind(t *testing.T) {
	n := &Node{
		ID:         9,
		Kind:       NodeKind("Macro"),
		Properties: NewPropertyMap(),
	}
	data := encodeNode(n)
	got, err := decodeNode(9, data)
	require.NoError(t, err)
	require.Equal(t, NodeKind("Macro"), got.Kind)
	require.False(t, got.Kind.IsKnown())
}

func TestEncodeDecodeEdge(t *testing.T) {
	e := &Edge{
		ID:         3,
		Source:     1,
		Target:     2,
		Kind:       EdgeCalls,
		Properties: NewPropertyMap().With("line", IntValue(10)),
	}
	data := encodeEdge(e)
	got, err := decodeEdge(3, data)
	require.NoError(t, err)
	require.True(t, e.Equal(got))
}

func TestEncodeDecodeEdgeSelfLoop(t *testing.T) {
	e := &Edge{
		ID:         4,
		Source:     7,
		Target:     7,
		Kind:       EdgeReferences,
		Properties: NewPropertyMap(),
	}
	data := encodeEdge(e)
	got, err := decodeEdge(4, data)
	require.NoError(t, err)
	require.Equal(t, NodeID(7), got.Source)
	require.Equal(t, NodeID(7), got.Target)
}

func TestDecodeNodeCorruptKindTag(t *testing.T) {
	_, err := decodeNode(1, []byte{0xab})
	require.Error(t, err)
	var ge *GraphError
	require.ErrorAs(t, err, &ge)
	require.Equal(t, ErrKindCorrupt, ge.Kind)
}
