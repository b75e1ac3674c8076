package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPropertyMapRoundTrip(t *testing.T) {
	m := NewPropertyMap().
		With("name", StringValue("main")).
		With("line", IntValue(42)).
		With("score", FloatValue(3.5)).
		With("exported", BoolValue(true)).
		With("blob", BytesValue([]byte{1, 2, 3})).
		With("tags", StringListValue([]string{"a", "b"})).
		With("weights", IntListValue([]int64{10, 20, 30})).
		With("nothing", NullValue())

	data := m.Serialize()
	got, err := DeserializePropertyMap(data)
	require.NoError(t, err)
	require.True(t, m.Equal(got))

	name, ok := got.GetString("name")
	require.True(t, ok)
	require.Equal(t, "main", name)

	line, ok := got.GetInt("line")
	require.True(t, ok)
	require.Equal(t, int64(42), line)

	score, ok := got.GetFloat("score")
	require.True(t, ok)
	require.Equal(t, 3.5, score)

	exported, ok := got.GetBool("exported")
	require.True(t, ok)
	require.True(t, exported)

	blob, ok := got.GetBytes("blob")
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3}, blob)

	tags, ok := got.GetStringList("tags")
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, tags)

	weights, ok := got.GetIntList("weights")
	require.True(t, ok)
	require.Equal(t, []int64{10, 20, 30}, weights)
}

func TestPropertyMapEmpty(t *testing.T) {
	m := NewPropertyMap()
	data := m.Serialize()
	got, err := DeserializePropertyMap(data)
	require.NoError(t, err)
	require.Equal(t, 0, got.Len())
}

func TestPropertyMapZeroLengthValues(t *testing.T) {
	m := NewPropertyMap().
		With("empty_str", StringValue("")).
		With("empty_list", StringListValue(nil)).
		With("empty_bytes", BytesValue(nil))

	data := m.Serialize()
	got, err := DeserializePropertyMap(data)
	require.NoError(t, err)

	s, ok := got.GetString("empty_str")
	require.True(t, ok)
	require.Equal(t, "", s)

	list, ok := got.GetStringList("empty_list")
	require.True(t, ok)
	require.Empty(t, list)

	b, ok := got.GetBytes("empty_bytes")
	require.True(t, ok)
	require.Empty(t, b)
}

func TestPropertyMapWrongTypeAccessIsAbsent(t *testing.T) {
	m := NewPropertyMap().With("name", StringValue("x"))
	_, ok := m.GetInt("name")
	require.False(t, ok)
	_, ok = m.GetInt("missing")
	require.False(t, ok)
}

func TestPropertyMapLastWriteWins(t *testing.T) {
	m := NewPropertyMap().With("k", IntValue(1)).With("k", IntValue(2))
	require.Equal(t, 1, m.Len())
	v, ok := m.GetInt("k")
	require.True(t, ok)
	require.Equal(t, int64(2), v)
}

func TestPropertyMapUnknownTagDecodesToNull(t *testing.T) {
	m := NewPropertyMap().With("k", IntValue(7))
	data := m.Serialize()

	// Flip the tag byte for the single entry to an unrecognized value.
	// Layout: u32 count | u16 keyLen | key | tag | u32 payloadLen | payload
	tagOffset := 4 + 2 + len("k")
	mutated := append([]byte(nil), data...)
	mutated[tagOffset] = 0x7f

	got, err := DeserializePropertyMap(mutated)
	require.NoError(t, err)
	require.True(t, got.ContainsKey("k"))
	_, ok := got.GetInt("k")
	require.False(t, ok)
}

func TestPropertyMapRemove(t *testing.T) {
	m := NewPropertyMap().With("a", IntValue(1)).With("b", IntValue(2))
	m.Remove("a")
	require.False(t, m.ContainsKey("a"))
	require.Equal(t, 1, m.Len())
	require.Equal(t, []string{"b"}, m.Keys())
}
