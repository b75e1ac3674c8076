package graph

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

// PropertyMap is an ordered, string-keyed map of typed property values.
// Keys are unique within a map; a duplicate With/Insert call overwrites
// the existing value in place (last write wins) without disturbing
// insertion order. Insertion order is preserved for deterministic
// serialization but is not otherwise semantically observable.
type PropertyMap struct {
	keys   []string
	values map[string]PropertyValue
}

// NewPropertyMap returns an empty property map ready for With/Insert
// calls.
func NewPropertyMap() *PropertyMap {
	return &PropertyMap{values: make(map[string]PropertyValue)}
}

// With inserts key/value and returns the receiver, so callers can chain:
//
//	props := graph.NewPropertyMap().With("name", graph.StringValue("main")).With("line", graph.IntValue(5))
func (m *PropertyMap) With(key string, value PropertyValue) *PropertyMap {
	m.Insert(key, value)
	return m
}

// Insert sets key to value, overwriting any existing value for key.
func (m *PropertyMap) Insert(key string, value PropertyValue) {
	if m.values == nil {
		m.values = make(map[string]PropertyValue)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Remove deletes key from the map, if present.
func (m *PropertyMap) Remove(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of keys in the map.
func (m *PropertyMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// ContainsKey reports whether key is present, regardless of its value's
// type (including Null).
func (m *PropertyMap) ContainsKey(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.values[key]
	return ok
}

// Keys returns the map's keys in insertion order. The returned slice must
// not be mutated.
func (m *PropertyMap) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

func (m *PropertyMap) get(key string) (PropertyValue, bool) {
	if m == nil {
		return PropertyValue{}, false
	}
	v, ok := m.values[key]
	return v, ok
}

// GetString returns key's value and true if present and of type String;
// otherwise "", false. A wrong-typed or missing key is uniformly absent.
func (m *PropertyMap) GetString(key string) (string, bool) {
	v, ok := m.get(key)
	if !ok || v.kind != kindString {
		return "", false
	}
	return v.strVal, true
}

// GetInt returns key's value and true if present and of type Int.
func (m *PropertyMap) GetInt(key string) (int64, bool) {
	v, ok := m.get(key)
	if !ok || v.kind != kindInt {
		return 0, false
	}
	return v.intVal, true
}

// GetFloat returns key's value and true if present and of type Float.
func (m *PropertyMap) GetFloat(key string) (float64, bool) {
	v, ok := m.get(key)
	if !ok || v.kind != kindFloat {
		return 0, false
	}
	return v.floatVal, true
}

// GetBool returns key's value and true if present and of type Bool.
func (m *PropertyMap) GetBool(key string) (bool, bool) {
	v, ok := m.get(key)
	if !ok || v.kind != kindBool {
		return false, false
	}
	return v.boolVal, true
}

// GetBytes returns key's value and true if present and of type Bytes.
func (m *PropertyMap) GetBytes(key string) ([]byte, bool) {
	v, ok := m.get(key)
	if !ok || v.kind != kindBytes {
		return nil, false
	}
	return v.bytesVal, true
}

// GetStringList returns key's value and true if present and of type
// StringList.
func (m *PropertyMap) GetStringList(key string) ([]string, bool) {
	v, ok := m.get(key)
	if !ok || v.kind != kindStringList {
		return nil, false
	}
	return v.strList, true
}

// GetIntList returns key's value and true if present and of type IntList.
func (m *PropertyMap) GetIntList(key string) ([]int64, bool) {
	v, ok := m.get(key)
	if !ok || v.kind != kindIntList {
		return nil, false
	}
	return v.intList, true
}

// Equal reports whether two property maps hold the same key set with
// equal typed values. Insertion order is not compared. A nil receiver or
// argument compares as an empty map.
func (m *PropertyMap) Equal(o *PropertyMap) bool {
	if m.Len() != o.Len() {
		return false
	}
	if m == nil {
		return true
	}
	for k, v := range m.values {
		ov, ok := o.get(k)
		if !ok || !v.equal(ov) {
			return false
		}
	}
	return true
}

// Serialize writes m as a length-prefixed sequence of
// (key_len, key_bytes, tag_byte, payload_len, payload) entries, in
// insertion order, little-endian throughout. Every entry carries an
// explicit payload length (even for fixed-width scalars) so that a future
// decoder can skip a tag it does not recognize without knowing its shape.
func (m *PropertyMap) Serialize() []byte {
	var buf bytes.Buffer
	var count uint32
	if m != nil {
		count = uint32(len(m.keys))
	}
	writeU32(&buf, count)
	if m == nil {
		return buf.Bytes()
	}
	for _, key := range m.keys {
		v := m.values[key]
		writeU16(&buf, uint16(len(key)))
		buf.WriteString(key)
		buf.WriteByte(byte(v.tag()))
		payload := encodePayload(v)
		writeU32(&buf, uint32(len(payload)))
		buf.Write(payload)
	}
	return buf.Bytes()
}

// DeserializePropertyMap reads back the format Serialize produces. An
// unrecognized tag byte does not fail the whole record: the decoder skips
// its payload using the stored length and the key decodes to Null.
func DeserializePropertyMap(data []byte) (*PropertyMap, error) {
	r := bytes.NewReader(data)
	count, err := readU32(r)
	if err != nil {
		return nil, errCorrupt("property map: truncated count", err)
	}
	m := NewPropertyMap()
	for i := uint32(0); i < count; i++ {
		keyLen, err := readU16(r)
		if err != nil {
			return nil, errCorrupt("property map: truncated key length", err)
		}
		keyBytes := make([]byte, keyLen)
		if _, err := io.ReadFull(r, keyBytes); err != nil {
			return nil, errCorrupt("property map: truncated key", err)
		}
		tagByte, err := r.ReadByte()
		if err != nil {
			return nil, errCorrupt("property map: truncated tag", err)
		}
		payloadLen, err := readU32(r)
		if err != nil {
			return nil, errCorrupt("property map: truncated payload length", err)
		}
		payload := make([]byte, payloadLen)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, errCorrupt("property map: truncated payload", err)
		}
		value, ok := decodePayload(propTag(tagByte), payload)
		if !ok {
			value = NullValue()
		}
		m.Insert(string(keyBytes), value)
	}
	return m, nil
}

func encodePayload(v PropertyValue) []byte {
	var buf bytes.Buffer
	switch v.kind {
	case kindNull:
		// no payload
	case kindString:
		buf.WriteString(v.strVal)
	case kindInt:
		writeU64(&buf, uint64(v.intVal))
	case kindFloat:
		writeU64(&buf, math.Float64bits(v.floatVal))
	case kindBool:
		if v.boolVal {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case kindBytes:
		buf.Write(v.bytesVal)
	case kindStringList:
		writeU32(&buf, uint32(len(v.strList)))
		for _, s := range v.strList {
			writeU32(&buf, uint32(len(s)))
			buf.WriteString(s)
		}
	case kindIntList:
		writeU32(&buf, uint32(len(v.intList)))
		for _, n := range v.intList {
			writeU64(&buf, uint64(n))
		}
	}
	return buf.Bytes()
}

func decodePayload(tag propTag, payload []byte) (PropertyValue, bool) {
	r := bytes.NewReader(payload)
	switch tag {
	case tagNull:
		return NullValue(), true
	case tagString:
		return StringValue(string(payload)), true
	case tagInt:
		u, err := readU64(r)
		if err != nil {
			return PropertyValue{}, false
		}
		return IntValue(int64(u)), true
	case tagFloat:
		u, err := readU64(r)
		if err != nil {
			return PropertyValue{}, false
		}
		return FloatValue(math.Float64frombits(u)), true
	case tagBool:
		if len(payload) < 1 {
			return PropertyValue{}, false
		}
		return BoolValue(payload[0] != 0), true
	case tagBytes:
		return BytesValue(payload), true
	case tagStringList:
		n, err := readU32(r)
		if err != nil {
			return PropertyValue{}, false
		}
		out := make([]string, 0, n)
		for i := uint32(0); i < n; i++ {
			l, err := readU32(r)
			if err != nil {
				return PropertyValue{}, false
			}
			b := make([]byte, l)
			if _, err := io.ReadFull(r, b); err != nil {
				return PropertyValue{}, false
			}
			out = append(out, string(b))
		}
		return StringListValue(out), true
	case tagIntList:
		n, err := readU32(r)
		if err != nil {
			return PropertyValue{}, false
		}
		out := make([]int64, 0, n)
		for i := uint32(0); i < n; i++ {
			u, err := readU64(r)
			if err != nil {
				return PropertyValue{}, false
			}
			out = append(out, int64(u))
		}
		return IntListValue(out), true
	default:
		// Unknown tag from a future format version: caller treats this
		// key as Null and moves on.
		return PropertyValue{}, false
	}
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func readU16(r *bytes.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func readU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readU64(r *bytes.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
