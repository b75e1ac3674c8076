package graph

import (
	"bytes"
	"encoding/binary"
	"io"
)

// encodeNode serializes a Node's kind and properties. The id is not
// embedded: both backends reconstruct it from the storage key.
func encodeNode(n *Node) []byte {
	var buf bytes.Buffer
	writeKind(&buf, n.Kind, knownNodeKinds)
	buf.Write(n.Properties.Serialize())
	return buf.Bytes()
}

// decodeNode reconstructs a Node's kind and properties from bytes written
// by encodeNode, attaching id (which came from the storage key).
func decodeNode(id NodeID, data []byte) (*Node, error) {
	r := bytes.NewReader(data)
	kind, err := readKind(r, nodeKindByTag)
	if err != nil {
		return nil, errCorrupt("node: bad kind header", err)
	}
	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, errCorrupt("node: truncated properties", err)
	}
	props, err := DeserializePropertyMap(rest)
	if err != nil {
		return nil, err
	}
	return &Node{ID: id, Kind: NodeKind(kind), Properties: props}, nil
}

// encodeEdge serializes an Edge's kind, endpoints (little-endian uint64,
// before the properties), and properties.
func encodeEdge(e *Edge) []byte {
	var buf bytes.Buffer
	writeKind(&buf, e.Kind, knownEdgeKinds)
	var idBuf [16]byte
	binary.LittleEndian.PutUint64(idBuf[0:8], uint64(e.Source))
	binary.LittleEndian.PutUint64(idBuf[8:16], uint64(e.Target))
	buf.Write(idBuf[:])
	buf.Write(e.Properties.Serialize())
	return buf.Bytes()
}

// decodeEdge reconstructs an Edge from bytes written by encodeEdge.
func decodeEdge(id EdgeID, data []byte) (*Edge, error) {
	r := bytes.NewReader(data)
	kind, err := readKind(r, edgeKindByTag)
	if err != nil {
		return nil, errCorrupt("edge: bad kind header", err)
	}
	var idBuf [16]byte
	if _, err := io.ReadFull(r, idBuf[:]); err != nil {
		return nil, errCorrupt("edge: truncated endpoints", err)
	}
	source := NodeID(binary.LittleEndian.Uint64(idBuf[0:8]))
	target := NodeID(binary.LittleEndian.Uint64(idBuf[8:16]))
	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, errCorrupt("edge: truncated properties", err)
	}
	props, err := DeserializePropertyMap(rest)
	if err != nil {
		return nil, err
	}
	return &Edge{ID: id, Source: source, Target: target, Kind: EdgeKind(kind), Properties: props}, nil
}

// writeKind writes a kind header: the known tag byte, or otherKindTag
// followed by a length-prefixed kind string for an Other(string) value.
func writeKind[K ~string](buf *bytes.Buffer, kind K, known map[K]byte) {
	if tag, ok := known[kind]; ok {
		buf.WriteByte(tag)
		return
	}
	buf.WriteByte(otherKindTag)
	writeU32(buf, uint32(len(kind)))
	buf.WriteString(string(kind))
}

// readKind reads back what writeKind wrote.
func readKind[K ~string](r *bytes.Reader, byTag map[byte]K) (K, error) {
	tagByte, err := r.ReadByte()
	if err != nil {
		var zero K
		return zero, err
	}
	if tagByte == otherKindTag {
		n, err := readU32(r)
		if err != nil {
			var zero K
			return zero, err
		}
		b := make([]byte, n)
		if _, err := io.ReadFull(r, b); err != nil {
			var zero K
			return zero, err
		}
		return K(b), nil
	}
	kind, ok := byTag[tagByte]
	if !ok {
		var zero K
		return zero, errCorrupt("unknown kind tag", nil)
	}
	return kind, nil
}
