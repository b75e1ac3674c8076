package graph

import (
	"sort"
	"sync"
)

// MemoryBackend is a purely in-memory Backend: two maps, two counters, no
// disk I/O. Flush is a no-op and Clear truncates everything. It exists for
// tests and ephemeral use; nothing it holds survives process exit.
//
// A single mutex guards all state. The engine built on top of a backend is
// single-writer by design, but guarding the maps costs nothing and lets
// tests exercise a throwaway in-memory engine from more than one goroutine
// without tripping the race detector.
type MemoryBackend struct {
	mu         sync.Mutex
	nodes      map[NodeID]*Node
	edges      map[EdgeID]*Edge
	nextNodeID uint64
	nextEdgeID uint64
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		nodes: make(map[NodeID]*Node),
		edges: make(map[EdgeID]*Edge),
	}
}

// GetNode returns the node stored at id, or a NodeNotFound error.
func (b *MemoryBackend) GetNode(id NodeID) (*Node, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, ok := b.nodes[id]
	if !ok {
		return nil, errNodeNotFound(id)
	}
	return n, nil
}

// PutNode upserts node by id.
func (b *MemoryBackend) PutNode(node *Node) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nodes[node.ID] = node
	return nil
}

// DeleteNode removes the node at id, reporting whether it was present.
func (b *MemoryBackend) DeleteNode(id NodeID) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.nodes[id]
	delete(b.nodes, id)
	return ok, nil
}

// GetEdge returns the edge stored at id, or an EdgeNotFound error.
func (b *MemoryBackend) GetEdge(id EdgeID) (*Edge, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.edges[id]
	if !ok {
		return nil, errEdgeNotFound(id)
	}
	return e, nil
}

// PutEdge upserts edge by id.
func (b *MemoryBackend) PutEdge(edge *Edge) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.edges[edge.ID] = edge
	return nil
}

// DeleteEdge removes the edge at id, reporting whether it was present.
func (b *MemoryBackend) DeleteEdge(id EdgeID) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.edges[id]
	delete(b.edges, id)
	return ok, nil
}

// NextNodeID returns the next node id and advances the counter.
func (b *MemoryBackend) NextNodeID() (NodeID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextNodeID
	b.nextNodeID++
	return NodeID(id), nil
}

// NextEdgeID returns the next edge id and advances the counter.
func (b *MemoryBackend) NextEdgeID() (EdgeID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextEdgeID
	b.nextEdgeID++
	return EdgeID(id), nil
}

// NewBatch starts a batch of node/edge mutations applied atomically (with
// respect to other backend callers) on Commit.
func (b *MemoryBackend) NewBatch() Batch {
	return &memoryBatch{backend: b}
}

// Flush is a no-op: an in-memory backend has nothing to persist.
func (b *MemoryBackend) Flush() error { return nil }

// Clear truncates both maps and resets both counters to zero.
func (b *MemoryBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nodes = make(map[NodeID]*Node)
	b.edges = make(map[EdgeID]*Edge)
	b.nextNodeID = 0
	b.nextEdgeID = 0
	return nil
}

// Close is a no-op for the in-memory backend.
func (b *MemoryBackend) Close() error { return nil }

// IterNodes returns a snapshot iterator over all nodes in id order.
func (b *MemoryBackend) IterNodes() NodeIterator {
	b.mu.Lock()
	ids := make([]NodeID, 0, len(b.nodes))
	for id := range b.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	nodes := make([]*Node, len(ids))
	for i, id := range ids {
		nodes[i] = b.nodes[id]
	}
	b.mu.Unlock()
	return &memoryNodeIterator{ids: ids, nodes: nodes, pos: -1}
}

// IterEdges returns a snapshot iterator over all edges in id order.
func (b *MemoryBackend) IterEdges() EdgeIterator {
	b.mu.Lock()
	ids := make([]EdgeID, 0, len(b.edges))
	for id := range b.edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	edges := make([]*Edge, len(ids))
	for i, id := range ids {
		edges[i] = b.edges[id]
	}
	b.mu.Unlock()
	return &memoryEdgeIterator{ids: ids, edges: edges, pos: -1}
}

type memoryNodeIterator struct {
	ids   []NodeID
	nodes []*Node
	pos   int
}

func (it *memoryNodeIterator) Next() bool {
	it.pos++
	return it.pos < len(it.ids)
}

func (it *memoryNodeIterator) Node() (NodeID, *Node) {
	return it.ids[it.pos], it.nodes[it.pos]
}

func (it *memoryNodeIterator) Err() error   { return nil }
func (it *memoryNodeIterator) Close() error { return nil }

type memoryEdgeIterator struct {
	ids   []EdgeID
	edges []*Edge
	pos   int
}

func (it *memoryEdgeIterator) Next() bool {
	it.pos++
	return it.pos < len(it.ids)
}

func (it *memoryEdgeIterator) Edge() (EdgeID, *Edge) {
	return it.ids[it.pos], it.edges[it.pos]
}

func (it *memoryEdgeIterator) Err() error   { return nil }
func (it *memoryEdgeIterator) Close() error { return nil }

// memoryBatch queues operations against a MemoryBackend and applies them
// under a single lock acquisition on Commit, so no other backend caller
// observes a partially-applied batch.
type memoryBatch struct {
	backend  *MemoryBackend
	putNodes []*Node
	delNodes []NodeID
	putEdges []*Edge
	delEdges []EdgeID
}

func (b *memoryBatch) PutNode(node *Node)   { b.putNodes = append(b.putNodes, node) }
func (b *memoryBatch) DeleteNode(id NodeID) { b.delNodes = append(b.delNodes, id) }
func (b *memoryBatch) PutEdge(edge *Edge)   { b.putEdges = append(b.putEdges, edge) }
func (b *memoryBatch) DeleteEdge(id EdgeID) { b.delEdges = append(b.delEdges, id) }

func (b *memoryBatch) Commit() error {
	b.backend.mu.Lock()
	defer b.backend.mu.Unlock()
	for _, n := range b.putNodes {
		b.backend.nodes[n.ID] = n
	}
	for _, id := range b.delNodes {
		delete(b.backend.nodes, id)
	}
	for _, e := range b.putEdges {
		b.backend.edges[e.ID] = e
	}
	for _, id := range b.delEdges {
		delete(b.backend.edges, id)
	}
	return nil
}
