package graph

// Backend is the storage contract the graph Engine is built on: point
// lookup, upsert, and delete for nodes and edges, ordered iteration,
// monotonic id allocation, and the two durability points (Flush, Clear).
// MemoryBackend and BadgerBackend in this package are the two concrete
// implementations; the Engine is parametric over this interface and does
// not know which one it has.
type Backend interface {
	GetNode(id NodeID) (*Node, error)
	PutNode(node *Node) error
	DeleteNode(id NodeID) (bool, error)

	GetEdge(id EdgeID) (*Edge, error)
	PutEdge(edge *Edge) error
	DeleteEdge(id EdgeID) (bool, error)

	IterNodes() NodeIterator
	IterEdges() EdgeIterator

	// NextNodeID and NextEdgeID atomically fetch-and-increment their
	// counter, persisting the new counter value before returning the id
	// to use, so a restart never reissues an id.
	NextNodeID() (NodeID, error)
	NextEdgeID() (EdgeID, error)

	// NewBatch starts a write batch. Operations queued on it are not
	// visible until Commit succeeds, and commit either applies all of
	// them or none.
	NewBatch() Batch

	// Flush is the durability point: writes issued before Flush returns
	// are guaranteed persisted.
	Flush() error
	// Clear removes all nodes, edges, and resets both counters to zero.
	Clear() error
	// Close releases any resources (file handles) held by the backend.
	Close() error
}

// Batch accumulates node/edge puts and deletes for a single atomic
// commit. Used by AddNodesBatch and by cascade node deletion.
type Batch interface {
	PutNode(node *Node)
	DeleteNode(id NodeID)
	PutEdge(edge *Edge)
	DeleteEdge(id EdgeID)
	Commit() error
}

// NodeIterator is a lazy, finite sequence over a backend's nodes in id
// order. Call Next until it returns false, then check Err. Close releases
// the underlying read cursor; it is safe to Close without exhausting the
// iterator (e.g. when a caller abandons iteration early).
type NodeIterator interface {
	Next() bool
	Node() (NodeID, *Node)
	Err() error
	Close() error
}

// EdgeIterator is the edge analogue of NodeIterator.
type EdgeIterator interface {
	Next() bool
	Edge() (EdgeID, *Edge)
	Err() error
	Close() error
}
