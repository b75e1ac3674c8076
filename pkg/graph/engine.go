package graph

// NodeSpec is one (kind, properties) pair for AddNodesBatch.
type NodeSpec struct {
	Kind       NodeKind
	Properties *PropertyMap
}

// Engine is the public entry point: a thin orchestrator over a Backend
// and an in-memory adjacency index. It holds no backend-specific
// knowledge — Open and InMemory are the only places that choose a
// concrete Backend.
type Engine struct {
	backend   Backend
	idx       *index
	nodeCount int
	edgeCount int
}

// Open opens or creates a persistent engine rooted at dir, rebuilding the
// adjacency index and node/edge counts by scanning the backend.
func Open(dir string) (*Engine, error) {
	backend, err := OpenBadgerBackend(BadgerOptions{DataDir: dir})
	if err != nil {
		return nil, err
	}
	return newEngine(backend)
}

// InMemory instantiates an engine over a purely in-memory backend. Never
// fails.
func InMemory() *Engine {
	e, _ := newEngine(NewMemoryBackend())
	return e
}

func newEngine(backend Backend) (*Engine, error) {
	e := &Engine{backend: backend}
	if err := e.rebuild(); err != nil {
		backend.Close()
		return nil, err
	}
	return e, nil
}

// rebuild scans the backend to reconstruct the adjacency index and the
// two in-memory counts. Called once, when Open or InMemory builds the
// engine; Clear resets the index and counts directly.
func (e *Engine) rebuild() error {
	eit := e.backend.IterEdges()
	defer eit.Close()
	idx, err := buildIndex(eit)
	if err != nil {
		return err
	}
	e.idx = idx

	nit := e.backend.IterNodes()
	defer nit.Close()
	nodeCount := 0
	for nit.Next() {
		nodeCount++
	}
	if err := nit.Err(); err != nil {
		return err
	}

	edgeCount := 0
	eit2 := e.backend.IterEdges()
	defer eit2.Close()
	for eit2.Next() {
		edgeCount++
	}
	if err := eit2.Err(); err != nil {
		return err
	}

	e.nodeCount = nodeCount
	e.edgeCount = edgeCount
	return nil
}

// AddNode allocates an id, constructs a Node, and writes it through the
// backend. Never fails for valid inputs; may surface a Backend error on
// persistence failure.
func (e *Engine) AddNode(kind NodeKind, props *PropertyMap) (NodeID, error) {
	if props == nil {
		props = NewPropertyMap()
	}
	id, err := e.backend.NextNodeID()
	if err != nil {
		return 0, err
	}
	node := &Node{ID: id, Kind: kind, Properties: props}
	if err := e.backend.PutNode(node); err != nil {
		return 0, err
	}
	e.nodeCount++
	return id, nil
}

// AddNodesBatch allocates ids sequentially for each spec and writes all
// of them as a single backend batch.
func (e *Engine) AddNodesBatch(specs []NodeSpec) ([]NodeID, error) {
	ids := make([]NodeID, len(specs))
	batch := e.backend.NewBatch()
	for i, spec := range specs {
		id, err := e.backend.NextNodeID()
		if err != nil {
			return nil, err
		}
		props := spec.Properties
		if props == nil {
			props = NewPropertyMap()
		}
		ids[i] = id
		batch.PutNode(&Node{ID: id, Kind: spec.Kind, Properties: props})
	}
	if err := batch.Commit(); err != nil {
		return nil, err
	}
	e.nodeCount += len(specs)
	return ids, nil
}

// AddEdge verifies both endpoints exist, allocates an id, writes the
// edge, and updates the adjacency index.
func (e *Engine) AddEdge(source, target NodeID, kind EdgeKind, props *PropertyMap) (EdgeID, error) {
	if _, err := e.backend.GetNode(source); err != nil {
		return 0, err
	}
	if _, err := e.backend.GetNode(target); err != nil {
		return 0, err
	}
	if props == nil {
		props = NewPropertyMap()
	}
	id, err := e.backend.NextEdgeID()
	if err != nil {
		return 0, err
	}
	edge := &Edge{ID: id, Source: source, Target: target, Kind: kind, Properties: props}
	if err := e.backend.PutEdge(edge); err != nil {
		return 0, err
	}
	e.idx.addEdge(edge)
	e.edgeCount++
	return id, nil
}

// GetNode reads through to the backend.
func (e *Engine) GetNode(id NodeID) (*Node, error) {
	return e.backend.GetNode(id)
}

// GetEdge reads through to the backend.
func (e *Engine) GetEdge(id EdgeID) (*Edge, error) {
	return e.backend.GetEdge(id)
}

// DeleteNode looks up all incident edges via the index and queues every
// incident edge delete plus the node delete itself on a single backend
// batch, so the cascade commits atomically (the node never ends up
// recorded as gone while one of its edges survives, or vice versa). The
// adjacency index and counts are only updated once the batch commits.
func (e *Engine) DeleteNode(id NodeID) error {
	if _, err := e.backend.GetNode(id); err != nil {
		return err
	}

	incidentIDs := e.idx.incidentEdges(id)
	edges := make([]*Edge, 0, len(incidentIDs))
	for _, edgeID := range incidentIDs {
		edge, err := e.backend.GetEdge(edgeID)
		if err != nil {
			return err
		}
		edges = append(edges, edge)
	}

	batch := e.backend.NewBatch()
	for _, edge := range edges {
		batch.DeleteEdge(edge.ID)
	}
	batch.DeleteNode(id)
	if err := batch.Commit(); err != nil {
		return err
	}

	for _, edge := range edges {
		e.idx.removeEdge(edge)
	}
	e.edgeCount -= len(edges)
	e.nodeCount--
	return nil
}

// DeleteEdge reads the edge to obtain its endpoints, then removes it from
// the backend and the adjacency index.
func (e *Engine) DeleteEdge(id EdgeID) error {
	edge, err := e.backend.GetEdge(id)
	if err != nil {
		return err
	}
	existed, err := e.backend.DeleteEdge(id)
	if err != nil {
		return err
	}
	if !existed {
		return errEdgeNotFound(id)
	}
	e.idx.removeEdge(edge)
	e.edgeCount--
	return nil
}

// GetNeighbors forwards to the adjacency index, resolving edge ids to
// their other endpoint via the backend.
func (e *Engine) GetNeighbors(id NodeID, dir Direction) []NodeID {
	return e.idx.neighbors(id, dir, func(edgeID EdgeID) *Edge {
		edge, err := e.backend.GetEdge(edgeID)
		if err != nil {
			return nil
		}
		return edge
	})
}

// GetEdgesBetween forwards to the adjacency index.
func (e *Engine) GetEdgesBetween(source, target NodeID) []EdgeID {
	return e.idx.edgesBetween(source, target)
}

// IterNodes exposes the backend's node iteration verbatim.
func (e *Engine) IterNodes() NodeIterator {
	return e.backend.IterNodes()
}

// IterEdges exposes the backend's edge iteration verbatim.
func (e *Engine) IterEdges() EdgeIterator {
	return e.backend.IterEdges()
}

// NodeCount returns the maintained node count. Not authoritative across
// an unclean shutdown; consistency is re-established on Open.
func (e *Engine) NodeCount() int { return e.nodeCount }

// EdgeCount returns the maintained edge count.
func (e *Engine) EdgeCount() int { return e.edgeCount }

// Flush forwards to the backend's durability point.
func (e *Engine) Flush() error {
	return e.backend.Flush()
}

// Clear truncates the backend, resets counters, and empties the
// adjacency index.
func (e *Engine) Clear() error {
	if err := e.backend.Clear(); err != nil {
		return err
	}
	e.idx.clear()
	e.nodeCount = 0
	e.edgeCount = 0
	return nil
}

// Close releases the backend's resources. The Engine must not be used
// afterward.
func (e *Engine) Close() error {
	return e.backend.Close()
}
