package graph

// Direction selects which side of an edge "neighbors" looks at.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
	Both
)

type nodePair struct {
	source NodeID
	target NodeID
}

// index is the in-memory adjacency derived structure: outgoing, incoming,
// and by-endpoint-pair multimaps from NodeID/pair to the set of incident
// EdgeIDs. It is never persisted; on open it is rebuilt by iterating every
// edge in the backend. An empty bucket is deleted rather than left behind
// as an empty set, so membership checks never need to special-case "empty
// but present".
type index struct {
	outgoing map[NodeID]map[EdgeID]struct{}
	incoming map[NodeID]map[EdgeID]struct{}
	pair     map[nodePair]map[EdgeID]struct{}
}

func newIndex() *index {
	return &index{
		outgoing: make(map[NodeID]map[EdgeID]struct{}),
		incoming: make(map[NodeID]map[EdgeID]struct{}),
		pair:     make(map[nodePair]map[EdgeID]struct{}),
	}
}

// buildIndex rebuilds an index from scratch by iterating every edge
// returned by it. The caller owns closing it.
func buildIndex(it EdgeIterator) (*index, error) {
	idx := newIndex()
	for it.Next() {
		_, e := it.Edge()
		idx.addEdge(e)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *index) addEdge(e *Edge) {
	addToBucket(idx.outgoing, e.Source, e.ID)
	addToBucket(idx.incoming, e.Target, e.ID)
	addToPairBucket(idx.pair, nodePair{source: e.Source, target: e.Target}, e.ID)
}

// removeEdge removes e's id from all three buckets, deleting any bucket
// that becomes empty as a result.
func (idx *index) removeEdge(e *Edge) {
	removeFromBucket(idx.outgoing, e.Source, e.ID)
	removeFromBucket(idx.incoming, e.Target, e.ID)
	removeFromPairBucket(idx.pair, nodePair{source: e.Source, target: e.Target}, e.ID)
}

// incidentEdges returns every edge id touching n, as outgoing[n] ∪
// incoming[n] (deduplicated, since a self-loop appears in both).
func (idx *index) incidentEdges(n NodeID) []EdgeID {
	seen := make(map[EdgeID]struct{})
	for id := range idx.outgoing[n] {
		seen[id] = struct{}{}
	}
	for id := range idx.incoming[n] {
		seen[id] = struct{}{}
	}
	out := make([]EdgeID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out
}

// neighbors returns, per direction, the unique set of other-endpoint node
// ids reachable from n via a single edge. Edge ids are not returned; edge
// lookup happens in the engine, which is the layer with backend access.
func (idx *index) neighbors(n NodeID, dir Direction, edgeOf func(EdgeID) *Edge) []NodeID {
	seen := make(map[NodeID]struct{})
	if dir == Outgoing || dir == Both {
		for id := range idx.outgoing[n] {
			if e := edgeOf(id); e != nil {
				seen[e.Target] = struct{}{}
			}
		}
	}
	if dir == Incoming || dir == Both {
		for id := range idx.incoming[n] {
			if e := edgeOf(id); e != nil {
				seen[e.Source] = struct{}{}
			}
		}
	}
	out := make([]NodeID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out
}

// edgesBetween returns pair[(src,dst)] as a slice (possibly empty, never
// nil).
func (idx *index) edgesBetween(src, dst NodeID) []EdgeID {
	bucket := idx.pair[nodePair{source: src, target: dst}]
	out := make([]EdgeID, 0, len(bucket))
	for id := range bucket {
		out = append(out, id)
	}
	return out
}

func (idx *index) clear() {
	idx.outgoing = make(map[NodeID]map[EdgeID]struct{})
	idx.incoming = make(map[NodeID]map[EdgeID]struct{})
	idx.pair = make(map[nodePair]map[EdgeID]struct{})
}

func addToBucket(m map[NodeID]map[EdgeID]struct{}, key NodeID, id EdgeID) {
	bucket, ok := m[key]
	if !ok {
		bucket = make(map[EdgeID]struct{})
		m[key] = bucket
	}
	bucket[id] = struct{}{}
}

func removeFromBucket(m map[NodeID]map[EdgeID]struct{}, key NodeID, id EdgeID) {
	bucket, ok := m[key]
	if !ok {
		return
	}
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(m, key)
	}
}

func addToPairBucket(m map[nodePair]map[EdgeID]struct{}, key nodePair, id EdgeID) {
	bucket, ok := m[key]
	if !ok {
		bucket = make(map[EdgeID]struct{})
		m[key] = bucket
	}
	bucket[id] = struct{}{}
}

func removeFromPairBucket(m map[nodePair]map[EdgeID]struct{}, key nodePair, id EdgeID) {
	bucket, ok := m[key]
	if !ok {
		return
	}
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(m, key)
	}
}
