package graph

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes, matching the big-endian-id layout used throughout this
// package:
//
//	n/<u64-be(id)>     -> serialized Node
//	e/<u64-be(id)>     -> serialized Edge
//	meta/node_counter  -> u64-be
//	meta/edge_counter  -> u64-be
//
// Big-endian id encoding makes lexicographic key order equal numeric id
// order, so prefix iteration yields ids in ascending order for free.
var (
	nodePrefix     = []byte("n/")
	edgePrefix     = []byte("e/")
	nodeCounterKey = []byte("meta/node_counter")
	edgeCounterKey = []byte("meta/edge_counter")
)

func nodeKey(id NodeID) []byte {
	k := make([]byte, len(nodePrefix)+8)
	copy(k, nodePrefix)
	binary.BigEndian.PutUint64(k[len(nodePrefix):], uint64(id))
	return k
}

func edgeKeyFor(id EdgeID) []byte {
	k := make([]byte, len(edgePrefix)+8)
	copy(k, edgePrefix)
	binary.BigEndian.PutUint64(k[len(edgePrefix):], uint64(id))
	return k
}

func idFromKey(key []byte, prefix []byte) uint64 {
	return binary.BigEndian.Uint64(key[len(prefix):])
}

// BadgerOptions configures a BadgerBackend.
type BadgerOptions struct {
	// DataDir is the directory BadgerDB stores its files in. Required
	// unless InMemory is set.
	DataDir string
	// InMemory runs BadgerDB itself in memory-only mode: no files are
	// written, everything is lost on Close. Useful for tests that want
	// backend-identical behavior without touching disk.
	InMemory bool
	// SyncWrites forces an fsync after every write. Slower, maximally
	// durable.
	SyncWrites bool
	// ReadOnly opens the database without permitting writes.
	ReadOnly bool
}

// BadgerBackend is the persistent Backend, built directly on BadgerDB's
// transactional key-value engine. Point reads/writes use db.View/db.Update;
// batch insert and cascade node deletion use a badger.WriteBatch so the
// fan-out commits atomically.
type BadgerBackend struct {
	db *badger.DB
}

// OpenBadgerBackend opens or creates a BadgerDB-backed backend rooted at
// opts.DataDir.
func OpenBadgerBackend(opts BadgerOptions) (*BadgerBackend, error) {
	bopts := badger.DefaultOptions(opts.DataDir)
	bopts = bopts.WithInMemory(opts.InMemory)
	bopts = bopts.WithSyncWrites(opts.SyncWrites)
	bopts = bopts.WithReadOnly(opts.ReadOnly)
	bopts = bopts.WithLogger(nil)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, errIo(fmt.Sprintf("open backend at %q", opts.DataDir), err)
	}

	b := &BadgerBackend{db: db}
	if err := b.ensureCounters(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// ensureCounters rebuilds meta/node_counter and meta/edge_counter from the
// highest id found by scanning, if the counter keys are absent. This
// covers data loaded (or left behind by a crash) without counter keys.
func (b *BadgerBackend) ensureCounters() error {
	return b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(nodeCounterKey); err == badger.ErrKeyNotFound {
			max, err := maxIDWithPrefix(txn, nodePrefix)
			if err != nil {
				return err
			}
			next := uint64(0)
			if max != ^uint64(0) {
				next = max + 1
			}
			if err := setCounter(txn, nodeCounterKey, next); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		if _, err := txn.Get(edgeCounterKey); err == badger.ErrKeyNotFound {
			max, err := maxIDWithPrefix(txn, edgePrefix)
			if err != nil {
				return err
			}
			next := uint64(0)
			if max != ^uint64(0) {
				next = max + 1
			}
			return setCounter(txn, edgeCounterKey, next)
		} else if err != nil {
			return err
		}
		return nil
	})
}

// maxIDWithPrefix scans all keys under prefix and returns the highest
// encoded id, or ^uint64(0) (sentinel "none found") if there are none.
func maxIDWithPrefix(txn *badger.Txn, prefix []byte) (uint64, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var max uint64
	found := false
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		id := idFromKey(it.Item().KeyCopy(nil), prefix)
		if !found || id > max {
			max = id
			found = true
		}
	}
	if !found {
		return ^uint64(0), nil
	}
	return max, nil
}

func setCounter(txn *badger.Txn, key []byte, value uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], value)
	return txn.Set(key, b[:])
}

func getCounter(txn *badger.Txn, key []byte) (uint64, error) {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var value uint64
	err = item.Value(func(val []byte) error {
		value = binary.BigEndian.Uint64(val)
		return nil
	})
	return value, err
}

// GetNode reads and decodes the node stored at id.
func (b *BadgerBackend) GetNode(id NodeID) (*Node, error) {
	var node *Node
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(nodeKey(id))
		if err == badger.ErrKeyNotFound {
			return errNodeNotFound(id)
		}
		if err != nil {
			return errIo("get node", err)
		}
		return item.Value(func(val []byte) error {
			n, err := decodeNode(id, val)
			if err != nil {
				return err
			}
			node = n
			return nil
		})
	})
	return node, err
}

// PutNode writes node's kind and properties under its id's key.
func (b *BadgerBackend) PutNode(node *Node) error {
	data := encodeNode(node)
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(nodeKey(node.ID), data)
	})
	if err != nil {
		return errIo("put node", err)
	}
	return nil
}

// DeleteNode removes the node at id, reporting whether it was present.
func (b *BadgerBackend) DeleteNode(id NodeID) (bool, error) {
	var existed bool
	err := b.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(nodeKey(id))
		if err == badger.ErrKeyNotFound {
			existed = false
			return nil
		}
		if err != nil {
			return err
		}
		existed = true
		return txn.Delete(nodeKey(id))
	})
	if err != nil {
		return false, errIo("delete node", err)
	}
	return existed, nil
}

// GetEdge reads and decodes the edge stored at id.
func (b *BadgerBackend) GetEdge(id EdgeID) (*Edge, error) {
	var edge *Edge
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(edgeKeyFor(id))
		if err == badger.ErrKeyNotFound {
			return errEdgeNotFound(id)
		}
		if err != nil {
			return errIo("get edge", err)
		}
		return item.Value(func(val []byte) error {
			e, err := decodeEdge(id, val)
			if err != nil {
				return err
			}
			edge = e
			return nil
		})
	})
	return edge, err
}

// PutEdge writes edge's kind, endpoints, and properties under its id's
// key.
func (b *BadgerBackend) PutEdge(edge *Edge) error {
	data := encodeEdge(edge)
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(edgeKeyFor(edge.ID), data)
	})
	if err != nil {
		return errIo("put edge", err)
	}
	return nil
}

// DeleteEdge removes the edge at id, reporting whether it was present.
func (b *BadgerBackend) DeleteEdge(id EdgeID) (bool, error) {
	var existed bool
	err := b.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(edgeKeyFor(id))
		if err == badger.ErrKeyNotFound {
			existed = false
			return nil
		}
		if err != nil {
			return err
		}
		existed = true
		return txn.Delete(edgeKeyFor(id))
	})
	if err != nil {
		return false, errIo("delete edge", err)
	}
	return existed, nil
}

// NextNodeID atomically fetches and increments the node counter,
// persisting the new value before returning the id to use.
func (b *BadgerBackend) NextNodeID() (NodeID, error) {
	var id uint64
	err := b.db.Update(func(txn *badger.Txn) error {
		current, err := getCounter(txn, nodeCounterKey)
		if err != nil {
			return err
		}
		id = current
		return setCounter(txn, nodeCounterKey, current+1)
	})
	if err != nil {
		return 0, errIo("allocate node id", err)
	}
	return NodeID(id), nil
}

// NextEdgeID atomically fetches and increments the edge counter.
func (b *BadgerBackend) NextEdgeID() (EdgeID, error) {
	var id uint64
	err := b.db.Update(func(txn *badger.Txn) error {
		current, err := getCounter(txn, edgeCounterKey)
		if err != nil {
			return err
		}
		id = current
		return setCounter(txn, edgeCounterKey, current+1)
	})
	if err != nil {
		return 0, errIo("allocate edge id", err)
	}
	return EdgeID(id), nil
}

// NewBatch starts a BadgerDB write batch.
func (b *BadgerBackend) NewBatch() Batch {
	return &badgerBatch{wb: b.db.NewWriteBatch()}
}

// Flush forces BadgerDB's LSM and value-log write paths to sync. Writes
// issued before Flush returns are durable.
func (b *BadgerBackend) Flush() error {
	if err := b.db.Sync(); err != nil {
		return errIo("flush", err)
	}
	return nil
}

// Clear removes every node, edge, and resets both counters to zero.
func (b *BadgerBackend) Clear() error {
	if err := b.db.DropAll(); err != nil {
		return errIo("clear", err)
	}
	return b.ensureCounters()
}

// Close closes the underlying BadgerDB handle.
func (b *BadgerBackend) Close() error {
	if err := b.db.Close(); err != nil {
		return errIo("close", err)
	}
	return nil
}

// IterNodes returns an iterator over all nodes, in ascending id order
// (free from the big-endian key encoding).
func (b *BadgerBackend) IterNodes() NodeIterator {
	txn := b.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = nodePrefix
	it := txn.NewIterator(opts)
	it.Seek(nodePrefix)
	return &badgerNodeIterator{txn: txn, it: it, started: false}
}

// IterEdges returns an iterator over all edges, in ascending id order.
func (b *BadgerBackend) IterEdges() EdgeIterator {
	txn := b.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = edgePrefix
	it := txn.NewIterator(opts)
	it.Seek(edgePrefix)
	return &badgerEdgeIterator{txn: txn, it: it, started: false}
}

type badgerNodeIterator struct {
	txn     *badger.Txn
	it      *badger.Iterator
	started bool
	err     error
	id      NodeID
	node    *Node
}

func (it *badgerNodeIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if it.started {
		it.it.Next()
	}
	it.started = true
	if !it.it.ValidForPrefix(nodePrefix) {
		return false
	}
	item := it.it.Item()
	id := NodeID(idFromKey(item.KeyCopy(nil), nodePrefix))
	err := item.Value(func(val []byte) error {
		n, err := decodeNode(id, val)
		if err != nil {
			return err
		}
		it.id, it.node = id, n
		return nil
	})
	if err != nil {
		it.err = err
		return false
	}
	return true
}

func (it *badgerNodeIterator) Node() (NodeID, *Node) { return it.id, it.node }
func (it *badgerNodeIterator) Err() error            { return it.err }
func (it *badgerNodeIterator) Close() error {
	it.it.Close()
	it.txn.Discard()
	return nil
}

type badgerEdgeIterator struct {
	txn     *badger.Txn
	it      *badger.Iterator
	started bool
	err     error
	id      EdgeID
	edge    *Edge
}

func (it *badgerEdgeIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if it.started {
		it.it.Next()
	}
	it.started = true
	if !it.it.ValidForPrefix(edgePrefix) {
		return false
	}
	item := it.it.Item()
	id := EdgeID(idFromKey(item.KeyCopy(nil), edgePrefix))
	err := item.Value(func(val []byte) error {
		e, err := decodeEdge(id, val)
		if err != nil {
			return err
		}
		it.id, it.edge = id, e
		return nil
	})
	if err != nil {
		it.err = err
		return false
	}
	return true
}

func (it *badgerEdgeIterator) Edge() (EdgeID, *Edge) { return it.id, it.edge }
func (it *badgerEdgeIterator) Err() error            { return it.err }
func (it *badgerEdgeIterator) Close() error {
	it.it.Close()
	it.txn.Discard()
	return nil
}

// badgerBatch wraps badger.WriteBatch so node/edge puts and deletes in a
// single cascade (node deletion, bulk insert) commit atomically.
type badgerBatch struct {
	wb  *badger.WriteBatch
	err error
}

func (b *badgerBatch) PutNode(node *Node) {
	if b.err != nil {
		return
	}
	b.err = b.wb.Set(nodeKey(node.ID), encodeNode(node))
}

func (b *badgerBatch) DeleteNode(id NodeID) {
	if b.err != nil {
		return
	}
	b.err = b.wb.Delete(nodeKey(id))
}

func (b *badgerBatch) PutEdge(edge *Edge) {
	if b.err != nil {
		return
	}
	b.err = b.wb.Set(edgeKeyFor(edge.ID), encodeEdge(edge))
}

func (b *badgerBatch) DeleteEdge(id EdgeID) {
	if b.err != nil {
		return
	}
	b.err = b.wb.Delete(edgeKeyFor(id))
}

func (b *badgerBatch) Commit() error {
	if b.err != nil {
		b.wb.Cancel()
		return errIo("batch commit", b.err)
	}
	if err := b.wb.Flush(); err != nil {
		return errIo("batch commit", err)
	}
	return nil
}
