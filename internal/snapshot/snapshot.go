// Package snapshot encodes debug metadata about a cell graph — ids,
// dependency edges, bound state — for offline inspection. This is not a
// persistence feature of the engine: nothing here can rehydrate a
// StoredCell's value, only describe the shape of a graph at a point in
// time, the way a heap dump describes objects without being a way to
// resume a process.
package snapshot

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// NodeKind identifies which concrete cell kind a Node describes.
type NodeKind string

const (
	KindStored   NodeKind = "stored"
	KindComputed NodeKind = "computed"
	KindTrigger  NodeKind = "trigger"
	KindAttach   NodeKind = "attachment"
	KindArray    NodeKind = "array"
	KindExternal NodeKind = "external"
)

// Node is one cell's worth of debug metadata.
type Node struct {
	ID    uint64   `msgpack:"id"`
	Kind  NodeKind `msgpack:"kind"`
	Label string   `msgpack:"label,omitempty"`
	Bound bool     `msgpack:"bound"`
	// DependsOn lists the IDs of cells this node reads; empty for leaf
	// StoredCells and for anything in its unobserved, not-yet-subscribed
	// state.
	DependsOn []uint64 `msgpack:"depends_on,omitempty"`
}

// GraphSnapshot is a full debug dump of a cell graph at one instant.
type GraphSnapshot struct {
	ID        string    `msgpack:"id"`
	CapturedAt time.Time `msgpack:"captured_at"`
	Nodes     []Node    `msgpack:"nodes"`
}

var entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

// New builds a GraphSnapshot from nodes, stamping it with a fresh ULID
// and the current time. ULIDs sort lexically by capture time, which is
// what makes a directory of snapshot files browsable in capture order
// without parsing filenames.
func New(nodes []Node) GraphSnapshot {
	return GraphSnapshot{
		ID:         ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String(),
		CapturedAt: time.Now(),
		Nodes:      nodes,
	}
}

// WriteTo msgpack-encodes the snapshot to w.
func (g GraphSnapshot) WriteTo(w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(g)
}

// Read msgpack-decodes a GraphSnapshot from r.
func Read(r io.Reader) (GraphSnapshot, error) {
	var g GraphSnapshot
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&g); err != nil {
		return GraphSnapshot{}, fmt.Errorf("snapshot: decode: %w", err)
	}
	return g, nil
}

// NodeByID returns the node with the given id and whether it was found.
func (g GraphSnapshot) NodeByID(id uint64) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
