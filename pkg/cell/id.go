package cell

import "sync/atomic"

// globalIDCounter is the source of unique identities for cells, triggers
// and the closure adapters created by WhenChanged/Observe. Monotonically
// increasing, never reused, so an id is safe to use as a set key for the
// lifetime of the process.
var globalIDCounter uint64

// nextID returns the next unique id.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}
