// Package cell is a dependency-tracking reactive-value engine: programs
// declare StoredCells (storage holding a value) and ComputedCells (values
// derived by a pure function of other cells), and any code that reads
// cells is re-run when the cells it read change.
//
// Dependencies are discovered implicitly. A ComputedCell's compute
// function just reads whatever cells it needs; the engine records which
// cells were read during that evaluation and subscribes to exactly those.
//
//	a := cell.NewStored(1)
//	b := cell.NewStored(2)
//	c := cell.NewComputed(func() int {
//	    if a.Read() == 0 {
//	        return b.Read()
//	    }
//	    return a.Read()
//	})
//	c.Read() // 1 — depends on a, not b
//	a.Write(0)
//	c.Read() // 2 — recomputed, now depends on a and b
//
// # Observing
//
// Subscriptions are Lifetime-scoped: Done releases the subscription,
// Forever pins it for the life of the process.
//
//	lt := c.Observe(func(v int) { fmt.Println("c is now", v) })
//	defer lt.Done()
//
// # Triggers
//
// A Trigger adapts the engine to host code that wants a coarse "something
// I read last time changed, please run me again" callback rather than a
// per-value subscription — the shape a UI toolkit's render loop needs.
//
//	invoke, lt := cell.NewTrigger(
//	    func() { label.Write(fmt.Sprintf("count: %d", count.Read())) },
//	    func() { requester.RequestRedraw() },
//	)
//	invoke()
//	defer lt.Done()
//
// # Concurrency
//
// Every cell guards its cache, observer set and dependency set with its
// own mutex. Writes, reads and subscription disposal may happen from any
// goroutine. Dependency capture (the "which cells did this compute
// function read" bookkeeping) is goroutine-local: a frame started on one
// goroutine must finish on that same goroutine.
package cell
