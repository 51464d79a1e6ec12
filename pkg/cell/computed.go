package cell

import "sync"

// ComputedCell derives its value from a pure function of other cells.
// Dependencies are discovered implicitly: compute is run inside a fresh
// capture frame, and the frame records every Changeable read during that
// run. If the new dependency set differs from the previous one (by
// length or by element identity at any position, order-sensitive),
// ComputedCell unsubscribes from the old set and subscribes to the new
// one; if the set is unchanged, the existing subscriptions are left
// untouched.
type ComputedCell[T any] struct {
	base[T]
	compute func() T

	depsMu sync.Mutex
	deps   []Changeable
	subs   *Lifetime
}

// NewComputed creates a ComputedCell backed by compute. compute must be
// pure with respect to the cells it reads: the only inputs it may
// consult are other cells, read via their Read method, so that the
// engine can discover them.
func NewComputed[T any](compute func() T) *ComputedCell[T] {
	c := &ComputedCell[T]{compute: compute}
	c.base = newBase[T](c)
	c.bindSelf(c)
	return c
}

func (c *ComputedCell[T]) weakRef() weakHandle { return makeWeakHandle(c) }

func (c *ComputedCell[T]) needsUpdate(hasCache bool) bool { return !hasCache }
func (c *ComputedCell[T]) beginObserving()                {}

// doneObserving eagerly releases upstream subscriptions once nothing
// observes this computed any more; the next Read rebuilds them.
func (c *ComputedCell[T]) doneObserving() {
	c.depsMu.Lock()
	oldSubs := c.subs
	c.deps = nil
	c.subs = nil
	c.depsMu.Unlock()

	oldSubs.Done()

	c.mu.Lock()
	var zero T
	c.value = zero
	c.hasValue = false
	c.mu.Unlock()
}

// computeValue implements the diff-and-rewire algorithm: recompute,
// compare the new dependency set against the old, and only tear down
// stale subscriptions once the new ones are safely installed.
func (c *ComputedCell[T]) computeValue() T {
	c.depsMu.Lock()
	oldDeps := c.deps
	oldSubs := c.subs
	c.depsMu.Unlock()

	var result T
	withNewContext(func() {
		if oldDeps != nil {
			setExpectedDependencies(oldDeps)
		}
		result = c.compute()

		if dependenciesDiffer() {
			newDeps := currentDependencies()

			var newSubs *Lifetime
			if len(newDeps) > 0 {
				lts := make([]*Lifetime, len(newDeps))
				for i, dep := range newDeps {
					lts[i] = dep.WhenChangedNotify(c)
				}
				newSubs = Combine(lts...)
			}

			resetDependencies()

			c.depsMu.Lock()
			c.deps = newDeps
			c.subs = newSubs
			c.depsMu.Unlock()

			oldSubs.Done()
		}
	})

	return result
}
