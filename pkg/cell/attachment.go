package cell

import (
	"sync"

	cellerrors "github.com/cellbind/cellbind/internal/errors"
)

// AttachmentPoint is an indirection cell whose target can be re-bound at
// runtime: reads forward to whatever inner cell is currently attached,
// and (for the mutable variant) writes forward too. Unlike ComputedCell,
// the subscription to the current inner cell is managed explicitly by
// AttachTo, not by implicit dependency tracking — it exists unconditionally
// once something is attached, regardless of whether anything observes the
// AttachmentPoint itself.
type AttachmentPoint[T any] struct {
	base[T]
	mutable      bool
	defaultValue T

	innerMu sync.Mutex
	inner   Cell[T]
	sub     *Lifetime
}

// NewAttachment creates an immutable AttachmentPoint with no inner cell
// attached: reads return defaultValue until AttachTo is called.
func NewAttachment[T any](defaultValue T) *AttachmentPoint[T] {
	a := &AttachmentPoint[T]{defaultValue: defaultValue}
	a.base = newBase[T](a)
	a.bindSelf(a)
	return a
}

// NewMutableAttachment creates a mutable AttachmentPoint attached to
// defaultCell immediately: Write forwards to whatever Writable is
// currently attached.
func NewMutableAttachment[T any](defaultCell Writable[T]) *AttachmentPoint[T] {
	a := &AttachmentPoint[T]{mutable: true}
	a.base = newBase[T](a)
	a.bindSelf(a)
	a.AttachTo(defaultCell)
	return a
}

func (a *AttachmentPoint[T]) weakRef() weakHandle { return makeWeakHandle(a) }

func (a *AttachmentPoint[T]) needsUpdate(hasCache bool) bool { return !hasCache }
func (a *AttachmentPoint[T]) beginObserving()                {}
func (a *AttachmentPoint[T]) doneObserving()                 {}

// computeValue returns the currently-attached inner cell's value without
// registering a new dependency of its own: AttachmentPoint relies on the
// explicit subscription AttachTo installs, not on auto-tracking.
func (a *AttachmentPoint[T]) computeValue() T {
	a.innerMu.Lock()
	inner := a.inner
	a.innerMu.Unlock()

	if inner == nil {
		return a.defaultValue
	}
	return inner.Peek()
}

// AttachTo cancels the subscription to the previous inner cell (if any),
// installs inner as the new target, resubscribes weakly, and fires
// MarkAsChanged so observers recompute against the new target's current
// value. Panics if inner would form a cycle through a chain of
// AttachmentPoints back to this one.
func (a *AttachmentPoint[T]) AttachTo(inner Cell[T]) {
	if ap, ok := inner.(*AttachmentPoint[T]); ok && formsCycle(a, ap) {
		panic(cellerrors.New("C002"))
	}

	a.innerMu.Lock()
	oldSub := a.sub
	a.inner = inner
	var newSub *Lifetime
	if inner != nil {
		newSub = inner.WhenChangedNotify(a)
	}
	a.sub = newSub
	a.innerMu.Unlock()

	oldSub.Done()
	a.MarkAsChanged()
}

// Write forwards to the currently-attached mutable target. Panics if
// this AttachmentPoint is immutable, or if nothing Writable is currently
// attached.
func (a *AttachmentPoint[T]) Write(v T) {
	if !a.mutable {
		panic(cellerrors.New("C005"))
	}

	a.innerMu.Lock()
	inner := a.inner
	a.innerMu.Unlock()

	w, ok := inner.(Writable[T])
	if !ok {
		panic(cellerrors.New("C003"))
	}
	w.Write(v)
}

// formsCycle reports whether attaching `candidate` to `start` would
// create a cycle through a chain of AttachmentPoints back to start
// itself.
func formsCycle[T any](start *AttachmentPoint[T], candidate *AttachmentPoint[T]) bool {
	seen := map[*AttachmentPoint[T]]bool{start: true}
	current := candidate
	for current != nil {
		if seen[current] {
			return true
		}
		seen[current] = true

		current.innerMu.Lock()
		next, ok := current.inner.(*AttachmentPoint[T])
		current.innerMu.Unlock()
		if !ok {
			return false
		}
		current = next
	}
	return false
}
