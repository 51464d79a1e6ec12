package cell

import (
	"runtime"
	"sync"
)

// valuer is implemented by a Cell[T]'s behavior hooks: computeValue
// produces a fresh value, needsUpdate decides whether the cache must be
// recomputed before the next read, beginObserving/doneObserving fire on
// the 0->1 and 1->0 observer-count transitions.
type valuer[T any] interface {
	computeValue() T
	needsUpdate(hasCache bool) bool
	beginObserving()
	doneObserving()
}

// base is the shared machinery behind every cell kind: cached value,
// dirty bit, weakly-held observer set, and a lazily-constructed isBound
// gauge. Concrete cell types embed base and supply the valuer hooks that
// give computeValue/needsUpdate/begin/doneObserving their meaning.
type base[T any] struct {
	mu       sync.Mutex
	value    T
	hasValue bool

	observers *notificationSet

	isBoundOnce sync.Once
	isBoundCell *StoredCell[bool]

	self           valuer[T]
	changeableSelf Changeable
	id             uint64
}

func newBase[T any](self valuer[T]) base[T] {
	return base[T]{
		observers: newNotificationSet(),
		self:      self,
		id:        nextID(),
	}
}

func (b *base[T]) notifiableID() uint64 { return b.id }

// resolve implements Cell (base)'s value/resolve() operation: registers
// self as a dependency of the active capture frame (if any), recomputes
// the cache if needed, and returns the cached value.
func (b *base[T]) resolve() T {
	addDependency(b.asChangeable())

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.self.needsUpdate(b.hasValue) {
		v := b.self.computeValue()
		b.value = v
		b.hasValue = true
	}
	return b.value
}

// peek returns the cached value (recomputing if needed) without
// registering a dependency in the active capture frame, if any.
func (b *base[T]) peek() T {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.self.needsUpdate(b.hasValue) {
		v := b.self.computeValue()
		b.value = v
		b.hasValue = true
	}
	return b.value
}

// rebind unconditionally recomputes and overwrites the cache.
func (b *base[T]) rebind() T {
	b.mu.Lock()
	v := b.self.computeValue()
	b.value = v
	b.hasValue = true
	b.mu.Unlock()
	return v
}

// setCache stores v as the cached value directly (used by StoredCell's
// write path, which never goes through computeValue).
func (b *base[T]) setCache(v T) {
	b.mu.Lock()
	b.value = v
	b.hasValue = true
	b.mu.Unlock()
}

// MarkAsChanged implements the base idempotent invalidate-and-fire
// operation: if the cache is present, drop it and fire observers; if
// already dirty, do nothing. StoredCell and ArrayCell override this with
// their own MarkAsChanged (fireObservers without touching the cache),
// since their cache is never "absent" — compute_value is unreachable on
// them.
func (b *base[T]) MarkAsChanged() {
	b.mu.Lock()
	if !b.hasValue {
		b.mu.Unlock()
		return
	}
	var zero T
	b.value = zero
	b.hasValue = false
	b.mu.Unlock()

	b.observers.fireAll()
}

// fireObservers notifies every live observer without touching the cache.
func (b *base[T]) fireObservers() {
	b.observers.fireAll()
}

// WhenChangedNotify implements Changeable: subscribes target weakly and
// returns a Lifetime that, once Done, unsubscribes it. target must be a
// Notifiable produced by this package (any of its cell types, a Trigger,
// or the closure adapter behind WhenChanged/Observe) — the only concrete
// types that also implement the unexported weakable contract this method
// needs to obtain a weak reference.
func (b *base[T]) WhenChangedNotify(target Notifiable) *Lifetime {
	w, ok := target.(weakable)
	if !ok {
		panic("cell: WhenChangedNotify target must be a Notifiable produced by this package")
	}
	return b.whenChangedNotify(w)
}

func (b *base[T]) whenChangedNotify(target weakable) *Lifetime {
	b.mu.Lock()
	wasBound := b.observers.anyLive()
	lt := b.observers.add(target)
	b.mu.Unlock()

	if !wasBound {
		b.self.beginObserving()
		b.setIsBound(true)
	}
	// Fill the cache now: MarkAsChanged only fans out from a cell that
	// holds a value, so a cell nobody has read yet would otherwise never
	// notify the observer just added.
	b.peek()
	return NewLifetime(func() {
		lt.Done()
		b.mu.Lock()
		stillBound := b.observers.anyLive()
		b.mu.Unlock()
		if !stillBound {
			b.self.doneObserving()
			b.setIsBound(false)
		}
	})
}

// closureNotifiable adapts a plain func() into a Notifiable/weakable, so
// WhenChanged/Observe can subscribe a closure the same way ComputedCell
// and Trigger subscribe themselves.
type closureNotifiable struct {
	id uint64
	fn func()
}

func newClosureNotifiable(fn func()) *closureNotifiable {
	return &closureNotifiable{id: nextID(), fn: fn}
}

func (c *closureNotifiable) MarkAsChanged()       { c.fn() }
func (c *closureNotifiable) notifiableID() uint64 { return c.id }
func (c *closureNotifiable) weakRef() weakHandle  { return makeWeakHandle(c) }

// WhenChanged wraps fn in a closure adapter and subscribes it — the
// convenience form of WhenChangedNotify for callers that just want a
// "something changed" callback rather than implementing Notifiable
// themselves.
func (b *base[T]) WhenChanged(fn func()) *Lifetime {
	return b.whenChanged(fn)
}

// whenChanged wraps fn in a closure adapter and subscribes it. The
// adapter itself must be kept alive by the caller (via the returned
// Lifetime or an external strong reference) since observers are held
// weakly.
func (b *base[T]) whenChanged(fn func()) *Lifetime {
	adapter := newClosureNotifiable(fn)
	// The notification set only holds a weak reference to adapter, so
	// the Lifetime itself must keep it alive for as long as the
	// subscription is active.
	lt := b.whenChangedNotify(adapter)
	return lt.LiveAsLongAs(pinningLifetime(adapter))
}

// pinningLifetime returns a Lifetime whose sole purpose is to keep a
// strong reference to v alive for as long as the Lifetime itself is
// reachable: the release callback closes over v, so v cannot be
// collected while this Lifetime (or anything holding it, such as a
// composite built by LiveAsLongAs) is still referenced.
func pinningLifetime(v any) *Lifetime {
	return NewLifetime(func() { runtime.KeepAlive(v) })
}

// Read returns the cached value, registering self as a dependency of the
// active capture frame, if any, and recomputing the cache first if
// needed.
func (b *base[T]) Read() T {
	return b.resolve()
}

// Peek returns the cached value (recomputing if needed) without
// registering a dependency in the active capture frame, if any.
func (b *base[T]) Peek() T {
	return b.peek()
}

// Rebind unconditionally recomputes and overwrites the cache, without
// regard to whether it was already considered fresh.
func (b *base[T]) Rebind() T {
	return b.rebind()
}

// IsBound returns the lazily-constructed Cell<Bool> gauge tracking
// whether this cell currently has at least one live observer.
func (b *base[T]) IsBound() *StoredCell[bool] {
	return b.isBound()
}

// Observe subscribes closure and immediately evaluates it once with the
// current value. Reentrant self-triggering (the closure's own write
// causing it to be re-fired while it is still running) is converted to
// iteration via a "run again" flag, bounding the stack and letting
// self-stabilising observers converge instead of overflowing.
func (b *base[T]) Observe(closure func(T)) *Lifetime {
	return b.observe(closure)
}

func (b *base[T]) observe(closure func(T)) *Lifetime {
	var runner *iterativeRunner[T]
	runner = &iterativeRunner[T]{b: b, closure: closure}

	lt := b.whenChanged(runner.trigger)
	runner.trigger()
	return lt
}

// iterativeRunner implements the reentrancy-to-iteration rule for
// observe: if trigger is invoked again while already running (because
// the closure wrote a cell it depends on), that invocation just sets
// again and returns; the running invocation loops until no further
// invocation arrived while it ran.
type iterativeRunner[T any] struct {
	b       *base[T]
	closure func(T)

	mu      sync.Mutex
	running bool
	again   bool
}

func (r *iterativeRunner[T]) trigger() {
	r.mu.Lock()
	if r.running {
		r.again = true
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	for {
		r.closure(r.b.peek())

		r.mu.Lock()
		if !r.again {
			r.running = false
			r.mu.Unlock()
			return
		}
		r.again = false
		r.mu.Unlock()
	}
}

// setIsBound updates the lazily-constructed isBound gauge, if it has
// been constructed.
func (b *base[T]) setIsBound(v bool) {
	if b.isBoundCell == nil {
		return
	}
	if b.isBoundCell.Read() != v {
		b.isBoundCell.Write(v)
	}
}

// isBound returns the lazily-constructed Cell<Bool> gauge tracking
// whether observers is non-empty.
func (b *base[T]) isBound() *StoredCell[bool] {
	b.isBoundOnce.Do(func() {
		b.mu.Lock()
		bound := b.observers.anyLive()
		b.mu.Unlock()
		b.isBoundCell = NewStored(bound)
	})
	return b.isBoundCell
}

// asChangeable returns the Changeable view of this base — implemented
// per concrete type via a thin method forwarding to whenChangedNotify,
// since Go cannot let an embedded generic base satisfy an interface on
// behalf of its outer struct directly when weak-reference identity
// matters. Concrete types assign this via bindSelf.
func (b *base[T]) asChangeable() Changeable {
	return b.changeableSelf
}

// changeableSelf is set by each concrete type's constructor via
// bindSelf, pointing back at the outer struct so dependency capture and
// weak references observe the concrete type's identity, not base's.
func (b *base[T]) bindSelf(c Changeable) {
	b.changeableSelf = c
}
