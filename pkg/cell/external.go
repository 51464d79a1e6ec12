package cell

import "sync"

// ExternalValueSource is the only interface this package requires from a
// host object graph that wants to expose external, non-cell state as a
// Cell: read a value by key, subscribe to out-of-band change
// notifications for a key, and unsubscribe. Keys and subscription
// handles are opaque to this package — the host defines their shape.
type ExternalValueSource interface {
	Read(key any) any
	Subscribe(key any, onChange func()) any
	Unsubscribe(subscription any)
}

// ExternalSourceCell is a ComputedCell-like cell whose value comes from
// an ExternalValueSource rather than from other cells. On first
// observation it registers a change callback with the source; on last
// observation release it deregisters. While unobserved it refetches on
// every read, since there is no callback keeping its cache honest.
//
// Holding the source strongly while observed falls out of ordinary Go
// reachability here: the onChange closure
// passed to Subscribe captures this cell by pointer, so as long as the
// host's Subscribe implementation retains that closure (which it must,
// to be able to call it later), this cell stays reachable for exactly as
// long as the subscription is active; Unsubscribe in doneObserving drops
// the host's copy of the closure.
type ExternalSourceCell[T any] struct {
	base[T]
	source ExternalValueSource
	key    any

	subMu        sync.Mutex
	subscription any
	subscribed   bool
}

// NewExternalBinding creates an ExternalSourceCell over source, bound to
// key. The value must assert to T; a key whose external value is not a T
// is a host-side programming error, not one this package can validate.
func NewExternalBinding[T any](source ExternalValueSource, key any) *ExternalSourceCell[T] {
	e := &ExternalSourceCell[T]{source: source, key: key}
	e.base = newBase[T](e)
	e.bindSelf(e)
	return e
}

func (e *ExternalSourceCell[T]) weakRef() weakHandle { return makeWeakHandle(e) }

func (e *ExternalSourceCell[T]) computeValue() T {
	return e.source.Read(e.key).(T)
}

// needsUpdate refreshes unconditionally while unobserved (no callback is
// keeping the cache honest, so pull-based reads must always see fresh
// data), and otherwise follows the normal "cache absent" rule.
func (e *ExternalSourceCell[T]) needsUpdate(hasCache bool) bool {
	if !hasCache {
		return true
	}
	e.subMu.Lock()
	observed := e.subscribed
	e.subMu.Unlock()
	return !observed
}

func (e *ExternalSourceCell[T]) beginObserving() {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	if e.subscribed {
		return
	}
	e.subscription = e.source.Subscribe(e.key, func() { e.MarkAsChanged() })
	e.subscribed = true
}

func (e *ExternalSourceCell[T]) doneObserving() {
	e.subMu.Lock()
	if !e.subscribed {
		e.subMu.Unlock()
		return
	}
	sub := e.subscription
	e.subscription = nil
	e.subscribed = false
	e.subMu.Unlock()

	e.source.Unsubscribe(sub)
}
