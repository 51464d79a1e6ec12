package cell

import "sync"

// Trigger adapts the dependency-tracking engine to host code that wants
// a coarse "something I read last time changed, please run me again"
// callback instead of a per-value subscription — the shape a UI
// toolkit's render loop needs. Repeated invalidations between successive
// PerformAction calls coalesce into at most one downstream
// "update-needed" fanout.
type Trigger struct {
	id     uint64
	action func()

	depsMu sync.Mutex
	deps   []Changeable
	subs   *Lifetime

	pendingMu sync.Mutex
	pending   bool // true once MarkAsChanged has fired downstream, until the next PerformAction clears it

	downstream *notificationSet
}

// NewTrigger creates a Trigger and subscribes onUpdate to fire whenever a
// cell read during the most recent PerformAction becomes dirty. action
// does not run until the returned invoke function is called the first
// time — until then the trigger has no dependencies, so writes to cells
// it will eventually read produce no notifications yet. It returns a
// function that re-invokes the trigger's action and a Lifetime that,
// once Done, stops onUpdate from firing and releases the trigger's
// upstream subscriptions.
func NewTrigger(action func(), onUpdate func()) (invoke func(), lt *Lifetime) {
	t := &Trigger{id: nextID(), action: action, downstream: newNotificationSet()}

	adapter := newClosureNotifiable(onUpdate)
	sub := t.downstream.add(adapter)

	teardown := NewLifetime(func() {
		t.depsMu.Lock()
		subs := t.subs
		t.deps = nil
		t.subs = nil
		t.depsMu.Unlock()
		subs.Done()
	})

	composite := Combine(sub, pinningLifetime(adapter), teardown)

	return t.PerformAction, composite
}

func (t *Trigger) weakRef() weakHandle  { return makeWeakHandle(t) }
func (t *Trigger) notifiableID() uint64 { return t.id }

// WhenChanged delivers a single "update-needed" signal to target whenever
// this Trigger's dependencies invalidate, until target's returned
// Lifetime is Done.
func (t *Trigger) WhenChanged(target Notifiable) *Lifetime {
	w, ok := target.(weakable)
	if !ok {
		panic("cell: Trigger.WhenChanged target must be a Notifiable produced by this package")
	}
	return t.downstream.add(w)
}

// MarkAsChanged implements the coalescing rule: if an update is already
// pending, this call is dropped; otherwise it is marked pending and
// downstream observers are fanned out exactly once, until the next
// PerformAction clears the flag.
func (t *Trigger) MarkAsChanged() {
	t.pendingMu.Lock()
	if t.pending {
		t.pendingMu.Unlock()
		return
	}
	t.pending = true
	t.pendingMu.Unlock()

	t.downstream.fireAll()
}

// PerformAction runs action inside a fresh capture frame, clearing the
// pending-update flag first so that any writes made during action's own
// execution schedule a fresh update, then diffs and rewires dependencies
// using the same reset-before-drop protocol as ComputedCell.
func (t *Trigger) PerformAction() {
	t.depsMu.Lock()
	oldDeps := t.deps
	oldSubs := t.subs
	t.depsMu.Unlock()

	t.pendingMu.Lock()
	t.pending = false
	t.pendingMu.Unlock()

	withNewContext(func() {
		if oldDeps != nil {
			setExpectedDependencies(oldDeps)
		}
		t.action()

		if dependenciesDiffer() {
			newDeps := currentDependencies()

			var newSubs *Lifetime
			if len(newDeps) > 0 {
				lts := make([]*Lifetime, len(newDeps))
				for i, dep := range newDeps {
					lts[i] = dep.WhenChangedNotify(t)
				}
				newSubs = Combine(lts...)
			}

			resetDependencies()

			t.depsMu.Lock()
			t.deps = newDeps
			t.subs = newSubs
			t.depsMu.Unlock()

			oldSubs.Done()
		}
	})
}
