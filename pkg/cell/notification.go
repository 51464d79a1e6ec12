package cell

import (
	"sync"
	"weak"

	mapset "github.com/deckarep/golang-set/v2"
)

// Notifiable is anything that accepts a "mark as changed" signal.
// ComputedCell, Trigger and the closure adapter behind WhenChanged/Observe
// all implement it.
type Notifiable interface {
	MarkAsChanged()
}

// Changeable is anything that can notify observers that it has changed.
// Cell[T] implements it.
type Changeable interface {
	WhenChangedNotify(target Notifiable) *Lifetime
}

// weakHandle resolves a weak reference back to its target, or reports the
// target has been collected.
type weakHandle interface {
	resolve() Notifiable
}

// weakable is implemented by every concrete Notifiable this package
// produces (ComputedCell, Trigger, the closure adapter). It is how
// NotificationSet obtains a weak.Pointer without needing to know the
// concrete pointee type at the call site: weakRef is implemented on the
// concrete type itself, where that type is statically known.
type weakable interface {
	Notifiable
	weakRef() weakHandle
	notifiableID() uint64
}

// makeWeakHandle builds a weakHandle from a concrete pointer. Call sites
// are always inside a method on the concrete type (*Trigger, *ComputedCell[T],
// *closureNotifiable), so T is known statically there even though
// NotificationSet itself only ever sees the Notifiable/weakable interface.
func makeWeakHandle[T any](ptr *T) weakHandle {
	return typedWeakHandle[T]{ptr: weak.Make(ptr)}
}

type typedWeakHandle[T any] struct {
	ptr weak.Pointer[T]
}

// resolve converts the resurrected *T back to Notifiable. This only
// type-checks for a T whose *T actually implements Notifiable, which is
// exactly the contract weakRef's callers uphold: they only ever call
// makeWeakHandle(self) from inside a method on a type that implements
// Notifiable via a pointer receiver.
func (h typedWeakHandle[T]) resolve() Notifiable {
	p := h.ptr.Value()
	if p == nil {
		return nil
	}
	return any(p).(Notifiable)
}

// notificationEntry is one (possibly tombstoned) subscriber slot.
type notificationEntry struct {
	id   uint64
	ref  weakHandle
	refs int
	dead bool
}

// notificationSet is a weakly-held collection of observers with lazy
// compaction: fireAll iterates a snapshot, observers added during a fire
// do not run in that same pass, and disposing the Lifetime returned by
// add only tombstones that entry — compaction happens later, in
// compactIfNeeded, which fireAll calls after it finds a collected target.
type notificationSet struct {
	mu      sync.Mutex
	entries []*notificationEntry
	ids     mapset.Set[uint64]
}

func newNotificationSet() *notificationSet {
	return &notificationSet{ids: mapset.NewThreadUnsafeSet[uint64]()}
}

// add subscribes target weakly and returns a Lifetime that, once Done,
// releases this subscription. Duplicate live subscriptions for the
// same target id collapse onto the existing entry rather than creating a
// second one, matching the "no duplicate live entries" invariant; the
// entry counts its subscriptions and is tombstoned only once every one
// of their Lifetimes is Done.
func (s *notificationSet) add(target weakable) *Lifetime {
	id := target.notifiableID()

	s.mu.Lock()
	if s.ids.Contains(id) {
		for _, e := range s.entries {
			if e.id == id && !e.dead {
				entry := e
				entry.refs++
				s.mu.Unlock()
				return NewLifetime(func() { s.remove(entry) })
			}
		}
	}
	entry := &notificationEntry{id: id, ref: target.weakRef(), refs: 1}
	s.entries = append(s.entries, entry)
	s.ids.Add(id)
	s.mu.Unlock()

	return NewLifetime(func() { s.remove(entry) })
}

func (s *notificationSet) remove(entry *notificationEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.dead {
		return
	}
	entry.refs--
	if entry.refs > 0 {
		return
	}
	entry.dead = true
	s.ids.Remove(entry.id)
}

// compactIfNeeded drops tombstoned and collected entries from the backing
// slice. Safe to call at any time; never changes fireAll's correctness,
// only its memory footprint.
func (s *notificationSet) compactIfNeeded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compactLocked()
}

func (s *notificationSet) compactLocked() {
	live := s.entries[:0]
	for _, e := range s.entries {
		if e.dead {
			continue
		}
		if e.ref.resolve() == nil {
			e.dead = true
			s.ids.Remove(e.id)
			continue
		}
		live = append(live, e)
	}
	s.entries = live
}

// anyLive reports whether the set currently holds at least one live
// (non-tombstoned, not yet collected) target.
func (s *notificationSet) anyLive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.dead {
			continue
		}
		if e.ref.resolve() != nil {
			return true
		}
	}
	return false
}

// fireAll notifies every live observer exactly once, over a snapshot
// taken under the lock: observers subscribed during this call do not run
// in this pass. Observers that have been collected or tombstoned are
// skipped silently.
func (s *notificationSet) fireAll() {
	s.mu.Lock()
	snapshot := make([]*notificationEntry, len(s.entries))
	copy(snapshot, s.entries)
	s.mu.Unlock()

	sawDead := false
	for _, e := range snapshot {
		if e.dead {
			continue
		}
		target := e.ref.resolve()
		if target == nil {
			e.dead = true
			sawDead = true
			continue
		}
		target.MarkAsChanged()
	}
	if sawDead {
		s.compactIfNeeded()
	}
}
