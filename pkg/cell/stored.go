package cell

import (
	"reflect"

	cellerrors "github.com/cellbind/cellbind/internal/errors"
)

// StoredCell holds a value supplied from outside the dependency graph.
// Writes compare against the last stored value using the cell's
// change-detection policy and fire observers only when the policy says
// the value actually changed (the first write always counts as
// changed). compute_value is unreachable on a StoredCell — its cache is
// always present from construction onward — and calling it is a fatal
// programming error.
type StoredCell[T any] struct {
	base[T]
	equal func(a, b T) bool
}

// NewStored creates a StoredCell using value-equality (==) as its
// change-detection policy, for T that support it directly.
func NewStored[T comparable](initial T) *StoredCell[T] {
	return NewStoredWithEquals(initial, func(a, b T) bool { return a == b })
}

// NewStoredIdentity creates a StoredCell whose change-detection policy
// is reference identity: new_value counts as unchanged only if it is the
// same pointer/slice/map/chan/func header as the old one. Intended for
// reference types where value-equality isn't the right comparison.
func NewStoredIdentity[T any](initial T) *StoredCell[T] {
	return NewStoredWithEquals(initial, identityEqual[T])
}

// NewStoredOpaque creates a StoredCell whose change-detection policy is
// "always notify": every write counts as a change, regardless of value.
// Intended for types with no meaningful identity or equality comparison.
func NewStoredOpaque[T any](initial T) *StoredCell[T] {
	return NewStoredWithEquals(initial, func(a, b T) bool { return false })
}

// NewStoredWithEquals creates a StoredCell with a caller-supplied
// change-detection policy. equal reports whether two values should be
// considered the same for notification purposes (true = no notify).
func NewStoredWithEquals[T any](initial T, equal func(a, b T) bool) *StoredCell[T] {
	s := &StoredCell[T]{equal: equal}
	s.base = newBase[T](s)
	s.bindSelf(s)
	s.setCache(initial)
	return s
}

func (s *StoredCell[T]) weakRef() weakHandle { return makeWeakHandle(s) }

func (s *StoredCell[T]) computeValue() T {
	panic(cellerrors.New("C001"))
}

func (s *StoredCell[T]) needsUpdate(hasCache bool) bool { return false }
func (s *StoredCell[T]) beginObserving()                {}
func (s *StoredCell[T]) doneObserving()                 {}

// MarkAsChanged overrides base's default (drop-cache-then-fire): a
// StoredCell's cache is never considered absent, so marking it changed
// just re-fires observers against the current value.
func (s *StoredCell[T]) MarkAsChanged() {
	s.fireObservers()
}

// Write stores new_value unconditionally and fires observers iff the
// configured change-detection policy says it differs from the previous
// value.
func (s *StoredCell[T]) Write(newValue T) {
	s.mu.Lock()
	old := s.value
	changed := !s.hasValue || !s.equal(old, newValue)
	s.value = newValue
	s.hasValue = true
	s.mu.Unlock()

	if changed {
		s.fireObservers()
	}
}

// Update reads the current value, applies fn, and writes the result
// back through the normal Write path (so the configured change-detection
// policy still applies).
func (s *StoredCell[T]) Update(fn func(T) T) {
	s.Write(fn(s.Peek()))
}

// identityEqual compares a and b by reference identity for kinds that
// have one (pointer, map, chan, func, unsafe pointer, slice); for any
// other kind it falls back to a direct comparison if T is comparable,
// and treats the two as always-different if it is not.
func identityEqual[T any](a, b T) bool {
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if !av.IsValid() || !bv.IsValid() {
		return av.IsValid() == bv.IsValid()
	}
	switch av.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return av.Pointer() == bv.Pointer()
	case reflect.Slice:
		return av.Pointer() == bv.Pointer() && av.Len() == bv.Len()
	default:
		if av.Comparable() {
			return any(a) == any(b)
		}
		return false
	}
}
