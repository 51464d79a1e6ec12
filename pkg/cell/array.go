package cell

import (
	"sync"

	cellerrors "github.com/cellbind/cellbind/internal/errors"
)

// Replacement describes one range-replace event on an ArrayCell: the
// half-open index range [Start, End) that was spliced, the elements that
// were there before, and the elements that replaced them.
type Replacement[T any] struct {
	Start, End int
	Replaced   []T
	New        []T
}

// ArrayCell is a StoredCell holding an ordered sequence, with an
// additional range-replace write path that splices in place rather than
// replacing the whole slice, and a lazily-created LastReplacement cell
// describing the most recent splice.
//
// Scalar accessors (Index, Count, First, Last, IndexOf) all register this
// ArrayCell as a dependency of the active capture frame, the same as a
// full Read would — and they are invalidated on *any* write to the array,
// not just one that actually changes the accessed scalar. This is the
// conservative default; WithScalarChangeFilter opts into the tightened
// behavior.
type ArrayCell[T any] struct {
	StoredCell[[]T]

	lrMu                sync.Mutex
	lastReplacementCell *StoredCell[Replacement[T]]
}

// NewArray creates an ArrayCell over a copy of initial.
func NewArray[T any](initial []T) *ArrayCell[T] {
	arr := &ArrayCell[T]{}
	arr.StoredCell.equal = func(a, b []T) bool { return false }
	arr.StoredCell.base = newBase[[]T](&arr.StoredCell)
	arr.StoredCell.bindSelf(&arr.StoredCell)
	arr.StoredCell.setCache(append([]T(nil), initial...))
	return arr
}

// LastReplacement returns the lazily-created cell describing the most
// recent range-replace event. Its zero value (before any ReplaceRange
// call) is an empty Replacement.
func (arr *ArrayCell[T]) LastReplacement() *StoredCell[Replacement[T]] {
	arr.lrMu.Lock()
	defer arr.lrMu.Unlock()
	if arr.lastReplacementCell == nil {
		arr.lastReplacementCell = NewStoredOpaque(Replacement[T]{})
	}
	return arr.lastReplacementCell
}

// ReplaceRange splices newElements into [start, end) of the array,
// firing observers and, if LastReplacement has been constructed,
// recording the splice descriptor into it. Panics with a C004 error if
// the range is out of bounds.
func (arr *ArrayCell[T]) ReplaceRange(start, end int, newElements []T) {
	old := arr.Peek()
	if start < 0 || end < start || end > len(old) {
		panic(cellerrors.New("C004"))
	}

	replaced := append([]T(nil), old[start:end]...)
	next := make([]T, 0, len(old)-(end-start)+len(newElements))
	next = append(next, old[:start]...)
	next = append(next, newElements...)
	next = append(next, old[end:]...)

	arr.setCache(next)
	arr.fireObservers()

	arr.lrMu.Lock()
	lr := arr.lastReplacementCell
	arr.lrMu.Unlock()
	if lr != nil {
		lr.Write(Replacement[T]{
			Start:    start,
			End:      end,
			Replaced: replaced,
			New:      append([]T(nil), newElements...),
		})
	}
}

// InsertAt inserts newElements starting at index, shifting subsequent
// elements right. Equivalent to ReplaceRange(index, index, newElements).
func (arr *ArrayCell[T]) InsertAt(index int, newElements ...T) {
	arr.ReplaceRange(index, index, newElements)
}

// RemoveRange removes [start, end), equivalent to ReplaceRange(start,
// end, nil).
func (arr *ArrayCell[T]) RemoveRange(start, end int) {
	arr.ReplaceRange(start, end, nil)
}

// Index returns the element at i, registering a dependency on the whole
// array.
func (arr *ArrayCell[T]) Index(i int) T {
	return arr.Read()[i]
}

// RangeSlice returns a copy of elements [lo, hi), registering a
// dependency on the whole array.
func (arr *ArrayCell[T]) RangeSlice(lo, hi int) []T {
	v := arr.Read()
	return append([]T(nil), v[lo:hi]...)
}

// Count returns the number of elements, registering a dependency on the
// whole array.
func (arr *ArrayCell[T]) Count() int {
	return len(arr.Read())
}

// First returns the first element and true, or the zero value and false
// if the array is empty. Registers a dependency on the whole array.
func (arr *ArrayCell[T]) First() (T, bool) {
	v := arr.Read()
	var zero T
	if len(v) == 0 {
		return zero, false
	}
	return v[0], true
}

// Last returns the last element and true, or the zero value and false if
// the array is empty. Registers a dependency on the whole array.
func (arr *ArrayCell[T]) Last() (T, bool) {
	v := arr.Read()
	var zero T
	if len(v) == 0 {
		return zero, false
	}
	return v[len(v)-1], true
}

// IndexOf returns the index of the first element satisfying predicate,
// or -1 if none does. Registers a dependency on the whole array.
func (arr *ArrayCell[T]) IndexOf(predicate func(T) bool) int {
	v := arr.Read()
	for i, e := range v {
		if predicate(e) {
			return i
		}
	}
	return -1
}

// FilteredScalarCell is the opt-in tightening of ArrayCell's scalar
// accessors: rather than notifying on any write to the backing array, it
// recomputes eagerly on every invalidation and only fires its own
// observers when the recomputed scalar actually differs from the
// previous one.
type FilteredScalarCell[T any, S comparable] struct {
	base[S]
	arr  *ArrayCell[T]
	read func(*ArrayCell[T]) S
	sub  *Lifetime
}

// WithScalarChangeFilter builds a FilteredScalarCell over arr using read
// (typically arr.Count, or a closure around arr.First/arr.Last). Unlike
// reading arr's accessors directly, the returned cell only notifies
// observers when the scalar's value actually changes.
func WithScalarChangeFilter[T any, S comparable](arr *ArrayCell[T], read func(*ArrayCell[T]) S) *FilteredScalarCell[T, S] {
	f := &FilteredScalarCell[T, S]{arr: arr, read: read}
	f.base = newBase[S](f)
	f.bindSelf(f)
	f.setCache(read(arr))
	f.sub = arr.WhenChangedNotify(f)
	return f
}

func (f *FilteredScalarCell[T, S]) weakRef() weakHandle { return makeWeakHandle(f) }

func (f *FilteredScalarCell[T, S]) computeValue() S               { return f.read(f.arr) }
func (f *FilteredScalarCell[T, S]) needsUpdate(hasCache bool) bool { return !hasCache }
func (f *FilteredScalarCell[T, S]) beginObserving()                {}
func (f *FilteredScalarCell[T, S]) doneObserving()                 {}

// MarkAsChanged overrides base's default drop-cache-and-fire: it
// recomputes immediately and only fires observers if the freshly
// computed scalar differs from the cached one, which is the whole point
// of this type.
func (f *FilteredScalarCell[T, S]) MarkAsChanged() {
	next := f.read(f.arr)

	f.mu.Lock()
	same := f.hasValue && f.value == next
	f.value = next
	f.hasValue = true
	f.mu.Unlock()

	if !same {
		f.fireObservers()
	}
}
