package cell

// This file collects small typed convenience wrappers over the core
// cell kinds: the underlying cell already does everything these need,
// these just give common mutations short names.

// BoolCell is a StoredCell[bool] with a Toggle convenience.
type BoolCell struct {
	*StoredCell[bool]
}

// NewBool creates a BoolCell.
func NewBool(initial bool) BoolCell {
	return BoolCell{NewStored(initial)}
}

// Toggle flips the stored value and returns the new value.
func (b BoolCell) Toggle() bool {
	v := !b.Peek()
	b.Write(v)
	return v
}

// IntCell is a StoredCell[int] with arithmetic convenience methods.
type IntCell struct {
	*StoredCell[int]
}

// NewInt creates an IntCell.
func NewInt(initial int) IntCell {
	return IntCell{NewStored(initial)}
}

// Add adds delta to the stored value and returns the new value.
func (i IntCell) Add(delta int) int {
	v := i.Peek() + delta
	i.Write(v)
	return v
}

// Increment adds 1 and returns the new value.
func (i IntCell) Increment() int { return i.Add(1) }

// Decrement subtracts 1 and returns the new value.
func (i IntCell) Decrement() int { return i.Add(-1) }

// MapCell is a StoredCell over a map, with per-key convenience methods
// that go through Update so the configured change-detection policy
// still governs notification.
type MapCell[K comparable, V any] struct {
	*StoredCell[map[K]V]
}

// NewMap creates a MapCell over a copy of initial (an opaque
// change-detection policy, since maps aren't directly comparable).
func NewMap[K comparable, V any](initial map[K]V) MapCell[K, V] {
	cp := make(map[K]V, len(initial))
	for k, v := range initial {
		cp[k] = v
	}
	return MapCell[K, V]{NewStoredOpaque(cp)}
}

// Get returns the value for key and whether it was present.
func (m MapCell[K, V]) Get(key K) (V, bool) {
	v, ok := m.Read()[key]
	return v, ok
}

// Set stores value at key, always firing observers (opaque policy).
func (m MapCell[K, V]) Set(key K, value V) {
	m.Update(func(cur map[K]V) map[K]V {
		next := make(map[K]V, len(cur)+1)
		for k, v := range cur {
			next[k] = v
		}
		next[key] = value
		return next
	})
}

// Delete removes key, always firing observers (opaque policy).
func (m MapCell[K, V]) Delete(key K) {
	m.Update(func(cur map[K]V) map[K]V {
		next := make(map[K]V, len(cur))
		for k, v := range cur {
			if k == key {
				continue
			}
			next[k] = v
		}
		return next
	})
}

// SliceCell wraps an ArrayCell with list-shaped convenience mutations
// that translate to ReplaceRange splices.
type SliceCell[T any] struct {
	*ArrayCell[T]
}

// NewSlice creates a SliceCell over a copy of initial.
func NewSlice[T any](initial []T) SliceCell[T] {
	return SliceCell[T]{NewArray(initial)}
}

// Append adds elements to the end.
func (s SliceCell[T]) Append(elements ...T) {
	n := s.Count()
	s.ReplaceRange(n, n, elements)
}

// Prepend adds elements to the beginning.
func (s SliceCell[T]) Prepend(elements ...T) {
	s.ReplaceRange(0, 0, elements)
}

// RemoveAt removes the element at index.
func (s SliceCell[T]) RemoveAt(index int) {
	s.RemoveRange(index, index+1)
}

// Clear removes all elements.
func (s SliceCell[T]) Clear() {
	s.ReplaceRange(0, s.Count(), nil)
}
