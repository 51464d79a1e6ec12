package cell

// Cell is the public view of any concrete cell of value type T: stored,
// computed, attachment point, array, or external-source. AttachmentPoint
// uses this to hold "whatever kind of cell is currently attached"
// without caring which concrete kind it is.
type Cell[T any] interface {
	Changeable
	Read() T
	Peek() T
	MarkAsChanged()
	IsBound() *StoredCell[bool]
}

// Writable is a Cell that also accepts direct writes: StoredCell,
// ArrayCell, and a mutable AttachmentPoint all satisfy it, which is what
// lets a mutable AttachmentPoint chain to another mutable AttachmentPoint
// without any special-cased "tagged variant" — the write simply forwards
// through however many hops of Writable implement it.
type Writable[T any] interface {
	Cell[T]
	Write(T)
}
