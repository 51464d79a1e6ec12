package errors

// registry maps error codes to their templates. Codes are grouped by the
// category they belong to.
var registry = map[string]Error{
	// ============================================
	// Programmer errors (C0xx) — always fatal.
	// ============================================

	"C001": {
		Category: CategoryProgrammer,
		Message:  "compute_value invoked on a StoredCell",
		Detail:   "StoredCell always has a present cache after construction; compute_value is only reachable on a cell type that can legitimately be dirty. This indicates a bug in the engine itself, not caller misuse.",
	},
	"C002": {
		Category: CategoryProgrammer,
		Message:  "attach_to would form a static attachment cycle",
		Detail:   "An AttachmentPoint cannot be attached (directly or transitively through chained attachment) to itself. Check the chain of AttachTo calls leading here.",
	},
	"C003": {
		Category: CategoryProgrammer,
		Message:  "write on a mutable AttachmentPoint with no writable target attached",
		Detail:   "Write was called on a mutable AttachmentPoint whose current target is missing or does not implement Writable, so there is nothing to forward the write to.",
	},
	"C004": {
		Category: CategoryProgrammer,
		Message:  "range replacement out of bounds",
		Detail:   "The range passed to ArrayCell's range-replace write does not fit within the current element count.",
	},
	"C005": {
		Category: CategoryProgrammer,
		Message:  "write called on an immutable AttachmentPoint",
		Detail:   "Write is only valid on an AttachmentPoint created with NewMutableAttachment. Use AttachTo to retarget an immutable AttachmentPoint instead.",
	},

	// ============================================
	// Release-callback errors (C1xx) — logged, never propagated.
	// ============================================

	"C101": {
		Category: CategoryRelease,
		Message:  "host release callback panicked during Lifetime.Done",
		Detail:   "A Lifetime composed via LiveAsLongAsObject or an ExternalSourceCell's unsubscribe callback panicked while running its release logic. The panic was recovered and logged; the Lifetime is still marked done.",
	},
}
