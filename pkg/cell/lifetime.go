package cell

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	cellerrors "github.com/cellbind/cellbind/internal/errors"
)

// lifetimeState is the state of a Lifetime's small state machine:
// active -> done, or active -> pinned.
type lifetimeState int32

const (
	lifetimeActive lifetimeState = iota
	lifetimeDone
	lifetimePinned
)

// Lifetime is a disposable subscription token. Done releases whatever the
// Lifetime guards (at most once); Forever pins the subscription for the
// remaining life of the process and guarantees the release callback will
// never run. Composite Lifetimes (built by LiveAsLongAs) apply Done/
// Forever to every member.
type Lifetime struct {
	state   atomic.Int32
	release func()

	// children holds composed Lifetimes for composites. Composites are
	// flattened at construction time so there is never a composite whose
	// own children include another composite.
	children []*Lifetime
}

// NewLifetime wraps release in a Lifetime. release runs at most once, the
// first time Done is called while the Lifetime is still active; it never
// runs if Forever is called first, or if the Lifetime is a no-op (nil
// release).
func NewLifetime(release func()) *Lifetime {
	lt := &Lifetime{release: release}
	lt.state.Store(int32(lifetimeActive))
	return lt
}

// Done idempotently transitions active -> done and runs the release
// callback exactly once. A no-op if the Lifetime is already done or
// pinned.
func (lt *Lifetime) Done() {
	if lt == nil {
		return
	}
	if !lt.state.CompareAndSwap(int32(lifetimeActive), int32(lifetimeDone)) {
		return
	}
	if lt.release != nil {
		runReleaseCallback(lt.release)
	}
	for _, c := range lt.children {
		c.Done()
	}
}

// Forever transitions active -> pinned, suppressing the release callback
// for the remaining life of the process (or until the underlying source
// cell is itself destroyed). A no-op if already done or pinned.
func (lt *Lifetime) Forever() {
	if lt == nil {
		return
	}
	if !lt.state.CompareAndSwap(int32(lifetimeActive), int32(lifetimePinned)) {
		return
	}
	for _, c := range lt.children {
		c.Forever()
	}
}

// IsActive reports whether the Lifetime is still in the active state
// (neither Done nor Forever has been called).
func (lt *Lifetime) IsActive() bool {
	return lt != nil && lifetimeState(lt.state.Load()) == lifetimeActive
}

// LiveAsLongAs returns a composite Lifetime whose Done calls Done on both
// lt and other, and whose Forever calls Forever on both. Composite
// Lifetimes are flattened: composing a composite with another Lifetime
// produces one flat list of children, never a tree of composites.
func (lt *Lifetime) LiveAsLongAs(other *Lifetime) *Lifetime {
	composite := &Lifetime{}
	composite.state.Store(int32(lifetimeActive))
	composite.children = flattenLifetimes(lt, other)
	return composite
}

// Combine returns a composite Lifetime over all of the given members,
// flattened the same way LiveAsLongAs flattens two.
func Combine(members ...*Lifetime) *Lifetime {
	composite := &Lifetime{}
	composite.state.Store(int32(lifetimeActive))
	for _, m := range members {
		composite.children = append(composite.children, flattenLifetimes(m)...)
	}
	return composite
}

func flattenLifetimes(members ...*Lifetime) []*Lifetime {
	var flat []*Lifetime
	for _, m := range members {
		if m == nil {
			continue
		}
		if len(m.children) > 0 {
			// m is itself a composite: splice its children in directly.
			flat = append(flat, m.children...)
			continue
		}
		flat = append(flat, m)
	}
	return flat
}

// LiveAsLongAsObject ties lt's lifetime to host's: when host becomes
// unreachable to the garbage collector, lt.Done runs automatically. This
// uses Go's own GC cleanup hook rather than a hand-rolled weak identity
// map, tying a Lifetime's teardown to an arbitrary host object's
// reachability without the caller needing to call Done explicitly.
//
// Must be a free function, not a method, because Go methods cannot carry
// their own type parameters: T is inferred from host.
func LiveAsLongAsObject[T any](lt *Lifetime, host *T) *Lifetime {
	composite := lt.LiveAsLongAs(NewLifetime(nil))
	runtime.AddCleanup(host, func(target *Lifetime) { target.Done() }, composite)
	return composite
}

// runReleaseCallback runs a release callback, recovering and logging a
// panic rather than letting it propagate out of Done — resource-release
// errors from host-provided deregistration callbacks must be logged and
// never propagate.
func runReleaseCallback(release func()) {
	defer func() {
		if r := recover(); r != nil {
			logReleaseCallbackPanic(r)
		}
	}()
	release()
}

var releaseCallbackPanicHook func(any) = defaultReleaseCallbackPanicHook
var releaseCallbackPanicMu sync.Mutex

// SetReleaseCallbackPanicHook installs a handler invoked whenever a
// release callback passed to a Lifetime panics. By default the panic is
// rendered through internal/errors' C101 template and written to
// stderr; hosts that want to route it elsewhere (a structured logger, a
// metrics counter) install their own hook here. Passing nil suppresses
// logging entirely.
func SetReleaseCallbackPanicHook(hook func(any)) {
	releaseCallbackPanicMu.Lock()
	defer releaseCallbackPanicMu.Unlock()
	releaseCallbackPanicHook = hook
}

func logReleaseCallbackPanic(r any) {
	releaseCallbackPanicMu.Lock()
	hook := releaseCallbackPanicHook
	releaseCallbackPanicMu.Unlock()
	if hook != nil {
		hook(r)
	}
}

// defaultReleaseCallbackPanicHook is installed unless a host replaces it
// via SetReleaseCallbackPanicHook: it logs the panic through C101's
// Format() rather than dropping it silently.
func defaultReleaseCallbackPanicHook(r any) {
	err := cellerrors.New("C101").WithCause(fmt.Errorf("%v", r))
	fmt.Fprintln(os.Stderr, err.Format())
}
