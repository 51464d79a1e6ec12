package cell

import (
	"context"
	"runtime"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/semaphore"
)

// dependencyFrame is the per-evaluation record that collects a dependency
// set: an ordered list of Changeables read so far, deduplicated, plus an
// optional snapshot of the prior run's set used for order-sensitive
// equality checking.
type dependencyFrame struct {
	dependencies []Changeable
	seen         mapset.Set[Changeable]
	expected     []Changeable
	hasExpected  bool
	disabled     bool
}

// evalContext is a goroutine-local stack of dependencyFrames. Frames are
// never shared across goroutines: a frame pushed on one goroutine must be
// popped on that same goroutine.
type evalContext struct {
	frames []*dependencyFrame
}

// contexts maps a goroutine id to its evalContext, keyed by a parsed
// stack-trace id. It is the simplest mechanism that gives every goroutine
// its own frame stack without threading a context parameter through
// every cell method.
var contexts sync.Map // map[uint64]*evalContext

// getGoroutineID extracts the calling goroutine's id from runtime.Stack.
// It must not be relied on for anything but keying this package's own
// per-goroutine maps.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // skip the "goroutine " prefix
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func currentEvalContext() *evalContext {
	gid := getGoroutineID()
	if v, ok := contexts.Load(gid); ok {
		return v.(*evalContext)
	}
	ec := &evalContext{}
	contexts.Store(gid, ec)
	return ec
}

// current returns the top-of-stack frame for the calling goroutine, or
// nil if no capture is active.
func current() *dependencyFrame {
	ec := currentEvalContext()
	if len(ec.frames) == 0 {
		return nil
	}
	return ec.frames[len(ec.frames)-1]
}

// withNewContext pushes a fresh frame, runs body, and pops — even if body
// panics, so a failed computation never leaves a stale frame behind for
// the next evaluation on this goroutine. Returns the (possibly discarded,
// on panic) frame so the caller can inspect the captured dependency set.
func withNewContext(body func()) *dependencyFrame {
	ec := currentEvalContext()
	f := &dependencyFrame{}
	ec.frames = append(ec.frames, f)
	defer func() {
		ec.frames = ec.frames[:len(ec.frames)-1]
	}()
	body()
	return f
}

// addDependency appends changeable to the current frame's dependency set,
// exactly once per resolve() call — a cell read twice during one
// evaluation is recorded once. A no-op if no frame is active or the
// active frame is running under Untracked.
func addDependency(c Changeable) {
	f := current()
	if f == nil || f.disabled {
		return
	}
	if f.seen == nil {
		f.seen = mapset.NewThreadUnsafeSet[Changeable]()
	}
	if f.seen.Contains(c) {
		return
	}
	f.seen.Add(c)
	f.dependencies = append(f.dependencies, c)
}

// setExpectedDependencies attaches a prior dependency set to the current
// frame for diffing via dependenciesDiffer. A no-op if no frame is
// active.
func setExpectedDependencies(snapshot []Changeable) {
	f := current()
	if f == nil {
		return
	}
	f.expected = snapshot
	f.hasExpected = true
}

// dependenciesDiffer reports whether the current frame's observed
// dependency set differs from its expected set — missing, by length, or
// by element identity at any position (order-sensitive).
func dependenciesDiffer() bool {
	f := current()
	if f == nil || !f.hasExpected {
		return true
	}
	if len(f.dependencies) != len(f.expected) {
		return true
	}
	for i, dep := range f.dependencies {
		if dep != f.expected[i] {
			return true
		}
	}
	return false
}

// currentDependencies returns the current frame's observed dependency
// set. A no-op (nil) if no frame is active.
func currentDependencies() []Changeable {
	f := current()
	if f == nil {
		return nil
	}
	return f.dependencies
}

// resetDependencies replaces the current frame's observed set with empty.
// Used before dropping old subscriptions during a dependency rewire, so
// that any transitive reads those drops trigger do not leak back into
// this frame's dependency set.
func resetDependencies() {
	f := current()
	if f == nil {
		return
	}
	f.dependencies = nil
	f.seen = nil
}

// Untracked runs fn with dependency capture suspended: cells read inside
// fn do not become dependencies of whatever evaluation (if any) is
// already in progress on the calling goroutine.
func Untracked(fn func()) {
	ec := currentEvalContext()
	f := &dependencyFrame{disabled: true}
	ec.frames = append(ec.frames, f)
	defer func() {
		ec.frames = ec.frames[:len(ec.frames)-1]
	}()
	fn()
}

// =============================================================================
// Pooled worker carriers: evaluation that must happen inside a capture
// context, with none established on the calling goroutine, runs on
// one of a small set of reusable carrier goroutines instead of paying for
// a fresh per-call frame stack. Each carrier is a long-lived goroutine
// with its own stable evalContext (by the same per-goroutine map above);
// golang.org/x/sync's weighted semaphore bounds how many callers may be
// waiting on a carrier at once, giving the pool backpressure instead of
// unbounded goroutine fan-out if every carrier is busy.
// =============================================================================

const carrierPoolSize = 8

type carrierJob struct {
	fn   func()
	done chan struct{}
}

var (
	carrierOnce sync.Once
	carrierJobs chan carrierJob
	carrierSem  = semaphore.NewWeighted(carrierPoolSize)
)

func initCarrierPool() {
	carrierJobs = make(chan carrierJob)
	for i := 0; i < carrierPoolSize; i++ {
		go func() {
			for j := range carrierJobs {
				j.fn()
				close(j.done)
			}
		}()
	}
}

// RunOnPooledCarrier runs fn synchronously on one of the package's small
// set of reusable worker carriers, blocking until a carrier is free and
// until fn returns. Intended for evaluation triggered from a goroutine
// this package does not otherwise track (e.g. an ExternalValueSource's
// change callback arriving on an arbitrary host thread) that still needs
// a dependency-capture context to exist.
func RunOnPooledCarrier(fn func()) {
	carrierOnce.Do(initCarrierPool)

	if err := carrierSem.Acquire(context.Background(), 1); err != nil {
		// context.Background() never cancels; Acquire can only fail here
		// if the weight requested exceeds the semaphore's total size,
		// which would be a programming error in this file, not a
		// runtime condition callers need to handle.
		panic(err)
	}
	defer carrierSem.Release(1)

	j := carrierJob{fn: fn, done: make(chan struct{})}
	carrierJobs <- j
	<-j.done
}
