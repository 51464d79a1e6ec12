package cell

import (
	"runtime"
	"testing"
)

func TestSimpleBinding(t *testing.T) {
	b := NewStored(1)
	if got := b.Read(); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	b.Write(2)
	if got := b.Read(); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}

// TestComputedDependencyChange exercises a compute function whose
// dependency set changes across recomputations: b only matters while
// a == 0, and must stop being a dependency once a goes nonzero again.
func TestComputedDependencyChange(t *testing.T) {
	a := NewStored(1)
	b := NewStored(2)
	c := NewComputed(func() int {
		if a.Read() == 0 {
			return b.Read()
		}
		return a.Read()
	})

	if got := c.Read(); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	a.Write(3)
	if got := c.Read(); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
	a.Write(0)
	if got := c.Read(); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
	b.Write(4)
	if got := c.Read(); got != 4 {
		t.Fatalf("got %d, want 4", got)
	}
	a.Write(5)
	if got := c.Read(); got != 5 {
		t.Fatalf("got %d, want 5", got)
	}

	// b is no longer a dependency now that a != 0.
	b.Write(6)
	if got := c.Read(); got != 5 {
		t.Fatalf("got %d, want 5 (b should not be a dependency any more)", got)
	}
}

// TestObserverIterativeSelfStabilisation checks that an observer which
// writes back to the cell it watches converges via iteration, not
// recursion, and does not stack-overflow.
func TestObserverIterativeSelfStabilisation(t *testing.T) {
	b := NewStored(1)
	lt := b.Observe(func(v int) {
		if v < 5 {
			b.Write(v + 1)
		}
	})
	lt.Forever()

	if got := b.Read(); got != 5 {
		t.Fatalf("got %d, want 5", got)
	}

	b.Write(0)
	if got := b.Read(); got != 5 {
		t.Fatalf("got %d, want 5 after re-stabilising", got)
	}
}

func TestTriggerCoalescing(t *testing.T) {
	b := NewStored(1)
	var readValue int
	updateCount := 0

	invoke, lt := NewTrigger(
		func() { readValue = b.Read() },
		func() { updateCount++ },
	)

	b.Write(2)
	if updateCount != 0 {
		t.Fatalf("pre-invoke write should not fire: updateCount=%d", updateCount)
	}

	invoke()
	if readValue != 2 || updateCount != 0 {
		t.Fatalf("after first invoke: readValue=%d updateCount=%d, want 2,0", readValue, updateCount)
	}

	b.Write(3)
	b.Write(4)
	if updateCount != 1 {
		t.Fatalf("expected coalesced single update, got %d", updateCount)
	}

	invoke()
	if readValue != 4 {
		t.Fatalf("readValue=%d, want 4", readValue)
	}

	b.Write(5)
	if updateCount != 2 {
		t.Fatalf("updateCount=%d, want 2", updateCount)
	}

	lt.Done()
	b.Write(6)
	if updateCount != 2 {
		t.Fatalf("updateCount changed after lt.Done(): %d", updateCount)
	}
}

func TestArrayRangeReplacement(t *testing.T) {
	arr := NewArray([]int{1})

	var fired int
	lt := arr.LastReplacement().Observe(func(Replacement[int]) {
		fired++
	})
	defer lt.Done()

	arr.InsertAt(0, 0)

	got := arr.Read()
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("got %v, want [0 1]", got)
	}

	lr := arr.LastReplacement().Read()
	if lr.Start != 0 || lr.End != 0 || len(lr.Replaced) != 0 || len(lr.New) != 1 || lr.New[0] != 0 {
		t.Fatalf("unexpected replacement descriptor: %+v", lr)
	}

	if fired != 2 {
		t.Fatalf("expected subscriber called twice (initial + change), got %d", fired)
	}
}

// TestComputedRelease checks that once all references and subscriptions
// drop, a computed cell releases its upstream subscription and stops
// being bound.
func TestComputedRelease(t *testing.T) {
	a := NewStored(1)

	var fired int
	func() {
		c := NewComputed(func() int { return a.Read() + 1 })
		lt := c.WhenChanged(func() { fired++ })

		a.Write(2)
		if fired != 1 {
			t.Fatalf("expected observer to fire once, got %d", fired)
		}
		if !c.IsBound().Read() {
			t.Fatal("computed should be bound while observed")
		}

		lt.Done()
		if c.IsBound().Read() {
			t.Fatal("computed should not be bound after subscription released")
		}
	}()

	runtime.GC()
	runtime.GC()

	before := fired
	a.Write(3)
	if fired != before {
		t.Fatalf("observer fired after release: fired=%d before=%d", fired, before)
	}
}
