package cell

import (
	"sync"
	"testing"
)

func TestAddDependencyDedupesWithinFrame(t *testing.T) {
	a := NewStored(1)
	var deps []Changeable
	withNewContext(func() {
		a.Read()
		a.Read()
		a.Read()
		deps = currentDependencies()
	})
	if len(deps) != 1 {
		t.Fatalf("got %d deps, want 1 (deduped)", len(deps))
	}
}

func TestAddDependencyOutsideFrameIsNoop(t *testing.T) {
	a := NewStored(1)
	a.Read() // no active frame: must not panic
	if d := currentDependencies(); d != nil {
		t.Fatalf("expected no active frame, got %v", d)
	}
}

func TestUntrackedSuppressesCapture(t *testing.T) {
	a := NewStored(1)
	var deps []Changeable
	withNewContext(func() {
		Untracked(func() {
			a.Read()
		})
		deps = currentDependencies()
	})
	if len(deps) != 0 {
		t.Fatalf("got %d deps, want 0 under Untracked", len(deps))
	}
}

func TestUntrackedNestedInsideTrackedStillTracksOuter(t *testing.T) {
	a := NewStored(1)
	b := NewStored(2)
	var deps []Changeable
	withNewContext(func() {
		a.Read()
		Untracked(func() {
			b.Read()
		})
		deps = currentDependencies()
	})
	if len(deps) != 1 {
		t.Fatalf("got %d deps, want 1 (only a)", len(deps))
	}
}

func TestDependenciesDifferDetectsOrderChange(t *testing.T) {
	a := NewStored(1)
	b := NewStored(2)

	withNewContext(func() {
		setExpectedDependencies([]Changeable{a.asChangeable(), b.asChangeable()})
		b.Read()
		a.Read()
		if !dependenciesDiffer() {
			t.Fatal("expected order change to be detected as a difference")
		}
	})
}

func TestDependenciesDifferFalseWhenUnchanged(t *testing.T) {
	a := NewStored(1)
	b := NewStored(2)

	withNewContext(func() {
		a.Read()
		b.Read()
		setExpectedDependencies(currentDependencies())
	})

	withNewContext(func() {
		setExpectedDependencies([]Changeable{a.asChangeable(), b.asChangeable()})
		a.Read()
		b.Read()
		if dependenciesDiffer() {
			t.Fatal("expected no difference for identical dependency sequence")
		}
	})
}

func TestDependenciesDifferTrueWithNoExpectation(t *testing.T) {
	withNewContext(func() {
		if !dependenciesDiffer() {
			t.Fatal("expected differ=true when no expectation was ever set")
		}
	})
}

func TestResetDependenciesClearsFrame(t *testing.T) {
	a := NewStored(1)
	withNewContext(func() {
		a.Read()
		resetDependencies()
		if len(currentDependencies()) != 0 {
			t.Fatal("expected empty dependency set after reset")
		}
	})
}

func TestFramesAreGoroutineLocal(t *testing.T) {
	a := NewStored(1)
	var wg sync.WaitGroup
	results := make([]int, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			withNewContext(func() {
				a.Read()
				results[i] = len(currentDependencies())
			})
		}(i)
	}
	wg.Wait()
	for i, r := range results {
		if r != 1 {
			t.Fatalf("goroutine %d: got %d deps, want 1", i, r)
		}
	}
}

func TestRunOnPooledCarrierEstablishesFrame(t *testing.T) {
	a := NewStored(1)
	var sawDependency bool
	RunOnPooledCarrier(func() {
		withNewContext(func() {
			a.Read()
			sawDependency = len(currentDependencies()) == 1
		})
	})
	if !sawDependency {
		t.Fatal("expected a dependency-capture frame to work on a pooled carrier")
	}
}

func TestRunOnPooledCarrierRunsManyConcurrently(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]int, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			RunOnPooledCarrier(func() {
				results[i] = i * 2
			})
		}(i)
	}
	wg.Wait()
	for i, r := range results {
		if r != i*2 {
			t.Fatalf("result[%d]=%d, want %d", i, r, i*2)
		}
	}
}
