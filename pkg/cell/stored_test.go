package cell

import "testing"

func TestStoredCellEqualityPolicySkipsRedundantFire(t *testing.T) {
	s := NewStored(1)
	fired := 0
	s.WhenChanged(func() { fired++ }).Forever()

	s.Write(1) // same value under == policy: no fire
	if fired != 0 {
		t.Fatalf("fired=%d, want 0 for unchanged value", fired)
	}
	s.Write(2)
	if fired != 1 {
		t.Fatalf("fired=%d, want 1", fired)
	}
}

func TestStoredCellOpaquePolicyAlwaysFires(t *testing.T) {
	s := NewStoredOpaque(1)
	fired := 0
	s.WhenChanged(func() { fired++ }).Forever()

	s.Write(1)
	s.Write(1)
	if fired != 2 {
		t.Fatalf("fired=%d, want 2 for opaque policy", fired)
	}
}

func TestStoredCellIdentityPolicyComparesPointers(t *testing.T) {
	type box struct{ v int }
	b1 := &box{v: 1}
	b2 := &box{v: 1}

	s := NewStoredIdentity(b1)
	fired := 0
	s.WhenChanged(func() { fired++ }).Forever()

	s.Write(b1) // same pointer: no fire
	if fired != 0 {
		t.Fatalf("fired=%d, want 0 for same pointer", fired)
	}
	s.Write(b2) // different pointer, same contents: fires
	if fired != 1 {
		t.Fatalf("fired=%d, want 1 for different pointer", fired)
	}
}

func TestStoredCellComputeValueIsUnreachable(t *testing.T) {
	s := NewStored(1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling computeValue on a StoredCell")
		}
	}()
	s.computeValue()
}

func TestStoredCellCustomEquals(t *testing.T) {
	s := NewStoredWithEquals(0, func(a, b int) bool { return a == b })
	fired := 0
	s.WhenChanged(func() { fired++ }).Forever()
	s.Write(0) // equal under the custom comparator: no fire
	if fired != 0 {
		t.Fatalf("fired=%d, want 0", fired)
	}
	s.Write(1)
	if fired != 1 {
		t.Fatalf("fired=%d, want 1", fired)
	}
}

func TestStoredCellUpdate(t *testing.T) {
	s := NewStored(1)
	s.Update(func(v int) int { return v + 41 })
	if got := s.Read(); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}
