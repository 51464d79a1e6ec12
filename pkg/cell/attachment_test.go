package cell

import "testing"

func TestAttachmentPointDefaultValueBeforeAttach(t *testing.T) {
	a := NewAttachment(42)
	if got := a.Read(); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestAttachmentPointForwardsReads(t *testing.T) {
	inner := NewStored(1)
	a := NewAttachment(0)
	a.AttachTo(inner)

	if got := a.Read(); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	inner.Write(2)
	if got := a.Read(); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}

func TestAttachmentPointFiresOnReattach(t *testing.T) {
	inner1 := NewStored(1)
	inner2 := NewStored(99)
	a := NewAttachment(0)
	a.AttachTo(inner1)

	fired := 0
	a.WhenChanged(func() { fired++ }).Forever()

	a.AttachTo(inner2)
	if fired != 1 {
		t.Fatalf("fired=%d, want 1 on reattach", fired)
	}
	if got := a.Read(); got != 99 {
		t.Fatalf("got %d, want 99", got)
	}

	// Old inner no longer drives the attachment point.
	inner1.Write(123)
	if fired != 1 {
		t.Fatalf("fired=%d after writing detached inner, want still 1", fired)
	}
}

func TestAttachmentPointCycleDetectionPanics(t *testing.T) {
	a := NewAttachment(0)
	b := NewAttachment(0)
	a.AttachTo(b)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic attaching b back to a (cycle)")
		}
	}()
	b.AttachTo(a)
}

func TestAttachmentPointSelfCyclePanics(t *testing.T) {
	a := NewAttachment(0)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic attaching a to itself")
		}
	}()
	a.AttachTo(a)
}

func TestImmutableAttachmentPointWritePanics(t *testing.T) {
	a := NewAttachment(0)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic writing to an immutable AttachmentPoint")
		}
	}()
	a.Write(1)
}

func TestMutableAttachmentPointForwardsWrites(t *testing.T) {
	inner := NewStored(1)
	a := NewMutableAttachment[int](inner)

	a.Write(5)
	if got := inner.Read(); got != 5 {
		t.Fatalf("got %d, want 5", got)
	}
	if got := a.Read(); got != 5 {
		t.Fatalf("got %d, want 5", got)
	}
}

func TestMutableAttachmentPointWriteWithoutWritableInnerPanics(t *testing.T) {
	inner := NewComputed(func() int { return 1 })
	a := NewAttachment(0)
	a.mutable = true
	a.AttachTo(inner)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic writing through a non-Writable inner")
		}
	}()
	a.Write(2)
}

func TestMutableAttachmentPointChainsToAnotherAttachmentPoint(t *testing.T) {
	leaf := NewStored(1)
	mid := NewMutableAttachment[int](leaf)
	top := NewMutableAttachment[int](mid)

	top.Write(7)
	if got := leaf.Read(); got != 7 {
		t.Fatalf("got %d, want 7 (write should forward through the chain)", got)
	}
	if got := top.Read(); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}
