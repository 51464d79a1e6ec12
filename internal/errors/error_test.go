package errors

import (
	"errors"
	"testing"
)

func TestNewLooksUpRegisteredCode(t *testing.T) {
	e := New("C001")
	if e.Code != "C001" {
		t.Errorf("expected code C001, got %s", e.Code)
	}
	if e.Category != CategoryProgrammer {
		t.Errorf("expected CategoryProgrammer, got %s", e.Category)
	}
}

func TestNewUnknownCodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown code")
		}
	}()
	New("C999")
}

func TestWithCauseChains(t *testing.T) {
	cause := errors.New("boom")
	e := New("C101").WithCause(cause)

	if e.Unwrap() != cause {
		t.Error("Unwrap should return the attached cause")
	}
	if !errors.Is(e, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestErrorStringIncludesCodeAndMessage(t *testing.T) {
	e := New("C002")
	s := e.Error()
	if s == "" {
		t.Fatal("expected non-empty error string")
	}
}

func TestFormatIncludesDetail(t *testing.T) {
	DisableColors()
	defer EnableColors()

	e := New("C001")
	f := e.Format()
	if f == "" {
		t.Fatal("expected non-empty format output")
	}
}
