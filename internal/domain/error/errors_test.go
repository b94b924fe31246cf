package error

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	plain := NewValidation("LGR-010001", "amount must be positive")
	if plain.Error() != "amount must be positive" {
		t.Fatalf("unexpected message: %q", plain.Error())
	}

	wrapped := NewSystem("LGR-090001", "query failed", errors.New("disk full"))
	if wrapped.Error() != "query failed: disk full" {
		t.Fatalf("unexpected message: %q", wrapped.Error())
	}
}

func TestUnwrapChain(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewSystem("LGR-090001", "query failed", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to reach the cause")
	}
}

func TestWithMeta(t *testing.T) {
	err := NewNotFound("LGR-020001", "entry not found").
		WithMeta("id", int64(42)).
		WithMeta("kind", "income")
	if err.Metadata["id"] != int64(42) || err.Metadata["kind"] != "income" {
		t.Fatalf("unexpected metadata: %v", err.Metadata)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", NewValidation("LGR-010001", "bad input"), KindValidation},
		{"not found", NewNotFound("LGR-020001", "missing"), KindNotFound},
		{"system", NewSystem("LGR-090001", "fault", nil), KindSystem},
		{"wrapped classified", fmt.Errorf("outer: %w", NewNotFound("LGR-020001", "missing")), KindNotFound},
		{"raw error", errors.New("raw"), KindSystem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFrom(t *testing.T) {
	if From(nil) != nil {
		t.Fatal("From(nil) must be nil")
	}

	classified := NewValidation("LGR-010002", "bad date")
	if got := From(fmt.Errorf("outer: %w", classified)); got != classified {
		t.Fatalf("expected the classified error back, got %+v", got)
	}

	raw := errors.New("raw")
	converted := From(raw)
	if converted.Kind != KindSystem || converted.Code != ErrCodeUnexpected {
		t.Fatalf("unexpected conversion: %+v", converted)
	}
	if !errors.Is(converted, raw) {
		t.Fatal("converted error must wrap the original")
	}
}

func TestFromPanic(t *testing.T) {
	cause := errors.New("nil pointer")
	err := FromPanic(cause, map[string]any{"op": "commit"})
	if err.Kind != KindSystem || !errors.Is(err, cause) {
		t.Fatalf("unexpected error: %+v", err)
	}
	if err.Metadata["op"] != "commit" {
		t.Fatalf("unexpected metadata: %v", err.Metadata)
	}

	nonErr := FromPanic("boom", nil)
	if nonErr.Err == nil || nonErr.Err.Error() != "panic: boom" {
		t.Fatalf("unexpected wrapped panic: %v", nonErr.Err)
	}
}

func TestKindPredicates(t *testing.T) {
	if !IsValidation(NewValidation("LGR-010001", "x")) {
		t.Fatal("IsValidation failed")
	}
	if !IsNotFound(NewNotFound("LGR-020001", "x")) {
		t.Fatal("IsNotFound failed")
	}
	if !IsSystem(errors.New("raw")) {
		t.Fatal("IsSystem must cover unclassified errors")
	}
	if IsValidation(nil) || IsNotFound(nil) || IsSystem(nil) {
		t.Fatal("predicates must be false for nil")
	}
}
