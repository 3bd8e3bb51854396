package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Unknown, "unknown"},
		{Validation, "validation"},
		{Transport, "transport"},
		{NotFound, "not_found"},
		{Kind(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestWrap_KeepsMessage(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(Transport, cause)

	if err.Error() != cause.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), cause.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if err.Kind != Transport {
		t.Errorf("Kind = %v, want %v", err.Kind, Transport)
	}
}

func TestWrap_Nil(t *testing.T) {
	if err := Wrap(Transport, nil); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestWrap_ExistingKindWins(t *testing.T) {
	inner := New(NotFound, "postal code not found")
	outer := fmt.Errorf("lookup: %w", inner)

	got := Wrap(Unknown, outer)
	if got.Kind != NotFound {
		t.Errorf("Kind = %v, want %v", got.Kind, NotFound)
	}
	if got.Message != "postal code not found" {
		t.Errorf("Message = %q", got.Message)
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != Unknown {
		t.Errorf("KindOf(plain) = %v, want unknown", got)
	}
	if got := KindOf(fmt.Errorf("ctx: %w", Newf(Validation, "bad %s", "input"))); got != Validation {
		t.Errorf("KindOf(wrapped validation) = %v, want validation", got)
	}
	if !Is(New(Transport, "x"), Transport) {
		t.Error("Is(transport, Transport) = false")
	}
	if Is(nil, Unknown) {
		t.Error("Is(nil, Unknown) = true")
	}
}
