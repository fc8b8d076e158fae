package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsClassifiesErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		kind   Kind
		status int
	}{
		{name: "not found", err: NotFound("Order not found"), kind: KindNotFound, status: http.StatusNotFound},
		{name: "wrapped validation", err: fmt.Errorf("create: %w", Validation("bad")), kind: KindValidation, status: http.StatusBadRequest},
		{name: "domain state", err: DomainState("NO_ACTIVE_SESSION", "No active session found"), kind: KindDomainState, status: http.StatusNotFound},
		{name: "plain error", err: errors.New("boom"), kind: KindUnexpected, status: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := As(tc.err)
			if got.Kind != tc.kind {
				t.Fatalf("expected kind %s, got %s", tc.kind, got.Kind)
			}
			if got.StatusCode != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, got.StatusCode)
			}
		})
	}

	if As(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestIsKind(t *testing.T) {
	if !IsKind(fmt.Errorf("x: %w", Conflict("dup")), KindConflict) {
		t.Fatalf("expected conflict kind")
	}
	if IsKind(errors.New("x"), KindConflict) {
		t.Fatalf("plain error must not match")
	}
}
