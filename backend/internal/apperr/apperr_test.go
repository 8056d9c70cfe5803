package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{NewValidation("missing"), http.StatusBadRequest},
		{NewConflict("exists"), http.StatusBadRequest},
		{NewAuth("bad"), http.StatusUnauthorized},
		{NewForbidden("nope"), http.StatusForbidden},
		{&Error{Message: "unknown kind"}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.err.Status(); got != tt.want {
			t.Errorf("%q.Status() = %d; want %d", tt.err.Message, got, tt.want)
		}
	}
}

func TestAsWrapped(t *testing.T) {
	err := fmt.Errorf("register: %w", NewConflict("User already exists"))

	e, ok := As(err)
	if !ok {
		t.Fatalf("As(%v) = false; want true", err)
	}
	if e.Message != "User already exists" {
		t.Errorf("message = %q", e.Message)
	}
	if !Is(err, Conflict) || Is(err, Auth) {
		t.Errorf("Is mismatch for %v", err)
	}
	if _, ok := As(errors.New("db down")); ok {
		t.Errorf("plain error must not be an *Error")
	}
}
