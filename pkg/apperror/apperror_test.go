package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("name is required"), http.StatusBadRequest},
		{"not found", NotFound("farmer not found"), http.StatusNotFound},
		{"conflict", Conflict("phone taken"), http.StatusConflict},
		{"unauthorized", Unauthorized("bad credentials"), http.StatusUnauthorized},
		{"internal", Internal("db down", errors.New("timeout")), http.StatusInternalServerError},
		{"unknown", errors.New("plain"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("gone")), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusCode(tc.err); got != tc.want {
				t.Errorf("StatusCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := Validation("name is required", "phone_number is required")
	want := "validation failed: name is required; phone_number is required"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(NotFound("x")) {
		t.Errorf("IsNotFound should match a not-found error")
	}
	if IsNotFound(Conflict("x")) {
		t.Errorf("IsNotFound should not match a conflict")
	}
}
