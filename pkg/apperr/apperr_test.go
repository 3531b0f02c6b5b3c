package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("bad input"), KindValidation},
		{"auth", Auth("bad credentials"), KindAuth},
		{"authorization", Authorization("not your appointment"), KindAuthorization},
		{"not found", NotFound("no such doctor"), KindNotFound},
		{"conflict", Conflict("slot taken"), KindConflict},
		{"plain error", errors.New("boom"), KindInternal},
		{"nil chain", fmt.Errorf("ctx: %w", errors.New("boom")), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("handling request: %w", NotFound("appointment %d", 42))
	if KindOf(err) != KindNotFound {
		t.Errorf("expected KindNotFound through wrapping, got %v", KindOf(err))
	}
	if !IsKind(err, KindNotFound) {
		t.Error("IsKind should see through fmt.Errorf wrapping")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("x"), http.StatusBadRequest},
		{Auth("x"), http.StatusUnauthorized},
		{Authorization("x"), http.StatusForbidden},
		{NotFound("x"), http.StatusNotFound},
		{Conflict("x"), http.StatusConflict},
		{errors.New("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("row not found")
	err := Wrap(KindNotFound, cause, "load appointment")
	if !errors.Is(err, cause) {
		t.Error("Wrap should preserve the underlying error for errors.Is")
	}
	if err.Error() != "load appointment: row not found" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
