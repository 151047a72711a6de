package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
)

func TestKindOf_Classified(t *testing.T) {
	err := apperr.New(apperr.NotFound, "group not found")
	if apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("got kind %v, want NotFound", apperr.KindOf(err))
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	base := apperr.New(apperr.Conflict, "email already registered")
	err := fmt.Errorf("register: %w", base)
	if apperr.KindOf(err) != apperr.Conflict {
		t.Errorf("got kind %v, want Conflict through wrapping", apperr.KindOf(err))
	}
}

func TestKindOf_Unclassified(t *testing.T) {
	if apperr.KindOf(errors.New("boom")) != apperr.Internal {
		t.Error("expected unclassified errors to report Internal")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.Unauthenticated, http.StatusUnauthorized},
		{apperr.InvalidArgument, http.StatusBadRequest},
		{apperr.NotFound, http.StatusNotFound},
		{apperr.Forbidden, http.StatusForbidden},
		{apperr.Conflict, http.StatusConflict},
		{apperr.AlreadyInTerminalState, http.StatusConflict},
		{apperr.Internal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.kind.HTTPStatus(); got != tt.want {
			t.Errorf("%v: got status %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestMessage_NeverLeaksInternals(t *testing.T) {
	err := errors.New("connection refused to 10.0.0.7:27017")
	if got := apperr.Message(err); got != "internal error" {
		t.Errorf("got %q, want generic message", got)
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := apperr.Wrap(apperr.Conflict, cause, "a discussion already exists for this parent")
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable with errors.Is")
	}
	if apperr.Message(err) != "a discussion already exists for this parent" {
		t.Errorf("message: got %q", apperr.Message(err))
	}
}
