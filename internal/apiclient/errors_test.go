package apiclient_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/joestump/linkfolio/internal/apiclient"
)

func TestNormalize_ServerMessage(t *testing.T) {
	raw := &apiclient.ResponseError{StatusCode: http.StatusNotFound, Message: "User not found"}
	e := apiclient.Normalize(raw, apiclient.KindProfile, "Failed to fetch profile")

	if e.Message != "User not found" {
		t.Errorf("message = %q, want %q", e.Message, "User not found")
	}
	if e.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", e.Status)
	}
	if !errors.Is(e, raw) {
		t.Error("normalized error does not unwrap to the raw error")
	}
}

func TestNormalize_Fallback(t *testing.T) {
	e := apiclient.Normalize(errors.New("dial tcp: refused"), apiclient.KindAuth, "Login failed")
	if e.Message != "Login failed" {
		t.Errorf("message = %q, want %q", e.Message, "Login failed")
	}
	if e.Status != 0 {
		t.Errorf("status = %d, want 0", e.Status)
	}
}

func TestNormalize_EmptyServerMessageFallsBack(t *testing.T) {
	raw := &apiclient.ResponseError{StatusCode: http.StatusBadRequest}
	e := apiclient.Normalize(raw, apiclient.KindLink, "Failed to create link")
	if e.Message != "Failed to create link" {
		t.Errorf("message = %q", e.Message)
	}
	if e.Status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", e.Status)
	}
}

func TestNormalize_WrappedResponse(t *testing.T) {
	raw := fmt.Errorf("refresh: %w", &apiclient.ResponseError{StatusCode: 500, Message: "db down"})
	e := apiclient.Normalize(raw, apiclient.KindLink, "Failed to delete link")
	if e.Message != "db down" {
		t.Errorf("message = %q, want %q", e.Message, "db down")
	}
}

func TestError_IsKind(t *testing.T) {
	e := apiclient.Normalize(errors.New("x"), apiclient.KindLink, "Failed to update link")
	if !errors.Is(e, apiclient.ErrLink) {
		t.Error("expected errors.Is(e, ErrLink)")
	}
	if errors.Is(e, apiclient.ErrAuth) {
		t.Error("link error matched ErrAuth")
	}
	wrapped := fmt.Errorf("cli: %w", e)
	if !errors.Is(wrapped, apiclient.ErrLink) {
		t.Error("expected wrapped error to match ErrLink")
	}
}
