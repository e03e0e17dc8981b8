package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/oakmount/accounts-api/internal/apperror"
)

func TestTranslate_ApplicationError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{apperror.NotFound("User not found"), 404, "User not found"},
		{apperror.Unauthorized("Invalid token"), 401, "Invalid token"},
		{apperror.Validation("invalid email"), 422, "invalid email"},
		{apperror.Conflict("email is already in use"), 409, "email is already in use"},
	}
	for _, c := range cases {
		status, body := Translate(c.err)
		if status != c.wantStatus {
			t.Fatalf("status=%d, want %d", status, c.wantStatus)
		}
		if body.Status != "error" || body.Message != c.wantMsg {
			t.Fatalf("body=%+v, want message %q", body, c.wantMsg)
		}
	}
}

func TestTranslate_WrappedApplicationError(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("looking up account: %w", apperror.NotFound("User not found"))
	status, body := Translate(wrapped)
	if status != 404 || body.Message != "User not found" {
		t.Fatalf("status=%d body=%+v", status, body)
	}
}

func TestTranslate_GenericFailure(t *testing.T) {
	t.Parallel()

	status, body := Translate(errors.New("db timeout"))
	if status != 500 {
		t.Fatalf("status=%d, want 500", status)
	}
	if body.Status != "error" || body.Message != "db timeout" {
		t.Fatalf("body=%+v", body)
	}
}

func TestTranslate_MessagelessFailureFallsBack(t *testing.T) {
	t.Parallel()

	status, body := Translate(errors.New(""))
	if status != 500 || body.Message != "Internal Server Error" {
		t.Fatalf("status=%d body=%+v", status, body)
	}

	status, body = Translate(nil)
	if status != 500 || body.Message != "Internal Server Error" {
		t.Fatalf("nil: status=%d body=%+v", status, body)
	}
}

func TestTranslate_Idempotent(t *testing.T) {
	t.Parallel()

	err := apperror.New(404, "User not found")
	s1, b1 := Translate(err)
	s2, b2 := Translate(err)
	if s1 != s2 || b1 != b2 {
		t.Fatalf("translation not stable: (%d,%+v) vs (%d,%+v)", s1, b1, s2, b2)
	}
}

func TestWriteError_EnvelopeIsExactlyTwoFields(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/users/u-1", nil)
	WriteError(rec, req, nil, apperror.NotFound("User not found"))

	if rec.Code != 404 {
		t.Fatalf("code=%d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type=%q", ct)
	}

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("envelope has %d fields, want exactly 2: %v", len(raw), raw)
	}
	if raw["status"] != "error" || raw["message"] != "User not found" {
		t.Fatalf("envelope=%v", raw)
	}
}
