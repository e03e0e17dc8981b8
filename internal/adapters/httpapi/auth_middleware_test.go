package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/oakmount/accounts-api/internal/platform/auth"
)

func newAuthedEcho(t *testing.T, secret string) http.Handler {
	t.Helper()

	mw := NewAuthMiddleware(auth.NewTokenVerifier(secret), zap.NewNop())
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, _ := SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(sub))
	}))
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	t.Parallel()

	h := newAuthedEcho(t, "s3cret")
	token, err := auth.SignToken("s3cret", "sub-1", time.Now(), time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "sub-1" {
		t.Fatalf("code=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestAuthMiddleware_InvalidTokenEnvelope(t *testing.T) {
	t.Parallel()

	h := newAuthedEcho(t, "s3cret")
	token, err := auth.SignToken("wrong-secret", "sub-1", time.Now(), time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d", rec.Code)
	}
	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "error" || body.Message != "Invalid token" {
		t.Fatalf("body=%+v", body)
	}
}

func TestAuthMiddleware_MissingAndMalformedHeaders(t *testing.T) {
	t.Parallel()

	h := newAuthedEcho(t, "s3cret")

	cases := []struct {
		name  string
		authz string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer   "},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		if c.authz != "" {
			req.Header.Set("Authorization", c.authz)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: code=%d", c.name, rec.Code)
		}
		var body ErrorBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", c.name, err)
		}
		if body.Status != "error" || body.Message == "" {
			t.Fatalf("%s: body=%+v", c.name, body)
		}
	}
}

func TestAuthMiddleware_HealthzBypass(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(auth.NewTokenVerifier("s3cret"), zap.NewNop())
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code=%d", rec.Code)
	}
}
