// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package functions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/canonical/tenant-admin/internal/logging"
	"github.com/canonical/tenant-admin/internal/monitoring"
	"github.com/canonical/tenant-admin/internal/tracing"
)

func newTestClient(hosts, names []string) *Client {
	return NewClient(hosts, names, "anon-key", tracing.NewNoopTracer(), monitoring.NewNoopMonitor(), logging.NewNoopLogger())
}

func TestClient_Candidates(t *testing.T) {
	c := newTestClient([]string{"https://a.example.com/", "https://b.example.com"}, []string{"invite", "invite-"})

	expected := []string{
		"https://a.example.com/functions/v1/invite",
		"https://a.example.com/functions/v1/invite-",
		"https://b.example.com/functions/v1/invite",
		"https://b.example.com/functions/v1/invite-",
	}

	got := c.Candidates()
	if len(got) != len(expected) {
		t.Fatalf("expected %d candidates, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("candidate %d: expected %s, got %s", i, expected[i], got[i])
		}
	}
}

func TestClient_InvokeFallsThroughOn404(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/functions/v1/invite-" {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"ok":true}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient([]string{srv.URL}, []string{"invite", "invite-"})

	outcome, err := c.Invoke(context.Background(), []byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != http.StatusOK {
		t.Errorf("expected status 200, got %d", outcome.Status)
	}
	if string(outcome.Body) != `{"ok":true}` {
		t.Errorf("unexpected body: %s", outcome.Body)
	}
	if len(paths) != 2 {
		t.Errorf("expected 2 attempts, got %d: %v", len(paths), paths)
	}
}

func TestClient_InvokeRelaysNon404Verbatim(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"caller is not an admin"}`))
	}))
	defer srv.Close()

	c := newTestClient([]string{srv.URL}, []string{"invite", "invite-"})

	outcome, err := c.Invoke(context.Background(), []byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", outcome.Status)
	}
	if attempts != 1 {
		t.Errorf("expected a single attempt, got %d", attempts)
	}
	if !strings.Contains(string(outcome.Body), "not an admin") {
		t.Errorf("upstream body was not relayed: %s", outcome.Body)
	}
}

func TestClient_InvokeExhaustion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient([]string{srv.URL}, []string{"invite", "invite-"})

	_, err := c.Invoke(context.Background(), []byte(`{}`))
	if err == nil {
		t.Fatal("expected exhaustion error")
	}

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %T: %v", err, err)
	}
	if len(exhausted.Attempted) != 2 {
		t.Errorf("expected 2 attempted candidates, got %v", exhausted.Attempted)
	}
}

func TestClient_InvokeSendsPlatformCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer anon-key" {
			t.Errorf("expected the configured credential, got %q", got)
		}
		if got := r.Header.Get("apikey"); got != "anon-key" {
			t.Errorf("expected apikey header, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected json content type, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient([]string{srv.URL}, []string{"invite"})

	if _, err := c.Invoke(context.Background(), []byte(`{}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_InvokeOmitsAuthorizationWithoutCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no Authorization header, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient([]string{srv.URL}, []string{"invite"}, "", tracing.NewNoopTracer(), monitoring.NewNoopMonitor(), logging.NewNoopLogger())

	if _, err := c.Invoke(context.Background(), []byte(`{}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
