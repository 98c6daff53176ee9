package content

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestNewClientRequiresConfig(t *testing.T) {
	if _, err := NewClient("", "token", testLogger()); err == nil {
		t.Fatalf("expected error for missing host")
	}
	if _, err := NewClient("http://cms.local", "  ", testLogger()); err == nil {
		t.Fatalf("expected error for missing token")
	}
}

func TestFetchSendsBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "secret", testLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	raw, err := client.Fetch(context.Background(), "/api/products")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(raw) != `{"data":[]}` {
		t.Fatalf("unexpected body %q", raw)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotPath != "/api/products" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}

func TestFetchErrorOnHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "secret", testLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Fetch(context.Background(), "/api/products"); err == nil {
		t.Fatalf("expected error on 403")
	}
}

func TestFetchErrorOnInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "secret", testLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Fetch(context.Background(), "/api/products"); err == nil {
		t.Fatalf("expected error on truncated body")
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "secret", testLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	for i := 0; i < 10; i++ {
		client.Fetch(context.Background(), "/api/products")
	}
	if calls >= 10 {
		t.Fatalf("breaker never opened, upstream saw %d calls", calls)
	}
}
