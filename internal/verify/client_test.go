package verify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"bidmarket/internal/apperr"
	"bidmarket/internal/verify"
)

func newTestClient(baseURL string, retries int) *verify.Client {
	c := verify.NewClient(baseURL, 2*time.Second, retries)
	c.Backoff = time.Millisecond
	return c
}

func TestOwnerOf_Found(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/owners/abc123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"owner_key_hash": "deadbeef"})
	}))
	defer srv.Close()

	hash, found, err := newTestClient(srv.URL, 0).OwnerOf(context.Background(), "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if !found || hash != "deadbeef" {
		t.Fatalf("got (%q, %v)", hash, found)
	}
}

func TestOwnerOf_NotFoundIsAbsentNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	hash, found, err := newTestClient(srv.URL, 0).OwnerOf(context.Background(), "abc123")
	if err != nil || found || hash != "" {
		t.Fatalf("404 should mean absent: (%q, %v, %v)", hash, found, err)
	}
}

func TestOwnerOf_EmptyAttributionIsAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"owner_key_hash": ""})
	}))
	defer srv.Close()

	_, found, err := newTestClient(srv.URL, 0).OwnerOf(context.Background(), "abc123")
	if err != nil || found {
		t.Fatalf("empty attribution should mean absent: (%v, %v)", found, err)
	}
}

func TestOwnerOf_MalformedBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	_, _, err := newTestClient(srv.URL, 2).OwnerOf(context.Background(), "abc123")
	if !apperr.Is(err, apperr.CodeUnavailable) {
		t.Fatalf("want UNAVAILABLE for malformed body, got %v", err)
	}
}

func TestOwnerOf_RetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"owner_key_hash": "deadbeef"})
	}))
	defer srv.Close()

	hash, found, err := newTestClient(srv.URL, 2).OwnerOf(context.Background(), "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if !found || hash != "deadbeef" {
		t.Fatalf("got (%q, %v)", hash, found)
	}
	if calls.Load() != 3 {
		t.Fatalf("want 3 attempts, got %d", calls.Load())
	}
}

func TestOwnerOf_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, _, err := newTestClient(srv.URL, 2).OwnerOf(context.Background(), "abc123")
	if !apperr.Is(err, apperr.CodeUnavailable) {
		t.Fatalf("want UNAVAILABLE after exhausted retries, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("want 3 attempts, got %d", calls.Load())
	}
}

func TestOwnerOf_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	_, _, err := newTestClient(srv.URL, 1).OwnerOf(context.Background(), "abc123")
	if !apperr.Is(err, apperr.CodeUnavailable) {
		t.Fatalf("want UNAVAILABLE for refused connection, got %v", err)
	}
}

func TestVerifySignature_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/signatures/verify" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var req struct {
			Challenge string `json:"challenge"`
			Signature string `json:"signature"`
			PublicKey string `json:"public_key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]bool{"verified": req.Signature == "good"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	ok, err := c.VerifySignature(context.Background(), "nonce", "good", "key")
	if err != nil || !ok {
		t.Fatalf("want verified, got (%v, %v)", ok, err)
	}
	ok, err = c.VerifySignature(context.Background(), "nonce", "bad", "key")
	if err != nil || ok {
		t.Fatalf("want not verified without error, got (%v, %v)", ok, err)
	}
}

func TestKeyHash_Stable(t *testing.T) {
	a := verify.KeyHash("AAAA") // valid base64
	b := verify.KeyHash("not!base64!")
	if a == "" || b == "" || a == b {
		t.Fatalf("key hashes should be non-empty and distinct: %q %q", a, b)
	}
	if a != verify.KeyHash("AAAA") {
		t.Fatal("key hash must be deterministic")
	}
}
