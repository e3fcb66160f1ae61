package semantic

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Strob0t/AgentRelay/internal/resilience"
)

func TestLocalFallbackIsDeterministic(t *testing.T) {
	c := NewClient("", time.Second)

	first, err := c.Answer(context.Background(), "hello", "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.Answer(context.Background(), "hello", "r2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("fallback answers differ: %q vs %q", first, second)
	}
	if !strings.Contains(first, "hello") {
		t.Fatalf("fallback must embed the prompt, got %q", first)
	}
}

func TestAnswerFromResponder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":"42"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	got, err := c.Answer(context.Background(), "meaning of life", "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "42" {
		t.Fatalf("expected 42, got %q", got)
	}
}

func TestResponderNon2xxIsBridgeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.Answer(context.Background(), "hi", "r1"); err == nil {
		t.Fatal("expected error for 500 reply")
	}
}

func TestResponderUnrecognizableReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.Answer(context.Background(), "hi", "r1"); err == nil {
		t.Fatal("expected error for reply without text/answer/result")
	}
}

func TestResponderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		_, _ = w.Write([]byte(`{"text":"too late"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 50*time.Millisecond)
	if _, err := c.Answer(context.Background(), "hi", "r1"); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	c.SetBreaker(resilience.NewBreaker(2, time.Minute))

	for range 2 {
		if _, err := c.Answer(context.Background(), "hi", "r1"); err == nil {
			t.Fatal("expected failure")
		}
	}
	_, err := c.Answer(context.Background(), "hi", "r1")
	if err == nil {
		t.Fatal("expected open-circuit failure")
	}
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

type fakeCache struct {
	data map[string][]byte
	sets int
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.data[key] = value
	f.sets++
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func TestAnswerCacheSkipsSecondCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"text":"cached"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	c.SetCache(&fakeCache{data: make(map[string][]byte)}, time.Minute)

	for range 2 {
		got, err := c.Answer(context.Background(), "same prompt", "r1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "cached" {
			t.Fatalf("expected cached, got %q", got)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", calls)
	}
}
