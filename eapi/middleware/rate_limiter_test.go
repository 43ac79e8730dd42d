package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitedRoundTripper(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer ts.Close()

	limiters := &RateLimiters{RPS: 100, Burst: 1}
	client := &http.Client{
		Transport: limiters.RoundTripper(http.DefaultTransport, "host-a"),
	}

	for i := 0; i < 3; i++ {
		resp, err := client.Get(ts.URL)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}
	if requests != 3 {
		t.Errorf("expected 3 requests to get through, got %d", requests)
	}
}

func TestRateLimiterHonoursContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	// Burst 1 at a tiny rate: the first request takes the only
	// token, the second can't get one before the context expires.
	limiters := &RateLimiters{RPS: 1, Burst: 1}
	rt := limiters.RoundTripper(http.DefaultTransport, "host-b")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	for i := 0; i < 2; i++ {
		req, err := http.NewRequest("GET", ts.URL, nil)
		if err != nil {
			t.Fatal(err)
		}
		resp, err := rt.RoundTrip(req.WithContext(ctx))
		if i == 0 {
			if err != nil {
				t.Fatalf("first request should pass, got %v", err)
			}
			resp.Body.Close()
			continue
		}
		if err == nil {
			resp.Body.Close()
			t.Fatal("second request should have been rate limited")
		}
	}
}
