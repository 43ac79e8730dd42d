// Package middleware has http.RoundTripper middleware for the eapi
// client. Devices share their control plane with the traffic they
// carry, so callers are expected to pace their requests.
package middleware

import (
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// RateLimiters keeps a token bucket per device host, so that a burst
// of API calls to one device doesn't starve the others.
type RateLimiters struct {
	RPS, Burst int
	perHost    map[string]*rate.Limiter
	mx         sync.Mutex
}

// RoundTripper returns a RoundTripper that limits requests through
// the shared bucket for host.
func (limiters *RateLimiters) RoundTripper(rt http.RoundTripper, host string) http.RoundTripper {
	limiters.mx.Lock()
	defer limiters.mx.Unlock()

	if limiters.perHost == nil {
		limiters.perHost = map[string]*rate.Limiter{}
	}
	if _, ok := limiters.perHost[host]; !ok {
		rl := rate.NewLimiter(rate.Limit(limiters.RPS), limiters.Burst)
		limiters.perHost[host] = rl
	}
	return &RoundTripRateLimiter{
		rl: limiters.perHost[host],
		tx: rt,
	}
}

type RoundTripRateLimiter struct {
	rl *rate.Limiter
	tx http.RoundTripper
}

func (t *RoundTripRateLimiter) RoundTrip(r *http.Request) (*http.Response, error) {
	// Wait errors out if the request cannot be processed within
	// the deadline. This is preemptive, instead of waiting the
	// entire duration.
	if err := t.rl.Wait(r.Context()); err != nil {
		return nil, errors.Wrap(err, "rate limited")
	}
	return t.tx.RoundTrip(r)
}
