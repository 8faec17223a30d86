package httpx

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitRoundTripper delays outgoing requests so that an upstream never
// sees more than the configured request rate from this process.
type RateLimitRoundTripper struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func NewRateLimitRoundTripper(next http.RoundTripper, limiter *rate.Limiter) RateLimitRoundTripper {
	return RateLimitRoundTripper{
		next:    next,
		limiter: limiter,
	}
}

func (rt RateLimitRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := rt.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("limiter.Wait: %w", err)
	}

	return rt.next.RoundTrip(req) //nolint:wrapcheck
}
