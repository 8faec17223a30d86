package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var ErrTokenRejected = errors.New("bearer token rejected")

type authenticator interface {
	Authenticate(context.Context) error
	BearerToken() string
}

type AuthBearerRoundTripper struct {
	next          http.RoundTripper
	authenticator authenticator
}

func NewAuthBearerRoundTripper(
	next http.RoundTripper,
	authenticator authenticator,
) AuthBearerRoundTripper {
	return AuthBearerRoundTripper{
		next:          next,
		authenticator: authenticator,
	}
}

func (rt AuthBearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.authenticator.BearerToken() == "" {
		if err := rt.authenticator.Authenticate(req.Context()); err != nil {
			return nil, fmt.Errorf("authenticator.Authenticate: %w", err)
		}
	}

	// RoundTrip must not modify the caller's request.
	req = req.Clone(req.Context())
	rt.setAuthorizationHeader(req)

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()

		if err = rt.authenticator.Authenticate(req.Context()); err != nil {
			return nil, fmt.Errorf("authenticator.Authenticate: %w", err)
		}

		if req.GetBody == nil && req.Body != nil && req.Body != http.NoBody {
			return nil, fmt.Errorf("retry %s: %w", req.URL.Path, ErrTokenRejected)
		}

		retry := req.Clone(req.Context())

		if req.GetBody != nil {
			if retry.Body, err = req.GetBody(); err != nil {
				return nil, fmt.Errorf("req.GetBody: %w", err)
			}
		}

		rt.setAuthorizationHeader(retry)

		return rt.next.RoundTrip(retry) //nolint:wrapcheck
	}

	return resp, nil
}

func (rt AuthBearerRoundTripper) setAuthorizationHeader(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+rt.authenticator.BearerToken())
}

// StaticToken is an authenticator for upstreams that issue a long-lived
// service token. A rejected token cannot be refreshed.
type StaticToken string

func (t StaticToken) Authenticate(context.Context) error {
	if t == "" {
		return fmt.Errorf("empty token: %w", ErrTokenRejected)
	}

	return nil
}

func (t StaticToken) BearerToken() string {
	return string(t)
}
