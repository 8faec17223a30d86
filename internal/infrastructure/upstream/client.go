// Package upstream holds HTTP clients for the services that own prices,
// bazaar quotes, craft costs and account tiers.
package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"sky_mods/internal/domain"
	"sky_mods/pkg/errcodes"
	"sky_mods/pkg/httpx"
	"sky_mods/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	defaultTimeout = 5 * time.Second
	logFieldMaxLen = 4096
	maxBodySize    = 16 << 20
)

// Options общие настройки клиента одного сервиса.
type Options struct {
	Name    string
	BaseURL string
	// Token сервисный токен; пустой — запросы без авторизации.
	Token   string
	Timeout time.Duration
	// RPS <= 0 — без ограничения.
	RPS   float64
	Burst int
}

type client struct {
	name    string
	baseURL string
	http    *http.Client
}

// newClient собирает цепочку: лимит → авторизация → логирование → сеть.
func newClient(opts Options, transport http.RoundTripper) client {
	if transport == nil {
		transport = http.DefaultTransport
	}

	rt := http.RoundTripper(httpx.NewLoggingRoundTripper(
		transport,
		httpx.WithUpstreamName(opts.Name),
		httpx.WithLogFieldMaxLen(logFieldMaxLen),
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
	))

	if opts.Token != "" {
		rt = httpx.NewAuthBearerRoundTripper(rt, httpx.StaticToken(opts.Token))
	}

	if opts.RPS > 0 {
		rt = httpx.NewRateLimitRoundTripper(rt, rate.NewLimiter(rate.Limit(opts.RPS), max(opts.Burst, 1)))
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return client{
		name:    opts.Name,
		baseURL: opts.BaseURL,
		http:    &http.Client{Transport: rt, Timeout: timeout},
	}
}

// do выполняет запрос и возвращает тело успешного ответа.
func (c client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var payload io.Reader = http.NoBody

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("json.Marshal: %w", err)
		}

		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.UpstreamFailed, c.name+" is unreachable")
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, domain.WrapError(err, errcodes.UpstreamFailed, c.name+" response cannot be read")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, domain.NewError(errcodes.UpstreamFailed, fmt.Sprintf("%s answered %d", c.name, resp.StatusCode))
	}

	return b, nil
}

func (c client) getJSON(ctx context.Context, path string, dest any) error {
	b, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	if err = json.Unmarshal(b, dest); err != nil {
		return domain.WrapError(err, errcodes.UpstreamMalformed, c.name+" answered malformed json")
	}

	return nil
}
