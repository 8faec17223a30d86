package upstream_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sky_mods/internal/domain"
	"sky_mods/internal/domain/entity"
	"sky_mods/internal/infrastructure/upstream"
	"sky_mods/pkg/errcodes"
)

func serve(t *testing.T, method, path, body string, status int, seen func(*http.Request, []byte)) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method || r.URL.Path != path {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		b, _ := io.ReadAll(r.Body)
		if seen != nil {
			seen(r, b)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv.URL
}

func requireCode(t *testing.T, err error, want any) {
	t.Helper()

	require.Error(t, err)

	code, ok := domain.GetCode(err)
	require.True(t, ok, err.Error())
	require.Equal(t, want, code)
}

func TestPriceClient_EstimateBatch(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	var (
		gotBody []byte
		gotAuth string
	)

	url := serve(t, http.MethodPost, "/api/prices/batch",
		`[{"median": 1000000, "lbin": 900000, "itemKey": "HYPERION", "medianKey": "HYPERION", "volume": 3.5}, null]`,
		http.StatusOK,
		func(r *http.Request, b []byte) {
			gotBody = b
			gotAuth = r.Header.Get("Authorization")
		},
	)

	c := upstream.NewPriceClient(upstream.Options{Name: "prices", BaseURL: url, Token: "secret"}, nil)

	estimates, err := c.EstimateBatch(context.Background(), []entity.AuctionRepresentation{
		{Tag: "HYPERION", Count: 1, Tier: entity.TierLegendary, Attributes: map[string]string{"!enchsharpness": "5"}},
		{Tag: "DIRT", Count: 64},
	})
	rq.NoError(err)
	rq.Len(estimates, 2)
	rq.InDelta(1_000_000, estimates[0].Median, 0)
	rq.True(estimates[0].MedianConfident())
	rq.Nil(estimates[1])

	rq.Equal("Bearer secret", gotAuth)
	rq.JSONEq(`[
		{"tag": "HYPERION", "count": 1, "tier": "LEGENDARY", "flatNbt": {"!enchsharpness": "5"}},
		{"tag": "DIRT", "count": 64, "tier": "UNKNOWN", "flatNbt": null}
	]`, string(gotBody))
}

func TestPriceClient_EstimateBatch_Errors(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name   string
		body   string
		status int
		code   any
	}{
		{name: "length mismatch", body: `[null]`, status: http.StatusOK, code: errcodes.UpstreamMalformed},
		{name: "malformed", body: `{"oops"`, status: http.StatusOK, code: errcodes.UpstreamMalformed},
		{name: "server error", body: `{}`, status: http.StatusBadGateway, code: errcodes.UpstreamFailed},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			url := serve(t, http.MethodPost, "/api/prices/batch", tc.body, tc.status, nil)

			_, err := upstream.NewPriceClient(upstream.Options{Name: "prices", BaseURL: url}, nil).
				EstimateBatch(context.Background(), []entity.AuctionRepresentation{{Tag: "A"}, {Tag: "B"}})

			requireCode(t, err, tc.code)
		})
	}
}

func TestBazaarClient_Snapshot(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	url := serve(t, http.MethodGet, "/api/bazaar/snapshot", `{
		"success": true,
		"lastUpdated": 1700000000000,
		"products": {
			"ENCHANTED_DIAMOND": {"product_id": "ENCHANTED_DIAMOND", "quick_status": {"buyPrice": 170.1, "sellPrice": 160.4, "buyVolume": 10}},
			"BROKEN": {"product_id": "BROKEN"}
		}
	}`, http.StatusOK, nil)

	prices, err := upstream.NewBazaarClient(upstream.Options{Name: "bazaar", BaseURL: url}, nil).Snapshot(context.Background())
	rq.NoError(err)
	rq.Equal(map[string]entity.BazaarPrice{"ENCHANTED_DIAMOND": {Buy: 170.1, Sell: 160.4}}, prices)
}

func TestBazaarClient_Snapshot_Malformed(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"products": [`, `{"success": false}`} {
		url := serve(t, http.MethodGet, "/api/bazaar/snapshot", body, http.StatusOK, nil)

		_, err := upstream.NewBazaarClient(upstream.Options{Name: "bazaar", BaseURL: url}, nil).Snapshot(context.Background())
		requireCode(t, err, errcodes.UpstreamMalformed)
	}
}

func TestCraftClient_CraftCosts(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	url := serve(t, http.MethodGet, "/api/craft/profit",
		`[{"itemId": "HYPERION", "craftCost": 900000000, "sellPrice": 1000000000}, {"itemId": "", "craftCost": 1}]`,
		http.StatusOK, nil)

	costs, err := upstream.NewCraftClient(upstream.Options{Name: "crafts", BaseURL: url}, nil).CraftCosts(context.Background())
	rq.NoError(err)
	rq.Equal(map[string]entity.CraftCost{"HYPERION": {Tag: "HYPERION", Cost: 900_000_000}}, costs)
}

func TestAccountClient_AccountInfo(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	url := serve(t, http.MethodGet, "/api/premium/b876ec32e396476ba1158727f3ae9e69",
		`{"tier": "PREMIUM_PLUS", "expiresAt": "2030-01-02T03:04:05Z"}`, http.StatusOK, nil)

	info, err := upstream.NewAccountClient(upstream.Options{Name: "tier", BaseURL: url}, nil).
		AccountInfo(context.Background(), "b876ec32e396476ba1158727f3ae9e69")
	rq.NoError(err)
	rq.Equal(entity.AccountTierPremiumPlus, info.Tier)
	rq.Equal(time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC), info.ExpiresAt.UTC())
}

func TestClient_RateLimit(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	var calls atomic.Int32

	url := serve(t, http.MethodGet, "/api/craft/profit", `[]`, http.StatusOK, func(*http.Request, []byte) {
		calls.Add(1)
	})

	c := upstream.NewCraftClient(upstream.Options{Name: "crafts", BaseURL: url, RPS: 1, Burst: 1}, nil)

	_, err := c.CraftCosts(context.Background())
	rq.NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.CraftCosts(ctx)
	rq.Error(err, "second call must wait for the limiter and run out of time")
	rq.EqualValues(1, calls.Load())
}
