package upstream

import (
	"context"
	"net/http"

	"github.com/tidwall/gjson"

	"sky_mods/internal/domain"
	"sky_mods/internal/domain/entity"
	"sky_mods/pkg/errcodes"
)

// BazaarClient читает снимок базара. Ответ большой и со множеством полей,
// которые не нужны, поэтому разбирается точечно через gjson:
//
//	{"products": {"ENCHANTED_DIAMOND": {"quick_status": {"buyPrice": 170.1, "sellPrice": 160.4}}}}
type BazaarClient struct {
	client
}

func NewBazaarClient(opts Options, transport http.RoundTripper) BazaarClient {
	return BazaarClient{client: newClient(opts, transport)}
}

func (c BazaarClient) Snapshot(ctx context.Context) (map[string]entity.BazaarPrice, error) {
	b, err := c.do(ctx, http.MethodGet, "/api/bazaar/snapshot", nil)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(b) {
		return nil, domain.NewError(errcodes.UpstreamMalformed, "bazaar answered malformed json")
	}

	products := gjson.GetBytes(b, "products")
	if !products.IsObject() {
		return nil, domain.NewError(errcodes.UpstreamMalformed, "bazaar snapshot has no products")
	}

	prices := make(map[string]entity.BazaarPrice)

	products.ForEach(func(tag, product gjson.Result) bool {
		status := product.Get("quick_status")
		if !status.Exists() {
			return true
		}

		prices[tag.String()] = entity.BazaarPrice{
			Buy:  status.Get("buyPrice").Float(),
			Sell: status.Get("sellPrice").Float(),
		}

		return true
	})

	return prices, nil
}
