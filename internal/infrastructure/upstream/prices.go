package upstream

import (
	"context"
	"fmt"
	"net/http"

	"sky_mods/internal/domain"
	"sky_mods/internal/domain/entity"
	"sky_mods/pkg/errcodes"
)

// PriceClient батчевый оценщик: один запрос на инвентарь, ответ
// позиционный, null — нет оценки для слота.
type PriceClient struct {
	client
}

func NewPriceClient(opts Options, transport http.RoundTripper) PriceClient {
	return PriceClient{client: newClient(opts, transport)}
}

func (c PriceClient) EstimateBatch(
	ctx context.Context,
	reps []entity.AuctionRepresentation,
) ([]*entity.PriceEstimate, error) {
	b, err := c.do(ctx, http.MethodPost, "/api/prices/batch", reps)
	if err != nil {
		return nil, err
	}

	var estimates []*entity.PriceEstimate

	if err = json.Unmarshal(b, &estimates); err != nil {
		return nil, domain.WrapError(err, errcodes.UpstreamMalformed, "price estimator answered malformed json")
	}

	if len(estimates) != len(reps) {
		return nil, domain.NewError(
			errcodes.UpstreamMalformed,
			fmt.Sprintf("price estimator answered %d estimates for %d items", len(estimates), len(reps)),
		)
	}

	return estimates, nil
}
