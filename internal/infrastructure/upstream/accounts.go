package upstream

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"sky_mods/internal/domain/entity"
)

type premiumResponse struct {
	Tier      string    `json:"tier"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AccountClient спрашивает уровень подписки. Решение о доступе здесь не
// принимается, значение только пробрасывается модификаторам.
type AccountClient struct {
	client
}

func NewAccountClient(opts Options, transport http.RoundTripper) AccountClient {
	return AccountClient{client: newClient(opts, transport)}
}

func (c AccountClient) AccountInfo(ctx context.Context, accountID string) (entity.AccountInfo, error) {
	var resp premiumResponse

	if err := c.getJSON(ctx, "/api/premium/"+url.PathEscape(accountID), &resp); err != nil {
		return entity.AccountInfo{}, err
	}

	return entity.AccountInfo{
		Tier:      entity.ParseAccountTier(resp.Tier),
		ExpiresAt: resp.ExpiresAt,
	}, nil
}
