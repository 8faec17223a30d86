package upstream

import (
	"context"
	"net/http"

	"sky_mods/internal/domain/entity"
	"sky_mods/pkg/lox"
)

type CraftClient struct {
	client
}

func NewCraftClient(opts Options, transport http.RoundTripper) CraftClient {
	return CraftClient{client: newClient(opts, transport)}
}

// CraftCosts таблица стоимости крафта по тегу предмета.
func (c CraftClient) CraftCosts(ctx context.Context) (map[string]entity.CraftCost, error) {
	var costs []entity.CraftCost

	if err := c.getJSON(ctx, "/api/craft/profit", &costs); err != nil {
		return nil, err
	}

	return lox.FilterAssociate(costs, func(cost entity.CraftCost) (string, bool) {
		return cost.Tag, cost.Tag != ""
	}), nil
}
