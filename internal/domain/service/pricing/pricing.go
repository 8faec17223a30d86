// Package pricing gathers everything the modifiers read: per-slot price
// estimates and the shared lookup tables, fetched concurrently per request.
package pricing

import (
	"context"

	"sky_mods/internal/domain/entity"
	"sky_mods/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// PriceEstimator пакетная оценка: ответ позиционный, i-й элемент
// соответствует i-му представлению, nil — оценки нет.
type PriceEstimator interface {
	EstimateBatch(ctx context.Context, reps []entity.AuctionRepresentation) ([]*entity.PriceEstimate, error)
}

type BazaarSource interface {
	Snapshot(ctx context.Context) (map[string]entity.BazaarPrice, error)
}

type CraftSource interface {
	CraftCosts(ctx context.Context) (map[string]entity.CraftCost, error)
}

type ListingSource interface {
	ByItemUIDs(ctx context.Context, uids []string) ([]entity.Listing, error)
}

type AccountSource interface {
	AccountInfo(ctx context.Context, accountID string) (entity.AccountInfo, error)
}

// Needs какие общие таблицы нужны запросу.
type Needs uint8

const (
	NeedBazaar Needs = 1 << iota
	NeedCrafts
	NeedListings
	NeedAccount
)

func (n Needs) Has(need Needs) bool {
	return n&need != 0
}

// NeedsFromSettings таблицы, без которых не отрисовать включённые поля.
func NeedsFromSettings(s entity.Settings) Needs {
	var n Needs

	if s.HasAny(entity.FieldBazaarBuy, entity.FieldBazaarSell, entity.FieldEnchantCost) {
		n |= NeedBazaar
	}

	if s.Has(entity.FieldCraftCost) {
		n |= NeedCrafts
	}

	if s.Has(entity.FieldPricePaid) {
		n |= NeedListings
	}

	return n
}
