package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"sky_mods/internal/domain/entity"
	"sky_mods/pkg/logx"
)

const defaultOptionalTimeout = 2 * time.Second

// Request вход агрегатора после фазы Prepare. Representations уже
// содержат правки модификаторов.
type Request struct {
	Title           string
	Kind            string
	AccountID       string
	Items           []entity.Item
	Representations []entity.AuctionRepresentation
	Settings        entity.Settings
	Needs           Needs
	Tasks           *Tasks
}

type Aggregator struct {
	prices   PriceEstimator
	bazaar   BazaarSource
	crafts   CraftSource
	listings ListingSource
	accounts AccountSource

	optionalTimeout time.Duration
	now             func() time.Time
}

func NewAggregator(prices PriceEstimator) *Aggregator {
	return &Aggregator{
		prices:          prices,
		optionalTimeout: defaultOptionalTimeout,
		now:             time.Now,
	}
}

func (a *Aggregator) WithBazaar(src BazaarSource) *Aggregator {
	a.bazaar = src
	return a
}

func (a *Aggregator) WithCrafts(src CraftSource) *Aggregator {
	a.crafts = src
	return a
}

func (a *Aggregator) WithListings(src ListingSource) *Aggregator {
	a.listings = src
	return a
}

func (a *Aggregator) WithAccounts(src AccountSource) *Aggregator {
	a.accounts = src
	return a
}

func (a *Aggregator) WithOptionalTimeout(d time.Duration) *Aggregator {
	if d > 0 {
		a.optionalTimeout = d
	}

	return a
}

func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

func (a *Aggregator) OptionalTimeout() time.Duration {
	return a.optionalTimeout
}

// Aggregate собирает DataContainer. Все запросы идут параллельно; ошибки
// источников не возвращаются, соответствующая таблица остаётся пустой.
// Ошибка возможна только при рассогласованном входе.
func (a *Aggregator) Aggregate(ctx context.Context, req Request) (*DataContainer, error) {
	if len(req.Items) != len(req.Representations) {
		if req.Tasks != nil {
			req.Tasks.cancel()
		}

		return nil, fmt.Errorf("items=%d representations=%d", len(req.Items), len(req.Representations))
	}

	needs := req.Needs | NeedsFromSettings(req.Settings)

	c := &DataContainer{
		Title:           req.Title,
		Kind:            req.Kind,
		AccountID:       req.AccountID,
		Now:             a.now(),
		Items:           req.Items,
		Representations: req.Representations,
		Lore:            make([][]string, len(req.Items)),
		Prices:          make([]*entity.PriceEstimate, len(req.Items)),
		Bazaar:          map[string]entity.BazaarPrice{},
		Crafts:          map[string]entity.CraftCost{},
		Listings:        map[string]entity.Listing{},
		Settings:        req.Settings,
		results:         map[string]any{},
	}

	for i, item := range req.Items {
		c.Lore[i] = item.Lore
	}

	var g errgroup.Group

	g.Go(func() error {
		c.Prices, c.PricesAvailable = a.fetchPrices(ctx, req.Representations)
		return nil
	})

	if needs.Has(NeedBazaar) && a.bazaar != nil {
		g.Go(func() error {
			if v, ok := optional(ctx, a, "bazaar", a.bazaar.Snapshot); ok {
				c.Bazaar = v
			}

			return nil
		})
	}

	if needs.Has(NeedCrafts) && a.crafts != nil {
		g.Go(func() error {
			if v, ok := optional(ctx, a, "crafts", a.crafts.CraftCosts); ok {
				c.Crafts = v
			}

			return nil
		})
	}

	if uids := shortIDs(req.Items); needs.Has(NeedListings) && a.listings != nil && len(uids) > 0 {
		g.Go(func() error {
			fetch := func(ctx context.Context) ([]entity.Listing, error) {
				return a.listings.ByItemUIDs(ctx, uids)
			}

			if v, ok := optional(ctx, a, "listings", fetch); ok {
				c.Listings = indexListings(v)
			}

			return nil
		})
	}

	if needs.Has(NeedAccount) && a.accounts != nil && req.AccountID != "" {
		g.Go(func() error {
			fetch := func(ctx context.Context) (entity.AccountInfo, error) {
				return a.accounts.AccountInfo(ctx, req.AccountID)
			}

			if v, ok := optional(ctx, a, "account", fetch); ok {
				c.Account = v
			}

			return nil
		})
	}

	if req.Tasks != nil {
		g.Go(func() error {
			c.results = req.Tasks.Wait(ctx)
			return nil
		})
	}

	_ = g.Wait()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// fetchPrices оценивает только слоты с тегом и раскладывает ответ обратно
// по исходным индексам.
func (a *Aggregator) fetchPrices(
	ctx context.Context,
	reps []entity.AuctionRepresentation,
) ([]*entity.PriceEstimate, bool) {
	prices := make([]*entity.PriceEstimate, len(reps))

	indexes := make([]int, 0, len(reps))
	batch := make([]entity.AuctionRepresentation, 0, len(reps))

	for i, rep := range reps {
		if rep.IsEmpty() {
			continue
		}

		indexes = append(indexes, i)
		batch = append(batch, rep)
	}

	if len(batch) == 0 {
		return prices, true
	}

	start := time.Now()
	estimates, err := a.prices.EstimateBatch(ctx, batch)
	fetchDuration.WithLabelValues("prices").Observe(time.Since(start).Seconds())

	if err == nil && len(estimates) != len(batch) {
		err = fmt.Errorf("estimator answered %d estimates for %d items", len(estimates), len(batch))
	}

	if err != nil {
		logger(ctx).Error("price estimate failed", slog.Int("items", len(batch)), logx.Error(err))
		priceFailures.Inc()

		return prices, false
	}

	for j, i := range indexes {
		prices[i] = estimates[j]
	}

	return prices, true
}

func optional[T any](
	ctx context.Context,
	a *Aggregator,
	source string,
	fetch func(context.Context) (T, error),
) (T, bool) {
	ctx, cancel := context.WithTimeout(ctx, a.optionalTimeout)
	defer cancel()

	start := time.Now()
	v, err := fetch(ctx)
	fetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())

	if err != nil {
		logger(ctx).Warn("optional lookup skipped", slog.String(logx.FieldUpstream, source), logx.Error(err))
		optionalFailures.WithLabelValues(source).Inc()

		var zero T

		return zero, false
	}

	return v, true
}

func shortIDs(items []entity.Item) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))

	for _, item := range items {
		uuid := item.UUID()
		if uuid == "" {
			continue
		}

		id := entity.ShortID(uuid)
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids
}

// indexListings оставляет по каждому предмету самый поздний лот.
func indexListings(listings []entity.Listing) map[string]entity.Listing {
	index := make(map[string]entity.Listing, len(listings))

	for _, l := range listings {
		if prev, ok := index[l.ItemUID]; ok && prev.End.After(l.End) {
			continue
		}

		index[l.ItemUID] = l
	}

	return index
}
