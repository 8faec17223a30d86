package pricing

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"sky_mods/internal/domain/entity"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"))
}

type estimatorFunc func(ctx context.Context, reps []entity.AuctionRepresentation) ([]*entity.PriceEstimate, error)

func (f estimatorFunc) EstimateBatch(ctx context.Context, reps []entity.AuctionRepresentation) ([]*entity.PriceEstimate, error) {
	return f(ctx, reps)
}

type bazaarFunc func(ctx context.Context) (map[string]entity.BazaarPrice, error)

func (f bazaarFunc) Snapshot(ctx context.Context) (map[string]entity.BazaarPrice, error) {
	return f(ctx)
}

type craftsFunc func(ctx context.Context) (map[string]entity.CraftCost, error)

func (f craftsFunc) CraftCosts(ctx context.Context) (map[string]entity.CraftCost, error) {
	return f(ctx)
}

type listingsFunc func(ctx context.Context, uids []string) ([]entity.Listing, error)

func (f listingsFunc) ByItemUIDs(ctx context.Context, uids []string) ([]entity.Listing, error) {
	return f(ctx, uids)
}

// medianByTag отвечает медианой по тегу и запоминает, что у него спросили.
func medianByTag(medians map[string]float64, asked *[]entity.AuctionRepresentation) estimatorFunc {
	return func(_ context.Context, reps []entity.AuctionRepresentation) ([]*entity.PriceEstimate, error) {
		*asked = append(*asked, reps...)

		out := make([]*entity.PriceEstimate, len(reps))
		for i, rep := range reps {
			out[i] = &entity.PriceEstimate{Median: medians[rep.Tag], ItemKey: rep.Tag, MedianKey: rep.Tag}
		}

		return out, nil
	}
}

func inventory(tags ...string) ([]entity.Item, []entity.AuctionRepresentation) {
	items := make([]entity.Item, len(tags))
	reps := make([]entity.AuctionRepresentation, len(tags))

	for i, tag := range tags {
		if tag == "" {
			continue
		}

		items[i] = entity.Item{Tag: tag, Count: 1, Lore: []string{"lore of " + tag}}
		reps[i] = entity.AuctionRepresentation{Tag: tag, Count: 1, Attributes: map[string]string{}}
	}

	return items, reps
}

func TestAggregator_Aggregate_Positional(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	var asked []entity.AuctionRepresentation

	items, reps := inventory("DIRT", "", "HYPERION", "", "", "STONE")

	agg := NewAggregator(medianByTag(map[string]float64{"DIRT": 1, "HYPERION": 1_000_000, "STONE": 2}, &asked))

	c, err := agg.Aggregate(context.Background(), Request{Items: items, Representations: reps})
	rq.NoError(err)
	rq.NoError(c.Validate())
	rq.True(c.PricesAvailable)

	rq.Len(asked, 3, "empty slots are never sent to the estimator")

	for i, item := range items {
		if item.Tag == "" {
			rq.Nil(c.Prices[i], "slot %d", i)
			continue
		}

		rq.NotNil(c.Prices[i], "slot %d", i)
		rq.Equal(item.Tag, c.Prices[i].ItemKey, "slot %d", i)
		rq.Equal(item.Lore, c.Lore[i])
	}

	rq.InDelta(1_000_000, c.Price(2).Median, 0)
	rq.Nil(c.Price(99))
}

func TestAggregator_Aggregate_EmptySlotNoFetch(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	var calls atomic.Int32

	agg := NewAggregator(estimatorFunc(func(context.Context, []entity.AuctionRepresentation) ([]*entity.PriceEstimate, error) {
		calls.Add(1)
		return nil, nil
	}))

	items, reps := inventory("")

	c, err := agg.Aggregate(context.Background(), Request{Items: items, Representations: reps})
	rq.NoError(err)
	rq.EqualValues(0, calls.Load())
	rq.Len(c.Prices, 1)
	rq.Nil(c.Prices[0])
	rq.True(c.PricesAvailable)
}

func TestAggregator_Aggregate_PriceFailure(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name      string
		estimator estimatorFunc
	}{
		{
			name: "error",
			estimator: func(context.Context, []entity.AuctionRepresentation) ([]*entity.PriceEstimate, error) {
				return nil, errors.New("estimator is down")
			},
		},
		{
			name: "length mismatch",
			estimator: func(context.Context, []entity.AuctionRepresentation) ([]*entity.PriceEstimate, error) {
				return []*entity.PriceEstimate{{Median: 1}}, nil
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rq := require.New(t)

			items, reps := inventory("DIRT", "STONE")

			c, err := NewAggregator(tc.estimator).Aggregate(context.Background(), Request{Items: items, Representations: reps})
			rq.NoError(err)
			rq.False(c.PricesAvailable)
			rq.Equal([]*entity.PriceEstimate{nil, nil}, c.Prices)
			rq.Equal(items, c.Items)
		})
	}
}

func TestAggregator_Aggregate_OptionalSources(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	var asked []entity.AuctionRepresentation

	items, reps := inventory("ENCHANTED_DIAMOND")
	items[0].ExtraAttributes = map[string]any{"uuid": "3a5a6e3c-3b1b-4d0e-9c4e-0123456789ab"}

	var listingUIDs []string

	agg := NewAggregator(medianByTag(nil, &asked)).
		WithBazaar(bazaarFunc(func(context.Context) (map[string]entity.BazaarPrice, error) {
			return map[string]entity.BazaarPrice{"ENCHANTED_DIAMOND": {Buy: 170, Sell: 160}}, nil
		})).
		WithCrafts(craftsFunc(func(context.Context) (map[string]entity.CraftCost, error) {
			return nil, errors.New("crafts are down")
		})).
		WithListings(listingsFunc(func(_ context.Context, uids []string) ([]entity.Listing, error) {
			listingUIDs = uids

			return []entity.Listing{
				{ItemUID: "0123456789ab", Price: 100, End: time.Unix(100, 0)},
				{ItemUID: "0123456789ab", Price: 200, End: time.Unix(200, 0)},
			}, nil
		}))

	settings := entity.Settings{Fields: []entity.Field{entity.FieldBazaarBuy, entity.FieldCraftCost, entity.FieldPricePaid}}

	c, err := agg.Aggregate(context.Background(), Request{Items: items, Representations: reps, Settings: settings})
	rq.NoError(err)

	rq.Equal(entity.BazaarPrice{Buy: 170, Sell: 160}, c.Bazaar["ENCHANTED_DIAMOND"])
	rq.NotNil(c.Crafts)
	rq.Empty(c.Crafts)
	rq.Equal([]string{"0123456789ab"}, listingUIDs)

	l, ok := c.Listing(items[0])
	rq.True(ok)
	rq.EqualValues(200, l.Price)
}

func TestAggregator_Aggregate_NotNeeded(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	var asked []entity.AuctionRepresentation

	agg := NewAggregator(medianByTag(nil, &asked)).
		WithBazaar(bazaarFunc(func(context.Context) (map[string]entity.BazaarPrice, error) {
			t.Error("bazaar must not be fetched")
			return nil, nil
		}))

	items, reps := inventory("DIRT")

	_, err := agg.Aggregate(context.Background(), Request{Items: items, Representations: reps})
	rq.NoError(err)
}

func TestAggregator_Aggregate_OptionalTimeout(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	var asked []entity.AuctionRepresentation

	agg := NewAggregator(medianByTag(nil, &asked)).
		WithOptionalTimeout(50 * time.Millisecond).
		WithBazaar(bazaarFunc(func(ctx context.Context) (map[string]entity.BazaarPrice, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}))

	items, reps := inventory("DIRT")

	start := time.Now()

	c, err := agg.Aggregate(context.Background(), Request{Items: items, Representations: reps, Needs: NeedBazaar})
	rq.NoError(err)
	rq.Empty(c.Bazaar)
	rq.Less(time.Since(start), time.Second)
}

func TestAggregator_Aggregate_Tasks(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	var asked []entity.AuctionRepresentation

	tasks := NewTasks(context.Background(), 100*time.Millisecond)
	tasks.Go("seller", func(context.Context) (any, error) { return []entity.Listing{{Seller: "abc"}}, nil })
	tasks.Go("seller", func(context.Context) (any, error) { return "duplicate", nil })
	tasks.Go("broken", func(context.Context) (any, error) { return nil, errors.New("boom") })
	tasks.Go("panics", func(context.Context) (any, error) { panic("boom") })
	tasks.Go("slow", func(ctx context.Context) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	rq.Equal([]string{"seller", "broken", "panics", "slow"}, tasks.Names())

	items, reps := inventory("DIRT")

	c, err := NewAggregator(medianByTag(nil, &asked)).Aggregate(context.Background(), Request{
		Items:           items,
		Representations: reps,
		Tasks:           tasks,
	})
	rq.NoError(err)

	listings, ok := ResultAs[[]entity.Listing](c, "seller")
	rq.True(ok)
	rq.Equal("abc", listings[0].Seller)

	_, ok = c.Result("broken")
	rq.False(ok)
	_, ok = c.Result("panics")
	rq.False(ok)
	_, ok = c.Result("slow")
	rq.False(ok)

	_, ok = ResultAs[string](c, "seller")
	rq.False(ok)
}

func TestAggregator_Aggregate_Misaligned(t *testing.T) {
	t.Parallel()

	var asked []entity.AuctionRepresentation

	items, _ := inventory("DIRT", "STONE")

	_, err := NewAggregator(medianByTag(nil, &asked)).Aggregate(context.Background(), Request{
		Items:           items,
		Representations: []entity.AuctionRepresentation{{Tag: "DIRT"}},
	})
	require.Error(t, err)
}

func TestSnapshotCache(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	var bazaarCalls atomic.Int32

	fail := atomic.Bool{}

	c := NewSnapshotCache(
		bazaarFunc(func(context.Context) (map[string]entity.BazaarPrice, error) {
			bazaarCalls.Add(1)

			if fail.Load() {
				return nil, errors.New("down")
			}

			return map[string]entity.BazaarPrice{"DIRT": {Buy: 1, Sell: 0.5}}, nil
		}),
		craftsFunc(func(context.Context) (map[string]entity.CraftCost, error) {
			return map[string]entity.CraftCost{"HYPERION": {Tag: "HYPERION", Cost: 900_000_000}}, nil
		}),
		time.Minute,
	)

	v, err := c.Snapshot(context.Background())
	rq.NoError(err)
	rq.Len(v, 1)

	_, err = c.Snapshot(context.Background())
	rq.NoError(err)
	rq.EqualValues(1, bazaarCalls.Load(), "second read is served from cache")

	fail.Store(true)
	rq.Error(c.Refresh(context.Background()))

	v, err = c.Snapshot(context.Background())
	rq.NoError(err)
	rq.Len(v, 1, "failed refresh keeps the previous snapshot")

	crafts, err := c.CraftCosts(context.Background())
	rq.NoError(err)
	rq.InDelta(900_000_000, crafts["HYPERION"].Cost, 0)
}
