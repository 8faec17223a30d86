package modifier

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"sky_mods/internal/domain/entity"
	"sky_mods/internal/domain/service/pricing"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/numfmt"
)

type estimatorFunc func(ctx context.Context, reps []entity.AuctionRepresentation) ([]*entity.PriceEstimate, error)

func (f estimatorFunc) EstimateBatch(ctx context.Context, reps []entity.AuctionRepresentation) ([]*entity.PriceEstimate, error) {
	return f(ctx, reps)
}

// countEstimator оценивает слот в count * 10.
func countEstimator(asked *[]entity.AuctionRepresentation) estimatorFunc {
	return func(_ context.Context, reps []entity.AuctionRepresentation) ([]*entity.PriceEstimate, error) {
		if asked != nil {
			*asked = append(*asked, reps...)
		}

		out := make([]*entity.PriceEstimate, len(reps))
		for i, rep := range reps {
			out[i] = &entity.PriceEstimate{Median: float64(rep.Count) * 10, ItemKey: rep.Tag, MedianKey: rep.Tag}
		}

		return out, nil
	}
}

// testModifier собирается из функций, чтобы не заводить тип на каждый случай.
type testModifier struct {
	name    string
	match   func(kind string) bool
	prepare func(ctx context.Context, s *Scope) error
	apply   func(ctx context.Context, data *pricing.DataContainer, w *Writer) error
}

func (m testModifier) Name() string { return m.name }

func (m testModifier) Match(kind string) bool {
	if m.match == nil {
		return true
	}

	return m.match(kind)
}

func (m testModifier) Prepare(ctx context.Context, s *Scope) error {
	if m.prepare == nil {
		return nil
	}

	return m.prepare(ctx, s)
}

func (m testModifier) Apply(ctx context.Context, data *pricing.DataContainer, w *Writer) error {
	return m.apply(ctx, data, w)
}

func priceLines() testModifier {
	return testModifier{
		name: "price",
		apply: func(_ context.Context, data *pricing.DataContainer, w *Writer) error {
			for i := range data.Items {
				if p := data.Price(i); p != nil {
					w.Slot(i).Append("price " + numfmt.Coins(p.Median)).Highlight(value.ColorNeutral)
				}
			}

			return nil
		},
	}
}

func summary() testModifier {
	return testModifier{
		name: "summary",
		apply: func(_ context.Context, data *pricing.DataContainer, w *Writer) error {
			var total float64
			for i := range data.Items {
				if p := data.Price(i); p != nil {
					total += p.Median
				}
			}

			w.Panel("total").Append("total " + numfmt.Coins(total))

			return nil
		},
	}
}

func poisoned(mode string) testModifier {
	return testModifier{
		name: "poisoned",
		prepare: func(context.Context, *Scope) error {
			if mode == "panic" {
				panic("prepare exploded")
			}

			return errors.New("prepare failed")
		},
		apply: func(_ context.Context, _ *pricing.DataContainer, w *Writer) error {
			w.Slot(0).Replace(0, "garbage").Highlight(value.ColorLoss)
			w.Panel("total").Append("garbage")

			if mode == "panic" {
				var m map[string]int
				m["boom"]++
			}

			return errors.New("apply failed")
		},
	}
}

func testInput() Input {
	items := []entity.Item{
		{Tag: "DIRT", Count: 2, Lore: []string{"dirt"}},
		{},
		{Tag: "STONE", Count: 5, Lore: []string{"stone", "more"}},
	}

	reps := []entity.AuctionRepresentation{
		{Tag: "DIRT", Count: 2},
		{},
		{Tag: "STONE", Count: 5},
	}

	return Input{Title: "§aChest", Items: items, Representations: reps}
}

func run(t *testing.T, mods ...Modifier) *Result {
	t.Helper()

	registry, err := NewRegistry(mods...)
	require.NoError(t, err)

	result, err := NewPipeline(registry, pricing.NewAggregator(countEstimator(nil))).Run(context.Background(), testInput())
	require.NoError(t, err)

	return result
}

func TestPipeline_Isolation(t *testing.T) {
	t.Parallel()

	clean := run(t, priceLines(), summary())

	for _, mode := range []string{"error", "panic"} {
		t.Run(mode, func(t *testing.T) {
			t.Parallel()

			rq := require.New(t)

			dirty := run(t, priceLines(), poisoned(mode), summary())

			rq.Empty(cmp.Diff(clean.Slots, dirty.Slots))
			rq.Empty(cmp.Diff(clean.Virtual, dirty.Virtual))
			rq.Equal([]string{"poisoned"}, dirty.Failed)
		})
	}
}

func TestPipeline_Isolation_SharedData(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	vandal := testModifier{
		name: "vandal",
		apply: func(_ context.Context, data *pricing.DataContainer, _ *Writer) error {
			data.Prices[0] = nil
			data.Prices[2].Median = 0
			data.Items[0].Lore[0] = "garbage"
			data.Lore[2] = nil
			data.Bazaar["DIRT"] = entity.BazaarPrice{Buy: 1}

			return errors.New("apply failed")
		},
	}

	clean := run(t, priceLines(), summary())
	dirty := run(t, vandal, priceLines(), summary())

	rq.Empty(cmp.Diff(clean.Slots, dirty.Slots))
	rq.Empty(cmp.Diff(clean.Virtual, dirty.Virtual))
	rq.Equal([]string{"vandal"}, dirty.Failed)

	rq.Equal([]value.Edit{value.Append("price 20"), value.Highlight(value.ColorNeutral)}, dirty.Slots[0])
	rq.Equal([]Panel{{Name: "total", Edits: []value.Edit{value.Append("total 70")}}}, dirty.Virtual)

	rq.Equal([]string{"dirt"}, dirty.Data.Lore[0])
	rq.Equal([]string{"stone", "more"}, dirty.Data.Lore[2])
	rq.Empty(dirty.Data.Bazaar)
}

func TestPipeline_Deterministic(t *testing.T) {
	t.Parallel()

	first := run(t, priceLines(), summary())
	second := run(t, priceLines(), summary())

	require.Empty(t, cmp.Diff(first.Slots, second.Slots))
	require.Empty(t, cmp.Diff(first.Virtual, second.Virtual))
}

func TestPipeline_EmptySlot(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	result := run(t, priceLines(), summary())

	rq.Len(result.Slots, 3)
	rq.NotNil(result.Slots[1])
	rq.Empty(result.Slots[1])
	rq.Nil(result.Data.Price(1))

	rq.Equal([]value.Edit{value.Append("price 20"), value.Highlight(value.ColorNeutral)}, result.Slots[0])
	rq.Equal([]Panel{{Name: "total", Edits: []value.Edit{value.Append("total 70")}}}, result.Virtual)
}

func TestPipeline_PrepareMutatesBeforePricing(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	var asked []entity.AuctionRepresentation

	sack := testModifier{
		name: "sack",
		prepare: func(_ context.Context, s *Scope) error {
			s.Representation(2).Count = 64
			s.Need(pricing.NeedBazaar)
			s.Go("extra", func(context.Context) (any, error) { return 42, nil })

			rq.Nil(s.Representation(99))

			return nil
		},
		apply: func(_ context.Context, data *pricing.DataContainer, w *Writer) error {
			v, ok := pricing.ResultAs[int](data, "extra")
			if !ok {
				return errors.New("no extra")
			}

			w.Slot(2).Append(numfmt.Coins(float64(v)))

			return nil
		},
	}

	registry, err := NewRegistry(sack)
	rq.NoError(err)

	input := testInput()

	result, err := NewPipeline(registry, pricing.NewAggregator(countEstimator(&asked))).Run(context.Background(), input)
	rq.NoError(err)
	rq.Empty(result.Failed)

	rq.Len(asked, 2)
	rq.Equal(64, asked[1].Count)
	rq.InDelta(640, result.Data.Price(2).Median, 0)
	rq.Equal(5, input.Representations[2].Count, "caller representations are not touched")
	rq.Equal([]value.Edit{value.Append("42")}, result.Slots[2])
}

func TestPipeline_HighlightOverride(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	var seen string

	sold := testModifier{
		name: "sold",
		apply: func(_ context.Context, _ *pricing.DataContainer, w *Writer) error {
			seen, _ = w.Highlight(0)
			w.Slot(0).Highlight(value.ColorSold)

			return nil
		},
	}

	result := run(t, priceLines(), sold)

	rq.Equal(value.ColorNeutral, seen)

	c, ok := lastHighlight(result.Slots[0])
	rq.True(ok)
	rq.Equal(value.ColorSold, c)
}

func TestPipeline_Match(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	trade := testModifier{
		name:  "trade",
		match: func(kind string) bool { return HasPrefix(kind, "You    ") },
		prepare: func(context.Context, *Scope) error {
			t.Error("unmatched modifier must not prepare")
			return nil
		},
	}

	registry, err := NewRegistry(priceLines(), trade)
	rq.NoError(err)

	plan := NewPipeline(registry, pricing.NewAggregator(countEstimator(nil))).Plan(testInput())
	rq.Equal("Chest", plan.Kind())
	rq.Equal([]string{"price"}, plan.Matched())

	disabled := testInput()
	disabled.Settings.Disabled = []string{"price"}

	plan = NewPipeline(registry, pricing.NewAggregator(countEstimator(nil))).Plan(disabled)
	rq.Empty(plan.Matched())
}

func TestRegistry_Duplicate(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry(priceLines(), priceLines())
	require.Error(t, err)
}

func TestWriter_OutOfRange(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	a := newArena(2)
	w := newWriter(a)

	rq.False(w.Slot(-1).Valid())
	rq.False(w.Slot(2).Valid())
	rq.False(w.Panel("").Valid())

	w.Slot(5).Append("lost")
	w.Slot(1).Append("kept")
	a.commit(w)

	rq.Equal([][]value.Edit{{}, {value.Append("kept")}}, a.slots)

	_, ok := w.Highlight(7)
	rq.False(ok)
}
