package description

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"sky_mods/internal/domain"
	"sky_mods/internal/domain/entity"
	"sky_mods/internal/domain/service/inventory"
	"sky_mods/internal/domain/service/modifier"
	"sky_mods/internal/domain/service/modifier/builtin"
	"sky_mods/internal/domain/service/pricing"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/errcodes"
)

const accountID value.AccountID = "b876ec32e396476ba1158727f3ae9e69"

const inventoryJSON = `[
	{"Count": 1, "tag": {
		"display": {"Name": "§6Hyperion", "Lore": ["§7Damage: §c+260", "§6§lLEGENDARY SWORD"]},
		"ExtraAttributes": {"id": "HYPERION"}
	}},
	null,
	{"Count": 1, "tag": {"display": {"Name": "§aClose"}}}
]`

type estimatorFunc func(ctx context.Context, reps []entity.AuctionRepresentation) ([]*entity.PriceEstimate, error)

func (f estimatorFunc) EstimateBatch(ctx context.Context, reps []entity.AuctionRepresentation) ([]*entity.PriceEstimate, error) {
	return f(ctx, reps)
}

func fixedPrice(p entity.PriceEstimate) estimatorFunc {
	return func(_ context.Context, reps []entity.AuctionRepresentation) ([]*entity.PriceEstimate, error) {
		out := make([]*entity.PriceEstimate, len(reps))
		for i := range reps {
			out[i] = &p
		}

		return out, nil
	}
}

type memoryStore struct {
	mu   sync.Mutex
	data map[value.AccountID]entity.Settings
	err  error
	gets int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[value.AccountID]entity.Settings{}}
}

func (m *memoryStore) Get(_ context.Context, id value.AccountID) (entity.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets++

	if m.err != nil {
		return entity.Settings{}, m.err
	}

	s, ok := m.data[id]
	if !ok {
		return entity.Settings{}, domain.NewError(errcodes.SettingsNotFound, "settings not found")
	}

	return s, nil
}

func (m *memoryStore) Put(_ context.Context, id value.AccountID, s entity.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.data[id] = s

	return nil
}

func newService(t *testing.T, estimator pricing.PriceEstimator, store SettingsStore) *Service {
	t.Helper()

	registry, err := modifier.NewRegistry(builtin.PriceFields{})
	require.NoError(t, err)

	return NewService(
		inventory.NewDecoder(),
		inventory.NewMapper(),
		modifier.NewPipeline(registry, pricing.NewAggregator(estimator)),
		NewSettingsService(store),
	)
}

func TestService_Describe(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	svc := newService(t, fixedPrice(entity.PriceEstimate{Median: 1_000_000, Lbin: 900_000, Volume: 3}), newMemoryStore())

	d, err := svc.Describe(context.Background(), Request{
		Title:     "Chest",
		Inventory: inventory.Input{JSON: []byte(inventoryJSON)},
		AccountID: accountID,
	})
	rq.NoError(err)

	rq.True(d.PricesAvailable)
	rq.Equal("Chest", d.Kind)
	rq.Len(d.Slots, 3)
	rq.Len(d.Slots[0], 3, "default settings: lbin, median, volume")
	rq.Empty(d.Slots[1])
	rq.Empty(d.Slots[2], "interface buttons are not priced")

	slots, panels := d.Render()
	rq.Empty(panels)
	rq.Equal([]string{
		"§7Damage: §c+260",
		"§6§lLEGENDARY SWORD",
		"§7Lbin: §6900,000",
		"§7Med: §61,000,000",
		"§7Volume: §63 per day",
	}, slots[0].Lines)
}

func TestService_Describe_SettingsOverride(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	store := newMemoryStore()
	svc := newService(t, fixedPrice(entity.PriceEstimate{Median: 10}), store)

	d, err := svc.Describe(context.Background(), Request{
		Inventory: inventory.Input{JSON: []byte(inventoryJSON)},
		AccountID: accountID,
		Settings:  &entity.Settings{Fields: []entity.Field{entity.FieldTag}},
	})
	rq.NoError(err)

	rq.Equal([]value.Edit{value.Append("§7Tag: §6HYPERION")}, d.Slots[0])
	rq.Zero(store.gets, "request settings skip the store")
}

func TestService_Describe_SettingsOverrideNormalized(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	svc := newService(t, fixedPrice(entity.PriceEstimate{Lbin: 900_000}), newMemoryStore())

	d, err := svc.Describe(context.Background(), Request{
		Inventory: inventory.Input{JSON: []byte(inventoryJSON)},
		Settings:  &entity.Settings{Fields: []entity.Field{entity.FieldLbin, entity.FieldLbin}},
	})
	rq.NoError(err)
	rq.Equal([]value.Edit{value.Append("§7Lbin: §6900,000")}, d.Slots[0])

	_, err = svc.Describe(context.Background(), Request{
		Inventory: inventory.Input{JSON: []byte(inventoryJSON)},
		Settings:  &entity.Settings{Fields: []entity.Field{"PRICE_HISTORY"}},
	})
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InvalidSettings, code)
}

func TestService_Describe_PricesUnavailable(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	svc := newService(t, estimatorFunc(func(context.Context, []entity.AuctionRepresentation) ([]*entity.PriceEstimate, error) {
		return nil, errors.New("estimator is down")
	}), newMemoryStore())

	d, err := svc.Describe(context.Background(), Request{
		Title:     "Chest",
		Inventory: inventory.Input{JSON: []byte(inventoryJSON)},
	})
	rq.NoError(err)
	rq.False(d.PricesAvailable)
	rq.Len(d.Slots, 3)

	for _, edits := range d.Slots {
		rq.Empty(edits)
	}
}

func TestService_Describe_InvalidInventory(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	svc := newService(t, fixedPrice(entity.PriceEstimate{}), newMemoryStore())

	_, err := svc.Describe(context.Background(), Request{Inventory: inventory.Input{Base64: "not base64!"}})
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InvalidInventory, code)
}

func TestService_Describe_Empty(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	svc := newService(t, fixedPrice(entity.PriceEstimate{}), newMemoryStore())

	d, err := svc.Describe(context.Background(), Request{Title: "Chest"})
	rq.NoError(err)
	rq.Empty(d.Slots)
	rq.True(d.PricesAvailable)
}
