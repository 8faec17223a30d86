package description

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"sky_mods/internal/domain"
	"sky_mods/internal/domain/entity"
	"sky_mods/pkg/errcodes"
)

func TestSettingsService_Get(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	store := newMemoryStore()
	svc := NewSettingsService(store)

	s, err := svc.Get(context.Background(), accountID)
	rq.NoError(err)
	rq.Equal(entity.DefaultSettings(), s, "unknown account gets defaults")

	_, err = svc.Get(context.Background(), accountID)
	rq.NoError(err)
	rq.Equal(1, store.gets, "second read is cached")
}

func TestSettingsService_Put(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	store := newMemoryStore()
	svc := NewSettingsService(store)

	fields := []entity.Field{entity.FieldTag, entity.FieldMedian, entity.FieldTag}

	rq.NoError(svc.Put(context.Background(), accountID, entity.Settings{Fields: fields, NoTips: true}))

	fields[0] = entity.FieldLbin

	s, err := svc.Get(context.Background(), accountID)
	rq.NoError(err)
	rq.Equal([]entity.Field{entity.FieldTag, entity.FieldMedian}, s.Fields, "duplicates dropped, input not shared")
	rq.True(s.NoTips)
	rq.Equal(s, store.data[accountID])
	rq.Zero(store.gets, "put refreshes the cache")
}

func TestSettingsService_Put_Invalid(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	store := newMemoryStore()

	err := NewSettingsService(store).Put(context.Background(), accountID, entity.Settings{Fields: []entity.Field{"PRICE_HISTORY"}})
	rq.Error(err)

	code, _ := domain.GetCode(err)
	rq.Equal(errcodes.InvalidSettings, code)
	rq.Empty(store.data)
}

func TestSettingsService_Resolve_StoreDown(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	store := newMemoryStore()
	store.err = errors.New("redis is down")

	svc := NewSettingsService(store)

	_, err := svc.Get(context.Background(), accountID)
	rq.Error(err)

	rq.Equal(entity.DefaultSettings(), svc.Resolve(context.Background(), accountID))
}
