package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"sky_mods/internal/domain"
	"sky_mods/internal/domain/entity"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/dbtest"
	"sky_mods/pkg/errcodes"
)

func TestListingRepository_Postgres(t *testing.T) {
	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN is not set")
	}

	rq := require.New(t)
	ctx := context.Background()

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	rq.NoError(err)

	defer db.Close()

	rq.NoError(dbtest.MigrateFromFile(ctx, db, "../../../migrations/001_listings.sql"))

	_, err = db.ExecContext(ctx, `TRUNCATE listings`)
	rq.NoError(err)

	repo := NewListingRepository(db)

	end := time.Now().UTC().Truncate(time.Second)

	rq.NoError(repo.UpsertBatch(ctx, []entity.Listing{
		{UUID: "a1", ItemUID: "0123456789ab", Tag: "HYPERION", Seller: "seller1", Price: 100, End: end.Add(-time.Hour)},
		{UUID: "a2", ItemUID: "0123456789ab", Tag: "HYPERION", Seller: "seller1", Price: 200, Sold: true, End: end},
		{UUID: "a3", ItemUID: "ffffffffffff", Tag: "DIRT", Seller: "seller2", Price: 1, End: end},
	}))

	listings, err := repo.ByItemUIDs(ctx, []string{"0123456789ab"})
	rq.NoError(err)
	rq.Len(listings, 2)
	rq.Equal("a2", listings[0].UUID, "newest first")

	listings, err = repo.BySeller(ctx, "seller1", 1)
	rq.NoError(err)
	rq.Len(listings, 1)
	rq.True(listings[0].Sold)
}

func TestSettingsStore_Redis(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR is not set")
	}

	rq := require.New(t)
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	store := NewSettingsStore(rdb)
	id := value.AccountID("0000000000000000000000000000test")

	rq.NoError(rdb.Del(ctx, settingsKey(id)).Err())

	_, err := store.Get(ctx, id)
	code, _ := domain.GetCode(err)
	rq.Equal(errcodes.SettingsNotFound, code)

	want := entity.Settings{Fields: []entity.Field{entity.FieldTag}, Disabled: []string{"tips"}}
	rq.NoError(store.Put(ctx, id, want))

	got, err := store.Get(ctx, id)
	rq.NoError(err)
	rq.Equal(want, got)
}
