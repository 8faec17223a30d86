package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"sky_mods/internal/domain"
	"sky_mods/internal/domain/entity"
	"sky_mods/pkg/errcodes"
)

var listingRowColumns = []string{ //nolint:gochecknoglobals
	"uuid", "item_uid", "tag", "item_name", "seller", "price", "highest_bid", "bin", "sold", "end_at",
}

func newMockRepo(t *testing.T) (*ListingRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return NewListingRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestListingRepository_ByItemUIDs(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	repo, mock := newMockRepo(t)

	end := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+\s+FROM listings\s+WHERE item_uid IN \(\$1, \$2\)\s+ORDER BY end_at DESC`).
		WithArgs("0123456789ab", "ba9876543210").
		WillReturnRows(sqlmock.NewRows(listingRowColumns).
			AddRow("a1", "0123456789ab", "HYPERION", "§6Hyperion", "seller1", int64(1_000_000), int64(0), true, true, end))

	listings, err := repo.ByItemUIDs(context.Background(), []string{"0123456789ab", "ba9876543210"})
	rq.NoError(err)
	rq.Equal([]entity.Listing{{
		UUID:     "a1",
		ItemUID:  "0123456789ab",
		Tag:      "HYPERION",
		ItemName: "§6Hyperion",
		Seller:   "seller1",
		Price:    1_000_000,
		Bin:      true,
		Sold:     true,
		End:      end,
	}}, listings)
}

func TestListingRepository_ByItemUIDs_Empty(t *testing.T) {
	t.Parallel()

	repo, _ := newMockRepo(t)

	listings, err := repo.ByItemUIDs(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, listings)
}

func TestListingRepository_BySeller(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+\s+FROM listings\s+WHERE seller = \$1\s+ORDER BY end_at DESC\s+LIMIT \$2`).
		WithArgs("seller1", 100).
		WillReturnRows(sqlmock.NewRows(listingRowColumns).
			AddRow("a1", "0123456789ab", "HYPERION", "", "seller1", int64(1_000_000), int64(1_200_000), false, true, time.Now()).
			AddRow("a2", "ba9876543210", "DIRT", "", "seller1", int64(1), int64(0), true, false, time.Now()))

	listings, err := repo.BySeller(context.Background(), "seller1", 100)
	rq.NoError(err)
	rq.Len(listings, 2)
	rq.EqualValues(1_200_000, listings[0].PaidPrice())
	rq.False(listings[1].Sold)
}

func TestListingRepository_BySeller_Error(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM listings`).WillReturnError(errors.New("connection reset"))

	_, err := repo.BySeller(context.Background(), "seller1", 100)

	code, ok := domain.GetCode(err)
	require.True(t, ok)
	require.Equal(t, errcodes.InternalServerError, code)
}

func TestListingRepository_UpsertBatch_Rollback(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO listings`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO listings`).WillReturnError(errors.New("duplicate"))
	mock.ExpectRollback()

	err := repo.UpsertBatch(context.Background(), []entity.Listing{
		{UUID: "a1", ItemUID: "0123456789ab", Seller: "s"},
		{UUID: "a2", ItemUID: "ba9876543210", Seller: "s"},
	})
	rq.Error(err)
	rq.ErrorContains(err, "failed at index 1")
}
