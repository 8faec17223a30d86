package persistence

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"sky_mods/internal/domain"
	"sky_mods/internal/domain/entity"
	"sky_mods/pkg/errcodes"
)

const listingColumns = `uuid, item_uid, tag, item_name, seller, price, highest_bid, bin, sold, end_at`

// ListingRepository прошлые лоты аукциона. Таблицу наполняет другой
// сервис, здесь только чтение и загрузка пачкой для импорта.
type ListingRepository struct {
	db *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// ByItemUIDs лоты по коротким id предметов (последние 12 символов uuid).
func (r *ListingRepository) ByItemUIDs(ctx context.Context, uids []string) ([]entity.Listing, error) {
	if len(uids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+listingColumns+`
		FROM listings
		WHERE item_uid IN (?)
		ORDER BY end_at DESC`, uids)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to build query")
	}

	var schemas []listingSchema
	if err := r.db.SelectContext(ctx, &schemas, r.db.Rebind(query), args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get listings")
	}

	return lo.Map(schemas, func(s listingSchema, _ int) entity.Listing { return s.toDomain() }), nil
}

// BySeller последние лоты продавца, новые первыми.
func (r *ListingRepository) BySeller(ctx context.Context, seller string, limit int) ([]entity.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE seller = $1
		ORDER BY end_at DESC
		LIMIT $2`

	var schemas []listingSchema
	if err := r.db.SelectContext(ctx, &schemas, query, seller, limit); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get seller listings")
	}

	return lo.Map(schemas, func(s listingSchema, _ int) entity.Listing { return s.toDomain() }), nil
}

// UpsertBatch сохраняет пачку лотов атомарно; существующие по uuid
// обновляются.
func (r *ListingRepository) UpsertBatch(ctx context.Context, listings []entity.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	query := `
		INSERT INTO listings (` + listingColumns + `)
		VALUES (:uuid, :item_uid, :tag, :item_name, :seller, :price, :highest_bid, :bin, :sold, :end_at)
		ON CONFLICT (uuid) DO UPDATE SET
			highest_bid = EXCLUDED.highest_bid,
			sold = EXCLUDED.sold,
			end_at = EXCLUDED.end_at`

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		for i, l := range listings {
			if _, err := tx.NamedExecContext(ctx, query, fromListing(l)); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, fmt.Sprintf("failed at index %d", i))
			}
		}

		return nil
	})
}
