package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"sky_mods/internal/domain/entity"
)

const (
	bazaarCacheKey = "bazaar"
	craftsCacheKey = "crafts"
)

// SnapshotCache держит последние снимки базара и таблицы крафтов.
// Воркер обновляет их по расписанию, запросы читают кэш и идут в источник
// только при промахе.
type SnapshotCache struct {
	bazaar BazaarSource
	crafts CraftSource
	cache  *cache.Cache
}

func NewSnapshotCache(bazaar BazaarSource, crafts CraftSource, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		bazaar: bazaar,
		crafts: crafts,
		cache:  cache.New(ttl, 2*ttl),
	}
}

func (s *SnapshotCache) Snapshot(ctx context.Context) (map[string]entity.BazaarPrice, error) {
	if v, ok := s.cache.Get(bazaarCacheKey); ok {
		return v.(map[string]entity.BazaarPrice), nil //nolint:forcetypeassert
	}

	return s.refreshBazaar(ctx)
}

func (s *SnapshotCache) CraftCosts(ctx context.Context) (map[string]entity.CraftCost, error) {
	if v, ok := s.cache.Get(craftsCacheKey); ok {
		return v.(map[string]entity.CraftCost), nil //nolint:forcetypeassert
	}

	return s.refreshCrafts(ctx)
}

// Refresh перечитывает оба источника. Старое значение остаётся в кэше,
// если источник не ответил.
func (s *SnapshotCache) Refresh(ctx context.Context) error {
	_, errBazaar := s.refreshBazaar(ctx)
	_, errCrafts := s.refreshCrafts(ctx)

	return errors.Join(errBazaar, errCrafts)
}

func (s *SnapshotCache) refreshBazaar(ctx context.Context) (map[string]entity.BazaarPrice, error) {
	v, err := s.bazaar.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("bazaar.Snapshot: %w", err)
	}

	s.cache.SetDefault(bazaarCacheKey, v)

	return v, nil
}

func (s *SnapshotCache) refreshCrafts(ctx context.Context) (map[string]entity.CraftCost, error) {
	v, err := s.crafts.CraftCosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("crafts.CraftCosts: %w", err)
	}

	s.cache.SetDefault(craftsCacheKey, v)

	return v, nil
}
