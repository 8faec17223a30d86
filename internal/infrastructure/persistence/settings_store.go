package persistence

import (
	"context"
	"errors"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"sky_mods/internal/domain"
	"sky_mods/internal/domain/entity"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const settingsKeyPrefix = "sky_mods:settings:"

// SettingsStore хранит настройки аккаунта одним JSON-значением без TTL.
type SettingsStore struct {
	rdb *redis.Client
}

func NewSettingsStore(rdb *redis.Client) *SettingsStore {
	return &SettingsStore{rdb: rdb}
}

func settingsKey(accountID value.AccountID) string {
	return settingsKeyPrefix + accountID.String()
}

func (s *SettingsStore) Get(ctx context.Context, accountID value.AccountID) (entity.Settings, error) {
	b, err := s.rdb.Get(ctx, settingsKey(accountID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.Settings{}, domain.NewError(errcodes.SettingsNotFound, "settings not found")
		}

		return entity.Settings{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get settings")
	}

	var settings entity.Settings
	if err = json.Unmarshal(b, &settings); err != nil {
		return entity.Settings{}, domain.WrapError(err, errcodes.InternalServerError, "stored settings are corrupted")
	}

	return settings, nil
}

func (s *SettingsStore) Put(ctx context.Context, accountID value.AccountID, settings entity.Settings) error {
	b, err := json.Marshal(settings)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to marshal settings")
	}

	if err = s.rdb.Set(ctx, settingsKey(accountID), b, 0).Err(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to save settings")
	}

	return nil
}
