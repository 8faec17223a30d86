package description

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"sky_mods/internal/domain"
	"sky_mods/internal/domain/entity"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/errcodes"
	"sky_mods/pkg/logx"
)

const defaultSettingsTTL = time.Minute

type SettingsStore interface {
	// Get возвращает errcodes.SettingsNotFound, если аккаунт ничего не сохранял.
	Get(ctx context.Context, accountID value.AccountID) (entity.Settings, error)
	Put(ctx context.Context, accountID value.AccountID, settings entity.Settings) error
}

// SettingsService держит в кэше неизменяемые *entity.Settings: запись
// подменяет указатель целиком, читатель видит либо старое, либо новое
// значение.
type SettingsService struct {
	store SettingsStore
	cache *cache.Cache
}

func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{
		store: store,
		cache: cache.New(defaultSettingsTTL, 2*defaultSettingsTTL),
	}
}

func (s *SettingsService) WithTTL(ttl time.Duration) *SettingsService {
	if ttl > 0 {
		s.cache = cache.New(ttl, 2*ttl)
	}

	return s
}

// Get возвращает сохранённые настройки, а для нового аккаунта настройки по умолчанию.
func (s *SettingsService) Get(ctx context.Context, accountID value.AccountID) (entity.Settings, error) {
	if v, ok := s.cache.Get(accountID.String()); ok {
		return *v.(*entity.Settings), nil //nolint:forcetypeassert
	}

	settings, err := s.store.Get(ctx, accountID)
	if err != nil {
		if !domain.HasCode(err, errcodes.SettingsNotFound) {
			return entity.Settings{}, fmt.Errorf("store.Get: %w", err)
		}

		settings = entity.DefaultSettings()
	}

	s.cache.SetDefault(accountID.String(), &settings)

	return settings, nil
}

// Resolve как Get, но при недоступном хранилище отдаёт настройки по
// умолчанию: описание без пользовательских полей лучше, чем никакое.
func (s *SettingsService) Resolve(ctx context.Context, accountID value.AccountID) entity.Settings {
	settings, err := s.Get(ctx, accountID)
	if err != nil {
		logger(ctx).Warn("settings unavailable, using defaults",
			slog.String(logx.FieldAccountID, accountID.String()),
			logx.Error(err),
		)

		return entity.DefaultSettings()
	}

	return settings
}

func (s *SettingsService) Put(ctx context.Context, accountID value.AccountID, settings entity.Settings) error {
	settings, err := normalizeSettings(settings)
	if err != nil {
		return err
	}

	if err = s.store.Put(ctx, accountID, settings); err != nil {
		return fmt.Errorf("store.Put: %w", err)
	}

	s.cache.SetDefault(accountID.String(), &settings)

	return nil
}

// normalizeSettings проверяет поля и убирает повторы, сохраняя порядок.
// Результат не делит память со входом.
func normalizeSettings(settings entity.Settings) (entity.Settings, error) {
	for _, f := range settings.Fields {
		if !f.Valid() {
			return entity.Settings{}, domain.NewError(errcodes.InvalidSettings, fmt.Sprintf("unknown field %q", f))
		}
	}

	return entity.Settings{
		Fields:   lo.Uniq(settings.Fields),
		Disabled: lo.Uniq(settings.Disabled),
		NoTips:   settings.NoTips,
	}, nil
}
