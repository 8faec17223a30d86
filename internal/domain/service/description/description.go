// Package description glues the request path together: decode the snapshot,
// map slots, resolve account settings and run the modifier pipeline.
package description

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sky_mods/internal/domain/entity"
	"sky_mods/internal/domain/service/inventory"
	"sky_mods/internal/domain/service/modifier"
	"sky_mods/internal/domain/service/render"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/contextx"
	"sky_mods/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type settingsProvider interface {
	Resolve(ctx context.Context, accountID value.AccountID) entity.Settings
}

type Service struct {
	decoder  *inventory.Decoder
	mapper   *inventory.Mapper
	pipeline *modifier.Pipeline
	settings settingsProvider
}

func NewService(
	decoder *inventory.Decoder,
	mapper *inventory.Mapper,
	pipeline *modifier.Pipeline,
	settings settingsProvider,
) *Service {
	return &Service{
		decoder:  decoder,
		mapper:   mapper,
		pipeline: pipeline,
		settings: settings,
	}
}

type Request struct {
	Title     string
	Inventory inventory.Input
	AccountID value.AccountID
	// Settings настройки из тела запроса; nil — взять сохранённые.
	Settings *entity.Settings
}

// Description журнал правок по слотам и панелям. Lore — исходные описания,
// к которым относятся индексы правок.
type Description struct {
	Kind            string
	Slots           [][]value.Edit
	Virtual         []modifier.Panel
	Lore            [][]string
	PricesAvailable bool
	Failed          []string
}

// RenderedPanel панель с готовыми строками.
type RenderedPanel struct {
	Name string
	render.Slot
}

// Describe возвращает ошибку только для нечитаемого снимка. Недоступные
// цены и упавшие модификаторы дают неполный, но валидный ответ.
func (s *Service) Describe(ctx context.Context, req Request) (*Description, error) {
	start := time.Now()

	nodes, err := s.decoder.Decode(ctx, req.Inventory)
	if err != nil {
		return nil, fmt.Errorf("decoder.Decode: %w", err)
	}

	items, reps := s.mapper.Map(ctx, nodes)

	settings := entity.DefaultSettings()

	switch {
	case req.Settings != nil:
		settings, err = normalizeSettings(*req.Settings)
		if err != nil {
			return nil, err
		}
	case req.AccountID != "":
		settings = s.settings.Resolve(ctx, req.AccountID)
	}

	result, err := s.pipeline.Run(ctx, modifier.Input{
		Title:           req.Title,
		AccountID:       req.AccountID.String(),
		Items:           items,
		Representations: reps,
		Settings:        settings,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline.Run: %w", err)
	}

	d := &Description{
		Kind:            result.Data.Kind,
		Slots:           result.Slots,
		Virtual:         result.Virtual,
		Lore:            result.Data.Lore,
		PricesAvailable: result.Data.PricesAvailable,
		Failed:          result.Failed,
	}

	logger(ctx).Info("description built",
		slog.String(logx.FieldInventoryKind, d.Kind),
		slog.Int("slots", len(d.Slots)),
		slog.Int("panels", len(d.Virtual)),
		slog.Bool("prices", d.PricesAvailable),
		slog.Any("failed", d.Failed),
		slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
	)

	return d, nil
}

// Render применяет правки к исходным описаниям.
func (d *Description) Render() ([]render.Slot, []RenderedPanel) {
	slots := render.All(d.Lore, d.Slots)

	panels := make([]RenderedPanel, len(d.Virtual))
	for i, p := range d.Virtual {
		panels[i] = RenderedPanel{Name: p.Name, Slot: render.Render(nil, p.Edits)}
	}

	return slots, panels
}
