package server

import (
	"context"
	"fmt"
	"log/slog"

	"git.appkode.ru/pub/go/failure"
	"github.com/samber/lo"

	"sky_mods/internal/domain"
	"sky_mods/internal/domain/entity"
	"sky_mods/internal/domain/service/description"
	"sky_mods/internal/domain/service/inventory"
	"sky_mods/internal/domain/service/render"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/contextx"
	"sky_mods/pkg/errcodes"
	"sky_mods/pkg/logx"
	"sky_mods/pkg/lox"
	"sky_mods/pkg/rest"
)

func parseAccountID(raw string) (value.AccountID, error) {
	id, err := value.ParseAccountID(raw)
	if err != nil {
		return "", failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseAccountID: %w", err),
			failure.WithCode(errcodes.InvalidAccountID),
			failure.WithDescription("accountId must be a uuid"),
		)
	}

	return id, nil
}

// withAccount кладёт аккаунт в контекст и в поля логгера запроса.
func withAccount(ctx context.Context, id value.AccountID) context.Context {
	ctx = contextx.WithAccountID(ctx, contextx.AccountID(id))

	return contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldAccountID, id.String())))
}

func newDomainRequest(request rest.DescriptionRequest) (description.Request, error) {
	out := description.Request{
		Title: request.Title,
		Inventory: inventory.Input{
			Base64: request.FullInventoryNbt,
			JSON:   request.JSONNbt,
		},
	}

	if request.AccountID != "" {
		id, err := parseAccountID(request.AccountID)
		if err != nil {
			return description.Request{}, err
		}

		out.AccountID = id
	}

	if request.Settings != nil {
		settings, err := newDomainSettings(*request.Settings)
		if err != nil {
			return description.Request{}, err
		}

		out.Settings = &settings
	}

	return out, nil
}

func parseField(raw string) (entity.Field, error) {
	f := entity.Field(raw)
	if !f.Valid() {
		return "", failure.NewInvalidArgumentError(
			"unknown field "+raw,
			failure.WithCode(errcodes.InvalidSettings),
			failure.WithDescription(fmt.Sprintf("unknown field %q", raw)),
		)
	}

	return f, nil
}

func newDomainSettings(settings rest.Settings) (entity.Settings, error) {
	fields, err := lox.MapErr(settings.Fields, parseField)
	if err != nil {
		return entity.Settings{}, err
	}

	return entity.Settings{
		Fields:   fields,
		Disabled: settings.Disabled,
		NoTips:   settings.NoTips,
	}, nil
}

func newRESTSettings(settings entity.Settings) rest.Settings {
	return rest.Settings{
		Fields:   lo.Map(settings.Fields, func(f entity.Field, _ int) string { return string(f) }),
		Disabled: settings.Disabled,
		NoTips:   settings.NoTips,
	}
}

func newRESTEdits(edits []value.Edit) []rest.Edit {
	out := make([]rest.Edit, len(edits))
	for i, e := range edits {
		out[i] = rest.Edit{Type: e.Kind.String(), Line: e.Line, Value: e.Value}
	}

	return out
}

func newRESTDescription(d *description.Description) rest.DescriptionResponse {
	slots := make([][]rest.Edit, len(d.Slots))
	for i, edits := range d.Slots {
		slots[i] = newRESTEdits(edits)
	}

	virtual := make([]rest.Panel, len(d.Virtual))
	for i, p := range d.Virtual {
		virtual[i] = rest.Panel{Name: p.Name, Edits: newRESTEdits(p.Edits)}
	}

	return rest.DescriptionResponse{
		Slots:           slots,
		Virtual:         virtual,
		PricesAvailable: d.PricesAvailable,
	}
}

func newRESTSlot(slot render.Slot) rest.RenderedSlot {
	lines := slot.Lines
	if lines == nil {
		lines = []string{}
	}

	return rest.RenderedSlot{Lines: lines, Highlight: slot.Highlight, Suggest: slot.Suggest}
}

func newRESTRendered(d *description.Description) rest.RenderedResponse {
	slots, panels := d.Render()

	return rest.RenderedResponse{
		Slots: lo.Map(slots, func(s render.Slot, _ int) rest.RenderedSlot { return newRESTSlot(s) }),
		Virtual: lo.Map(panels, func(p description.RenderedPanel, _ int) rest.RenderedPanel {
			return rest.RenderedPanel{Name: p.Name, RenderedSlot: newRESTSlot(p.Slot)}
		}),
		PricesAvailable: d.PricesAvailable,
	}
}

// domainError переводит ошибки клиента в 400; остальное уходит как есть и
// отвечает 500.
func domainError(err error) error {
	code, ok := domain.GetCode(err)
	if !ok {
		return err
	}

	switch code {
	case errcodes.InvalidInventory, errcodes.InvalidSettings, errcodes.InvalidAccountID, errcodes.InvalidSlot:
		return failure.NewInvalidArgumentErrorFromError(
			err,
			failure.WithCode(code),
			failure.WithDescription(err.Error()),
		)
	default:
		return err
	}
}
