package builtin

import (
	"context"
	"time"

	"sky_mods/internal/domain/entity"
	"sky_mods/internal/domain/service/modifier"
	"sky_mods/internal/domain/service/pricing"
	"sky_mods/internal/domain/value"
)

const (
	tipPanel           = "tip"
	defaultTipRotation = 10 * time.Minute
)

type tip struct {
	text string
	// forFree показывать только аккаунтам без подписки.
	forFree bool
}

var tips = []tip{ //nolint:gochecknoglobals
	{text: "Open the auction house to see flips on every page."},
	{text: "Enable CRAFT_COST in settings to compare prices with crafting."},
	{text: "Items marked ~ are priced by a similar item, not an exact match."},
	{text: "Overpriced auctions in Manage Auctions get a suggested price."},
	{text: "Trade screens warn you when you receive less than half."},
	{text: "Premium shows price history on every item.", forFree: true},
}

// Tips показывает подсказку в главном меню. Подсказка меняется раз
// в TipRotation и однозначно определяется временем, поэтому повторный
// запрос в том же окне даёт тот же ответ.
type Tips struct {
	now      func() time.Time
	rotation time.Duration
}

func NewTips(now func() time.Time, rotation time.Duration) Tips {
	if now == nil {
		now = time.Now
	}

	if rotation <= 0 {
		rotation = defaultTipRotation
	}

	return Tips{now: now, rotation: rotation}
}

func (Tips) Name() string { return "tips" }

func (Tips) Match(kind string) bool {
	return modifier.HasPrefix(kind, "SkyBlock Menu")
}

func (Tips) Prepare(_ context.Context, s *modifier.Scope) error {
	if !s.Settings().NoTips {
		s.Need(pricing.NeedAccount)
	}

	return nil
}

func (t Tips) Apply(_ context.Context, data *pricing.DataContainer, w *modifier.Writer) error {
	if data.Settings.NoTips {
		return nil
	}

	now := t.now()
	free := data.Account.ActiveAt(now) == entity.AccountTierNone

	available := make([]tip, 0, len(tips))

	for _, tp := range tips {
		if !tp.forFree || free {
			available = append(available, tp)
		}
	}

	idx := int(now.UnixNano()/int64(t.rotation)) % len(available)

	w.Panel(tipPanel).Append(value.Yellow + "Tip: " + value.Gray + available[idx].text)

	return nil
}
