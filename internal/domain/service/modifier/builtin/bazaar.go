package builtin

import (
	"context"

	"sky_mods/internal/domain/service/modifier"
	"sky_mods/internal/domain/service/pricing"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/numfmt"
)

// Bazaar показывает спред между заявками на покупку и продажу.
type Bazaar struct{}

func (Bazaar) Name() string { return "bazaar" }

func (Bazaar) Match(kind string) bool {
	return modifier.HasPrefix(kind, "Bazaar")
}

func (Bazaar) Prepare(_ context.Context, s *modifier.Scope) error {
	s.Need(pricing.NeedBazaar)
	return nil
}

func (Bazaar) Apply(_ context.Context, data *pricing.DataContainer, w *modifier.Writer) error {
	for i, item := range data.Items {
		if item.IsEmpty() {
			continue
		}

		bz, ok := data.BazaarPrice(itemTag(item))
		if !ok || bz.Sell <= 0 || bz.Buy <= 0 {
			continue
		}

		spread := bz.Buy - bz.Sell

		w.Slot(i).
			Append(value.Gray + "Buy: " + value.Gold + numfmt.Coins(bz.Buy) + value.Gray + " Sell: " + value.Gold + numfmt.Coins(bz.Sell)).
			Append(value.Gray + "Spread: " + value.Gold + numfmt.Coins(spread) + value.Gray + " (" + numfmt.Percent(spread/bz.Sell) + ")")
	}

	return nil
}
