package builtin

import (
	"context"

	"sky_mods/internal/domain/service/modifier"
	"sky_mods/internal/domain/service/pricing"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/numfmt"
)

// darkAuctionSlot слот лота на экране тёмного аукциона.
const darkAuctionSlot = 13

// DarkAuction сравнивает текущую ставку с медианой. Питомцы на тёмном
// аукционе продаются без опыта, поэтому exp обнуляется до оценки.
type DarkAuction struct{}

func (DarkAuction) Name() string { return "dark_auction" }

func (DarkAuction) Match(kind string) bool {
	return modifier.HasPrefix(kind, "Dark Auction")
}

func (DarkAuction) Prepare(_ context.Context, s *modifier.Scope) error {
	rep := s.Representation(darkAuctionSlot)
	if rep == nil || rep.IsEmpty() {
		return nil
	}

	if _, ok := rep.Attributes["exp"]; ok {
		rep.Attributes["exp"] = "0"
	}

	return nil
}

func (DarkAuction) Apply(_ context.Context, data *pricing.DataContainer, w *modifier.Writer) error {
	p := data.Price(darkAuctionSlot)
	if p == nil || p.Median <= 0 {
		return nil
	}

	lore := data.Lore[darkAuctionSlot]
	slot := w.Slot(darkAuctionSlot)

	bid, line, ok := lineNumber(lore, "Top bid:")
	if !ok {
		bid, line, ok = lineNumber(lore, "Starting bid:")
	}

	median := value.Gray + "Med: " + value.Gold + approx(p.MedianConfident()) + numfmt.Coins(p.Median)

	if !ok {
		slot.Append(median)
		return nil
	}

	slot.Insert(line+1, median)

	if bid < p.Median {
		slot.Insert(line+1, value.Green+"Profit: "+numfmt.Coins(p.Median-bid))
		slot.Highlight(value.ColorProfit)
	}

	return nil
}
