package builtin

import (
	"context"

	"sky_mods/internal/domain/service/modifier"
	"sky_mods/internal/domain/service/pricing"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/numfmt"
)

const (
	flipPanel = "best_flip"
	// auctionTax комиссия при продаже, снимается с медианы.
	auctionTax = 0.02
)

// AuctionHouse считает профит перепродажи для лотов «Buy it now» и выводит
// лучший лот страницы отдельной панелью.
type AuctionHouse struct {
	modifier.NoPrepare
}

func (AuctionHouse) Name() string { return "auction_house" }

func (AuctionHouse) Match(kind string) bool {
	return modifier.HasPrefix(kind, "Auctions Browser", "Auctions:", "Auction House")
}

func (AuctionHouse) Apply(_ context.Context, data *pricing.DataContainer, w *modifier.Writer) error {
	bestSlot, bestProfit := -1, 0.0

	for i, item := range data.Items {
		bin, line, ok := lineNumber(item.Lore, "Buy it now:")
		if !ok || bin <= 0 {
			continue
		}

		p := data.Price(i)
		if p == nil || p.Median <= 0 {
			continue
		}

		profit := p.Median*(1-auctionTax) - bin
		slot := w.Slot(i)

		if profit <= 0 {
			slot.Insert(line+1, value.Gray+"Med: "+value.Gold+approx(p.MedianConfident())+numfmt.Coins(p.Median))
			continue
		}

		slot.Insert(line+1, value.Green+"Flip: +"+numfmt.Coins(profit)+value.Gray+" ("+numfmt.Percent(profit/bin)+")")
		slot.Highlight(value.ColorProfit)

		if profit > bestProfit {
			bestSlot, bestProfit = i, profit
		}
	}

	if bestSlot >= 0 {
		w.Slot(bestSlot).Highlight(value.ColorBest)
		w.Panel(flipPanel).
			Append(value.Gold + value.Bold + "Best flip on this page").
			Append(data.Items[bestSlot].Name).
			Append(value.Green + "+" + numfmt.Coins(bestProfit))
	}

	return nil
}
