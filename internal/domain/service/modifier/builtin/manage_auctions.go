package builtin

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/lo"

	"sky_mods/internal/domain/entity"
	"sky_mods/internal/domain/service/inventory"
	"sky_mods/internal/domain/service/modifier"
	"sky_mods/internal/domain/service/pricing"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/numfmt"
)

const (
	sellerListingsTask  = "manage_auctions.seller_listings"
	sellerListingsLimit = 100
	// overpriced во сколько раз цена должна превысить медиану.
	overpriced = 1.1
)

var errNoSellerSource = errors.New("seller listings source is not configured")

// ManageAuctions подсвечивает свои лоты с завышенной ценой и предлагает
// медиану в качестве цены. Проданные лоты перекрашиваются в серый поверх
// любой предыдущей подсветки.
type ManageAuctions struct {
	listings SellerListings
}

func NewManageAuctions(listings SellerListings) ManageAuctions {
	return ManageAuctions{listings: listings}
}

func (ManageAuctions) Name() string { return "manage_auctions" }

func (ManageAuctions) Match(kind string) bool {
	return modifier.HasPrefix(kind, "Manage Auctions", "Your Bids")
}

func (m ManageAuctions) Prepare(_ context.Context, s *modifier.Scope) error {
	if s.AccountID() == "" {
		return nil
	}

	if m.listings == nil {
		return errNoSellerSource
	}

	seller := s.AccountID()

	s.Go(sellerListingsTask, func(ctx context.Context) (any, error) {
		return m.listings.BySeller(ctx, seller, sellerListingsLimit)
	})

	return nil
}

func (ManageAuctions) Apply(_ context.Context, data *pricing.DataContainer, w *modifier.Writer) error {
	history, _ := pricing.ResultAs[[]entity.Listing](data, sellerListingsTask)

	sold := lo.SliceToMap(
		lo.Filter(history, func(l entity.Listing, _ int) bool { return l.Sold }),
		func(l entity.Listing) (string, entity.Listing) { return l.ItemUID, l },
	)

	for i, item := range data.Items {
		price, line, ok := lineNumber(item.Lore, "Buy it now:")
		if !ok {
			price, line, ok = lineNumber(item.Lore, "Starting bid:")
		}

		if !ok {
			continue
		}

		slot := w.Slot(i)

		if p := data.Price(i); p != nil && p.Median > 0 && price > p.Median*overpriced {
			slot.Insert(line+1, value.Red+"Overpriced, med: "+numfmt.Coins(p.Median))
			slot.Highlight(value.ColorLoss)
			slot.Suggest(numfmt.Plain(p.Median))
		}

		if l, ok := sold[entity.ShortID(item.UUID())]; ok && item.UUID() != "" {
			slot.Append(value.Gray + "Sold for " + numfmt.Coins(float64(l.PaidPrice())))
			markSold(w, i)

			continue
		}

		if isSold(item) {
			markSold(w, i)
		}
	}

	return nil
}

// markSold красит слот в серый, если он ещё не серый.
func markSold(w *modifier.Writer, i int) {
	if c, ok := w.Highlight(i); ok && c == value.ColorSold {
		return
	}

	w.Slot(i).Highlight(value.ColorSold)
}

func isSold(item entity.Item) bool {
	return strings.Contains(inventory.StripFormatting(item.Description), "Status: Sold!")
}
