// Package builtin holds the modifiers shipped with the service, in the order
// they are registered.
package builtin

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sky_mods/internal/domain/entity"
	"sky_mods/internal/domain/service/inventory"
	"sky_mods/internal/domain/service/modifier"
	"sky_mods/internal/domain/service/pricing"
)

// SellerListings прошлые лоты продавца для экрана своих аукционов.
type SellerListings interface {
	BySeller(ctx context.Context, seller string, limit int) ([]entity.Listing, error)
}

type Deps struct {
	SellerListings SellerListings
	// Now и TipRotation задают ротацию подсказок.
	Now         func() time.Time
	TipRotation time.Duration
}

// Default встроенные модификаторы в порядке применения. Порядок важен:
// более специфичные модификаторы идут позже и перекрывают подсветку общих.
func Default(deps Deps) []modifier.Modifier {
	return []modifier.Modifier{
		PriceFields{},
		Sack{},
		FishingBag{},
		DarkAuction{},
		AuctionHouse{},
		NewManageAuctions(deps.SellerListings),
		Bazaar{},
		BitsShop{},
		Trade{},
		DungeonChest{},
		UpgradeCost{},
		NewTips(deps.Now, deps.TipRotation),
	}
}

var numberPattern = regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})+|\d+)(\.\d+)?\s*([kmb])?\b`) //nolint:gochecknoglobals

// parseNumber достаёт первое число из строки описания: "1,234.5",
// "2.5M", "§6100,000 coins".
func parseNumber(line string) (float64, bool) {
	m := numberPattern.FindStringSubmatch(inventory.StripFormatting(line))
	if m == nil {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "")+m[2], 64)
	if err != nil {
		return 0, false
	}

	switch strings.ToLower(m[3]) {
	case "k":
		v *= 1_000
	case "m":
		v *= 1_000_000
	case "b":
		v *= 1_000_000_000
	}

	return v, true
}

// findLine индекс первой строки, которая без форматирования начинается
// с prefix.
func findLine(lore []string, prefix string) (int, bool) {
	for i, line := range lore {
		if strings.HasPrefix(strings.TrimSpace(inventory.StripFormatting(line)), prefix) {
			return i, true
		}
	}

	return -1, false
}

// lineNumber число из строки, начинающейся с prefix.
func lineNumber(lore []string, prefix string) (float64, int, bool) {
	i, ok := findLine(lore, prefix)
	if !ok {
		return 0, -1, false
	}

	v, ok := parseNumber(strings.TrimPrefix(strings.TrimSpace(inventory.StripFormatting(lore[i])), prefix))

	return v, i, ok
}

// stackValue оценка всего стака в слоте i.
func stackValue(data *pricing.DataContainer, i int) (float64, bool) {
	p := data.Price(i)
	if p == nil {
		return 0, false
	}

	v := p.Value()
	if v <= 0 {
		return 0, false
	}

	count := data.Item(i).Count
	if count < 1 {
		count = 1
	}

	return v * float64(count), true
}

func plainName(item entity.Item) string {
	return strings.TrimSpace(inventory.StripFormatting(item.Name))
}

var nonTagChars = regexp.MustCompile(`[^A-Z0-9_]`) //nolint:gochecknoglobals

// tagFromName тег по отображаемому имени для кнопок интерфейса, у которых
// нет ExtraAttributes.id ("Enchanted Diamond" → ENCHANTED_DIAMOND).
func tagFromName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(inventory.StripFormatting(name)))
	name = strings.ReplaceAll(name, " ", "_")

	return nonTagChars.ReplaceAllString(name, "")
}

func itemTag(item entity.Item) string {
	if item.Tag != "" {
		return item.Tag
	}

	return tagFromName(item.Name)
}
