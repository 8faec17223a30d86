package builtin

import (
	"context"
	"strings"

	"sky_mods/internal/domain/service/modifier"
	"sky_mods/internal/domain/service/pricing"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/numfmt"
)

const fishPanel = "fishing_bag"

// vanillaFish у рыбы в сумке нет id, тег восстанавливается по имени.
var vanillaFish = map[string]string{ //nolint:gochecknoglobals
	"Raw Fish":            "RAW_FISH",
	"Raw Salmon":          "RAW_FISH:1",
	"Clownfish":           "RAW_FISH:2",
	"Pufferfish":          "RAW_FISH:3",
	"Prismarine Shard":    "PRISMARINE_SHARD",
	"Prismarine Crystals": "PRISMARINE_CRYSTALS",
	"Sponge":              "SPONGE",
	"Ink Sack":            "INK_SACK",
	"Lily Pad":            "WATER_LILY",
}

var trophyTiers = []string{"Bronze", "Silver", "Gold", "Diamond"} //nolint:gochecknoglobals

// FishingBag синтезирует представления для рыбы: в сумке это кнопки без
// тега, и без подмены оценщику нечего оценивать.
type FishingBag struct{}

func (FishingBag) Name() string { return "fishing_bag" }

func (FishingBag) Match(kind string) bool {
	return modifier.HasPrefix(kind, "Fishing Bag", "Trophy Fishing")
}

func (FishingBag) Prepare(_ context.Context, s *modifier.Scope) error {
	s.Need(pricing.NeedBazaar)

	for i := range s.Len() {
		item := s.Item(i)
		if item.Tag != "" {
			continue
		}

		tag, ok := fishTag(plainName(item))
		if !ok {
			continue
		}

		count := item.Count
		if stored, _, ok := lineNumber(item.Lore, "Stored:"); ok && stored > 0 {
			count = int(stored)
		}

		rep := s.Representation(i)
		rep.Tag = tag
		rep.Count = max(count, 1)
	}

	return nil
}

func (FishingBag) Apply(_ context.Context, data *pricing.DataContainer, w *modifier.Writer) error {
	var total float64

	for i, item := range data.Items {
		rep := data.Representations[i]
		if item.Tag != "" || rep.IsEmpty() {
			continue
		}

		unit := 0.0
		if bz, ok := data.BazaarPrice(rep.Tag); ok {
			unit = bz.Sell
		} else if p := data.Price(i); p != nil {
			unit = p.Value()
		}

		if unit <= 0 {
			continue
		}

		v := unit * float64(rep.Count)
		total += v

		w.Slot(i).Append(value.Gray + "Value: " + value.Gold + numfmt.Coins(v))
	}

	if total > 0 {
		w.Panel(fishPanel).Append(value.Gray + "Bag value: " + value.Gold + numfmt.Coins(total))
	}

	return nil
}

// fishTag: "Raw Salmon" → RAW_FISH:1, "Gusher Silver" → GUSHER_SILVER.
func fishTag(name string) (string, bool) {
	if tag, ok := vanillaFish[name]; ok {
		return tag, true
	}

	for _, tier := range trophyTiers {
		if strings.HasSuffix(name, " "+tier) {
			return tagFromName(name), true
		}
	}

	return "", false
}
