package builtin

import (
	"context"
	"fmt"
	"strings"

	"sky_mods/internal/domain/entity"
	"sky_mods/internal/domain/service/modifier"
	"sky_mods/internal/domain/service/pricing"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/numfmt"
)

// PriceFields дописывает каждому оценённому предмету поля, включённые
// в настройках, в порядке настроек.
type PriceFields struct {
	modifier.NoPrepare
}

func (PriceFields) Name() string { return "price_fields" }

func (PriceFields) Match(string) bool { return true }

func (PriceFields) Apply(_ context.Context, data *pricing.DataContainer, w *modifier.Writer) error {
	for i, item := range data.Items {
		if !item.Priceable() {
			continue
		}

		slot := w.Slot(i)

		for _, f := range data.Settings.Fields {
			if line, ok := fieldLine(data, i, f); ok {
				slot.Append(line)
			}
		}
	}

	return nil
}

func fieldLine(data *pricing.DataContainer, i int, f entity.Field) (string, bool) {
	item := data.Item(i)
	p := data.Price(i)

	switch f {
	case entity.FieldLbin:
		if p == nil || p.Lbin <= 0 {
			return "", false
		}

		return label("Lbin", approx(p.LbinConfident())+numfmt.Coins(p.Lbin)), true
	case entity.FieldMedian:
		if p == nil || p.Median <= 0 {
			return "", false
		}

		return label("Med", approx(p.MedianConfident())+numfmt.Coins(p.Median)), true
	case entity.FieldLbinKey:
		return keyLine("Lbin key", p, func(p *entity.PriceEstimate) string { return p.LbinKey })
	case entity.FieldMedianKey:
		return keyLine("Med key", p, func(p *entity.PriceEstimate) string { return p.MedianKey })
	case entity.FieldItemKey:
		return keyLine("Item key", p, func(p *entity.PriceEstimate) string { return p.ItemKey })
	case entity.FieldVolume:
		if p == nil || p.Volume <= 0 {
			return "", false
		}

		return label("Volume", numfmt.Coins(p.Volume)+" per day"), true
	case entity.FieldTag:
		return label("Tag", item.Tag), true
	case entity.FieldBazaarBuy, entity.FieldBazaarSell:
		bz, ok := data.BazaarPrice(item.Tag)
		if !ok {
			return "", false
		}

		if f == entity.FieldBazaarBuy {
			return label("Bazaar buy", stack(bz.Buy, item.Count)), true
		}

		return label("Bazaar sell", stack(bz.Sell, item.Count)), true
	case entity.FieldEnchantCost:
		cost := enchantCost(data, item)
		if cost <= 0 {
			return "", false
		}

		return label("Enchants", numfmt.Coins(cost)), true
	case entity.FieldPricePaid:
		l, ok := data.Listing(item)
		if !ok {
			return "", false
		}

		return label("Paid", numfmt.Coins(float64(l.PaidPrice()))), true
	case entity.FieldCraftCost:
		c, ok := data.Crafts[item.Tag]
		if !ok || c.Cost <= 0 {
			return "", false
		}

		return label("Craft cost", numfmt.Coins(c.Cost)), true
	}

	return "", false
}

func label(name, v string) string {
	return value.Gray + name + ": " + value.Gold + v
}

// approx "~" перед ценой, посчитанной не по точному набору атрибутов.
func approx(confident bool) string {
	if confident {
		return ""
	}

	return "~"
}

func keyLine(name string, p *entity.PriceEstimate, key func(*entity.PriceEstimate) string) (string, bool) {
	if p == nil || key(p) == "" {
		return "", false
	}

	return value.Gray + name + ": " + value.Reset + key(p), true
}

func stack(unit float64, count int) string {
	if count <= 1 {
		return numfmt.Coins(unit)
	}

	return fmt.Sprintf("%s (%s for %d)", numfmt.Coins(unit), numfmt.Coins(unit*float64(count)), count)
}

// enchantCost сумма книг на базаре: ENCHANTMENT_<NAME>_<LEVEL>.
func enchantCost(data *pricing.DataContainer, item entity.Item) float64 {
	var total float64

	for _, e := range item.Enchantments {
		tag := fmt.Sprintf("ENCHANTMENT_%s_%d", strings.ToUpper(e.Type), e.Level)
		if bz, ok := data.BazaarPrice(tag); ok {
			total += bz.Buy
		}
	}

	return total
}
