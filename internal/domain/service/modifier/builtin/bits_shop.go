package builtin

import (
	"context"
	"strings"

	"sky_mods/internal/domain/service/inventory"
	"sky_mods/internal/domain/service/modifier"
	"sky_mods/internal/domain/service/pricing"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/numfmt"
)

// BitsShop пересчитывает цену предмета в монеты за один бит.
type BitsShop struct {
	modifier.NoPrepare
}

func (BitsShop) Name() string { return "bits_shop" }

func (BitsShop) Match(kind string) bool {
	return modifier.HasPrefix(kind, "Community Shop", "Bits Shop")
}

func (BitsShop) Apply(_ context.Context, data *pricing.DataContainer, w *modifier.Writer) error {
	for i, item := range data.Items {
		v, ok := stackValue(data, i)
		if !ok {
			continue
		}

		bits, line, ok := bitsCost(item.Lore)
		if !ok {
			continue
		}

		w.Slot(i).Insert(line+1, value.Gray+"Coins per bit: "+value.Gold+numfmt.Coins(v/bits))
	}

	return nil
}

// bitsCost цена в битах из строки вида "§b2,000 Bits". Строка "Bits" без
// числа ценой не считается.
func bitsCost(lore []string) (float64, int, bool) {
	for i, line := range lore {
		plain := strings.TrimSpace(inventory.StripFormatting(line))
		if !strings.HasSuffix(plain, "Bits") {
			continue
		}

		v, ok := parseNumber(strings.TrimSuffix(plain, "Bits"))
		if !ok || v <= 0 {
			continue
		}

		return v, i, true
	}

	return 0, -1, false
}
