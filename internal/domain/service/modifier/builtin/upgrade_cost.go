package builtin

import (
	"context"
	"strings"

	"sky_mods/internal/domain/entity"
	"sky_mods/internal/domain/service/inventory"
	"sky_mods/internal/domain/service/modifier"
	"sky_mods/internal/domain/service/pricing"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/numfmt"
)

// UpgradeCost суммирует стоимость требований под строкой "Cost".
//
// Требование связывается со слотом инвентаря только по совпадению
// отображаемого имени. Если два разных слота называются одинаково, берётся
// первый, и сумма может оказаться неверной; структурной ссылки в описании
// нет.
type UpgradeCost struct {
	modifier.NoPrepare
}

func (UpgradeCost) Name() string { return "upgrade_cost" }

func (UpgradeCost) Match(kind string) bool {
	return modifier.HasPrefix(kind, "Upgrade", "Reforge Anvil", "The Forge")
}

func (UpgradeCost) Apply(_ context.Context, data *pricing.DataContainer, w *modifier.Writer) error {
	byName := slotsByName(data.Items)

	for i, item := range data.Items {
		start, ok := findLine(item.Lore, "Cost")
		if !ok {
			continue
		}

		total, end := prereqValue(data, byName, item.Lore[start+1:])
		if total <= 0 {
			continue
		}

		w.Slot(i).Insert(start+1+end, value.Gray+"Upgrade cost: "+value.Gold+numfmt.Coins(total))
	}

	return nil
}

// prereqValue идёт по строкам после "Cost" до пустой строки. Возвращает
// сумму и число просмотренных строк.
func prereqValue(data *pricing.DataContainer, byName map[string]int, lines []string) (float64, int) {
	var total float64

	for n, line := range lines {
		plain := strings.TrimSpace(inventory.StripFormatting(line))
		if plain == "" {
			return total, n
		}

		if strings.HasSuffix(plain, "Coins") {
			if v, ok := parseNumber(plain); ok {
				total += v
			}

			continue
		}

		name, amount := splitAmount(plain)

		if i, ok := byName[name]; ok {
			if p := data.Price(i); p != nil {
				total += p.Value() * float64(amount)
			}

			continue
		}

		if bz, ok := data.BazaarPrice(tagFromName(name)); ok {
			total += bz.Buy * float64(amount)
		}
	}

	return total, len(lines)
}

// splitAmount: "Enchanted Diamond x32" → ("Enchanted Diamond", 32).
func splitAmount(s string) (string, int) {
	idx := strings.LastIndex(s, " x")
	if idx < 0 {
		return s, 1
	}

	v, ok := parseNumber(s[idx+2:])
	if !ok || v < 1 {
		return s, 1
	}

	return s[:idx], int(v)
}

func slotsByName(items []entity.Item) map[string]int {
	byName := make(map[string]int, len(items))

	for i, item := range items {
		if !item.Priceable() {
			continue
		}

		name := plainName(item)
		if _, ok := byName[name]; !ok {
			byName[name] = i
		}
	}

	return byName
}
