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

const (
	chestPanel = "dungeon_chest"
	// chestOpenSlot кнопка открытия сундука с ценой в описании.
	chestOpenSlot = 31
)

var chestKinds = []string{"Wood", "Gold", "Diamond", "Emerald", "Obsidian", "Bedrock"} //nolint:gochecknoglobals

// DungeonChest сравнивает содержимое наградного сундука с ценой открытия.
type DungeonChest struct {
	modifier.NoPrepare
}

func (DungeonChest) Name() string { return "dungeon_chest" }

func (DungeonChest) Match(kind string) bool {
	return strings.HasSuffix(kind, "Chest") && modifier.HasPrefix(kind, chestKinds...)
}

func (DungeonChest) Apply(_ context.Context, data *pricing.DataContainer, w *modifier.Writer) error {
	var contents float64

	for i := range data.Items {
		if i == chestOpenSlot {
			continue
		}

		if v, ok := stackValue(data, i); ok {
			contents += v
		}
	}

	if contents == 0 {
		return nil
	}

	cost := openCost(data.Item(chestOpenSlot).Lore)
	profit := contents - cost

	panel := w.Panel(chestPanel).
		Append(value.Gray + "Chest value: " + value.Gold + numfmt.Coins(contents)).
		Append(value.Gray + "Open cost: " + value.Gold + numfmt.Coins(cost))

	if profit >= 0 {
		panel.Append(value.Green + "Profit: +" + numfmt.Coins(profit))
		w.Slot(chestOpenSlot).Highlight(value.ColorProfit)
	} else {
		panel.Append(value.Red + "Loss: " + numfmt.Coins(profit))
		w.Slot(chestOpenSlot).Highlight(value.ColorLoss)
	}

	return nil
}

// openCost число из строки после "Cost"; "FREE" и отсутствие цены — ноль.
func openCost(lore []string) float64 {
	i, ok := findLine(lore, "Cost")
	if !ok {
		return 0
	}

	for _, line := range lore[i+1:] {
		plain := strings.TrimSpace(inventory.StripFormatting(line))
		if plain == "" {
			break
		}

		if strings.HasSuffix(plain, "Coins") {
			if v, ok := parseNumber(plain); ok {
				return v
			}
		}
	}

	return 0
}
