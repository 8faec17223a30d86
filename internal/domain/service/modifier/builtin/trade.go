package builtin

import (
	"context"

	"sky_mods/internal/domain/service/modifier"
	"sky_mods/internal/domain/service/pricing"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/numfmt"
)

const (
	tradePanel   = "trade"
	tradeColumns = 9
	// столбцы 0-3 — своя сторона, 5-8 — сторона партнёра, 4 — разделитель
	tradeSendLast    = 3
	tradeReceiveFrom = 5
)

// Trade суммирует обе стороны обмена и предупреждает, если получаешь меньше
// половины отданного.
type Trade struct {
	modifier.NoPrepare
}

func (Trade) Name() string { return "trade" }

func (Trade) Match(kind string) bool {
	return modifier.HasPrefix(kind, "You    ")
}

func (Trade) Apply(_ context.Context, data *pricing.DataContainer, w *modifier.Writer) error {
	var send, receive float64

	for i, item := range data.Items {
		v, ok := tradeValue(data, i)
		if !ok {
			continue
		}

		switch col := i % tradeColumns; {
		case col <= tradeSendLast:
			send += v
		case col >= tradeReceiveFrom:
			receive += v
		default:
			continue
		}

		if item.Priceable() {
			w.Slot(i).Append(value.Gray + "Value: " + value.Gold + numfmt.Coins(v))
		}
	}

	if send == 0 && receive == 0 {
		return nil
	}

	panel := w.Panel(tradePanel).
		Append(value.Gray + "You send: " + value.Gold + numfmt.Coins(send)).
		Append(value.Gray + "You receive: " + value.Gold + numfmt.Coins(receive))

	switch diff := receive - send; {
	case receive < send/2:
		panel.Append(value.Red + value.Bold + "Warning: you receive less than half of what you send!")
		panel.Highlight(value.ColorLoss)
	case diff >= 0:
		panel.Append(value.Green + "Profit: +" + numfmt.Coins(diff))
	default:
		panel.Append(value.Red + "Loss: " + numfmt.Coins(diff))
	}

	return nil
}

// tradeValue оценка слота; монеты в обмене лежат кнопкой с суммой
// в описании.
func tradeValue(data *pricing.DataContainer, i int) (float64, bool) {
	if v, ok := stackValue(data, i); ok {
		return v, true
	}

	if coins, _, ok := lineNumber(data.Items[i].Lore, "Lump-sum amount:"); ok {
		return coins, true
	}

	return 0, false
}
