package builtin

import (
	"context"
	"strings"

	"sky_mods/internal/domain/service/modifier"
	"sky_mods/internal/domain/service/pricing"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/numfmt"
)

const sackPanel = "sack"

// Sack оценивает содержимое мешков: количество берётся из строки
// "Stored: 1,234/2,240", а не из размера стака.
type Sack struct{}

func (Sack) Name() string { return "sack" }

func (Sack) Match(kind string) bool {
	return strings.Contains(kind, "Sack")
}

func (Sack) Prepare(_ context.Context, s *modifier.Scope) error {
	for i := range s.Len() {
		stored, _, ok := lineNumber(s.Item(i).Lore, "Stored:")
		if !ok || stored <= 0 {
			continue
		}

		if rep := s.Representation(i); rep != nil && !rep.IsEmpty() {
			rep.Count = int(stored)
		}
	}

	return nil
}

func (Sack) Apply(_ context.Context, data *pricing.DataContainer, w *modifier.Writer) error {
	var total float64

	for i, item := range data.Items {
		stored, line, ok := lineNumber(item.Lore, "Stored:")
		if !ok || stored <= 0 {
			continue
		}

		// оценщик получил количество из мешка, поэтому цену за стак
		// считаем по представлению, а не по предмету
		p := data.Price(i)
		if p == nil || p.Value() <= 0 {
			continue
		}

		v := p.Value() * float64(max(data.Representations[i].Count, 1))
		total += v

		w.Slot(i).Insert(line+1, value.Gray+"Stored value: "+value.Gold+numfmt.Coins(v))
	}

	if total > 0 {
		w.Panel(sackPanel).Append(value.Gray + "Sack value: " + value.Gold + numfmt.Coins(total))
	}

	return nil
}
