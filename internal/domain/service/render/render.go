// Package render applies a slot's edit list to its original lore.
//
// Every line index in an edit refers to the ORIGINAL lore and is never
// shifted by earlier edits:
//
//   - Insert(i) places text before original line i, in emission order.
//     Inserts at i >= len(lore) go after the last original line.
//   - Replace(i) substitutes original line i; Delete(i) drops it. When both
//     target the same line the later edit wins, as does the later of two
//     Replaces. Inserts before the line are kept either way.
//   - Append adds text after everything else, in emission order.
//   - Negative indices and Replace/Delete past the end are ignored.
//   - Highlight and Suggest do not touch lines; the last one of each kind
//     becomes slot metadata.
package render

import (
	"sky_mods/internal/domain/value"
)

type Slot struct {
	Lines     []string `json:"lines"`
	Highlight string   `json:"highlight,omitempty"`
	Suggest   string   `json:"suggest,omitempty"`
}

type lineOp struct {
	set     bool
	deleted bool
	text    string
}

func Render(lore []string, edits []value.Edit) Slot {
	n := len(lore)

	before := make([][]string, n+1)
	ops := make([]lineOp, n)

	var (
		appends []string
		slot    Slot
	)

	for _, e := range edits {
		switch e.Kind {
		case value.EditInsert:
			if e.Line < 0 {
				continue
			}

			at := min(e.Line, n)
			before[at] = append(before[at], e.Value)
		case value.EditReplace:
			if e.Line >= 0 && e.Line < n {
				ops[e.Line] = lineOp{set: true, text: e.Value}
			}
		case value.EditDelete:
			if e.Line >= 0 && e.Line < n {
				ops[e.Line] = lineOp{set: true, deleted: true}
			}
		case value.EditAppend:
			appends = append(appends, e.Value)
		case value.EditHighlight:
			slot.Highlight = e.Value
		case value.EditSuggest:
			slot.Suggest = e.Value
		}
	}

	lines := make([]string, 0, n+len(edits))

	for i, line := range lore {
		lines = append(lines, before[i]...)

		switch op := ops[i]; {
		case op.deleted:
		case op.set:
			lines = append(lines, op.text)
		default:
			lines = append(lines, line)
		}
	}

	lines = append(lines, before[n]...)
	lines = append(lines, appends...)

	slot.Lines = lines

	return slot
}

// All рендерит все слоты; lore[i] и edits[i] относятся к одному слоту.
// Слоты без описания (панели) получают только вставки и добавления.
func All(lore [][]string, edits [][]value.Edit) []Slot {
	out := make([]Slot, len(edits))

	for i, e := range edits {
		var l []string
		if i < len(lore) {
			l = lore[i]
		}

		out[i] = Render(l, e)
	}

	return out
}
