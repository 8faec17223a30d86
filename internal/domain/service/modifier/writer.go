package modifier

import (
	"sky_mods/internal/domain/value"
)

// Panel виртуальный слот со сводкой по всему инвентарю.
type Panel struct {
	Name  string
	Edits []value.Edit
}

// arena журнал правок запроса: по списку на каждый слот плюс панели.
// Пишется только через commit, то есть только правками модификаторов,
// которые завершились успешно.
type arena struct {
	slots  [][]value.Edit
	panels []Panel
	byName map[string]int
}

func newArena(slots int) *arena {
	a := &arena{
		slots:  make([][]value.Edit, slots),
		byName: map[string]int{},
	}

	for i := range a.slots {
		a.slots[i] = []value.Edit{}
	}

	return a
}

func (a *arena) commit(w *Writer) {
	for _, i := range w.slotOrder {
		a.slots[i] = append(a.slots[i], w.slots[i]...)
	}

	for _, name := range w.panelOrder {
		idx, ok := a.byName[name]
		if !ok {
			idx = len(a.panels)
			a.byName[name] = idx
			a.panels = append(a.panels, Panel{Name: name})
		}

		a.panels[idx].Edits = append(a.panels[idx].Edits, w.panels[name]...)
	}
}

func (a *arena) highlight(i int) (string, bool) {
	return lastHighlight(a.slots[i])
}

// Writer черновик правок одного модификатора. Слоты адресуются индексом;
// в общий журнал правки попадают, только если Apply вернул nil.
type Writer struct {
	arena *arena

	slots     map[int][]value.Edit
	slotOrder []int

	panels     map[string][]value.Edit
	panelOrder []string
}

func newWriter(a *arena) *Writer {
	return &Writer{
		arena:  a,
		slots:  map[int][]value.Edit{},
		panels: map[string][]value.Edit{},
	}
}

// Len число настоящих слотов.
func (w *Writer) Len() int {
	return len(w.arena.slots)
}

// Slot дескриптор слота i. Для индекса вне инвентаря запись игнорируется.
func (w *Writer) Slot(i int) Handle {
	return Handle{w: w, slot: i, valid: i >= 0 && i < len(w.arena.slots)}
}

// Panel дескриптор виртуального слота; панели с одним именем от разных
// модификаторов сливаются.
func (w *Writer) Panel(name string) Handle {
	return Handle{w: w, slot: -1, panel: name, valid: name != ""}
}

// Highlight текущий цвет слота: свой черновик, затем уже принятые правки
// предыдущих модификаторов.
func (w *Writer) Highlight(i int) (string, bool) {
	if i < 0 || i >= len(w.arena.slots) {
		return "", false
	}

	if c, ok := lastHighlight(w.slots[i]); ok {
		return c, true
	}

	return w.arena.highlight(i)
}

func (w *Writer) add(h Handle, e value.Edit) {
	if h.panel != "" {
		if _, ok := w.panels[h.panel]; !ok {
			w.panelOrder = append(w.panelOrder, h.panel)
		}

		w.panels[h.panel] = append(w.panels[h.panel], e)

		return
	}

	if _, ok := w.slots[h.slot]; !ok {
		w.slotOrder = append(w.slotOrder, h.slot)
	}

	w.slots[h.slot] = append(w.slots[h.slot], e)
}

type Handle struct {
	w     *Writer
	slot  int
	panel string
	valid bool
}

func (h Handle) Valid() bool {
	return h.valid
}

func (h Handle) emit(e value.Edit) Handle {
	if h.valid {
		h.w.add(h, e)
	}

	return h
}

// Insert вставляет строку перед строкой line исходного описания.
func (h Handle) Insert(line int, text string) Handle { return h.emit(value.Insert(line, text)) }

func (h Handle) Replace(line int, text string) Handle { return h.emit(value.Replace(line, text)) }

func (h Handle) Append(text string) Handle { return h.emit(value.Append(text)) }

func (h Handle) Delete(line int) Handle { return h.emit(value.Delete(line)) }

func (h Handle) Highlight(color string) Handle { return h.emit(value.Highlight(color)) }

func (h Handle) Suggest(text string) Handle { return h.emit(value.Suggest(text)) }

func lastHighlight(edits []value.Edit) (string, bool) {
	for i := len(edits) - 1; i >= 0; i-- {
		if edits[i].Kind == value.EditHighlight {
			return edits[i].Value, true
		}
	}

	return "", false
}
