package value

// EditKind тип операции над описанием предмета.
type EditKind int

const (
	EditInsert EditKind = iota
	EditReplace
	EditAppend
	EditDelete
	EditHighlight
	EditSuggest
)

var editKindNames = [...]string{"INSERT", "REPLACE", "APPEND", "DELETE", "HIGHLIGHT", "SUGGEST"} //nolint:gochecknoglobals

func (k EditKind) String() string {
	if int(k) < 0 || int(k) >= len(editKindNames) {
		return "UNKNOWN"
	}

	return editKindNames[k]
}

// IsLineEdit Highlight и Suggest не трогают строки, это метаданные слота.
func (k EditKind) IsLineEdit() bool {
	return k != EditHighlight && k != EditSuggest
}

// Edit адресует строку по индексу в ИСХОДНОМ описании; индексы не пересчитываются
// после предыдущих операций.
type Edit struct {
	Kind  EditKind `json:"type"`
	Line  int      `json:"line"`
	Value string   `json:"value"`
}

func Insert(line int, text string) Edit  { return Edit{Kind: EditInsert, Line: line, Value: text} }
func Replace(line int, text string) Edit { return Edit{Kind: EditReplace, Line: line, Value: text} }
func Append(text string) Edit            { return Edit{Kind: EditAppend, Line: -1, Value: text} }
func Delete(line int) Edit               { return Edit{Kind: EditDelete, Line: line} }
func Highlight(color string) Edit        { return Edit{Kind: EditHighlight, Line: -1, Value: color} }
func Suggest(text string) Edit           { return Edit{Kind: EditSuggest, Line: -1, Value: text} }
