package inventory

import (
	"fmt"
	"math"
	"strconv"
)

// Node один слот в каноническом виде: compound из тегового дерева
// или объект из JSON-формы. Значения — map[string]any, []any, строки и числа
// любых целых/вещественных типов.
type Node map[string]any

// EmptyNode слот без предмета.
var EmptyNode = Node{} //nolint:gochecknoglobals

func (n Node) IsEmpty() bool {
	return len(n) == 0
}

// Lookup идёт по вложенным compound'ам: n.Lookup("tag", "display", "Name").
func (n Node) Lookup(path ...string) (any, bool) {
	var cur any = map[string]any(n)

	for _, key := range path {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}

		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}

	return cur, true
}

func (n Node) Map(path ...string) (map[string]any, bool) {
	v, ok := n.Lookup(path...)
	if !ok {
		return nil, false
	}

	return asMap(v)
}

func (n Node) String(path ...string) string {
	v, _ := n.Lookup(path...)
	s, _ := asString(v)

	return s
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Node:
		return m, true
	default:
		return nil, false
	}
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i := range l {
			out[i] = l[i]
		}

		return out, true
	case []map[string]any:
		out := make([]any, len(l))
		for i := range l {
			out[i] = l[i]
		}

		return out, true
	case []int32:
		out := make([]any, len(l))
		for i := range l {
			out[i] = l[i]
		}

		return out, true
	case []int64:
		out := make([]any, len(l))
		for i := range l {
			out[i] = l[i]
		}

		return out, true
	case []byte:
		out := make([]any, len(l))
		for i := range l {
			out[i] = int8(l[i])
		}

		return out, true
	default:
		return nil, false
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)

	return s, ok
}

// asInt приводит любой числовой тег к int64. Вещественные принимаются,
// только если они целые.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int8:
		return int64(n), true
	case uint8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float32:
		if float64(n) == math.Trunc(float64(n)) {
			return int64(n), true
		}
	case float64:
		if n == math.Trunc(n) {
			return int64(n), true
		}
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, true
		}
	}

	return 0, false
}

// scalarString каноническое строковое представление примитива для
// плоской карты атрибутов.
func scalarString(v any) (string, error) {
	switch n := v.(type) {
	case string:
		return n, nil
	case bool:
		return strconv.FormatBool(n), nil
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32), nil
	case float64:
		if n == math.Trunc(n) && math.Abs(n) < 1e15 {
			return strconv.FormatInt(int64(n), 10), nil
		}

		return strconv.FormatFloat(n, 'f', -1, 64), nil
	}

	if i, ok := asInt(v); ok {
		return strconv.FormatInt(i, 10), nil
	}

	return "", fmt.Errorf("unsupported scalar %T", v)
}
