// Package modifier runs the ordered set of description modifiers over one
// inventory: select by title, prepare, aggregate prices, apply in isolation.
package modifier

import (
	"context"
	"strings"

	"sky_mods/internal/domain/service/pricing"
	"sky_mods/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Modifier независимый блок, дописывающий строки в описания предметов.
//
// Match получает вид инвентаря (заголовок без форматирования). Prepare
// вызывается до запроса цен и может заказать данные или поправить
// представления. Apply читает готовый контейнер и пишет правки через Writer;
// при ошибке или панике все его правки отбрасываются.
type Modifier interface {
	Name() string
	Match(kind string) bool
	Prepare(ctx context.Context, scope *Scope) error
	Apply(ctx context.Context, data *pricing.DataContainer, w *Writer) error
}

// NoPrepare для модификаторов без фазы Prepare.
type NoPrepare struct{}

func (NoPrepare) Prepare(context.Context, *Scope) error { return nil }

// HasPrefix предикат «заголовок начинается с одного из префиксов».
func HasPrefix(kind string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(kind, p) {
			return true
		}
	}

	return false
}
