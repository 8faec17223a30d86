// Package inventory turns a raw inventory snapshot into display items and
// pricing representations.
package inventory

import (
	jsoniter "github.com/json-iterator/go"

	"sky_mods/pkg/contextx"
)

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

const rawNodeLogLimit = 1024

// rawNodeString сырой узел для логов; длинные узлы обрезаются.
func rawNodeString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "<unprintable>"
	}

	if len(b) > rawNodeLogLimit {
		b = b[:rawNodeLogLimit]
	}

	return string(b)
}
