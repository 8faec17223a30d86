package connectors

import (
	"errors"

	"sky_mods/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var errNotConnected = errors.New("not connected")
