// Package worker runs background jobs on the asynq queue.
package worker

import "sky_mods/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
