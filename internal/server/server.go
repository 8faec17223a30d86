package server

import "sky_mods/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Server объединяет HTTP серверы отдельных сущностей.
type Server struct {
	DescriptionServer
	SettingsServer
}

func NewServer(
	descriptionServer DescriptionServer,
	settingsServer SettingsServer,
) Server {
	return Server{
		DescriptionServer: descriptionServer,
		SettingsServer:    settingsServer,
	}
}
