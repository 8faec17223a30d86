package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"sky_mods/internal/application"
	"sky_mods/internal/config"
	"sky_mods/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config.Load", logx.Error(err))
		os.Exit(1)
	}

	log := newLogger(cfg.App)
	slog.SetDefault(log)

	if err = application.Run(ctx, cfg, log); err != nil {
		log.Error("application failed", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}
}

func newLogger(app config.App) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(app.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	if app.LogJSON {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(logx.NewHandler(os.Stdout, level, false))
}
