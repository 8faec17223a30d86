package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	HTTP     HTTP
	Postgres Postgres
	Redis    Redis
	Upstream Upstream
	Pricing  Pricing
	Worker   Worker
}

type App struct {
	Name     string `env:"APP_NAME" envDefault:"sky_mods"`
	Version  string `env:"APP_VERSION" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// LogJSON JSON-логи вместо цветного вывода для консоли.
	LogJSON bool `env:"LOG_JSON" envDefault:"false"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
