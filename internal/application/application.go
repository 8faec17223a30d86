package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"sky_mods/internal/config"
	"sky_mods/internal/domain/service/description"
	"sky_mods/internal/domain/service/inventory"
	"sky_mods/internal/domain/service/modifier"
	"sky_mods/internal/domain/service/modifier/builtin"
	"sky_mods/internal/domain/service/pricing"
	"sky_mods/internal/infrastructure/persistence"
	"sky_mods/internal/infrastructure/upstream"
	"sky_mods/internal/server"
	"sky_mods/internal/worker"
	"sky_mods/pkg/application/connectors"
	"sky_mods/pkg/application/modules"
	"sky_mods/pkg/contextx"
	"sky_mods/pkg/logx"
	"sky_mods/pkg/middlewarex"
	"sky_mods/pkg/probe"
)

const tipRotation = 5 * time.Minute

// Run собирает сервис и блокируется до отмены ctx или падения одного из
// модулей.
func Run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	ctx = contextx.WithLogger(ctx, log.With(
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	))

	// 1. Хранилища
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	rds := &connectors.Redis{
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		Address:            cfg.Redis.Address,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	rdb := rds.Client(ctx)
	defer rds.Close(ctx)

	listings := persistence.NewListingRepository(db)
	settingsStore := persistence.NewSettingsStore(rdb)

	// 2. Внешние сервисы
	up := cfg.Upstream
	options := func(name, baseURL string, rps float64) upstream.Options {
		return upstream.Options{
			Name:    name,
			BaseURL: baseURL,
			Token:   up.Token,
			Timeout: up.Timeout,
			RPS:     rps,
			Burst:   up.Burst,
		}
	}

	prices := upstream.NewPriceClient(options("prices", up.PricesURL, up.PricesRPS), nil)
	bazaar := upstream.NewBazaarClient(options("bazaar", up.BazaarURL, up.BazaarRPS), nil)
	crafts := upstream.NewCraftClient(options("crafts", up.CraftsURL, up.CraftsRPS), nil)
	accounts := upstream.NewAccountClient(options("tier", up.TierURL, up.TierRPS), nil)

	// 3. Доменные сервисы
	snapshots := pricing.NewSnapshotCache(bazaar, crafts, cfg.Pricing.SnapshotTTL)

	aggregator := pricing.NewAggregator(prices).
		WithBazaar(snapshots).
		WithCrafts(snapshots).
		WithListings(listings).
		WithAccounts(accounts).
		WithOptionalTimeout(cfg.Pricing.OptionalTimeout)

	registry, err := modifier.NewRegistry(builtin.Default(builtin.Deps{
		SellerListings: listings,
		Now:            time.Now,
		TipRotation:    tipRotation,
	})...)
	if err != nil {
		return fmt.Errorf("modifier.NewRegistry: %w", err)
	}

	pipeline := modifier.NewPipeline(registry, aggregator).
		WithTaskTimeout(cfg.Pricing.OptionalTimeout)

	settings := description.NewSettingsService(settingsStore).
		WithTTL(cfg.Pricing.SettingsTTL)

	descriptions := description.NewService(
		inventory.NewDecoder().WithMaxSlots(cfg.Pricing.MaxSlots),
		inventory.NewMapper(),
		pipeline,
		settings,
	)

	refresher := worker.NewCacheRefresher(snapshots).
		WithInterval(cfg.Worker.RefreshInterval)

	refresher.Warm(ctx)

	// 4. Транспорт
	router := chi.NewRouter()
	masker := logx.NewSensitiveDataMasker()

	router.Use(
		middlewarex.TraceID,
		middlewarex.RequestLogging(masker, cfg.HTTP.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, cfg.HTTP.LogFieldMaxLen),
		middlewarex.Recovery,
	)

	server.NewServer(
		server.NewDescriptionServer(descriptions),
		server.NewSettingsServer(settings),
	).RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	// 5. Модули
	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{ShutdownTimeout: cfg.HTTP.ShutdownTimeout}.Run(ctx, g, httpServer)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
		Checks: []probe.Check{
			{Name: "postgres", Func: pg.Ping},
			{Name: "redis", Func: rds.Ping},
		},
	}.Run(ctx, g)

	modules.MetricServer{ListenAddress: cfg.HTTP.MetricsListenAddress}.Run(ctx, g)

	asynqServer := modules.AsynqServer{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.QueueDB,
		Concurrency:   cfg.Worker.Concurrency,
	}

	asynqServer.Run(ctx, g, modules.AsynqQueues{worker.QueueDefault: 1}, refresher.Handler())
	asynqServer.RunScheduler(ctx, g, refresher.Periodic())

	logger(ctx).Info("application started")

	if err = g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	logger(ctx).Info("application stopped")

	return nil
}
