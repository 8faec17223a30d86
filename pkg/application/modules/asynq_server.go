package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"sky_mods/pkg/logx"
)

type AsynqQueues map[string]int

type AsynqHandler struct {
	Pattern string
	Handle  func(context.Context, *asynq.Task) error
}

// AsynqPeriodic is a task enqueued by the scheduler on a cron spec
// ("@every 30s", "*/5 * * * *").
type AsynqPeriodic struct {
	CronSpec string
	Task     *asynq.Task
	Options  []asynq.Option
}

type AsynqServer struct {
	RedisUsername string
	RedisPassword string
	RedisAddress  string
	RedisDB       int
	Concurrency   int
}

func (s AsynqServer) redisConnection() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     s.RedisAddress,
		Username: s.RedisUsername,
		Password: s.RedisPassword,
		DB:       s.RedisDB,
	}
}

func (s AsynqServer) Run(
	ctx context.Context,
	g *errgroup.Group,
	queues AsynqQueues,
	handlers ...AsynqHandler,
) {
	g.Go(func() error {
		worker := asynq.NewServer(s.redisConnection(), asynq.Config{
			BaseContext: func() context.Context { return ctx },
			Queues:      queues,
			Concurrency: s.Concurrency,
		})

		mux := asynq.NewServeMux()

		for _, h := range handlers {
			mux.HandleFunc(h.Pattern, h.Handle)
		}

		if err := worker.Start(mux); err != nil {
			return fmt.Errorf("asynqServer.Start: %w", err)
		}

		logger(ctx).Info("asynq server started", slog.String("redis-address", s.RedisAddress), slog.Int("redis-db", s.RedisDB))

		<-ctx.Done()
		worker.Shutdown()

		logger(ctx).Info("asynq server stopped", slog.String("redis-address", s.RedisAddress), slog.Int("redis-db", s.RedisDB))

		return nil
	})
}

func (s AsynqServer) RunScheduler(
	ctx context.Context,
	g *errgroup.Group,
	periodic ...AsynqPeriodic,
) {
	g.Go(func() error {
		scheduler := asynq.NewScheduler(s.redisConnection(), &asynq.SchedulerOpts{})

		for _, p := range periodic {
			entryID, err := scheduler.Register(p.CronSpec, p.Task, p.Options...)
			if err != nil {
				return fmt.Errorf("scheduler.Register(%s): %w", p.Task.Type(), err)
			}

			logger(ctx).Info("periodic task registered",
				slog.String("task", p.Task.Type()),
				slog.String("cron", p.CronSpec),
				slog.String("entry-id", entryID),
			)
		}

		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("scheduler.Start: %w", err)
		}

		<-ctx.Done()
		scheduler.Shutdown()

		logger(ctx).Info("asynq scheduler stopped", logx.Error(ctx.Err()))

		return nil
	})
}
