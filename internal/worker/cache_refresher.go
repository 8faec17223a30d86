package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"sky_mods/pkg/application/modules"
	"sky_mods/pkg/logx"
)

const (
	TaskRefreshSnapshots = "pricing:refresh_snapshots"
	QueueDefault         = "default"

	defaultRefreshInterval = time.Minute
)

//nolint:gochecknoglobals
var refreshes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sky_mods",
	Subsystem: "worker",
	Name:      "snapshot_refreshes_total",
	Help:      "Bazaar and craft snapshot refreshes by result.",
}, []string{"result"})

type snapshotCache interface {
	Refresh(ctx context.Context) error
}

// CacheRefresher подогревает кэш снимков базара и крафтов, чтобы запрос
// описания не ждал внешние сервисы. При ошибке в кэше остаётся прошлый
// снимок.
type CacheRefresher struct {
	cache    snapshotCache
	interval time.Duration
}

func NewCacheRefresher(cache snapshotCache) *CacheRefresher {
	return &CacheRefresher{
		cache:    cache,
		interval: defaultRefreshInterval,
	}
}

func (w *CacheRefresher) WithInterval(d time.Duration) *CacheRefresher {
	if d > 0 {
		w.interval = d
	}

	return w
}

func (w *CacheRefresher) Handler() modules.AsynqHandler {
	return modules.AsynqHandler{
		Pattern: TaskRefreshSnapshots,
		Handle:  w.Handle,
	}
}

// Periodic задача для планировщика. Повторов нет: следующий запуск
// всё равно придёт через interval.
func (w *CacheRefresher) Periodic() modules.AsynqPeriodic {
	return modules.AsynqPeriodic{
		CronSpec: "@every " + w.interval.String(),
		Task:     asynq.NewTask(TaskRefreshSnapshots, nil),
		Options: []asynq.Option{
			asynq.Queue(QueueDefault),
			asynq.MaxRetry(0),
			asynq.Timeout(w.interval),
			asynq.Unique(w.interval),
		},
	}
}

func (w *CacheRefresher) Handle(ctx context.Context, task *asynq.Task) error {
	start := time.Now()

	if err := w.cache.Refresh(ctx); err != nil {
		refreshes.WithLabelValues("error").Inc()

		logger(ctx).Error("snapshot refresh failed", slog.String(logx.FieldTask, task.Type()), logx.Error(err))

		return fmt.Errorf("cache.Refresh: %w", err)
	}

	refreshes.WithLabelValues("ok").Inc()

	logger(ctx).Info("snapshots refreshed",
		slog.String(logx.FieldTask, task.Type()),
		slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
	)

	return nil
}

// Warm первый прогрев при старте, до того как сработает планировщик.
func (w *CacheRefresher) Warm(ctx context.Context) {
	if err := w.cache.Refresh(ctx); err != nil {
		logger(ctx).Warn("initial snapshot warm-up failed", logx.Error(err))
	}
}
