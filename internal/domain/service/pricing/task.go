package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sky_mods/pkg/logx"
)

type TaskFunc func(ctx context.Context) (any, error)

type taskHandle struct {
	name  string
	done  chan struct{}
	value any
	err   error
}

// finished ждёт задачу до отмены ctx. Уже завершённая задача засчитывается
// и после таймаута.
func (h *taskHandle) finished(ctx context.Context) bool {
	select {
	case <-h.done:
		return true
	default:
	}

	select {
	case <-h.done:
		return true
	case <-ctx.Done():
		return false
	}
}

// Tasks именованные запросы, которые модификаторы ставят в Prepare.
// Задачи стартуют сразу при регистрации; каждая пишет результат ровно
// один раз, до закрытия done.
type Tasks struct {
	ctx    context.Context //nolint:containedctx
	cancel context.CancelFunc

	mu      sync.Mutex
	handles []*taskHandle
	byName  map[string]*taskHandle
}

// NewTasks ограничивает все задачи общим таймаутом.
func NewTasks(ctx context.Context, timeout time.Duration) *Tasks {
	ctx, cancel := context.WithTimeout(ctx, timeout)

	return &Tasks{
		ctx:    ctx,
		cancel: cancel,
		byName: make(map[string]*taskHandle),
	}
}

// Go регистрирует задачу. Повторная регистрация того же имени игнорируется,
// результат у имени один.
func (t *Tasks) Go(name string, fn TaskFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.byName[name]; ok {
		return
	}

	h := &taskHandle{name: name, done: make(chan struct{})}
	t.handles = append(t.handles, h)
	t.byName[name] = h

	go func() {
		defer close(h.done)
		defer func() {
			if rec := recover(); rec != nil {
				h.err = fmt.Errorf("panic: %v", rec)
			}
		}()

		h.value, h.err = fn(t.ctx)
	}()
}

func (t *Tasks) Names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	names := make([]string, len(t.handles))
	for i, h := range t.handles {
		names[i] = h.name
	}

	return names
}

// Wait ждёт все задачи, но не дольше таймаута. Упавшие и не успевшие задачи
// в результат не попадают.
func (t *Tasks) Wait(ctx context.Context) map[string]any {
	defer t.cancel()

	t.mu.Lock()
	handles := append([]*taskHandle(nil), t.handles...)
	t.mu.Unlock()

	results := make(map[string]any, len(handles))

	for _, h := range handles {
		if !h.finished(t.ctx) {
			logger(ctx).Warn("task timed out", slog.String(logx.FieldTask, h.name))
			optionalFailures.WithLabelValues("task").Inc()

			continue
		}

		if h.err != nil {
			logger(ctx).Warn("task failed", slog.String(logx.FieldTask, h.name), logx.Error(h.err))
			optionalFailures.WithLabelValues("task").Inc()

			continue
		}

		results[h.name] = h.value
	}

	return results
}
