package modifier

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"sky_mods/internal/domain/entity"
	"sky_mods/internal/domain/service/inventory"
	"sky_mods/internal/domain/service/pricing"
	"sky_mods/internal/domain/value"
	"sky_mods/pkg/logx"
)

const defaultTaskTimeout = 2 * time.Second

type Aggregator interface {
	Aggregate(ctx context.Context, req pricing.Request) (*pricing.DataContainer, error)
}

// Input разобранный инвентарь одного запроса.
type Input struct {
	Title           string
	AccountID       string
	Items           []entity.Item
	Representations []entity.AuctionRepresentation
	Settings        entity.Settings
}

type Pipeline struct {
	registry    *Registry
	aggregator  Aggregator
	taskTimeout time.Duration
}

func NewPipeline(registry *Registry, aggregator Aggregator) *Pipeline {
	return &Pipeline{
		registry:    registry,
		aggregator:  aggregator,
		taskTimeout: defaultTaskTimeout,
	}
}

// WithTaskTimeout сколько ждать задачи, заказанные в Prepare.
func (p *Pipeline) WithTaskTimeout(d time.Duration) *Pipeline {
	if d > 0 {
		p.taskTimeout = d
	}

	return p
}

// Kind вид инвентаря: заголовок без кодов форматирования.
func Kind(title string) string {
	return strings.TrimSpace(inventory.StripFormatting(title))
}

// Plan выбирает модификаторы по заголовку. Неподходящие не запускаются
// вовсе и ничего не заказывают.
func (p *Pipeline) Plan(in Input) *Plan {
	kind := Kind(in.Title)

	return &Plan{
		pipeline: p,
		input:    in,
		kind:     kind,
		matched:  p.registry.Match(kind, in.Settings),
	}
}

// Plan выбранные, но ещё не подготовленные модификаторы.
type Plan struct {
	pipeline *Pipeline
	input    Input
	kind     string
	matched  []Modifier
}

func (p *Plan) Kind() string {
	return p.kind
}

func (p *Plan) Matched() []string {
	names := make([]string, len(p.matched))
	for i, m := range p.matched {
		names[i] = m.Name()
	}

	return names
}

// Prepare вызывает Prepare модификаторов по порядку регистрации: они правят
// общий список представлений. Заказанные задачи стартуют сразу и идут
// параллельно.
func (p *Plan) Prepare(ctx context.Context) *Prepared {
	defer observe("prepare", time.Now())

	reps := make([]entity.AuctionRepresentation, len(p.input.Representations))
	for i, rep := range p.input.Representations {
		reps[i] = rep.Clone()
	}

	scope := &Scope{
		kind:      p.kind,
		accountID: p.input.AccountID,
		settings:  p.input.Settings,
		items:     p.input.Items,
		reps:      reps,
		tasks:     pricing.NewTasks(context.WithoutCancel(ctx), p.pipeline.taskTimeout),
	}

	failed := make(map[string]struct{})

	for _, m := range p.matched {
		if err := safely(func() error { return m.Prepare(ctx, scope) }); err != nil {
			p.fail(ctx, m, "prepare", err)
			failed[m.Name()] = struct{}{}
		}
	}

	return &Prepared{plan: p, scope: scope, failed: failed}
}

func (p *Plan) fail(ctx context.Context, m Modifier, phase string, err error) {
	logger(ctx).Error("modifier failed",
		slog.String(logx.FieldModifier, m.Name()),
		slog.String("phase", phase),
		slog.String(logx.FieldInventoryKind, p.kind),
		logx.Error(err),
	)

	modifierFailures.WithLabelValues(m.Name(), phase).Inc()
}

// Prepared Prepare отработал, задачи запущены, данных ещё нет.
type Prepared struct {
	plan   *Plan
	scope  *Scope
	failed map[string]struct{}
}

// Await дожидается цен, общих таблиц и задач. Ошибка — только при
// нарушении выравнивания слотов.
func (p *Prepared) Await(ctx context.Context) (*Ready, error) {
	defer observe("await", time.Now())

	data, err := p.plan.pipeline.aggregator.Aggregate(ctx, pricing.Request{
		Title:           p.plan.input.Title,
		Kind:            p.plan.kind,
		AccountID:       p.plan.input.AccountID,
		Items:           p.plan.input.Items,
		Representations: p.scope.reps,
		Settings:        p.plan.input.Settings,
		Needs:           p.scope.needs,
		Tasks:           p.scope.tasks,
	})
	if err != nil {
		return nil, fmt.Errorf("aggregator.Aggregate: %w", err)
	}

	return &Ready{plan: p.plan, data: data, failed: p.failed}, nil
}

// Ready контейнер собран, можно применять.
type Ready struct {
	plan   *Plan
	data   *pricing.DataContainer
	failed map[string]struct{}
}

func (r *Ready) Data() *pricing.DataContainer {
	return r.data
}

// Result итоговый журнал правок.
type Result struct {
	// Slots по списку правок на каждый слот, пустой список, а не nil.
	Slots   [][]value.Edit
	Virtual []Panel
	Data    *pricing.DataContainer
	// Failed модификаторы, у которых упала хотя бы одна фаза.
	Failed []string
}

// Apply запускает Apply модификаторов последовательно в порядке регистрации.
// Каждый получает свою копию контейнера, поэтому ошибка или паника одного
// модификатора отбрасывает его черновик и ничего не меняет для остальных.
func (r *Ready) Apply(ctx context.Context) *Result {
	defer observe("apply", time.Now())

	a := newArena(r.data.Len())
	result := &Result{Data: r.data}

	for _, m := range r.plan.matched {
		_, prepareFailed := r.failed[m.Name()]
		if prepareFailed {
			result.Failed = append(result.Failed, m.Name())
		}

		w := newWriter(a)

		data := r.data.Clone()

		if err := safely(func() error { return m.Apply(ctx, data, w) }); err != nil {
			r.plan.fail(ctx, m, "apply", err)

			if !prepareFailed {
				result.Failed = append(result.Failed, m.Name())
			}

			continue
		}

		a.commit(w)
	}

	result.Slots = a.slots
	result.Virtual = a.panels

	return result
}

// Run все фазы подряд.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	ready, err := p.Plan(in).Prepare(ctx).Await(ctx)
	if err != nil {
		return nil, err
	}

	return ready.Apply(ctx), nil
}

func safely(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v\n%s", rec, debug.Stack())
		}
	}()

	return fn()
}

func observe(phase string, start time.Time) {
	phaseDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
}
