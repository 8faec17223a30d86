package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"sky_mods/pkg/contextx"
	"sky_mods/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	httpServerReadHeaderTimeout = 5 * time.Second
	defaultCheckTimeout         = 2 * time.Second
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Check is a dependency the service cannot serve without, e.g. a database ping.
type Check struct {
	Name string
	Func func(ctx context.Context) error
}

type Options struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type readyState struct {
	Options
	Checks map[string]string `json:"checks,omitempty"`
}

type Server struct {
	listenAddress string
	options       Options
	state         []byte
	checks        []Check
	checkTimeout  time.Duration
}

func NewServer(
	listenAddress string,
	options Options,
	checks ...Check,
) Server {
	stateJSON, _ := json.Marshal(options) //nolint:errcheck,errchkjson

	return Server{
		listenAddress: listenAddress,
		options:       options,
		state:         stateJSON,
		checks:        checks,
		checkTimeout:  defaultCheckTimeout,
	}
}

func (s Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handlerHealthz)
	mux.HandleFunc("/ready", s.handlerReady)

	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              s.listenAddress,
		Handler:           mux,
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		if err := httpServer.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger(ctx).Error("httpServer.Shutdown", logx.Error(err))
		}
	}()

	logger(ctx).Info("probe server started",
		slog.String("address", s.listenAddress),
		slog.Int("checks", len(s.checks)),
	)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.ListenAndServe: %w", err)
	}

	logger(ctx).Info("probe server stopped")

	return nil
}

func (s Server) handlerHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write(s.state) //nolint:errcheck
}

// handlerReady answers 503 while any check fails; the body lists every check.
func (s Server) handlerReady(w http.ResponseWriter, r *http.Request) {
	if len(s.checks) == 0 {
		w.WriteHeader(http.StatusOK)
		w.Write(s.state) //nolint:errcheck

		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.checkTimeout)
	defer cancel()

	state := readyState{Options: s.options, Checks: make(map[string]string, len(s.checks))}
	status := http.StatusOK

	for _, c := range s.checks {
		if err := c.Func(ctx); err != nil {
			logger(ctx).Warn("readiness check failed", slog.String("check", c.Name), logx.Error(err))

			state.Checks[c.Name] = err.Error()
			status = http.StatusServiceUnavailable

			continue
		}

		state.Checks[c.Name] = "ok"
	}

	body, _ := json.Marshal(state) //nolint:errcheck,errchkjson

	w.WriteHeader(status)
	w.Write(body) //nolint:errcheck
}
