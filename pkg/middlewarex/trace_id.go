package middlewarex

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"sky_mods/pkg/contextx"
	"sky_mods/pkg/logx"
)

const headerNameTraceID = "X-Trace-Id"

// TraceID takes the caller's trace id or mints one, echoes it back and tags
// every log line of the request with it.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(headerNameTraceID)

		if traceID == "" {
			traceID = xid.New().String()
		}

		ctx := contextx.WithTraceID(r.Context(), contextx.TraceID(traceID))
		ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldTraceID, traceID)))

		w.Header().Set(headerNameTraceID, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
