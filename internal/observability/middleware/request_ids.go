package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"

	maxIDLen = 64
)

type ids struct {
	request string
	trace   string
}

type idsKey struct{}

func generateID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}

// inboundID keeps a caller-supplied id unless it is empty or oversized.
func inboundID(r *http.Request, header string) string {
	if v := r.Header.Get(header); v != "" && len(v) <= maxIDLen {
		return v
	}
	return generateID()
}

// WithRequestAndTrace attaches request and trace ids to the context, echoes
// them as response headers and logs the finished request.
func WithRequestAndTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ids{request: inboundID(r, HeaderRequestID), trace: inboundID(r, HeaderTraceID)}
		w.Header().Set(HeaderRequestID, id.request)
		w.Header().Set(HeaderTraceID, id.trace)

		r = r.WithContext(context.WithValue(r.Context(), idsKey{}, id))
		start := time.Now()
		next.ServeHTTP(w, r)

		Logger(r.Context()).Info("finished request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func idsFrom(ctx context.Context) ids {
	v, _ := ctx.Value(idsKey{}).(ids)
	return v
}

func RequestIDFromContext(ctx context.Context) string { return idsFrom(ctx).request }

func TraceIDFromContext(ctx context.Context) string { return idsFrom(ctx).trace }

// Logger returns the default logger tagged with the ids carried by ctx.
func Logger(ctx context.Context) *slog.Logger {
	log := slog.Default()
	id := idsFrom(ctx)
	if id.request != "" {
		log = log.With("request_id", id.request)
	}
	if id.trace != "" {
		log = log.With("trace_id", id.trace)
	}
	return log
}
