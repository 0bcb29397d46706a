package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/api-sage/accounts-ledger/src/internal/logger"
)

// requestFields identifies a request in every log line it produces.
func requestFields(r *http.Request) logger.Fields {
	fields := logger.Fields{
		"method":    r.Method,
		"path":      r.URL.Path,
		"requestId": chimiddleware.GetReqID(r.Context()),
	}
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			fields["route"] = pattern
		}
	}
	if r.URL.RawQuery != "" {
		fields["query"] = r.URL.RawQuery
	}
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		fields["idempotencyKey"] = key
	}
	return fields
}

func logRequest(r *http.Request, payload any) {
	fields := requestFields(r)
	if payload != nil {
		fields["payload"] = logger.SanitizePayload(payload)
	}
	logger.Info("http request", fields)
}

// logResponse records status and latency. Bodies are logged for failed
// requests only.
func logResponse(r *http.Request, status int, payload any, start time.Time) {
	fields := requestFields(r)
	fields["status"] = status
	fields["durationMs"] = time.Since(start).Milliseconds()
	if status >= http.StatusBadRequest {
		fields["response"] = logger.SanitizePayload(payload)
	}
	logger.Info("http response", fields)
}

func logError(r *http.Request, err error, extra logger.Fields) {
	fields := requestFields(r)
	for k, v := range extra {
		fields[k] = v
	}
	logger.Error("http handler error", err, fields)
}
