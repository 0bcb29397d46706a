package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/cache"
	"github.com/api-sage/accounts-ledger/src/internal/commons"
	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/logger"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (*cache.StoredResponse, error)
	Save(ctx context.Context, key string, response cache.StoredResponse) error
	Release(ctx context.Context, key string) error
}

// Idempotency replays the stored response of a request retried with the same
// Idempotency-Key header. Requests without the header pass through. Only
// responses below 500 are stored; server failures release the key so the
// client can retry.
func Idempotency(store IdempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
			if key == "" || store == nil {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > 128 {
				writeError(w, http.StatusBadRequest, domain.Validation("%s must be at most 128 characters", IdempotencyKeyHeader))
				return
			}

			scoped := r.Method + ":" + r.URL.Path + ":" + key
			stored, err := store.Reserve(r.Context(), scoped)
			if err != nil {
				logger.Error("idempotency middleware reserve failed", err, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				status := http.StatusServiceUnavailable
				if domain.KindOf(err) == domain.KindConflict {
					status = http.StatusConflict
				}
				writeError(w, status, err)
				return
			}
			if stored != nil {
				logger.Info("idempotency middleware replaying response", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"status": stored.Status,
				})
				w.Header().Set("Content-Type", stored.ContentType)
				w.Header().Set("Idempotent-Replayed", "true")
				w.WriteHeader(stored.Status)
				_, _ = w.Write(stored.Body)
				return
			}

			recorder := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			// The response is already sent; store errors are only logged.
			ctx := context.WithoutCancel(r.Context())
			if recorder.status >= http.StatusInternalServerError {
				if err := store.Release(ctx, scoped); err != nil {
					logger.Error("idempotency middleware release failed", err, nil)
				}
				return
			}
			if err := store.Save(ctx, scoped, cache.StoredResponse{
				Status:      recorder.status,
				ContentType: recorder.Header().Get("Content-Type"),
				Body:        recorder.body.Bytes(),
			}); err != nil {
				logger.Error("idempotency middleware save failed", err, nil)
			}
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(commons.FailureResponse[struct{}]("request rejected", err))
}
