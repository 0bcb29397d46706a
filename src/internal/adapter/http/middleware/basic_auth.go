package middleware

import (
	"crypto/subtle"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/logger"
)

var (
	errChannelNotConfigured = &domain.Error{Kind: "INTERNAL", Code: "CHANNEL_NOT_CONFIGURED", Message: "server auth configuration is missing"}
	errChannelUnauthorized  = &domain.Error{Kind: "UNAUTHORIZED", Code: "INVALID_CHANNEL_CREDENTIALS", Message: "unauthorized"}
)

// BasicAuth admits requests whose basic-auth pair matches the configured
// channel id and key.
func BasicAuth(channelID, channelKey string) func(http.Handler) http.Handler {
	expectedID := []byte(channelID)
	expectedKey := []byte(channelKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fields := logger.Fields{
				"method":    r.Method,
				"path":      r.URL.Path,
				"requestId": chimiddleware.GetReqID(r.Context()),
			}

			if len(expectedID) == 0 || len(expectedKey) == 0 {
				logger.Error("basic auth middleware missing channel configuration", nil, fields)
				writeError(w, http.StatusInternalServerError, errChannelNotConfigured)
				return
			}

			id, key, ok := r.BasicAuth()
			idMatch := subtle.ConstantTimeCompare([]byte(id), expectedID)
			keyMatch := subtle.ConstantTimeCompare([]byte(key), expectedKey)
			if !ok || idMatch&keyMatch != 1 {
				fields["channelId"] = id
				logger.Warn("basic auth middleware rejected channel", fields)
				w.Header().Set("WWW-Authenticate", `Basic realm="accounts", charset="UTF-8"`)
				writeError(w, http.StatusUnauthorized, errChannelUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
