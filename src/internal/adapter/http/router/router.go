package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/api-sage/accounts-ledger/src/internal/logger"
	"github.com/api-sage/accounts-ledger/src/internal/observability"
)

type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// MovementRouteRegistrar mounts routes whose balance-changing endpoints take
// an extra middleware.
type MovementRouteRegistrar interface {
	RegisterRoutes(r chi.Router, movementMiddleware func(http.Handler) http.Handler)
}

type Options struct {
	Accounts    MovementRouteRegistrar
	CreditCards MovementRouteRegistrar
	Loans       MovementRouteRegistrar
	Reports     RouteRegistrar

	AuthMiddleware        func(http.Handler) http.Handler
	IdempotencyMiddleware func(http.Handler) http.Handler
	Metrics               *observability.Metrics

	RateLimitPerMinute int
	RequestTimeout     time.Duration
	Production         bool
}

func New(opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        opts.Production,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !opts.Production,
	})

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := secureMiddleware.Process(w, r); err != nil {
				logger.Warn("secure headers blocked request", logger.Fields{
					"path":  r.URL.Path,
					"error": err.Error(),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	if opts.RateLimitPerMinute > 0 {
		r.Use(httprate.Limit(opts.RateLimitPerMinute, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", opts.Metrics.Handler())
	registerSwaggerRoutes(r)

	r.Group(func(r chi.Router) {
		if opts.AuthMiddleware != nil {
			r.Use(opts.AuthMiddleware)
		}
		if opts.Accounts != nil {
			opts.Accounts.RegisterRoutes(r, opts.IdempotencyMiddleware)
		}
		if opts.CreditCards != nil {
			opts.CreditCards.RegisterRoutes(r, opts.IdempotencyMiddleware)
		}
		if opts.Loans != nil {
			opts.Loans.RegisterRoutes(r, opts.IdempotencyMiddleware)
		}
		if opts.Reports != nil {
			opts.Reports.RegisterRoutes(r)
		}
	})

	return r
}
