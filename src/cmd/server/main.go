package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/api-sage/accounts-ledger/src/internal/adapter/cache"
	"github.com/api-sage/accounts-ledger/src/internal/adapter/directory"
	"github.com/api-sage/accounts-ledger/src/internal/adapter/events"
	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/accounts-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/accounts-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/accounts-ledger/src/internal/adapter/repository/postgres"
	"github.com/api-sage/accounts-ledger/src/internal/config"
	"github.com/api-sage/accounts-ledger/src/internal/domain"
	"github.com/api-sage/accounts-ledger/src/internal/logger"
	"github.com/api-sage/accounts-ledger/src/internal/observability"
	"github.com/api-sage/accounts-ledger/src/internal/scheduler"
	"github.com/api-sage/accounts-ledger/src/internal/usecase/services"
)

const shutdownTimeout = 20 * time.Second

type stores struct {
	accounts  domain.AccountRepository
	movements domain.MovementRepository
	ledger    domain.LedgerStore
	cards     domain.CreditCardRepository
	loans     domain.LoanRepository
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.Configure(cfg.LogFormat, cfg.LogLevel)

	if err := run(cfg); err != nil {
		logger.Error("server stopped with error", err, nil)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	st, closeStore, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	closers = append(closers, closeStore)

	var customers domain.CustomerDirectory = memory.NewCustomerDirectory()
	if cfg.CustomerDirectoryURL != "" {
		customers = directory.NewClient(cfg.CustomerDirectoryURL, cfg.CustomerDirectoryTimeout)
	} else {
		logger.Warn("customer directory url not set, using built-in customers", nil)
	}

	var idempotency func(http.Handler) http.Handler
	if cfg.RedisAddr != "" {
		client, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		idempotency = middleware.Idempotency(cache.NewIdempotencyStore(client, cfg.IdempotencyTTL))
	}

	var publisher events.Publisher = events.FallbackPublisher{}
	if cfg.RabbitMQURL != "" {
		producer, err := events.NewProducer(cfg.RabbitMQURL)
		if err != nil {
			logger.Error("rabbitmq unavailable, events will only be logged", err, nil)
		} else {
			publisher = producer
		}
	}
	closers = append(closers, publisher.Close)

	metrics := observability.NewMetrics()

	processor := services.NewMovementProcessor(st.ledger,
		services.WithLocation(cfg.Location),
		services.WithMaxAttempts(cfg.MovementMaxAttempts()),
		services.WithEventPublisher(events.NewMovementPublisher(publisher, cfg.EventsExchange)),
		services.WithMovementObserver(metrics),
	)
	rules := services.NewAccountRules(st.accounts)

	accountService := services.NewAccountService(st.accounts, st.movements, customers, rules, processor, cfg.Location)
	cardService := services.NewCreditCardService(st.cards)
	loanService := services.NewLoanService(st.loans, customers)
	reportService := services.NewReportService(
		st.accounts,
		st.movements,
		st.cards,
		st.loans,
		services.NewCommissionClassifier(cfg.CommissionPatternList()),
		cfg.Location,
		nil,
	)

	handler := router.New(router.Options{
		Accounts:              controller.NewAccountController(accountService),
		CreditCards:           controller.NewCreditCardController(cardService),
		Loans:                 controller.NewLoanController(loanService),
		Reports:               controller.NewReportController(reportService),
		AuthMiddleware:        middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey),
		IdempotencyMiddleware: idempotency,
		Metrics:               metrics,
		RateLimitPerMinute:    cfg.RateLimitPerMinute,
		Production:            cfg.IsProduction(),
	})

	var jobs *scheduler.Scheduler
	if cfg.MaintenanceFeeEnabled {
		job := services.NewMaintenanceFeeJob(st.accounts, processor, cfg.Location)
		jobs = scheduler.New(cfg.Location, metrics)
		err := jobs.Register("maintenance_fee", cfg.MaintenanceFeeSchedule, func(ctx context.Context) error {
			_, err := job.Run(ctx)
			return err
		})
		if err != nil {
			return err
		}
		jobs.Start()
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", logger.Fields{
			"port":  cfg.ServerPort,
			"store": cfg.StoreDriver,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if jobs != nil {
		jobs.Stop(shutdownCtx)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("server stopped", nil)
	return nil
}

func openStores(ctx context.Context, cfg config.Config) (stores, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("using in-memory store, data is lost on restart", nil)
		store := memory.NewStore()
		return stores{
			accounts:  store,
			movements: store,
			ledger:    store,
			cards:     memory.NewCreditCardRepository(),
			loans:     memory.NewLoanRepository(),
		}, func() {}, nil
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(migrateCtx, cfg.DatabaseDSN); err != nil {
		return stores{}, nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations applied", nil)

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return stores{}, nil, fmt.Errorf("open database: %w", err)
	}

	return stores{
		accounts:  postgres.NewAccountRepository(db),
		movements: postgres.NewMovementRepository(db),
		ledger:    postgres.NewLedgerStore(db),
		cards:     postgres.NewCreditCardRepository(db),
		loans:     postgres.NewLoanRepository(db),
	}, func() { _ = db.Close() }, nil
}
