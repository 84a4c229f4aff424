package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"

	app "github.com/jackyeh168/sales_engine/src/internal/application/sale"
	domain "github.com/jackyeh168/sales_engine/src/internal/domain/sale"
	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
	"github.com/jackyeh168/sales_engine/src/internal/infrastructure/httpapi"
	"github.com/jackyeh168/sales_engine/src/internal/infrastructure/messaging"
	"github.com/jackyeh168/sales_engine/src/internal/infrastructure/persistence"
	"github.com/jackyeh168/sales_engine/src/internal/platform/config"
	"github.com/jackyeh168/sales_engine/src/internal/platform/logger"
	"github.com/jackyeh168/sales_engine/src/internal/platform/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("SALES_CONFIG"), "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "sales server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormLevel := gormlogger.Warn
	if cfg.Log.Development() {
		gormLevel = gormlogger.Info
	}
	db, err := persistence.Open(cfg.Database, gormLevel)
	if err != nil {
		return err
	}
	defer func() {
		if err := persistence.Close(db); err != nil {
			log.Warn("failed to close database", "error", err)
		}
	}()
	log.Info("database ready", "driver", cfg.Database.Driver)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	publisher, closePublisher, err := buildPublisher(ctx, cfg, log, m)
	if err != nil {
		return err
	}
	defer closePublisher()

	clock := shared.SystemClock{}
	repo := persistence.NewGORMSaleRepository(db, clock)
	txManager := persistence.NewGORMTransactionManager(db)
	factory := domain.NewFactory(clock, domain.UUIDSaleNumberGenerator{})

	handler := httpapi.NewSaleHandler(httpapi.SaleHandlerDeps{
		Create:     app.NewCreateSaleUseCase(repo, txManager, publisher, factory, log),
		Update:     app.NewUpdateSaleUseCase(repo, txManager, publisher, log),
		Cancel:     app.NewCancelSaleUseCase(repo, txManager, publisher, log),
		CancelItem: app.NewCancelSaleItemUseCase(repo, txManager, publisher, log),
		Get:        app.NewGetSaleUseCase(repo),
		List:       app.NewListSalesUseCase(repo),
	}, log)

	if !cfg.Log.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpapi.NewRouter(httpapi.RouterConfig{SaleHandler: handler, Log: log, Metrics: m}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildPublisher always logs events, counts them when metrics are on and
// forwards them to Redis when an address is configured.
func buildPublisher(ctx context.Context, cfg config.Config, log *logger.Logger, m *metrics.Metrics) (shared.EventPublisher, func(), error) {
	targets := []shared.EventPublisher{messaging.NewLoggingEventPublisher(log)}
	closeFn := func() {}

	if cfg.Redis.Enabled() {
		redisPublisher, err := messaging.NewRedisEventPublisher(ctx, cfg.Redis, log)
		if err != nil {
			return nil, nil, err
		}
		targets = append(targets, redisPublisher)
		closeFn = func() {
			if err := redisPublisher.Close(); err != nil {
				log.Warn("failed to close redis publisher", "error", err)
			}
		}
		log.Info("redis event publisher enabled", "channel", cfg.Redis.Channel)
	}

	var publisher shared.EventPublisher = messaging.NewFanoutPublisher(targets...)
	if m != nil {
		publisher = messaging.NewMetricsEventPublisher(publisher, m)
	}
	return publisher, closeFn, nil
}
