package main

import (
	"context"
	"log"
	"net/http"

	"github.com/SergeyKozhin/shared-calendar/internal/api"
	events_service "github.com/SergeyKozhin/shared-calendar/internal/business/events"
	"github.com/SergeyKozhin/shared-calendar/internal/config"
	"github.com/SergeyKozhin/shared-calendar/internal/database"
	"github.com/SergeyKozhin/shared-calendar/internal/database/events"
	"github.com/SergeyKozhin/shared-calendar/internal/notifications"
	"github.com/SergeyKozhin/shared-calendar/internal/pkg/gcal"
	"github.com/SergeyKozhin/shared-calendar/internal/redis"
	"github.com/SergeyKozhin/shared-calendar/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xlab/closer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx := context.Background()

	logger, err := initLogger()
	if err != nil {
		log.Fatalf("unable to initializae logger: %v", err)
	}

	blobs, err := initBlobs(ctx, logger)
	if err != nil {
		logger.Fatalw("unable to initialize storage", "storage", config.Storage(), "err", err)
	}
	eventsStorage := storage.NewDocumentStorage(blobs, storage.NewCodec(config.Location()))

	eventsService := events_service.NewService(ctx, logger, eventsStorage, config.Location())

	sender := notifications.NewSender(
		logger,
		eventsService,
		notifications.NewLogNotifier(logger),
		config.ReminderLead(),
		config.Location(),
	)
	scheduler, err := sender.Start(ctx, config.ReminderSchedule())
	if err != nil {
		logger.Fatalw("unable to schedule reminders", "err", err)
	}
	closer.Bind(func() {
		<-scheduler.Stop().Done()
	})

	var metricsHandler http.Handler
	if config.MetricsEnabled() {
		metricsHandler = promhttp.Handler()
	}

	api, err := api.NewApi(
		logger,
		config.Location(),
		eventsService,
		initCalendarConnector(logger),
		metricsHandler,
	)
	if err != nil {
		logger.Fatalw("unable to initialize api", "err", err)
	}

	errLogger, err := zap.NewStdLogAt(logger.Desugar(), zap.ErrorLevel)
	if err != nil {
		logger.Fatalw("error initiating server logger", "err", err)
	}

	server := &http.Server{
		Addr:     ":" + config.Port(),
		Handler:  api,
		ErrorLog: errLogger,
	}

	go func() {
		logger.Infow("Started server", "port", config.Port(), "storage", config.Storage())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorw("server error", "err", err)
			closer.Close()
		}
	}()

	closer.Bind(func() {
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Errorw("server shutdown", "err", err)
		}
	})
	closer.Hold()
}

func initBlobs(ctx context.Context, logger *zap.SugaredLogger) (storage.Blobs, error) {
	switch config.Storage() {
	case config.StoragePostgres:
		db, err := database.NewPGX(ctx, config.PostgresURL())
		if err != nil {
			return nil, err
		}
		return events.NewBlobs(db, events.NewRepository()), nil
	case config.StorageMemory:
		return storage.NewMemoryBlobs(), nil
	default:
		return redis.NewBlobs(redis.NewRedisPool(logger, config.RedisURL())), nil
	}
}

// initCalendarConnector returns nil when no OAuth client is configured, which
// turns remote sync off.
func initCalendarConnector(logger *zap.SugaredLogger) api.CalendarConnector {
	client, err := gcal.NewClient(config.ClientSecretPath(), config.ClientType(), config.RedirectURL(), config.Location())
	if err != nil {
		logger.Warnw("google calendar sync disabled", "err", err)
		return nil
	}

	return func(ctx context.Context, authCode string) (events_service.RemoteCalendar, error) {
		session, err := client.Authenticate(ctx, authCode)
		if err != nil {
			return nil, err
		}
		return session, nil
	}
}

func initLogger() (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if config.Production() {
		logger, err = zap.NewProduction()
	} else {
		conf := zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err = conf.Build()
	}

	if err != nil {
		return nil, err
	}

	closer.Bind(func() {
		_ = logger.Sync()
	})

	return logger.Sugar(), nil
}
