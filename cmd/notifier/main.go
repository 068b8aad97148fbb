package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/findly-now/fn-notifications/pkg/bulkhead"
	"github.com/findly-now/fn-notifications/pkg/circuitbreaker"
	"github.com/findly-now/fn-notifications/pkg/config"
	"github.com/findly-now/fn-notifications/pkg/consumer"
	"github.com/findly-now/fn-notifications/pkg/dedup"
	"github.com/findly-now/fn-notifications/pkg/dispatch"
	"github.com/findly-now/fn-notifications/pkg/logger"
	"github.com/findly-now/fn-notifications/pkg/notification"
	"github.com/findly-now/fn-notifications/pkg/pgdb"
	"github.com/findly-now/fn-notifications/pkg/preferences"
	"github.com/findly-now/fn-notifications/pkg/redis"
	"github.com/findly-now/fn-notifications/pkg/retry"
	"github.com/findly-now/fn-notifications/pkg/routing"
	"github.com/findly-now/fn-notifications/pkg/translator"
)

const serviceName = "fn-notifications"

type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	QueueKey string `env:"EVENT_QUEUE_KEY" envDefault:"fn:notifications:events"`
	DeadKey  string `env:"DEAD_LETTER_KEY" envDefault:"fn:notifications:dead"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var appCfg appConfig
	if err := config.Load(&appCfg); err != nil {
		return fmt.Errorf("load app config: %w", err)
	}

	log := logger.New(logger.WithEnvironment(appCfg.Env, serviceName))
	logger.SetAsDefault(log)

	// Storage: Postgres when configured, in-memory otherwise.
	var pgCfg pgdb.Config
	if err := config.Load(&pgCfg); err != nil {
		return fmt.Errorf("load postgres config: %w", err)
	}

	var (
		notifications notification.Storage
		prefsStorage  preferences.Storage
	)
	if pgCfg.ConnectionString != "" {
		pool, err := pgdb.Connect(ctx, pgCfg)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()

		if err := pgdb.Migrate(ctx, pool, pgCfg, log); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		notifications = notification.NewPostgresStorage(pool)
		prefsStorage = preferences.NewPostgresStorage(pool)
		log.InfoContext(ctx, "using postgres storage")
	} else {
		notifications = notification.NewMemoryStorage()
		prefsStorage = preferences.NewMemoryStorage()
		log.WarnContext(ctx, "PG_CONN_URL not set, using in-memory storage")
	}

	// Transport and suppression windows: Redis when configured.
	var redisCfg redis.Config
	if err := config.Load(&redisCfg); err != nil {
		return fmt.Errorf("load redis config: %w", err)
	}

	var (
		window     dedup.Window
		source     consumer.Source
		deadLetter consumer.DeadLetter
	)
	if redisCfg.ConnectionURL != "" {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close()

		window = dedup.NewRedisWindow(client)
		source, err = consumer.NewRedisSource(client, consumer.WithQueueKey(appCfg.QueueKey))
		if err != nil {
			return fmt.Errorf("create redis source: %w", err)
		}
		deadLetter, err = consumer.NewRedisDeadLetter(client, appCfg.DeadKey)
		if err != nil {
			return fmt.Errorf("create redis dead letter: %w", err)
		}
		log.InfoContext(ctx, "using redis event transport",
			slog.String("queue_key", appCfg.QueueKey),
		)
	} else {
		mw := dedup.NewMemoryWindow()
		defer mw.Close()

		window = mw
		source = consumer.NewMemorySource()
		deadLetter = consumer.NewLogDeadLetter(log)
		log.WarnContext(ctx, "REDIS_URL not set, using in-memory event transport")
	}

	prefs := preferences.NewService(prefsStorage, preferences.WithLogger(log))
	router := routing.New()
	shed := bulkhead.New()
	breakers := circuitbreaker.NewRegistry()

	retryStore := retry.NewMemoryStore()
	scheduler := retry.NewScheduler(retryStore, retry.WithSchedulerLogger(log))

	senders, err := buildSenders(log)
	if err != nil {
		return err
	}

	coordinator, err := dispatch.NewCoordinator(dispatch.Deps{
		Notifications: notifications,
		Preferences:   prefs,
		Router:        router,
		Bulkhead:      shed,
		Breakers:      breakers,
		Scheduler:     scheduler,
		Logger:        log,
	}, senders...)
	if err != nil {
		return fmt.Errorf("wire dispatch coordinator: %w", err)
	}

	processor, err := consumer.NewProcessor(consumer.Deps{
		Source:        source,
		Translator:    translator.New(),
		Window:        window,
		Notifications: notifications,
		Dispatcher:    coordinator,
		Bulkhead:      shed,
		DeadLetter:    deadLetter,
		Logger:        log,
	}, consumer.Config{})
	if err != nil {
		return fmt.Errorf("wire event processor: %w", err)
	}

	worker := retry.NewWorker(retryStore, notifications, coordinator.Dispatch,
		retry.WithWorkerLogger(log),
	)

	processor.Start(ctx)
	worker.Start(ctx)
	log.InfoContext(ctx, "service started", slog.String("env", appCfg.Env))

	<-ctx.Done()
	log.Info("shutting down")

	processor.Stop()
	worker.Stop()
	log.Info("shutdown complete")
	return nil
}

// buildSenders wires one sender per channel. Email goes through Postmark
// when tokens are configured, otherwise the log-only dev sender. SMS and
// WhatsApp providers are not integrated yet, so both always use the dev
// sender.
func buildSenders(log *slog.Logger) ([]dispatch.ChannelSender, error) {
	var pmCfg dispatch.PostmarkConfig
	if err := config.Load(&pmCfg); err != nil {
		return nil, fmt.Errorf("load postmark config: %w", err)
	}

	var email dispatch.ChannelSender
	if pmCfg.ServerToken != "" {
		sender, err := dispatch.NewPostmarkSender(pmCfg)
		if err != nil {
			return nil, fmt.Errorf("create postmark sender: %w", err)
		}
		email = sender
	} else {
		log.Warn("POSTMARK_SERVER_TOKEN not set, using dev email sender")
		email = dispatch.NewDevSender(notification.ChannelEmail, log)
	}

	return []dispatch.ChannelSender{
		email,
		dispatch.NewDevSender(notification.ChannelSMS, log),
		dispatch.NewDevSender(notification.ChannelWhatsApp, log),
	}, nil
}
