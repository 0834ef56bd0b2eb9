package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"guardian/internal/platform/config"
	"guardian/internal/platform/httpserver"
	"guardian/internal/platform/logger"
	"guardian/internal/platform/metrics"
	"guardian/internal/platform/postgres"
	platformredis "guardian/internal/platform/redis"
	"guardian/internal/recall/events"
	recallservice "guardian/internal/recall/service"
	recallstore "guardian/internal/recall/store"
	httptransport "guardian/internal/transport/http"
)

// main wires high-level dependencies and keeps the process lifecycle small.
// Business logic lives in internal/recall.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Error("postgres unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	store := recallstore.NewPostgresStore(db)

	var publisher recallservice.Publisher = events.NoopPublisher{}
	if cfg.KafkaEnabled {
		producerClient, err := events.NewProducerClient(cfg.KafkaBrokers, cfg.KafkaClientID)
		if err != nil {
			log.Error("kafka producer unavailable", "error", err)
			os.Exit(1)
		}
		defer producerClient.Close()
		if err := events.EnsureTopics(ctx, producerClient); err != nil {
			log.Error("topic creation failed", "error", err)
			os.Exit(1)
		}
		publisher = events.NewKafkaPublisher(producerClient, log)
	}

	service := recallservice.New(store, publisher, log, m)

	var worker *events.NotificationsWorker
	if cfg.KafkaEnabled {
		consumerClient, err := events.NewConsumerClient(cfg.KafkaBrokers, cfg.KafkaClientID)
		if err != nil {
			log.Error("kafka consumer unavailable", "error", err)
			os.Exit(1)
		}
		defer consumerClient.Close()
		worker = events.NewNotificationsWorker(consumerClient, service, log)
	}

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	handler := httptransport.New(service, log, m, redisClient, cfg.RateLimitPerMinute)
	router := httptransport.NewRouter(handler)
	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting guardian", "addr", cfg.Addr, "kafka_enabled", cfg.KafkaEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if worker != nil {
		group.Go(func() error {
			err := worker.Run(groupCtx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("guardian exited", "error", err)
		os.Exit(1)
	}
	log.Info("guardian stopped")
}
