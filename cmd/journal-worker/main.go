package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shamroze153/FM-Portal/internal/journal"
	"github.com/shamroze153/FM-Portal/internal/metrics"
	"github.com/shamroze153/FM-Portal/internal/repository"
	"github.com/shamroze153/FM-Portal/pkg/config"
	"github.com/shamroze153/FM-Portal/pkg/database"
	"github.com/shamroze153/FM-Portal/pkg/kafka"
	"github.com/shamroze153/FM-Portal/pkg/logger"
	"github.com/shamroze153/FM-Portal/pkg/retry"
	"github.com/shamroze153/FM-Portal/pkg/telemetry"
)

const serviceName = "journal-worker"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(&logger.Config{
		Level:       cfg.App.Environment,
		ServiceName: serviceName,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting Journal Worker...")

	if !cfg.Kafka.Enabled {
		appLog.Fatal("Journal worker requires KAFKA_ENABLED=true")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
		MetricsEnabled: cfg.OTel.MetricsEnabled,
	}); err != nil {
		appLog.Warn("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetry.Shutdown(context.Background())
	metrics.Init()

	// Initialize journal database
	dbCfg := &database.PostgresConfig{
		DSN:             cfg.JournalDatabase.DSN(),
		MaxConns:        int32(cfg.JournalDatabase.MaxOpenConns),
		MinConns:        int32(cfg.JournalDatabase.MinConns),
		MaxConnLifetime: cfg.JournalDatabase.ConnMaxLifetime,
		MaxConnIdleTime: cfg.JournalDatabase.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      5,
		RetryInterval:   2 * time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal("Journal database connection failed", zap.Error(err))
	}
	defer db.Close()

	repo := repository.NewPostgresJournalRepository(db.Pool())
	if err := repo.EnsureSchema(ctx); err != nil {
		appLog.Fatal("Failed to create journal schema", zap.Error(err))
	}
	appLog.Info("Journal database ready")

	// Initialize Kafka consumer
	topic := cfg.Kafka.EventsTopic
	if topic == "" {
		topic = "dispatch-events"
	}
	consumer, err := kafka.NewConsumer(ctx, &kafka.ConsumerConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.ConsumerGroup,
		Topics:         []string{topic},
		ClientID:       serviceName,
		MaxRetries:     5,
		RetryInterval:  2 * time.Second,
		SessionTimeout: 30 * time.Second,
	})
	if err != nil {
		appLog.Fatal("Kafka consumer unavailable", zap.Error(err))
	}
	defer consumer.Close()
	appLog.Info("Kafka consumer ready", zap.String("topic", topic), zap.String("group", cfg.Kafka.ConsumerGroup))

	// Initialize dead letter producer
	dlqProducer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Kafka.Brokers,
		ClientID:      serviceName + "-dlq",
		MaxRetries:    5,
		RetryInterval: 2 * time.Second,
	})
	if err != nil {
		appLog.Fatal("Kafka DLQ producer unavailable", zap.Error(err))
	}
	defer dlqProducer.Close()
	dlq := retry.NewKafkaDLQPublisher(dlqProducer, retry.DLQConfig{
		Topic:  cfg.Kafka.DLQTopic,
		Source: serviceName,
	})
	appLog.Info("Dead letter topic ready", zap.String("topic", dlq.DLQTopic(topic)))

	worker := journal.NewWorker(journal.WorkerConfig{
		Retry: retry.Policy{
			Attempts:   6,
			Initial:    500 * time.Millisecond,
			Max:        10 * time.Second,
			Multiplier: 2,
			Jitter:     0.2,
		},
	}, consumer, repo, dlq, appLog)

	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	// Wait for interrupt signal or a fatal journal error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		appLog.Info("Shutting down journal worker...")
		cancel()
		<-done
	case err := <-done:
		if err != nil {
			appLog.Error("Journal worker stopped", zap.Error(err))
			cancel()
			logger.Sync()
			os.Exit(1)
		}
	}

	appLog.Info("Journal worker exited gracefully")
}
