package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"yt-insight/archive"
	"yt-insight/cmd/internal/logger"
	"yt-insight/config"
	"yt-insight/db"
	"yt-insight/eventbus"
	"yt-insight/events"
	"yt-insight/repositories"
)

func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.Init(ctx); err != nil {
		logger.Log.Errorf("failed to initialize MongoDB: %v", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = db.Disconnect(shutdownCtx)
	}()

	mc, err := archive.NewMinIOClient(cfg)
	if err != nil {
		logger.Log.Errorf("failed to create MinIO client: %v", err)
		os.Exit(1)
	}
	archiver := archive.New(mc, cfg.Archive.Bucket)
	if err := archiver.EnsureBucket(ctx); err != nil {
		logger.Log.Errorf("failed to ensure archive bucket: %v", err)
		os.Exit(1)
	}
	handler := archive.NewHandler(archiver, repositories.NewReportRepository(db.Database()))

	brokers := eventbus.GetBrokers()
	if err := eventbus.EnsureTopics(brokers, eventbus.TopicAnalysisEvents, eventbus.TopicLayout{}); err != nil {
		logger.Log.Errorf("failed to ensure eventbus topics: %v", err)
	}
	bus, err := eventbus.NewKafkaEventBus(brokers)
	if err != nil {
		logger.Log.Errorf("failed to create event bus: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	groupID := eventbus.GetGroupID() + "-archiver"
	logger.InfoWithFields("starting archiver", logger.Fields{"group_id": groupID, "bucket": cfg.Archive.Bucket})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := eventbus.SubscribeType(ctx, bus, groupID, eventbus.TopicAnalysisEvents, string(events.AnalysisCompleted),
			func(ctx context.Context, e events.AnalysisCompletedEvent, _ eventbus.Event) error {
				return handler.HandleAnalysisCompleted(ctx, e)
			})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.Errorf("eventbus subscribe error: %v", err)
		}
	}()

	<-sigChan
	logger.Log.Info("received shutdown signal, shutting down archiver...")
	cancel()
	wg.Wait()
	logger.Log.Info("archiver stopped")
}
