package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"yt-insight/cmd/internal/logger"
	"yt-insight/eventbus"
)

func main() {
	// retry worker 는 config.yaml 없이 환경변수만으로 뜬다.
	logger.InitFromEnv("LOG_LEVEL")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	brokers := eventbus.GetBrokers()
	layout := eventbus.TopicLayout{Partitions: 3, ReplicationFactor: 1}
	for _, t := range eventbus.AllTopics {
		if err := eventbus.EnsureTopics(brokers, t, layout); err != nil {
			logger.Log.Errorf("failed to ensure eventbus topics for %s: %v", t.Base(), err)
		}
	}

	bus, err := eventbus.NewKafkaEventBus(brokers)
	if err != nil {
		logger.Log.Errorf("failed to create event bus: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	groupID := eventbus.GetGroupID() + "-retry-worker"
	logger.InfoWithFields("starting retry worker", logger.Fields{"group_id": groupID, "topics": len(eventbus.AllTopics)})

	var wg sync.WaitGroup
	for _, topic := range eventbus.AllTopics {
		wg.Add(1)
		go func() {
			defer wg.Done()
			topicGroupID := groupID + "-" + strings.ReplaceAll(topic.Base(), ".", "-")
			if err := bus.StartRetryReinjector(ctx, topicGroupID, topic); err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorWithFields("retry reinjector stopped", logger.Fields{"topic": topic.Base(), "error": err.Error()})
			}
		}()
	}

	<-ctx.Done()
	logger.Log.Info("received shutdown signal, waiting for reinjectors...")
	wg.Wait()
	logger.Log.Info("retry worker stopped")
}
