package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// TopicLayout은 토픽 생성 시 사용할 파티션/복제 설정입니다.
type TopicLayout struct {
	Partitions        int
	ReplicationFactor int
}

func (l TopicLayout) withDefaults() TopicLayout {
	if l.Partitions <= 0 {
		l.Partitions = 3
	}
	if l.ReplicationFactor <= 0 {
		l.ReplicationFactor = 1
	}
	return l
}

// topicSpecs는 기본 토픽, 재시도 토픽, DLQ 토픽 사양을 만듭니다. DLQ는 1 파티션입니다.
func topicSpecs(topic Topic, layout TopicLayout) []kafka.TopicSpecification {
	layout = layout.withDefaults()
	specs := make([]kafka.TopicSpecification, 0, 2+len(RetryDelays))
	specs = append(specs,
		kafka.TopicSpecification{Topic: topic.Base(), NumPartitions: layout.Partitions, ReplicationFactor: layout.ReplicationFactor},
		kafka.TopicSpecification{Topic: topic.DLQ(), NumPartitions: 1, ReplicationFactor: layout.ReplicationFactor},
	)
	for _, retryTopic := range topic.GetRetryTopics() {
		specs = append(specs, kafka.TopicSpecification{
			Topic:             retryTopic,
			NumPartitions:     layout.Partitions,
			ReplicationFactor: layout.ReplicationFactor,
		})
	}
	return specs
}

// EnsureTopics는 기본 토픽, 모든 재시도 토픽, DLQ 토픽을 생성합니다.
// 이미 존재하는 토픽에 대해서는 성공으로 간주합니다.
func EnsureTopics(brokers string, topic Topic, layout TopicLayout) error {
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return fmt.Errorf("AdminClient 생성 실패: %w", err)
	}
	defer admin.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	results, err := admin.CreateTopics(ctx, topicSpecs(topic, layout))
	if err != nil {
		return fmt.Errorf("토픽 생성 요청 실패: %w", err)
	}

	for _, r := range results {
		code := r.Error.Code()
		if code != kafka.ErrNoError && code != kafka.ErrTopicAlreadyExists {
			return fmt.Errorf("토픽 %s 생성 실패: %v", r.Topic, r.Error)
		}
	}
	return nil
}
