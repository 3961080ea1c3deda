package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"yt-insight/config"
)

const headerEventType = "event_type"

// KafkaEventBus는 confluent-kafka-go 라이브러리를 사용한 EventBus 구현체입니다.
type KafkaEventBus struct {
	Producer *kafka.Producer
	Brokers  string
}

// NewKafkaEventBus는 Kafka Producer를 초기화합니다.
func NewKafkaEventBus(brokers string) (*KafkaEventBus, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  brokers,
		"acks":               "all",
		"retries":            5,
		"enable.idempotence": true,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka Producer 생성 실패: %w", err)
	}

	// Producer 이벤트를 처리하는 고루틴 (전달 보고서 등)
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					config.Logger().Error("메시지 전달 실패", "partition", ev.TopicPartition.String(), "error", ev.TopicPartition.Error)
				}
			case kafka.Error:
				config.Logger().Error("Kafka 오류", "error", ev)
			}
		}
	}()

	return &KafkaEventBus{
		Producer: p,
		Brokers:  brokers,
	}, nil
}

// Close는 Producer를 안전하게 종료합니다.
func (k *KafkaEventBus) Close() {
	if k.Producer == nil {
		return
	}
	// 5초 동안 남은 메시지를 모두 플러시합니다.
	if remaining := k.Producer.Flush(5000); remaining > 0 {
		config.Logger().Warn("플러시 후에도 메시지가 남아 있습니다", "remaining", remaining)
	}
	k.Producer.Close()
	config.Logger().Info("Kafka Producer 종료")
}

// Publish는 지정된 토픽에 이벤트를 발행하고 전달 보고서를 기다립니다.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("이벤트 마샬링 실패: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)

	err = k.Producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          data,
		Key:            event.partitionKey(),
		Headers:        []kafka.Header{{Key: headerEventType, Value: []byte(event.Type)}},
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("메시지 발행 실패: %w", err)
	}

	select {
	case ev := <-deliveryChan:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("예상치 못한 전달 보고서: %v", ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("메시지 전달 실패: %w", m.TopicPartition.Error)
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (k *KafkaEventBus) newConsumer(groupID string) (*kafka.Consumer, error) {
	return kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":             k.Brokers,
		"group.id":                      groupID,
		"auto.offset.reset":             "earliest",
		"enable.auto.commit":            false, // 재시도 로직을 위해 수동 커밋 사용
		"partition.assignment.strategy": "range",
	})
}

// readMessage는 타임아웃을 정상 상황으로 취급해 (nil, nil)을 반환합니다.
func readMessage(c *kafka.Consumer) (*kafka.Message, error) {
	msg, err := c.ReadMessage(100 * time.Millisecond)
	if err != nil {
		var kerr kafka.Error
		if errors.As(err, &kerr) && kerr.Code() == kafka.ErrTimedOut {
			return nil, nil
		}
		return nil, err
	}
	return msg, nil
}

// Subscribe는 기본 토픽을 구독하고 메인 비즈니스 핸들러를 실행합니다.
// 핸들러가 실패하면 재시도 토픽으로, 최대 재시도를 넘기면 DLQ로 이벤트를 보냅니다.
func (k *KafkaEventBus) Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error {
	c, err := k.newConsumer(groupID)
	if err != nil {
		return fmt.Errorf("kafka Consumer 생성 실패: %w", err)
	}
	defer c.Close()

	if err := c.SubscribeTopics([]string{topic.Base()}, nil); err != nil {
		return fmt.Errorf("토픽 구독 실패 %s: %w", topic.Base(), err)
	}
	log := config.Logger().With("group_id", groupID, "topic", topic.Base())
	log.Info("메인 컨슈머 시작됨")

	for {
		select {
		case <-ctx.Done():
			log.Info("메인 컨슈머 종료 중")
			return ctx.Err()
		default:
		}

		msg, err := readMessage(c)
		if err != nil {
			var kerr kafka.Error
			if errors.As(err, &kerr) && kerr.IsFatal() {
				return fmt.Errorf("메인 컨슈머 치명적 오류: %w", err)
			}
			log.Error("ReadMessage 오류", "error", err)
			continue
		}
		if msg == nil {
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			log.Error("이벤트 페이로드 오류. 메시지를 건너뛰고 커밋합니다", "error", err)
			_, _ = c.CommitMessage(msg)
			continue
		}
		if evt.MaxRetry <= 0 || evt.MaxRetry > len(RetryDelays) {
			evt.MaxRetry = len(RetryDelays)
		}

		if evt.Retry > 0 {
			log.Info("이벤트 처리 시작 (재시도)", "event_id", evt.ID, "retry", evt.Retry, "max_retry", evt.MaxRetry)
		} else {
			log.Debug("이벤트 처리 시작", "event_id", evt.ID, "event_type", evt.Type)
		}

		if herr := handler(ctx, evt); herr != nil {
			if err := k.scheduleRetry(ctx, topic, evt, herr); err != nil {
				log.Error("재시도/DLQ 발행 실패. 오프셋 커밋 안함", "event_id", evt.ID, "error", err)
				continue
			}
		}

		if _, err := c.CommitMessage(msg); err != nil {
			log.Error("오프셋 커밋 오류", "error", err)
		}
	}
}

// scheduleRetry는 실패한 이벤트를 다음 재시도 토픽 또는 DLQ로 보냅니다.
func (k *KafkaEventBus) scheduleRetry(ctx context.Context, topic Topic, evt Event, cause error) error {
	evt.LastError = cause.Error()
	next := evt.Retry + 1
	if next > evt.MaxRetry {
		config.Logger().Error("최대 재시도 횟수 초과. DLQ로 전송", "event_id", evt.ID, "dlq", topic.DLQ(), "error", cause)
		return k.Publish(ctx, topic.DLQ(), evt)
	}

	retryTopic, err := topic.GetRetryTopic(next)
	if errors.Is(err, ErrMaxRetryExceeded) {
		return k.Publish(ctx, topic.DLQ(), evt)
	}
	if err != nil {
		return err
	}
	evt.Retry = next
	config.Logger().Warn("이벤트 처리 실패. 재시도 예약", "event_id", evt.ID, "retry", evt.Retry, "max_retry", evt.MaxRetry, "retry_topic", retryTopic)
	return k.Publish(ctx, retryTopic, evt)
}

// StartRetryReinjector는 모든 재시도 토픽을 구독하고, 지연 시간이 지난 메시지를 기본 토픽으로 재발행합니다.
func (k *KafkaEventBus) StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error {
	c, err := k.newConsumer(groupID)
	if err != nil {
		return fmt.Errorf("kafka 재시도 재주입기 생성 실패: %w", err)
	}
	defer c.Close()

	retryTopics := topic.GetRetryTopics()
	if err := c.SubscribeTopics(retryTopics, nil); err != nil {
		return fmt.Errorf("재시도 토픽 구독 실패 %v: %w", retryTopics, err)
	}
	log := config.Logger().With("group_id", groupID, "topic", topic.Base())
	log.Info("재시도 재주입 컨슈머 시작됨", "retry_topics", retryTopics)

	for {
		select {
		case <-ctx.Done():
			log.Info("재시도 재주입 컨슈머 종료 중")
			return ctx.Err()
		default:
		}

		msg, err := readMessage(c)
		if err != nil {
			var kerr kafka.Error
			if errors.As(err, &kerr) && kerr.IsFatal() {
				return fmt.Errorf("재시도 재주입 컨슈머 치명적 오류: %w", err)
			}
			log.Error("ReadMessage 오류", "error", err)
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if msg == nil {
			continue
		}

		topicName := *msg.TopicPartition.Topic
		delay, ok := ParseRetryDelayFromTopicName(topicName)
		if !ok {
			log.Error("재시도 토픽 이름 파싱 실패. 메시지를 건너뛰고 커밋합니다", "retry_topic", topicName)
			_, _ = c.CommitMessage(msg)
			continue
		}

		if wait := time.Until(msg.Timestamp.Add(delay)); wait > 0 {
			// 컨슈머 전체를 오래 막지 않도록 짧게만 대기하고, 같은 오프셋부터 다시 읽습니다.
			time.Sleep(min(max(wait, 50*time.Millisecond), 500*time.Millisecond))
			if err := c.Seek(msg.TopicPartition, 0); err != nil {
				log.Error("오프셋 되감기 실패", "error", err)
			}
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			log.Error("재시도 이벤트 페이로드 오류. 메시지를 건너뛰고 커밋합니다", "retry_topic", topicName, "error", err)
			_, _ = c.CommitMessage(msg)
			continue
		}

		log.Info("이벤트 재주입", "event_id", evt.ID, "from", topicName, "retry", evt.Retry)
		if err := k.Publish(ctx, topic.Base(), evt); err != nil {
			log.Error("이벤트 재주입 실패. 오프셋 커밋 안함", "event_id", evt.ID, "error", err)
			continue
		}
		if _, err := c.CommitMessage(msg); err != nil {
			log.Error("재주입 후 커밋 오류", "error", err)
		}
	}
}
