package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"yt-insight/eventbus"
	"yt-insight/events"
)

// EventDispatcher API용 이벤트 발행 서비스
type EventDispatcher struct {
	bus    eventbus.EventBus
	topic  eventbus.Topic
	source string
}

// NewEventDispatcher 새로운 이벤트 디스패처 생성
func NewEventDispatcher(bus eventbus.EventBus, source string) *EventDispatcher {
	return &EventDispatcher{bus: bus, topic: eventbus.TopicAnalysisEvents, source: source}
}

func (s *EventDispatcher) base(t events.EventType) events.BaseEvent {
	return events.BaseEvent{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now(),
		Source:    s.source,
		Version:   "1.0",
	}
}

func (s *EventDispatcher) publish(ctx context.Context, base events.BaseEvent, key string, payload any) error {
	evt, err := eventbus.NewEvent(base.ID, string(base.Type), key, payload)
	if err != nil {
		return fmt.Errorf("failed to build event: %w", err)
	}
	return s.bus.Publish(ctx, s.topic.Base(), evt)
}

// PublishAnalysisCompleted 리포트 저장 완료 이벤트 발행
func (s *EventDispatcher) PublishAnalysisCompleted(ctx context.Context, e events.AnalysisCompletedEvent) error {
	e.BaseEvent = s.base(events.AnalysisCompleted)
	return s.publish(ctx, e.BaseEvent, e.UserID, e)
}

// PublishAnalysisFailed 분석 실패 이벤트 발행
func (s *EventDispatcher) PublishAnalysisFailed(ctx context.Context, e events.AnalysisFailedEvent) error {
	e.BaseEvent = s.base(events.AnalysisFailed)
	return s.publish(ctx, e.BaseEvent, e.UserID, e)
}

// PublishCreditDeducted 크레딧 차감 이벤트 발행
func (s *EventDispatcher) PublishCreditDeducted(ctx context.Context, e events.CreditDeductedEvent) error {
	e.BaseEvent = s.base(events.CreditDeducted)
	return s.publish(ctx, e.BaseEvent, e.UserID, e)
}
