package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// NewEvent 는 payload 를 JSON 으로 감싼 Event 를 만든다. id 가 비어 있으면 UUID 를 쓰고,
// 재시도 한도는 RetryDelays 단계 수로 고정한다.
func NewEvent(id, eventType, key string, payload any) (Event, error) {
	if id == "" {
		id = uuid.NewString()
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("%s payload 인코딩 실패: %w", eventType, err)
	}
	return Event{ID: id, Type: eventType, Key: key, Payload: b, MaxRetry: len(RetryDelays)}, nil
}

// Decode 는 Event.Payload 를 T 로 읽는다.
func Decode[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		return out, fmt.Errorf("%s(%s) payload 디코딩 실패: %w", evt.Type, evt.ID, err)
	}
	return out, nil
}

// SubscribeType 은 topic 에서 eventType 이벤트만 디코딩해 handler 로 넘긴다.
// 같은 토픽의 다른 타입은 처리 없이 커밋된다.
func SubscribeType[T any](ctx context.Context, bus EventBus, groupID string, topic Topic, eventType string, handler func(ctx context.Context, payload T, meta Event) error) error {
	return bus.Subscribe(ctx, groupID, topic, func(ctx context.Context, evt Event) error {
		if evt.Type != eventType {
			return nil
		}
		v, err := Decode[T](evt)
		if err != nil {
			return err
		}
		return handler(ctx, v, evt)
	})
}
