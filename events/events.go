package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	AnalysisCompleted EventType = "analysis.completed"
	AnalysisFailed    EventType = "analysis.failed"
	CreditDeducted    EventType = "credit.deducted"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"` // "api", "archiver" 등
	Version   string    `json:"version"`
}

// AnalysisCompletedEvent 리포트가 저장되었을 때 발행되는 이벤트
type AnalysisCompletedEvent struct {
	BaseEvent
	RunID      string `json:"run_id"`
	UserID     string `json:"user_id"`
	ReportID   string `json:"report_id"`
	VideoID    string `json:"video_id"`
	VideoTitle string `json:"video_title"`
	Fallback   bool   `json:"fallback"`
}

// AnalysisFailedEvent 분석이 실패 상태로 끝났을 때 발행되는 이벤트
type AnalysisFailedEvent struct {
	BaseEvent
	RunID   string `json:"run_id"`
	UserID  string `json:"user_id"`
	VideoID string `json:"video_id,omitempty"`
	Step    string `json:"step"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	// CreditSpent 는 크레딧 차감 이후 단계에서 실패했는지 여부다. 환불 정책 판단용.
	CreditSpent bool `json:"credit_spent"`
}

// CreditDeductedEvent 분석을 위해 크레딧이 차감되었을 때 발행되는 이벤트
type CreditDeductedEvent struct {
	BaseEvent
	RunID  string `json:"run_id"`
	UserID string `json:"user_id"`
}

// SerializeEvent 이벤트를 JSON으로 직렬화하고 타입 정보 반환
func SerializeEvent(event any) ([]byte, EventType, error) {
	var eventType EventType

	switch e := event.(type) {
	case AnalysisCompletedEvent:
		eventType = e.Type
	case AnalysisFailedEvent:
		eventType = e.Type
	case CreditDeductedEvent:
		eventType = e.Type
	default:
		return nil, "", fmt.Errorf("unknown event type: %T", event)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, eventType, nil
}

// DeserializeEvent 이벤트 타입에 따라 적절한 구조체로 역직렬화
func DeserializeEvent(eventType EventType, data []byte) (any, error) {
	var event any

	switch eventType {
	case AnalysisCompleted:
		event = &AnalysisCompletedEvent{}
	case AnalysisFailed:
		event = &AnalysisFailedEvent{}
	case CreditDeducted:
		event = &CreditDeductedEvent{}
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return event, nil
}
