package trace

import (
	"context"
	"encoding/hex"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderSpanID    = "X-Span-Id"
)

type ctxKey struct{}

// Info 는 요청 하나의 트레이싱 정보다. spanSeq 는 같은 요청 안의 outbound 호출마다 1 씩 증가한다.
type Info struct {
	RequestID string
	spanSeq   int64
}

// GenerateID 는 하이픈 없는 랜덤 ID 를 만든다.
func GenerateID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// WithRequest 는 span 0 에서 시작하는 트레이싱 정보를 ctx 에 심는다.
func WithRequest(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, &Info{RequestID: requestID})
}

func infoFromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKey{}).(*Info)
	return v
}

func RequestIDFromContext(ctx context.Context) string {
	if info := infoFromContext(ctx); info != nil {
		return info.RequestID
	}
	return ""
}

// CurrentSpanID 는 현재 span 값을 증가 없이 돌려준다.
func CurrentSpanID(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return "0"
	}
	return strconv.FormatInt(max(atomic.LoadInt64(&info.spanSeq), 0), 10)
}

// NextSpanID 는 span 을 1 증가시키고 (requestID, spanID) 를 반환한다.
// 미들웨어 밖에서 불리면 새 requestID 와 span 1 을 돌려준다.
func NextSpanID(ctx context.Context) (string, string) {
	info := infoFromContext(ctx)
	if info == nil {
		return GenerateID(), "1"
	}
	return info.RequestID, strconv.FormatInt(max(atomic.AddInt64(&info.spanSeq, 1), 1), 10)
}

// LogArgs 는 key/value 로거에 붙일 request_id 를 돌려준다.
func LogArgs(ctx context.Context) []any {
	if id := RequestIDFromContext(ctx); id != "" {
		return []any{"request_id", id}
	}
	return nil
}
