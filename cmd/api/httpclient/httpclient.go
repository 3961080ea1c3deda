package httpclient

import (
	"net/http"
	"net/url"
	"time"

	"yt-insight/cmd/api/trace"
	"yt-insight/cmd/internal/logger"
)

// 로그에 남기면 안 되는 쿼리 파라미터.
var redactedParams = []string{"key", "access_token"}

// Config 는 outbound HTTP 클라이언트 설정이다.
type Config struct {
	Timeout time.Duration
	// Transport 가 nil 이면 http.DefaultTransport 를 쓴다.
	Transport http.RoundTripper
}

// loggingRoundTripper 는 모든 outbound 호출에 X-Request-Id/X-Span-Id 를 붙이고 결과를 로깅한다.
type loggingRoundTripper struct {
	inner http.RoundTripper
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID, spanID := trace.NextSpanID(req.Context())
	// RoundTripper 는 원본 요청을 바꾸면 안 된다.
	req = req.Clone(req.Context())
	req.Header.Set(trace.HeaderRequestID, requestID)
	req.Header.Set(trace.HeaderSpanID, spanID)

	resp, err := l.inner.RoundTrip(req)
	fields := logger.Fields{
		"method":     req.Method,
		"url":        redactURL(req.URL),
		"duration":   time.Since(start).String(),
		"request_id": requestID,
		"span_id":    spanID,
	}
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("httpclient request failed", fields)
		return nil, err
	}
	fields["status"] = resp.StatusCode
	if resp.StatusCode >= http.StatusBadRequest {
		logger.WarnWithFields("httpclient request returned error status", fields)
	} else {
		logger.DebugWithFields("httpclient request success", fields)
	}
	return resp, nil
}

func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	changed := false
	for _, p := range redactedParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return u.String()
	}
	cp := *u
	cp.RawQuery = q.Encode()
	return cp.String()
}

// New 는 설정으로 http.Client 를 만든다. Timeout 이 0 이면 10초.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	inner := cfg.Transport
	if inner == nil {
		inner = http.DefaultTransport
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: inner},
	}
}
