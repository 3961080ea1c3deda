package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"yt-insight/cmd/api/trace"
	"yt-insight/cmd/internal/logger"
)

const maxBodyLog = 1024

// 요청 바디 로그에서 값을 가리는 JSON 필드.
var sensitiveFields = []string{"password"}

// RequestTrace 는 모든 inbound 요청에 Request ID 를 보장하고 컨텍스트/헤더에 저장한 뒤
// 완료 로그를 남긴다. span 은 0 에서 시작하고 outbound 호출마다 증가한다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		requestID := req.Header.Get(trace.HeaderRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}
		ctx := trace.WithRequest(req.Context(), requestID)
		c.Request = req.WithContext(ctx)

		c.Request.Header.Set(trace.HeaderRequestID, requestID)
		c.Writer.Header().Set(trace.HeaderRequestID, requestID)
		c.Writer.Header().Set(trace.HeaderSpanID, trace.CurrentSpanID(ctx))

		queryParams := map[string][]string{}
		for key, values := range req.URL.Query() {
			if key == "access_token" {
				values = []string{"REDACTED"}
			}
			if len(values) > 0 {
				queryParams[key] = values
			}
		}
		bodySnippet := readBodySnippet(c)

		c.Next()

		fields := logger.Fields{
			"method":       req.Method,
			"path":         req.URL.Path,
			"query_params": queryParams,
			"status":       c.Writer.Status(),
			"duration":     time.Since(start).String(),
			"request_id":   requestID,
			"span_id":      trace.CurrentSpanID(c.Request.Context()),
		}
		if bodySnippet != "" {
			fields["body"] = bodySnippet
		}
		logger.InfoWithFields("completed request", fields)
	}
}

// readBodySnippet 은 바디를 읽어 로그용 스니펫을 만들고, 핸들러가 다시 읽을 수 있도록 복원한다.
func readBodySnippet(c *gin.Context) string {
	req := c.Request
	if req.Body == nil || req.ContentLength == 0 {
		return ""
	}
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return ""
	}
	bodyBytes, err := io.ReadAll(req.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	return snippet(redactBody(bodyBytes))
}

func redactBody(body []byte) []byte {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return body
	}
	changed := false
	for _, f := range sensitiveFields {
		if _, ok := m[f]; ok {
			m[f] = "REDACTED"
			changed = true
		}
	}
	if !changed {
		return body
	}
	out, err := json.Marshal(m)
	if err != nil {
		return body
	}
	return out
}

func snippet(b []byte) string {
	if len(b) > maxBodyLog {
		b = b[:maxBodyLog]
	}
	return string(b)
}
