package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"yt-insight/cmd/api/auth"
	"yt-insight/cmd/internal/logger"
)

// RequestLoggingMiddleware 는 5xx 응답과 threshold 보다 오래 걸린 요청을 사용자 정보와 함께 경고로 남긴다.
// 스트리밍 응답(SSE)은 연결 시간이 길 수밖에 없으므로 느린 요청으로 보지 않는다.
func RequestLoggingMiddleware(threshold time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start)
		streaming := c.Writer.Header().Get("Content-Type") == "text/event-stream"
		slow := threshold > 0 && elapsed > threshold && !streaming
		if status < http.StatusInternalServerError && !slow {
			return
		}

		fields := logger.Fields{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      status,
			"duration_ms": elapsed.Milliseconds(),
			"uid":         auth.UID(c),
			"request_id":  c.Writer.Header().Get("X-Request-Id"),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		if status >= http.StatusInternalServerError {
			logger.ErrorWithFields("api_request failed", fields)
			return
		}
		logger.WarnWithFields("api_request slow", fields)
	}
}
