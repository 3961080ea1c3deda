package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yt-insight/cmd/api/auth"
	"yt-insight/cmd/internal/logger"
)

// TokenParser 는 액세스 토큰을 (uid, role) 로 검증한다.
type TokenParser interface {
	ParseAccessToken(token string) (string, string, error)
}

// AuthRequired 는 JWT 를 검증하고 uid/role 을 컨텍스트에 저장한다.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c)
		if err != nil {
			auth.AbortWithUnauthorized(c, err)
			return
		}

		uid, role, err := parser.ParseAccessToken(token)
		if err != nil {
			logger.WarnWithFields("token parse error", logger.Fields{
				"error":      err.Error(),
				"path":       c.Request.URL.Path,
				"request_id": c.GetHeader("X-Request-Id"),
			})
			auth.AbortWithUnauthorized(c, auth.ErrInvalidToken)
			return
		}

		auth.SetUser(c, uid, role)
		c.Next()
	}
}

// RequireRole 은 AuthRequired 뒤에 붙여 역할을 확인한다.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.Role(c) != role {
			logger.WarnWithFields("access denied", logger.Fields{"uid": auth.UID(c), "role": auth.Role(c), "want": role})
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden_insufficient_permissions", "message": "insufficient permissions"})
			return
		}
		c.Next()
	}
}
