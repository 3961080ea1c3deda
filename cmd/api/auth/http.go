package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	ErrMissingHeader = errors.New("missing_authorization_header")
	ErrInvalidFormat = errors.New("invalid_authorization_header")
	ErrEmptyToken    = errors.New("empty_token")
	ErrInvalidToken  = errors.New("invalid_token")
)

const (
	ctxKeyUID  = "uid"
	ctxKeyRole = "role"
)

// ExtractBearerToken 는 Authorization 헤더에서 Bearer 토큰을 꺼낸다.
// EventSource 는 헤더를 붙일 수 없으므로 access_token 쿼리 파라미터도 허용한다.
func ExtractBearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if q := strings.TrimSpace(c.Query("access_token")); q != "" {
			return q, nil
		}
		return "", ErrMissingHeader
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", ErrInvalidFormat
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrEmptyToken
	}
	return token, nil
}

// AbortWithUnauthorized 는 401 과 공통 에러 JSON 으로 요청을 끝낸다.
func AbortWithUnauthorized(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "message": "authentication required"})
}

// SetUser 는 인증된 사용자 정보를 gin 컨텍스트에 저장한다.
func SetUser(c *gin.Context, uid, role string) {
	c.Set(ctxKeyUID, uid)
	c.Set(ctxKeyRole, role)
}

// UID 는 AuthRequired 미들웨어가 저장한 uid 를 반환한다.
func UID(c *gin.Context) string {
	return c.GetString(ctxKeyUID)
}

func Role(c *gin.Context) string {
	return c.GetString(ctxKeyRole)
}
