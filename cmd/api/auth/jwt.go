package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	defaultIssuer = "yt-insight"
	defaultTTL    = 24 * time.Hour
)

// JWTManager 는 HS256 시크릿으로 액세스 토큰을 발급/검증한다. sub 클레임은 uid 다.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManagerFromEnv 는 JWT_SECRET(필수), JWT_ISSUER(선택), JWT_TTL(선택, time.ParseDuration 형식)을 읽는다.
func NewJWTManagerFromEnv() (*JWTManager, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = defaultIssuer
	}
	ttl := defaultTTL
	if v := os.Getenv("JWT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid JWT_TTL %q", v)
		}
		ttl = d
	}
	return NewJWTManager(secret, issuer, ttl), nil
}

func NewJWTManager(secret, issuer string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// TTL 은 발급되는 토큰의 유효 기간이다.
func (m *JWTManager) TTL() time.Duration { return m.ttl }

func (m *JWTManager) Sign(uid, role string) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   uid,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{RegisteredClaims: claims, Role: role})
	return token.SignedString(m.secret)
}

type accessClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// Parse 는 서명, 만료, issuer 를 검증하고 (uid, role) 을 돌려준다.
func (m *JWTManager) Parse(tokenString string) (string, string, error) {
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", "", err
	}
	if !parsed.Valid {
		return "", "", fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return "", "", fmt.Errorf("token missing sub claim")
	}
	return claims.Subject, claims.Role, nil
}
