package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewJWTManagerFromEnvRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	manager, err := NewJWTManagerFromEnv()
	if err == nil {
		t.Fatalf("expected error when JWT_SECRET is empty")
	}
	if manager != nil {
		t.Fatalf("expected nil manager when env is invalid")
	}
}

func TestNewJWTManagerFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_TTL", "")

	manager, err := NewJWTManagerFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if manager.issuer != "yt-insight" {
		t.Fatalf("expected default issuer yt-insight, got %q", manager.issuer)
	}
	if manager.TTL() != 24*time.Hour {
		t.Fatalf("expected default ttl 24h, got %s", manager.TTL())
	}
}

func TestNewJWTManagerFromEnvRejectsBadTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL", "forever")

	if _, err := NewJWTManagerFromEnv(); err == nil {
		t.Fatalf("expected error for invalid JWT_TTL")
	}
}

func TestJWTManagerSignAndParseRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", "test-issuer", time.Hour)

	token, err := manager.Sign("uid-001", RoleUser)
	if err != nil {
		t.Fatalf("unexpected sign error: %v", err)
	}

	uid, role, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if uid != "uid-001" {
		t.Fatalf("expected uid uid-001, got %q", uid)
	}
	if role != RoleUser {
		t.Fatalf("expected role %q, got %q", RoleUser, role)
	}
}

func TestJWTManagerParseRejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", "issuer", time.Minute)
	issued := time.Now().Add(-time.Hour)
	manager.now = func() time.Time { return issued }
	token, err := manager.Sign("uid-001", RoleUser)
	if err != nil {
		t.Fatalf("unexpected sign error: %v", err)
	}

	manager.now = time.Now
	if _, _, err := manager.Parse(token); err == nil {
		t.Fatalf("expected parse error for expired token")
	}
}

func TestJWTManagerParseRejectsForeignIssuer(t *testing.T) {
	other := NewJWTManager("shared-secret", "someone-else", time.Hour)
	token, err := other.Sign("uid-001", RoleUser)
	if err != nil {
		t.Fatalf("unexpected sign error: %v", err)
	}

	manager := NewJWTManager("shared-secret", "yt-insight", time.Hour)
	if _, _, err := manager.Parse(token); err == nil {
		t.Fatalf("expected parse error for foreign issuer")
	}
}

func TestJWTManagerParseRejectsInvalidSignature(t *testing.T) {
	manager := NewJWTManager("service-secret", "issuer", time.Hour)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "uid-001",
		"iss": "issuer",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := forged.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("failed to sign forged token: %v", err)
	}

	if _, _, err := manager.Parse(tokenString); err == nil {
		t.Fatalf("expected parse error for invalid signature")
	}
}

func TestJWTManagerParseRejectsMissingSubClaim(t *testing.T) {
	manager := NewJWTManager("service-secret", "issuer", time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": RoleUser,
		"iss":  "issuer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := token.SignedString(manager.secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	_, _, err = manager.Parse(tokenString)
	if err == nil {
		t.Fatalf("expected parse error for missing sub claim")
	}
	if !strings.Contains(err.Error(), "token missing sub claim") {
		t.Fatalf("expected missing sub error, got %v", err)
	}
}
