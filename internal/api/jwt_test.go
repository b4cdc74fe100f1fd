package api

import (
	"strings"
	"testing"
	"time"

	"github.com/momoworks/webos/internal/constants"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := CreateAccessToken("42", "Asha", "user")
	if err != nil {
		t.Fatalf("CreateAccessToken failed: %v", err)
	}

	claims, err := ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken failed: %v", err)
	}
	if claims.Sub != "42" || claims.Name != "Asha" || claims.Role != "user" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Exp <= claims.Iat {
		t.Fatalf("expected exp after iat, got iat=%d exp=%d", claims.Iat, claims.Exp)
	}
}

func TestParseToken_RejectsTampering(t *testing.T) {
	token, err := CreateAccessToken("42", "Asha", "user")
	if err != nil {
		t.Fatalf("CreateAccessToken failed: %v", err)
	}

	if _, err := ParseAccessToken("not-a-token"); err == nil {
		t.Fatalf("expected malformed token to fail")
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + parts[2][:len(parts[2])-2] + "xx"
	if _, err := ParseAccessToken(tampered); err == nil {
		t.Fatalf("expected tampered signature to fail")
	}
}

func TestTokensUseSeparateSecrets(t *testing.T) {
	t.Setenv(constants.EnvJWTSecret, "access-secret-for-tests")
	t.Setenv(constants.EnvRefreshSecret, "refresh-secret-for-tests")

	refresh, err := CreateRefreshToken("42")
	if err != nil {
		t.Fatalf("CreateRefreshToken failed: %v", err)
	}

	if _, err := ParseAccessToken(refresh); err == nil {
		t.Fatalf("expected a refresh token to be rejected as an access token")
	}
	claims, err := ParseRefreshToken(refresh)
	if err != nil {
		t.Fatalf("ParseRefreshToken failed: %v", err)
	}
	if claims.Sub != "42" {
		t.Fatalf("unexpected subject: %s", claims.Sub)
	}
}

func TestParseToken_RejectsExpired(t *testing.T) {
	secret, err := accessSecret()
	if err != nil {
		t.Fatalf("accessSecret failed: %v", err)
	}
	token := createToken("42", "Asha", "user", -time.Minute, secret)
	if _, err := parseToken(token, secret); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestIdentityFromToken(t *testing.T) {
	token, err := CreateAccessToken("42", "Asha", "user")
	if err != nil {
		t.Fatalf("CreateAccessToken failed: %v", err)
	}

	userID, username, err := IdentityFromToken(token)
	if err != nil {
		t.Fatalf("IdentityFromToken failed: %v", err)
	}
	if userID != "42" || username != "Asha" {
		t.Fatalf("unexpected identity: %s/%s", userID, username)
	}
}
