package api

import (
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/momoworks/webos/internal/constants"
)

// Claims carried by both access and refresh tokens. Sub holds the user id.
type Claims struct {
	Sub  string `json:"sub"`
	Name string `json:"name"`
	Role string `json:"role"`
	Iat  int64  `json:"iat"`
	Exp  int64  `json:"exp"`
}

var (
	devAccessSecret  []byte
	devRefreshSecret []byte
)

func secretFromEnv(envKey string, dev *[]byte) ([]byte, error) {
	secret := os.Getenv(envKey)
	if secret == "" {
		// Generate an in-memory secret for development if not set
		if len(*dev) == 0 {
			*dev = make([]byte, 32)
			if _, err := crand.Read(*dev); err != nil {
				return nil, errors.New("failed to generate dev secret")
			}
		}
		return *dev, nil
	}
	return []byte(secret), nil
}

func accessSecret() ([]byte, error) {
	return secretFromEnv(constants.EnvJWTSecret, &devAccessSecret)
}

func refreshSecret() ([]byte, error) {
	return secretFromEnv(constants.EnvRefreshSecret, &devRefreshSecret)
}

func b64url(data []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(data), "=")
}

func b64urlDecode(s string) ([]byte, error) {
	// pad to multiple of 4
	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}
	return base64.URLEncoding.DecodeString(s)
}

func signHS256(data string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(data))
	return b64url(mac.Sum(nil))
}

func createToken(userID, name, role string, ttl time.Duration, secret []byte) string {
	header := map[string]string{"alg": "HS256", "typ": "JWT"}
	hdrJSON, _ := json.Marshal(header)
	now := time.Now().Unix()
	claims := Claims{Sub: userID, Name: name, Role: role, Iat: now, Exp: now + int64(ttl.Seconds())}
	clJSON, _ := json.Marshal(claims)
	unsigned := fmt.Sprintf("%s.%s", b64url(hdrJSON), b64url(clJSON))
	return unsigned + "." + signHS256(unsigned, secret)
}

func parseToken(token string, secret []byte) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errors.New("invalid token format")
	}
	unsigned := parts[0] + "." + parts[1]
	expected := signHS256(unsigned, secret)
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return nil, errors.New("invalid signature")
	}
	payloadBytes, err := b64urlDecode(parts[1])
	if err != nil {
		return nil, err
	}
	var claims Claims
	if err := json.Unmarshal(payloadBytes, &claims); err != nil {
		return nil, err
	}
	if time.Now().Unix() > claims.Exp {
		return nil, errors.New("token expired")
	}
	return &claims, nil
}

// CreateAccessToken mints a short-lived access token.
func CreateAccessToken(userID, name, role string) (string, error) {
	secret, err := accessSecret()
	if err != nil {
		return "", err
	}
	ttl := constants.AccessTokenTTLMinutes * time.Minute
	return createToken(userID, name, role, ttl, secret), nil
}

// CreateRefreshToken mints a long-lived refresh token.
func CreateRefreshToken(userID string) (string, error) {
	secret, err := refreshSecret()
	if err != nil {
		return "", err
	}
	ttl := constants.RefreshTokenTTLDays * 24 * time.Hour
	return createToken(userID, "", "", ttl, secret), nil
}

// ParseAccessToken validates an access token and returns its claims.
func ParseAccessToken(token string) (*Claims, error) {
	secret, err := accessSecret()
	if err != nil {
		return nil, err
	}
	return parseToken(token, secret)
}

// ParseRefreshToken validates a refresh token and returns its claims.
func ParseRefreshToken(token string) (*Claims, error) {
	secret, err := refreshSecret()
	if err != nil {
		return nil, err
	}
	return parseToken(token, secret)
}

// IdentityFromToken validates an access token and returns the authenticated
// user id and display name. Used by the websocket gateway at handshake time.
func IdentityFromToken(token string) (string, string, error) {
	claims, err := ParseAccessToken(token)
	if err != nil {
		return "", "", err
	}
	return claims.Sub, claims.Name, nil
}
