// Package auth provides authentication for the monitor-ipu API.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Claims represents the JWT claims for a monitor-ipu token. Every user
// belongs to exactly one client; the claim scopes all data access.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	ClienteID int       `json:"cliente_id"`
	Email     string    `json:"email"`
	Exp       int64     `json:"exp"`
	Iat       int64     `json:"iat"`
}

// IsExpired returns true if the token has expired.
func (c *Claims) IsExpired() bool {
	return time.Now().Unix() > c.Exp
}

// jwtHeader is the fixed header for HS256 tokens.
var jwtHeader = base64URLEncode([]byte(`{"alg":"HS256","typ":"JWT"}`))

// Errors returned by JWT operations.
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidSecret = errors.New("jwt secret must not be empty")
)

// JWTManager handles token generation and validation.
type JWTManager struct {
	secret []byte
	expiry time.Duration
}

// NewJWTManager creates a new JWTManager with the given secret and token lifetime.
func NewJWTManager(secret string, expiry time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, ErrInvalidSecret
	}
	return &JWTManager{
		secret: []byte(secret),
		expiry: expiry,
	}, nil
}

// Expiry returns the configured token lifetime.
func (m *JWTManager) Expiry() time.Duration {
	return m.expiry
}

// GenerateToken creates a signed JWT for the given user.
func (m *JWTManager) GenerateToken(userID uuid.UUID, clienteID int, email string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:    userID,
		ClienteID: clienteID,
		Email:     email,
		Iat:       now.Unix(),
		Exp:       now.Add(m.expiry).Unix(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	signingInput := jwtHeader + "." + base64URLEncode(payload)
	signature := m.sign([]byte(signingInput))

	return signingInput + "." + base64URLEncode(signature), nil
}

// ValidateToken parses and validates a JWT string, returning its claims.
func (m *JWTManager) ValidateToken(tokenStr string) (*Claims, error) {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}

	signingInput := parts[0] + "." + parts[1]
	signatureBytes, err := base64URLDecode(parts[2])
	if err != nil {
		return nil, ErrInvalidToken
	}

	expectedSig := m.sign([]byte(signingInput))
	if !hmac.Equal(signatureBytes, expectedSig) {
		return nil, ErrInvalidToken
	}

	payloadBytes, err := base64URLDecode(parts[1])
	if err != nil {
		return nil, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(payloadBytes, &claims); err != nil {
		return nil, ErrInvalidToken
	}

	if claims.IsExpired() {
		return nil, ErrExpiredToken
	}

	return &claims, nil
}

// sign computes the HMAC-SHA256 signature for the given data.
func (m *JWTManager) sign(data []byte) []byte {
	h := hmac.New(sha256.New, m.secret)
	h.Write(data)
	return h.Sum(nil)
}

func base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
