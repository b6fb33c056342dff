package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MinKeyLength is the shortest accepted signing key in bytes.
const MinKeyLength = 32

const (
	headerType      = "JWT"
	headerAlgorithm = "HS256"
)

type header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	SessionID string `json:"session_id"`
	ExpiresAt int64  `json:"exp"`
}

// NewSessionClaims returns claims for sessionID expiring at exp.
func NewSessionClaims(sessionID string, exp time.Time) SessionClaims {
	return SessionClaims{SessionID: sessionID, ExpiresAt: exp.Unix()}
}

// Expiry returns ExpiresAt as a time.
func (c SessionClaims) Expiry() time.Time {
	return time.Unix(c.ExpiresAt, 0).UTC()
}

// Valid rejects claims without a session id or past their expiry.
func (c SessionClaims) Valid() error {
	if c.SessionID == "" {
		return ErrInvalidClaims
	}
	if c.ExpiresAt > 0 && time.Now().Unix() > c.ExpiresAt {
		return ErrExpiredToken
	}
	return nil
}

// Service signs and verifies HS256 tokens with one key.
type Service struct {
	signingKey []byte
}

// New returns a Service. The key must be at least MinKeyLength bytes.
func New(signingKey []byte) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	if len(signingKey) < MinKeyLength {
		return nil, fmt.Errorf("%w: need at least %d bytes", ErrInvalidSigningKey, MinKeyLength)
	}
	key := make([]byte, len(signingKey))
	copy(key, signingKey)
	return &Service{signingKey: key}, nil
}

// NewFromString is New for string keys.
func NewFromString(signingKey string) (*Service, error) {
	return New([]byte(signingKey))
}

// Generate signs claims, which may be any JSON-serializable value.
func (s *Service) Generate(claims any) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}

	headerJSON, err := json.Marshal(header{Type: headerType, Algorithm: headerAlgorithm})
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	payload := encode(headerJSON) + "." + encode(claimsJSON)
	return payload + "." + s.sign(payload), nil
}

// Parse verifies token and decodes its claims into claims. When claims has a
// Valid() error method its result is returned as well.
func (s *Service) Parse(token string, claims any) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrInvalidToken
	}

	payload := parts[0] + "." + parts[1]
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(s.sign(payload))) != 1 {
		return ErrInvalidSignature
	}

	headerJSON, err := decode(parts[0])
	if err != nil {
		return fmt.Errorf("%w: header: %w", ErrInvalidToken, err)
	}
	var h header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return fmt.Errorf("%w: header: %w", ErrInvalidToken, err)
	}
	// alg must match exactly to rule out algorithm confusion
	if h.Algorithm != headerAlgorithm {
		return ErrUnexpectedSigningMethod
	}

	claimsJSON, err := decode(parts[1])
	if err != nil {
		return fmt.Errorf("%w: claims: %w", ErrInvalidToken, err)
	}
	if err := json.Unmarshal(claimsJSON, claims); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidClaims, err)
	}

	if v, ok := claims.(interface{ Valid() error }); ok {
		return v.Valid()
	}
	return nil
}

// SignSession is Generate for SessionClaims.
func (s *Service) SignSession(sessionID string, exp time.Time) (string, error) {
	return s.Generate(NewSessionClaims(sessionID, exp))
}

// ParseSession is Parse for SessionClaims.
func (s *Service) ParseSession(token string) (SessionClaims, error) {
	var c SessionClaims
	if err := s.Parse(token, &c); err != nil {
		return SessionClaims{}, err
	}
	return c, nil
}

func (s *Service) sign(payload string) string {
	h := hmac.New(sha256.New, s.signingKey)
	h.Write([]byte(payload))
	return encode(h.Sum(nil))
}

func encode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func decode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
