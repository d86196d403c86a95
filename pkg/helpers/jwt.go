package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenKind is returned when a token of one kind is presented where another is expected.
	ErrTokenKind = errors.New("token kind mismatch")
)

// TokenKind discriminates the claim shapes signed with the shared key.
type TokenKind string

const (
	KindSession           TokenKind = "session"
	KindEmailVerification TokenKind = "email_verification"
)

type Claims struct {
	Kind  TokenKind `json:"kind"`
	Email string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserID is the session subject.
func (c *Claims) UserID() string { return c.Subject }

func SessionClaims(userID string) Claims {
	return Claims{Kind: KindSession, RegisteredClaims: jwt.RegisteredClaims{Subject: userID}}
}

func EmailVerificationClaims(email string) Claims {
	return Claims{Kind: KindEmailVerification, Email: email}
}

// JWTManager signs and verifies HS256 tokens with one process-wide secret.
type JWTManager struct {
	Secret []byte
	now    func() time.Time
}

func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{Secret: []byte(secret), now: time.Now}
}

// WithClock replaces the time source, mainly for expiry tests.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	m.now = now
	return m
}

// Sign embeds claims with an absolute expiry of now+ttl.
func (m *JWTManager) Sign(c Claims, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(ttl)
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(exp)
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &c)
	s, err := t.SignedString(m.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

// Verify authenticates tokenStr and checks that it carries the expected kind.
func (m *JWTManager) Verify(tokenStr string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Kind != kind {
		return nil, ErrTokenKind
	}
	return claims, nil
}
