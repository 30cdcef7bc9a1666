package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"jobboard-service/internal/models"
)

const (
	DefaultSessionTTL      = 24 * time.Hour
	DefaultVerificationTTL = 24 * time.Hour

	verificationAudience = "email-verification"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// SessionClaims identify a logged-in principal.
type SessionClaims struct {
	ID   string      `json:"id"`
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// VerificationClaims bind an email-verification link to one account.
type VerificationClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies both token kinds. Each kind has its own key
// so a verification link can never be used as a session.
type TokenManager struct {
	sessionKey      []byte
	verificationKey []byte
	sessionTTL      time.Duration
	verificationTTL time.Duration
	now             func() time.Time
}

func NewTokenManager(sessionSecret, verificationSecret string, sessionTTL, verificationTTL time.Duration) *TokenManager {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	if verificationTTL <= 0 {
		verificationTTL = DefaultVerificationTTL
	}
	return &TokenManager{
		sessionKey:      []byte(sessionSecret),
		verificationKey: []byte(verificationSecret),
		sessionTTL:      sessionTTL,
		verificationTTL: verificationTTL,
		now:             time.Now,
	}
}

func (m *TokenManager) SessionTTL() time.Duration { return m.sessionTTL }

// IssueSession returns a signed session token for the user and its claims.
func (m *TokenManager) IssueSession(user *models.User) (string, *SessionClaims, error) {
	now := m.now()
	claims := &SessionClaims{
		ID:   user.Id.Hex(),
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Id.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.sessionTTL)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.sessionKey)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return signed, claims, nil
}

func (m *TokenManager) ParseSession(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := m.parse(token, claims, m.sessionKey); err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueVerification returns a signed email-verification token for the user.
func (m *TokenManager) IssueVerification(user *models.User) (string, error) {
	now := m.now()
	claims := &VerificationClaims{
		UserID: user.Id.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Id.Hex(),
			Audience:  jwt.ClaimStrings{verificationAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.verificationTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.verificationKey)
	if err != nil {
		return "", fmt.Errorf("sign verification token: %w", err)
	}
	return signed, nil
}

func (m *TokenManager) ParseVerification(token string) (*VerificationClaims, error) {
	claims := &VerificationClaims{}
	if err := m.parse(token, claims, m.verificationKey, jwt.WithAudience(verificationAudience)); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *TokenManager) parse(token string, claims jwt.Claims, key []byte, opts ...jwt.ParserOption) error {
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrInvalidToken
	}
	return nil
}
