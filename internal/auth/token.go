package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const refreshTokenType = "refresh"

var (
	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers malformed tokens, bad signatures, and wrong token
	// types.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the payload carried by both token kinds. TokenType is empty on
// access tokens and "refresh" on refresh tokens.
type Claims struct {
	TokenType string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens with a single symmetric
// secret resolved once at startup.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(secret []byte, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// AccessTTL reports the configured access token lifetime.
func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

// IssueAccessToken signs a short-lived access token for the user.
func (m *TokenManager) IssueAccessToken(userID int64) (string, error) {
	return m.issue(userID, "", m.accessTTL)
}

// IssueRefreshToken signs a long-lived refresh token for the user.
func (m *TokenManager) IssueRefreshToken(userID int64) (string, error) {
	return m.issue(userID, refreshTokenType, m.refreshTTL)
}

func (m *TokenManager) issue(userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates an access token, returning the subject user id.
// Refresh tokens are rejected here: they only authorize the refresh exchange.
func (m *TokenManager) Verify(token string) (int64, error) {
	claims, err := m.parse(token)
	if err != nil {
		return 0, err
	}
	if claims.TokenType != "" {
		return 0, ErrTokenInvalid
	}
	return subjectID(claims)
}

// VerifyRefresh parses and validates a refresh token, returning the subject
// user id. Access tokens are rejected.
func (m *TokenManager) VerifyRefresh(token string) (int64, error) {
	claims, err := m.parse(token)
	if err != nil {
		return 0, err
	}
	if claims.TokenType != refreshTokenType {
		return 0, ErrTokenInvalid
	}
	return subjectID(claims)
}

func (m *TokenManager) parse(token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}

func subjectID(claims *Claims) (int64, error) {
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrTokenInvalid
	}
	return id, nil
}
