package auth

import "time"

// Account is the credential-facing projection of a user row. The password
// hash never leaves this package.
type Account struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	IsActive       bool
	IsSuperuser    bool
}

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// LoginInput carries credentials from the login endpoint. The login field
// accepts either a username or an email address.
type LoginInput struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput carries a refresh token to exchange for a new pair.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Profile is the sanitized account view returned alongside tokens.
type Profile struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	IssuedAt    time.Time `json:"issued_at"`
}
