package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// Service wraps credential issuing and the request authorization gate.
type Service struct {
	repo   Repository
	tokens *TokenManager
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Login validates credentials and issues a fresh token pair. The login field
// matches username or email. Every failure mode returns
// shared.ErrInvalidCredentials so the response does not reveal whether the
// account exists.
func (s *Service) Login(ctx context.Context, in LoginInput) (*TokenPair, *Profile, error) {
	account, err := s.repo.FindByLogin(ctx, in.Login)
	if err != nil {
		return nil, nil, shared.ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.HashedPassword), []byte(in.Password)); err != nil {
		return nil, nil, shared.ErrInvalidCredentials
	}

	pair, err := s.issuePair(account.ID)
	if err != nil {
		return nil, nil, err
	}
	return pair, profileOf(account), nil
}

// Refresh exchanges a valid refresh token for a brand new pair. The account
// is re-checked so a deactivated or deleted user cannot keep rotating tokens.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, shared.ErrUnauthenticated
	}
	account, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrUnauthenticated
	}
	if !account.IsActive {
		return nil, shared.ErrUnauthenticated
	}
	return s.issuePair(account.ID)
}

// Authenticate is the request gate: it verifies the bearer token, loads the
// subject, and checks it is still present and active. Every failure collapses
// into shared.ErrUnauthenticated.
func (s *Service) Authenticate(ctx context.Context, token string) (*shared.Principal, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, shared.ErrUnauthenticated
	}
	account, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrUnauthenticated
	}
	if !account.IsActive {
		return nil, shared.ErrUnauthenticated
	}
	return &shared.Principal{
		ID:          account.ID,
		Username:    account.Username,
		IsSuperuser: account.IsSuperuser,
	}, nil
}

// RequireSuperuser distinguishes the authorization failure from the
// authentication one: the caller is known but lacks standing.
func (s *Service) RequireSuperuser(p *shared.Principal) error {
	if p == nil {
		return shared.ErrUnauthenticated
	}
	if !p.IsSuperuser {
		return shared.ErrForbidden
	}
	return nil
}

// Me returns the sanitized profile of the authenticated principal.
func (s *Service) Me(ctx context.Context, userID int64) (*Profile, error) {
	account, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profileOf(account), nil
}

func (s *Service) issuePair(userID int64) (*TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.tokens.AccessTTL() / time.Second),
	}, nil
}

func profileOf(account *Account) *Profile {
	return &Profile{
		ID:          account.ID,
		Username:    account.Username,
		Email:       account.Email,
		IsActive:    account.IsActive,
		IsSuperuser: account.IsSuperuser,
		IssuedAt:    time.Now().UTC(),
	}
}
