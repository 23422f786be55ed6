package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

type Session struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type AuthService struct {
	users  *UserService
	hasher domain.PasswordHasher
	tokens domain.TokenIssuer
}

func NewAuthService(u *UserService, h domain.PasswordHasher, t domain.TokenIssuer) *AuthService {
	return &AuthService{users: u, hasher: h, tokens: t}
}

// Login succeeds iff a user with exactly this email exists and the password
// verifies against the stored hash.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if u.PasswordHash == "" || !s.hasher.Verify(u.PasswordHash, password) {
		return Session{}, domain.ErrInvalidCredentials
	}

	if touched, err := s.users.touchLogin(ctx, u); err != nil {
		log.Warn().Err(err).Int64("user_id", u.ID).Msg("update last login failed")
	} else {
		u = touched
	}

	tok, err := s.tokens.Issue(domain.Principal{UserID: u.ID, Role: u.Role})
	if err != nil {
		return Session{}, err
	}
	return Session{Token: tok, User: u}, nil
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	return s.users.Create(ctx, UserInput{Email: email, Name: name, Password: password, Role: domain.RoleUser})
}

func (s *AuthService) Authenticate(token string) (domain.Principal, error) {
	p, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return p, nil
}
