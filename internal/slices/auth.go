package slices

import (
	"context"
	"sync"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (app.Session, error)
	Register(ctx context.Context, name, email, password string) (domain.User, error)
	SetToken(tok string)
}

// AuthSlice holds the signed-in user and drives the route guard.
type AuthSlice struct {
	api AuthAPI

	mu     sync.RWMutex
	user   *domain.User
	token  string
	status Status
	err    error
}

func NewAuthSlice(api AuthAPI) *AuthSlice {
	return &AuthSlice{api: api, status: StatusIdle}
}

func (s *AuthSlice) Login(ctx context.Context, email, password string) (domain.User, error) {
	s.mu.Lock()
	s.status = StatusLoading
	s.mu.Unlock()

	sess, err := s.api.Login(ctx, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status, s.err = StatusFailed, err
		return domain.User{}, err
	}
	u := sess.User
	s.user, s.token, s.status, s.err = &u, sess.Token, StatusSucceeded, nil
	return u, nil
}

// Register creates the account and signs it in.
func (s *AuthSlice) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	if _, err := s.api.Register(ctx, name, email, password); err != nil {
		s.mu.Lock()
		s.status, s.err = StatusFailed, err
		s.mu.Unlock()
		return domain.User{}, err
	}
	return s.Login(ctx, email, password)
}

// Logout is local: the token is dropped, nothing is sent to the server.
func (s *AuthSlice) Logout() {
	s.mu.Lock()
	s.user, s.token, s.status, s.err = nil, "", StatusIdle, nil
	s.mu.Unlock()
	s.api.SetToken("")
}

func (s *AuthSlice) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *AuthSlice) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *AuthSlice) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *AuthSlice) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *AuthSlice) State() app.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return app.StateAnonymous
	}
	return app.StateOf(&domain.Principal{UserID: s.user.ID, Role: s.user.Role})
}

// Access runs the route guard for a page.
func (s *AuthSlice) Access(adminOnly bool) app.Decision {
	return app.Access(s.State(), adminOnly)
}
