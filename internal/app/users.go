package app

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"hotel_booking/internal/domain"
)

// UserInput is the writable shape of a user. Password is plain text on the
// way in and is hashed before it reaches the repository.
type UserInput struct {
	Email    string             `json:"email"`
	Name     string             `json:"name"`
	Role     domain.Role        `json:"role"`
	Status   *domain.UserStatus `json:"status,omitempty"`
	Password string             `json:"password,omitempty"`
}

type UserService struct {
	repo   domain.UserRepository
	hasher domain.PasswordHasher
	now    func() time.Time
}

func NewUserService(r domain.UserRepository, h domain.PasswordHasher) *UserService {
	return &UserService{repo: r, hasher: h, now: time.Now}
}

func (s *UserService) List(ctx context.Context, q domain.UserQuery) ([]domain.User, error) {
	return s.repo.ListUsers(ctx, q)
}

func (s *UserService) SearchPage(ctx context.Context, term string, pg domain.PageQuery) (domain.Page[domain.User], error) {
	us, err := s.repo.ListUsers(ctx, domain.UserQuery{})
	if err != nil {
		return domain.Page[domain.User]{}, err
	}
	return Paginate(FilterUsers(us, term), pg), nil
}

func (s *UserService) Get(ctx context.Context, id int64) (domain.User, error) {
	return s.repo.GetUser(ctx, id)
}

// FindByEmail returns the user whose email matches exactly.
func (s *UserService) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	us, err := s.repo.ListUsers(ctx, domain.UserQuery{Email: &email})
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range us {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *UserService) Create(ctx context.Context, in UserInput) (domain.User, error) {
	in = normalizeUserInput(in)
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	if err := validateUserInput(in); err != nil {
		return domain.User{}, err
	}
	if in.Password == "" {
		return domain.User{}, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	if _, err := s.FindByEmail(ctx, in.Email); err == nil {
		return domain.User{}, fmt.Errorf("%w: email %s already registered", domain.ErrConflict, in.Email)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	now := s.now().UTC()
	status := domain.UserActive
	if in.Status != nil {
		status = *in.Status
	}
	return s.repo.CreateUser(ctx, domain.User{
		Email:        in.Email,
		Name:         in.Name,
		Role:         in.Role,
		Status:       &status,
		CreatedAt:    &now,
		PasswordHash: hash,
	})
}

// Update replaces profile fields of user id. Only admins may change role or
// status; an empty password keeps the current hash.
func (s *UserService) Update(ctx context.Context, actor domain.Principal, id int64, in UserInput) (domain.User, error) {
	if !CanActOn(actor, id) {
		return domain.User{}, domain.ErrForbidden
	}
	cur, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	in = normalizeUserInput(in)
	if in.Role == "" {
		in.Role = cur.Role
	}
	if err := validateUserInput(in); err != nil {
		return domain.User{}, err
	}
	if actor.Role != domain.RoleAdmin {
		if in.Role != cur.Role || (in.Status != nil && !sameStatus(in.Status, cur.Status)) {
			return domain.User{}, fmt.Errorf("%w: only admins may change role or status", domain.ErrForbidden)
		}
	}
	if in.Email != cur.Email {
		if other, err := s.FindByEmail(ctx, in.Email); err == nil && other.ID != id {
			return domain.User{}, fmt.Errorf("%w: email %s already registered", domain.ErrConflict, in.Email)
		} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, err
		}
	}

	cur.Email, cur.Name, cur.Role = in.Email, in.Name, in.Role
	if in.Status != nil {
		cur.Status = in.Status
	}
	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return domain.User{}, fmt.Errorf("hash password: %w", err)
		}
		cur.PasswordHash = hash
	}
	return s.repo.UpdateUser(ctx, cur)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteUser(ctx, id)
}

func (s *UserService) touchLogin(ctx context.Context, u domain.User) (domain.User, error) {
	now := s.now().UTC()
	u.LastLogin = &now
	return s.repo.UpdateUser(ctx, u)
}

func normalizeUserInput(in UserInput) UserInput {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	return in
}

func validateUserInput(in UserInput) error {
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return fmt.Errorf("%w: valid email is required", domain.ErrInvalidInput)
	}
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if !in.Role.Valid() {
		return fmt.Errorf("%w: role must be admin or user", domain.ErrInvalidInput)
	}
	if in.Status != nil && !in.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *in.Status)
	}
	return nil
}

func sameStatus(a, b *domain.UserStatus) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
