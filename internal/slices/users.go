package slices

import (
	"context"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

type UserAPI interface {
	ListUsers(ctx context.Context, term string) ([]domain.User, error)
	CreateUser(ctx context.Context, in app.UserInput) (domain.User, error)
	UpdateUser(ctx context.Context, id int64, in app.UserInput) (domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type UserSlice struct {
	*Slice[domain.User]
	api UserAPI
}

func NewUserSlice(api UserAPI) *UserSlice {
	return &UserSlice{Slice: newSlice(func(u domain.User) int64 { return u.ID }), api: api}
}

func (s *UserSlice) Fetch(ctx context.Context) error {
	return s.fetch(ctx, func(ctx context.Context) ([]domain.User, error) {
		return s.api.ListUsers(ctx, "")
	})
}

func (s *UserSlice) Create(ctx context.Context, in app.UserInput) (domain.User, error) {
	out, err := s.api.CreateUser(ctx, in)
	if err != nil {
		return domain.User{}, s.fail(err)
	}
	s.add(out)
	return out, nil
}

func (s *UserSlice) Update(ctx context.Context, id int64, in app.UserInput) (domain.User, error) {
	out, err := s.api.UpdateUser(ctx, id, in)
	if err != nil {
		return domain.User{}, s.fail(err)
	}
	s.replace(out)
	return out, nil
}

func (s *UserSlice) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteUser(ctx, id); err != nil {
		return s.fail(err)
	}
	s.remove(id)
	return nil
}

// Search filters the local list by name or email.
func (s *UserSlice) Search(term string) []domain.User {
	return app.FilterUsers(s.Items(), term)
}

func (s *UserSlice) Page(term string, pg domain.PageQuery) domain.Page[domain.User] {
	return app.Paginate(s.Search(term), pg)
}
