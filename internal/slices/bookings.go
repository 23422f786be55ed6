package slices

import (
	"context"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

type BookingAPI interface {
	ListBookings(ctx context.Context, userID *int64) ([]domain.Booking, error)
	CreateBooking(ctx context.Context, in app.BookingInput) (domain.Booking, error)
	CancelBooking(ctx context.Context, id int64) (domain.Booking, error)
}

type BookingSlice struct {
	*Slice[domain.Booking]
	api BookingAPI
}

func NewBookingSlice(api BookingAPI) *BookingSlice {
	return &BookingSlice{Slice: newSlice(func(b domain.Booking) int64 { return b.ID }), api: api}
}

func (s *BookingSlice) FetchForUser(ctx context.Context, userID int64) error {
	return s.fetch(ctx, func(ctx context.Context) ([]domain.Booking, error) {
		return s.api.ListBookings(ctx, &userID)
	})
}

func (s *BookingSlice) Create(ctx context.Context, in app.BookingInput) (domain.Booking, error) {
	out, err := s.api.CreateBooking(ctx, in)
	if err != nil {
		return domain.Booking{}, s.fail(err)
	}
	s.add(out)
	return out, nil
}

func (s *BookingSlice) Cancel(ctx context.Context, id int64) (domain.Booking, error) {
	out, err := s.api.CancelBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, s.fail(err)
	}
	s.replace(out)
	return out, nil
}

func (s *BookingSlice) Page(pg domain.PageQuery) domain.Page[domain.Booking] {
	return app.Paginate(s.Items(), pg)
}
