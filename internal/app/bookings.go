package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel_booking/internal/domain"
)

// BookingInput is what a caller may set; price, status and timestamps are
// decided by the service.
type BookingInput struct {
	UserID          int64                `json:"userId"`
	HotelID         int64                `json:"hotelId"`
	CheckIn         domain.Date          `json:"checkIn"`
	CheckOut        domain.Date          `json:"checkOut"`
	GuestCount      int                  `json:"guestCount"`
	SpecialRequests string               `json:"specialRequests,omitempty"`
	RoomType        string               `json:"roomType,omitempty"`
	GuestDetails    *domain.GuestDetails `json:"guestDetails,omitempty"`
}

type BookingService struct {
	bookings domain.BookingRepository
	hotels   domain.HotelRepository
	users    domain.UserRepository
	now      func() time.Time
}

func NewBookingService(b domain.BookingRepository, h domain.HotelRepository, u domain.UserRepository) *BookingService {
	return &BookingService{bookings: b, hotels: h, users: u, now: time.Now}
}

// List returns bookings visible to actor. Non-admins only ever see their own.
func (s *BookingService) List(ctx context.Context, actor domain.Principal, q domain.BookingQuery) ([]domain.Booking, error) {
	if actor.Role != domain.RoleAdmin {
		if q.UserID != nil && *q.UserID != actor.UserID {
			return nil, domain.ErrForbidden
		}
		uid := actor.UserID
		q.UserID = &uid
	}
	return s.bookings.ListBookings(ctx, q)
}

func (s *BookingService) ListPage(ctx context.Context, actor domain.Principal, q domain.BookingQuery, pg domain.PageQuery) (domain.Page[domain.Booking], error) {
	bs, err := s.List(ctx, actor, q)
	if err != nil {
		return domain.Page[domain.Booking]{}, err
	}
	return Paginate(bs, pg), nil
}

func (s *BookingService) Get(ctx context.Context, actor domain.Principal, id int64) (domain.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if !CanActOn(actor, b.UserID) {
		// do not leak existence of other users' bookings
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (s *BookingService) Create(ctx context.Context, actor domain.Principal, in BookingInput) (domain.Booking, error) {
	if in.UserID == 0 {
		in.UserID = actor.UserID
	}
	if !CanActOn(actor, in.UserID) {
		return domain.Booking{}, fmt.Errorf("%w: cannot book for another user", domain.ErrForbidden)
	}
	if in.GuestCount == 0 {
		in.GuestCount = 1
	}
	if in.GuestCount < 0 {
		return domain.Booking{}, fmt.Errorf("%w: guestCount must be at least 1", domain.ErrInvalidInput)
	}
	if in.CheckIn.IsZero() || in.CheckOut.IsZero() {
		return domain.Booking{}, fmt.Errorf("%w: checkIn and checkOut are required", domain.ErrInvalidInput)
	}

	hotel, err := s.hotels.GetHotel(ctx, in.HotelID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Booking{}, fmt.Errorf("%w: hotel %d does not exist", domain.ErrInvalidInput, in.HotelID)
	}
	if err != nil {
		return domain.Booking{}, err
	}
	if _, err := s.users.GetUser(ctx, in.UserID); errors.Is(err, domain.ErrNotFound) {
		return domain.Booking{}, fmt.Errorf("%w: user %d does not exist", domain.ErrInvalidInput, in.UserID)
	} else if err != nil {
		return domain.Booking{}, err
	}

	q, err := QuoteStay(hotel, in.CheckIn, in.CheckOut)
	if err != nil {
		return domain.Booking{}, err
	}

	return s.bookings.CreateBooking(ctx, domain.Booking{
		UserID:          in.UserID,
		HotelID:         in.HotelID,
		CheckIn:         in.CheckIn,
		CheckOut:        in.CheckOut,
		TotalPrice:      q.Total,
		GuestCount:      in.GuestCount,
		SpecialRequests: strings.TrimSpace(in.SpecialRequests),
		Status:          domain.BookingConfirmed,
		CreatedAt:       domain.DateOf(s.now().UTC()),
		RoomType:        in.RoomType,
		PaymentStatus:   domain.PaymentPending,
		GuestDetails:    in.GuestDetails,
	})
}

// Cancel moves a pending or confirmed booking to cancelled.
func (s *BookingService) Cancel(ctx context.Context, actor domain.Principal, id int64) (domain.Booking, error) {
	b, err := s.Get(ctx, actor, id)
	if err != nil {
		return domain.Booking{}, err
	}
	switch b.Status {
	case domain.BookingPending, domain.BookingConfirmed:
	default:
		return domain.Booking{}, fmt.Errorf("%w: booking is %s", domain.ErrConflict, b.Status)
	}
	b.Status = domain.BookingCancelled
	return s.bookings.UpdateBooking(ctx, b)
}

func (s *BookingService) Delete(ctx context.Context, id int64) error {
	return s.bookings.DeleteBooking(ctx, id)
}
