package app_test

import (
	"context"
	"errors"
	"testing"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

func seedBookingStore() *fakeStore {
	s := newFakeStore()
	s.hotels[1] = domain.Hotel{ID: 1, Name: "Alpine Lodge", Location: "Swiss Alps", Price: 100}
	s.users[10] = domain.User{ID: 10, Email: "u@example.com", Name: "U", Role: domain.RoleUser}
	s.users[11] = domain.User{ID: 11, Email: "v@example.com", Name: "V", Role: domain.RoleUser}
	return s
}

func TestBookingCreate_PricesServerSide(t *testing.T) {
	store := seedBookingStore()
	s := app.NewBookingService(store, store, store)
	actor := domain.Principal{UserID: 10, Role: domain.RoleUser}

	b, err := s.Create(context.Background(), actor, app.BookingInput{
		HotelID:  1,
		CheckIn:  date("2024-06-01"),
		CheckOut: date("2024-06-04"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.UserID != 10 || b.TotalPrice != 300 || b.GuestCount != 1 {
		t.Fatalf("unexpected booking: %+v", b)
	}
	if b.Status != domain.BookingConfirmed || b.PaymentStatus != domain.PaymentPending || b.CreatedAt.IsZero() {
		t.Fatalf("unexpected defaults: %+v", b)
	}
}

func TestBookingCreate_Rejections(t *testing.T) {
	store := seedBookingStore()
	s := app.NewBookingService(store, store, store)
	ctx := context.Background()
	actor := domain.Principal{UserID: 10, Role: domain.RoleUser}

	cases := []struct {
		name string
		in   app.BookingInput
		want error
	}{
		{"same day", app.BookingInput{HotelID: 1, CheckIn: date("2024-06-01"), CheckOut: date("2024-06-01")}, domain.ErrInvalidDateRange},
		{"inverted", app.BookingInput{HotelID: 1, CheckIn: date("2024-06-05"), CheckOut: date("2024-06-01")}, domain.ErrInvalidDateRange},
		{"missing dates", app.BookingInput{HotelID: 1}, domain.ErrInvalidInput},
		{"unknown hotel", app.BookingInput{HotelID: 9, CheckIn: date("2024-06-01"), CheckOut: date("2024-06-02")}, domain.ErrInvalidInput},
		{"negative guests", app.BookingInput{HotelID: 1, GuestCount: -1, CheckIn: date("2024-06-01"), CheckOut: date("2024-06-02")}, domain.ErrInvalidInput},
		{"other user", app.BookingInput{UserID: 11, HotelID: 1, CheckIn: date("2024-06-01"), CheckOut: date("2024-06-02")}, domain.ErrForbidden},
	}
	for _, c := range cases {
		if _, err := s.Create(ctx, actor, c.in); !errors.Is(err, c.want) {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, err)
		}
	}
}

func TestBookingList_ScopedToCaller(t *testing.T) {
	store := seedBookingStore()
	s := app.NewBookingService(store, store, store)
	ctx := context.Background()
	admin := domain.Principal{UserID: 1, Role: domain.RoleAdmin}
	for _, uid := range []int64{10, 10, 11} {
		in := app.BookingInput{UserID: uid, HotelID: 1, CheckIn: date("2024-06-01"), CheckOut: date("2024-06-02")}
		if _, err := s.Create(ctx, admin, in); err != nil {
			t.Fatalf("admin create: %v", err)
		}
	}

	mine, err := s.List(ctx, domain.Principal{UserID: 10, Role: domain.RoleUser}, domain.BookingQuery{})
	if err != nil || len(mine) != 2 {
		t.Fatalf("user list: %d %v", len(mine), err)
	}
	other := int64(11)
	if _, err := s.List(ctx, domain.Principal{UserID: 10, Role: domain.RoleUser}, domain.BookingQuery{UserID: &other}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	all, err := s.List(ctx, admin, domain.BookingQuery{})
	if err != nil || len(all) != 3 {
		t.Fatalf("admin list: %d %v", len(all), err)
	}
}

func TestBookingCancel(t *testing.T) {
	store := seedBookingStore()
	s := app.NewBookingService(store, store, store)
	ctx := context.Background()
	owner := domain.Principal{UserID: 10, Role: domain.RoleUser}

	b, err := s.Create(ctx, owner, app.BookingInput{HotelID: 1, CheckIn: date("2024-06-01"), CheckOut: date("2024-06-02")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.Cancel(ctx, domain.Principal{UserID: 11, Role: domain.RoleUser}, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("stranger cancel: expected ErrNotFound, got %v", err)
	}

	c, err := s.Cancel(ctx, owner, b.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if c.Status != domain.BookingCancelled {
		t.Fatalf("status: %s", c.Status)
	}
	if _, err := s.Cancel(ctx, owner, b.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second cancel: expected ErrConflict, got %v", err)
	}
}
