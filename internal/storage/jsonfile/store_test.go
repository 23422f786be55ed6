package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"hotel_booking/internal/domain"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s, path
}

func TestOpen_CreatesEmptyCollections(t *testing.T) {
	_, path := openTemp(t)
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, k := range []string{`"users": []`, `"hotels": []`, `"bookings": []`} {
		if !strings.Contains(string(b), k) {
			t.Fatalf("db.json missing %s:\n%s", k, b)
		}
	}
}

func TestHotels_CRUDAndPersistence(t *testing.T) {
	s, path := openTemp(t)
	ctx := context.Background()

	a, err := s.CreateHotel(ctx, domain.Hotel{Name: "Alpine Lodge", Price: 100, Amenities: []string{"Spa"}})
	if err != nil || a.ID != 1 {
		t.Fatalf("create a: %+v %v", a, err)
	}
	b, _ := s.CreateHotel(ctx, domain.Hotel{Name: "Beach Inn", Price: 80})
	if b.ID != 2 {
		t.Fatalf("ids should be max+1, got %d", b.ID)
	}

	a.Price = 130
	if _, err := s.UpdateHotel(ctx, a); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := s.UpdateHotel(ctx, domain.Hotel{ID: 42}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update missing: %v", err)
	}
	if err := s.DeleteHotel(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteHotel(ctx, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.GetHotel(ctx, a.ID)
	if err != nil || got.Price != 130 || len(got.Amenities) != 1 {
		t.Fatalf("after reopen: %+v %v", got, err)
	}
	// id counter continues from the max surviving id
	c, _ := reopened.CreateHotel(ctx, domain.Hotel{Name: "City"})
	if c.ID != 2 {
		t.Fatalf("next id = %d, want 2", c.ID)
	}
}

func TestHotels_ReturnsCopies(t *testing.T) {
	s, _ := openTemp(t)
	ctx := context.Background()
	h, _ := s.CreateHotel(ctx, domain.Hotel{Name: "X", Amenities: []string{"WiFi"}})
	h.Amenities[0] = "mutated"

	got, _ := s.GetHotel(ctx, h.ID)
	if got.Amenities[0] != "WiFi" {
		t.Fatalf("store shares backing array with caller")
	}
}

func TestUsers_PasswordHashPersistedAndEmailUnique(t *testing.T) {
	s, path := openTemp(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, domain.User{Email: "ana@example.com", Name: "Ana", Role: domain.RoleUser, PasswordHash: "$2a$10$abc"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateUser(ctx, domain.User{Email: "ANA@example.com", Name: "Dup"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("dup email: %v", err)
	}

	other, _ := s.CreateUser(ctx, domain.User{Email: "bob@example.com", Name: "Bob"})
	other.Email = u.Email
	if _, err := s.UpdateUser(ctx, other); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("update to taken email: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	email := "ana@example.com"
	list, _ := reopened.ListUsers(ctx, domain.UserQuery{Email: &email})
	if len(list) != 1 || list[0].PasswordHash != "$2a$10$abc" {
		t.Fatalf("users after reopen: %+v", list)
	}
}

func TestBookings_FilterByUserAndHotel(t *testing.T) {
	s, _ := openTemp(t)
	ctx := context.Background()
	in, _ := domain.ParseDate("2024-06-01")
	out, _ := domain.ParseDate("2024-06-04")

	for _, b := range []domain.Booking{
		{UserID: 1, HotelID: 1, CheckIn: in, CheckOut: out},
		{UserID: 1, HotelID: 2, CheckIn: in, CheckOut: out},
		{UserID: 2, HotelID: 1, CheckIn: in, CheckOut: out},
	} {
		if _, err := s.CreateBooking(ctx, b); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	uid, hid := int64(1), int64(1)
	if got, _ := s.ListBookings(ctx, domain.BookingQuery{UserID: &uid}); len(got) != 2 {
		t.Fatalf("by user = %d, want 2", len(got))
	}
	if got, _ := s.ListBookings(ctx, domain.BookingQuery{UserID: &uid, HotelID: &hid}); len(got) != 1 {
		t.Fatalf("by user+hotel = %d, want 1", len(got))
	}
	got, err := s.GetBooking(ctx, 1)
	if err != nil || got.CheckIn.String() != "2024-06-01" {
		t.Fatalf("get: %+v %v", got, err)
	}
}

func TestMutate_RollsBackOnWriteFailure(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "db.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx := context.Background()
	_, _ = s.CreateHotel(ctx, domain.Hotel{Name: "kept"})

	// Point the store at a path whose parent is a regular file.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s.path = filepath.Join(blocker, "db.json")

	if _, err := s.CreateHotel(ctx, domain.Hotel{Name: "lost"}); err == nil {
		t.Fatalf("expected write error")
	}
	list, _ := s.ListHotels(ctx)
	if len(list) != 1 || list[0].Name != "kept" {
		t.Fatalf("in-memory state not rolled back: %+v", list)
	}
}

func TestConcurrentCreates(t *testing.T) {
	s, _ := openTemp(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CreateHotel(ctx, domain.Hotel{Name: "h"}); err != nil {
				t.Errorf("create: %v", err)
			}
		}()
	}
	wg.Wait()

	list, _ := s.ListHotels(ctx)
	seen := map[int64]bool{}
	for _, h := range list {
		if seen[h.ID] {
			t.Fatalf("duplicate id %d", h.ID)
		}
		seen[h.ID] = true
	}
	if len(list) != 20 {
		t.Fatalf("hotels = %d, want 20", len(list))
	}
}
