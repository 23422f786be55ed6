// Package jsonfile keeps users, hotels and bookings in a single db.json file
// laid out the way json-server lays it out: one array per collection.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"hotel_booking/internal/domain"
)

// userRecord persists the password hash that domain.User hides from JSON.
type userRecord struct {
	domain.User
	PasswordHash string `json:"passwordHash,omitempty"`
}

type document struct {
	Users    []userRecord     `json:"users"`
	Hotels   []domain.Hotel   `json:"hotels"`
	Bookings []domain.Booking `json:"bookings"`
}

type Store struct {
	path string

	mu  sync.RWMutex
	doc document
}

var _ domain.Store = (*Store)(nil)

// Open loads path, creating an empty database if the file does not exist.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, s.flush()
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(b))) > 0 {
		if err := json.Unmarshal(b, &s.doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return s, nil
}

// flush writes the document to a temp file and renames it over the target.
// Callers hold mu.
func (s *Store) flush() error {
	if s.doc.Users == nil {
		s.doc.Users = []userRecord{}
	}
	if s.doc.Hotels == nil {
		s.doc.Hotels = []domain.Hotel{}
	}
	if s.doc.Bookings == nil {
		s.doc.Bookings = []domain.Booking{}
	}
	b, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".db-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func nextID[T any](items []T, id func(T) int64) int64 {
	var max int64
	for _, it := range items {
		if v := id(it); v > max {
			max = v
		}
	}
	return max + 1
}

func indexOf[T any](items []T, id func(T) int64, want int64) int {
	for i, it := range items {
		if id(it) == want {
			return i
		}
	}
	return -1
}

func hotelID(h domain.Hotel) int64     { return h.ID }
func userID(u userRecord) int64        { return u.ID }
func bookingID(b domain.Booking) int64 { return b.ID }

// mutate applies fn under the write lock and persists the result. On a failed
// write the in-memory state is rolled back.
func (s *Store) mutate(fn func(d *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot()
	if err := fn(&s.doc); err != nil {
		s.doc = prev
		return err
	}
	if err := s.flush(); err != nil {
		s.doc = prev
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) snapshot() document {
	return document{
		Users:    append([]userRecord(nil), s.doc.Users...),
		Hotels:   append([]domain.Hotel(nil), s.doc.Hotels...),
		Bookings: append([]domain.Booking(nil), s.doc.Bookings...),
	}
}

// ---- hotels ----

func cloneHotel(h domain.Hotel) domain.Hotel {
	h.Amenities = append([]string{}, h.Amenities...)
	return h
}

func (s *Store) ListHotels(_ context.Context) ([]domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Hotel, 0, len(s.doc.Hotels))
	for _, h := range s.doc.Hotels {
		out = append(out, cloneHotel(h))
	}
	return out, nil
}

func (s *Store) GetHotel(_ context.Context, id int64) (domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.doc.Hotels, hotelID, id)
	if i < 0 {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return cloneHotel(s.doc.Hotels[i]), nil
}

func (s *Store) CreateHotel(_ context.Context, h domain.Hotel) (domain.Hotel, error) {
	h = cloneHotel(h)
	err := s.mutate(func(d *document) error {
		if h.ID == 0 {
			h.ID = nextID(d.Hotels, hotelID)
		}
		if i := indexOf(d.Hotels, hotelID, h.ID); i >= 0 {
			d.Hotels[i] = h
			return nil
		}
		d.Hotels = append(d.Hotels, h)
		sort.Slice(d.Hotels, func(a, b int) bool { return d.Hotels[a].ID < d.Hotels[b].ID })
		return nil
	})
	return cloneHotel(h), err
}

func (s *Store) UpdateHotel(_ context.Context, h domain.Hotel) (domain.Hotel, error) {
	h = cloneHotel(h)
	err := s.mutate(func(d *document) error {
		i := indexOf(d.Hotels, hotelID, h.ID)
		if i < 0 {
			return domain.ErrNotFound
		}
		d.Hotels[i] = h
		return nil
	})
	if err != nil {
		return domain.Hotel{}, err
	}
	return cloneHotel(h), nil
}

func (s *Store) DeleteHotel(_ context.Context, id int64) error {
	return s.mutate(func(d *document) error {
		i := indexOf(d.Hotels, hotelID, id)
		if i < 0 {
			return domain.ErrNotFound
		}
		d.Hotels = append(d.Hotels[:i:i], d.Hotels[i+1:]...)
		return nil
	})
}

// ---- users ----

func toUser(r userRecord) domain.User {
	u := r.User
	u.PasswordHash = r.PasswordHash
	return u
}

func toRecord(u domain.User) userRecord {
	return userRecord{User: u, PasswordHash: u.PasswordHash}
}

func emailTaken(users []userRecord, email string, except int64) bool {
	for _, u := range users {
		if u.ID != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *Store) ListUsers(_ context.Context, q domain.UserQuery) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.doc.Users))
	for _, r := range s.doc.Users {
		if q.Email != nil && r.Email != *q.Email {
			continue
		}
		out = append(out, toUser(r))
	}
	return out, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.doc.Users, userID, id)
	if i < 0 {
		return domain.User{}, domain.ErrNotFound
	}
	return toUser(s.doc.Users[i]), nil
}

func (s *Store) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	err := s.mutate(func(d *document) error {
		if emailTaken(d.Users, u.Email, u.ID) {
			return fmt.Errorf("%w: email %s already registered", domain.ErrConflict, u.Email)
		}
		if u.ID == 0 {
			u.ID = nextID(d.Users, userID)
		}
		if i := indexOf(d.Users, userID, u.ID); i >= 0 {
			d.Users[i] = toRecord(u)
			return nil
		}
		d.Users = append(d.Users, toRecord(u))
		sort.Slice(d.Users, func(a, b int) bool { return d.Users[a].ID < d.Users[b].ID })
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *Store) UpdateUser(_ context.Context, u domain.User) (domain.User, error) {
	err := s.mutate(func(d *document) error {
		i := indexOf(d.Users, userID, u.ID)
		if i < 0 {
			return domain.ErrNotFound
		}
		if emailTaken(d.Users, u.Email, u.ID) {
			return fmt.Errorf("%w: email %s already registered", domain.ErrConflict, u.Email)
		}
		if u.CreatedAt == nil {
			u.CreatedAt = d.Users[i].CreatedAt
		}
		d.Users[i] = toRecord(u)
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	return s.mutate(func(d *document) error {
		i := indexOf(d.Users, userID, id)
		if i < 0 {
			return domain.ErrNotFound
		}
		d.Users = append(d.Users[:i:i], d.Users[i+1:]...)
		return nil
	})
}

// ---- bookings ----

func cloneBooking(b domain.Booking) domain.Booking {
	if b.GuestDetails != nil {
		g := *b.GuestDetails
		b.GuestDetails = &g
	}
	return b
}

func (s *Store) ListBookings(_ context.Context, q domain.BookingQuery) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Booking, 0, len(s.doc.Bookings))
	for _, b := range s.doc.Bookings {
		if q.UserID != nil && b.UserID != *q.UserID {
			continue
		}
		if q.HotelID != nil && b.HotelID != *q.HotelID {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	return out, nil
}

func (s *Store) GetBooking(_ context.Context, id int64) (domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.doc.Bookings, bookingID, id)
	if i < 0 {
		return domain.Booking{}, domain.ErrNotFound
	}
	return cloneBooking(s.doc.Bookings[i]), nil
}

func (s *Store) CreateBooking(_ context.Context, b domain.Booking) (domain.Booking, error) {
	b = cloneBooking(b)
	err := s.mutate(func(d *document) error {
		if b.ID == 0 {
			b.ID = nextID(d.Bookings, bookingID)
		}
		if i := indexOf(d.Bookings, bookingID, b.ID); i >= 0 {
			d.Bookings[i] = b
			return nil
		}
		d.Bookings = append(d.Bookings, b)
		sort.Slice(d.Bookings, func(x, y int) bool { return d.Bookings[x].ID < d.Bookings[y].ID })
		return nil
	})
	return cloneBooking(b), err
}

func (s *Store) UpdateBooking(_ context.Context, b domain.Booking) (domain.Booking, error) {
	b = cloneBooking(b)
	err := s.mutate(func(d *document) error {
		i := indexOf(d.Bookings, bookingID, b.ID)
		if i < 0 {
			return domain.ErrNotFound
		}
		d.Bookings[i] = b
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return cloneBooking(b), nil
}

func (s *Store) DeleteBooking(_ context.Context, id int64) error {
	return s.mutate(func(d *document) error {
		i := indexOf(d.Bookings, bookingID, id)
		if i < 0 {
			return domain.ErrNotFound
		}
		d.Bookings = append(d.Bookings[:i:i], d.Bookings[i+1:]...)
		return nil
	})
}
