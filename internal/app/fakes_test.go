package app_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"hotel_booking/internal/domain"
)

// ---- fakes ----

type fakeStore struct {
	mu       sync.Mutex
	hotels   map[int64]domain.Hotel
	users    map[int64]domain.User
	bookings map[int64]domain.Booking
	nextID   int64

	hotelReads int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		hotels:   map[int64]domain.Hotel{},
		users:    map[int64]domain.User{},
		bookings: map[int64]domain.Booking{},
		nextID:   100,
	}
}

func (f *fakeStore) id(given int64) int64 {
	if given != 0 {
		return given
	}
	f.nextID++
	return f.nextID
}

func (f *fakeStore) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hotelReads++
	out := make([]domain.Hotel, 0, len(f.hotels))
	for _, h := range f.hotels {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hotelReads++
	h, ok := f.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (f *fakeStore) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h.ID = f.id(h.ID)
	f.hotels[h.ID] = h
	return h, nil
}

func (f *fakeStore) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.hotels[h.ID]; !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	f.hotels[h.ID] = h
	return h, nil
}

func (f *fakeStore) DeleteHotel(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.hotels[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.hotels, id)
	return nil
}

func (f *fakeStore) ListUsers(ctx context.Context, q domain.UserQuery) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, u := range f.users {
		if q.Email != nil && !strings.EqualFold(u.Email, *q.Email) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetUser(ctx context.Context, id int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = f.id(u.ID)
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) UpdateUser(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return domain.User{}, domain.ErrNotFound
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) DeleteUser(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

func (f *fakeStore) ListBookings(ctx context.Context, q domain.BookingQuery) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Booking
	for _, b := range f.bookings {
		if q.UserID != nil && b.UserID != *q.UserID {
			continue
		}
		if q.HotelID != nil && b.HotelID != *q.HotelID {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (f *fakeStore) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = f.id(b.ID)
	f.bookings[b.ID] = b
	return b, nil
}

func (f *fakeStore) UpdateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[b.ID]; !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	f.bookings[b.ID] = b
	return b, nil
}

func (f *fakeStore) DeleteBooking(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.bookings, id)
	return nil
}

type fakeCache struct {
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.Hotel:
		*d = v.(domain.Hotel)
	case *[]domain.Hotel:
		*d = v.([]domain.Hotel)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

// plainHasher keeps tests fast; bcrypt is covered in the auth adapter.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(h, p string) bool       { return h == "hashed:"+p }

type fakeTokens struct{}

func (fakeTokens) Issue(p domain.Principal) (string, error) {
	return fmt.Sprintf("%d:%s", p.UserID, p.Role), nil
}

func (fakeTokens) Verify(tok string) (domain.Principal, error) {
	var id int64
	var role string
	if _, err := fmt.Sscanf(strings.Replace(tok, ":", " ", 1), "%d %s", &id, &role); err != nil {
		return domain.Principal{}, err
	}
	return domain.Principal{UserID: id, Role: domain.Role(role)}, nil
}

func ptr[T any](v T) *T { return &v }

func date(s string) domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
