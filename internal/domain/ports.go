package domain

import "context"

// Create* methods insert a new row when ID is zero. A non-zero ID is kept and
// an existing row with that ID is overwritten, which lets seed imports replay.
type HotelRepository interface {
	ListHotels(ctx context.Context) ([]Hotel, error)
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	CreateHotel(ctx context.Context, h Hotel) (Hotel, error)
	UpdateHotel(ctx context.Context, h Hotel) (Hotel, error)
	DeleteHotel(ctx context.Context, id int64) error
}

type UserRepository interface {
	ListUsers(ctx context.Context, q UserQuery) ([]User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	CreateUser(ctx context.Context, u User) (User, error)
	UpdateUser(ctx context.Context, u User) (User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type BookingRepository interface {
	ListBookings(ctx context.Context, q BookingQuery) ([]Booking, error)
	GetBooking(ctx context.Context, id int64) (Booking, error)
	CreateBooking(ctx context.Context, b Booking) (Booking, error)
	UpdateBooking(ctx context.Context, b Booking) (Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
}

type Store interface {
	HotelRepository
	UserRepository
	BookingRepository
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID int64
	Role   Role
}

type PageQuery struct {
	Page int
	Size int
}

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

type TokenIssuer interface {
	Issue(p Principal) (token string, err error)
	Verify(token string) (Principal, error)
}
