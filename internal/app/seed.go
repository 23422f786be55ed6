package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"hotel_booking/internal/domain"
)

// Dataset is the on-disk layout of a db.json seed file: one array per
// collection, records in whatever shape the writing client used.
type Dataset struct {
	Users    []map[string]any `json:"users"`
	Hotels   []map[string]any `json:"hotels"`
	Bookings []map[string]any `json:"bookings"`
}

func LoadDataset(r io.Reader) (Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	return ds, nil
}

type SeedService struct {
	store  domain.Store
	hasher domain.PasswordHasher
	cache  domain.Cache
}

func NewSeedService(s domain.Store, h domain.PasswordHasher, cache domain.Cache) *SeedService {
	return &SeedService{store: s, hasher: h, cache: cache}
}

func (s *SeedService) ImportUser(ctx context.Context, rec map[string]any) (int64, error) {
	u, pw := mapUser(rec)
	if u.Email == "" {
		return 0, fmt.Errorf("%w: user record without email", domain.ErrInvalidInput)
	}
	switch {
	case pw == "":
	case isBcryptHash(pw):
		u.PasswordHash = pw
	default:
		hash, err := s.hasher.Hash(pw)
		if err != nil {
			return 0, fmt.Errorf("hash password for %s: %w", u.Email, err)
		}
		u.PasswordHash = hash
	}
	out, err := s.store.CreateUser(ctx, u)
	if err != nil {
		return 0, fmt.Errorf("import user %s: %w", u.Email, err)
	}
	return out.ID, nil
}

func (s *SeedService) ImportHotel(ctx context.Context, rec map[string]any) (int64, error) {
	h := normalizeHotel(mapHotel(rec))
	if err := validateHotel(h); err != nil {
		return 0, err
	}
	out, err := s.store.CreateHotel(ctx, h)
	if err != nil {
		return 0, fmt.Errorf("import hotel %q: %w", h.Name, err)
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, hotelKey(out.ID))
		_ = s.cache.Del(ctx, hotelsListKey)
	}
	return out.ID, nil
}

// ImportBooking rejects records whose user or hotel is unknown. It keeps the
// recorded total when present and prices the stay from the hotel otherwise.
func (s *SeedService) ImportBooking(ctx context.Context, rec map[string]any) (int64, error) {
	b, err := mapBooking(rec)
	if err != nil {
		return 0, err
	}
	if _, err := s.store.GetUser(ctx, b.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, fmt.Errorf("%w: booking %d references unknown user %d", domain.ErrInvalidInput, b.ID, b.UserID)
		}
		return 0, err
	}
	h, err := s.store.GetHotel(ctx, b.HotelID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, fmt.Errorf("%w: booking %d references unknown hotel %d", domain.ErrInvalidInput, b.ID, b.HotelID)
		}
		return 0, err
	}
	if b.TotalPrice <= 0 {
		if total, perr := TotalPrice(h.Price, b.CheckIn.Time, b.CheckOut.Time); perr == nil {
			b.TotalPrice = total
		}
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = b.CheckIn
	}
	out, err := s.store.CreateBooking(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("import booking %d: %w", b.ID, err)
	}
	return out.ID, nil
}

// SplitByID separates records that carry their own id from those that will
// be given the next free one. Importing the first group completely before the
// second keeps a generated id from being claimed again by a later record.
func SplitByID(recs []map[string]any) (withID, withoutID []map[string]any) {
	for _, rec := range recs {
		if id := firstInt64Flexible(rec, "id"); id != nil && *id > 0 {
			withID = append(withID, rec)
		} else {
			withoutID = append(withoutID, rec)
		}
	}
	return withID, withoutID
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}
