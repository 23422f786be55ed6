package app

import (
	"context"
	"fmt"
	"time"

	"hotel_booking/internal/domain"
)

const hotelsListKey = "hotels:all"

func hotelKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

// HotelService serves hotel reads through the cache and writes straight to
// the repository, evicting affected cache keys afterwards.
type HotelService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewHotelService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *HotelService {
	return &HotelService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *HotelService) Get(ctx context.Context, id int64) (domain.Hotel, error) {
	key := hotelKey(id)
	var h domain.Hotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &h); ok {
			return h, nil
		}
	}
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	}
	return h, nil
}

func (s *HotelService) List(ctx context.Context) ([]domain.Hotel, error) {
	var out []domain.Hotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, hotelsListKey, &out); ok {
			return out, nil
		}
	}
	hs, err := s.repo.ListHotels(ctx)
	if err != nil {
		return nil, err
	}
	// copy so callers filtering in place never touch the cached value
	out = copyHotels(hs)
	if s.cache != nil {
		_ = s.cache.Set(ctx, hotelsListKey, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

func (s *HotelService) Search(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	hs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterHotels(hs, f), nil
}

func (s *HotelService) SearchPage(ctx context.Context, f domain.HotelFilter, pg domain.PageQuery) (domain.Page[domain.Hotel], error) {
	hs, err := s.Search(ctx, f)
	if err != nil {
		return domain.Page[domain.Hotel]{}, err
	}
	return Paginate(hs, pg), nil
}

func (s *HotelService) Quote(ctx context.Context, id int64, checkIn, checkOut domain.Date) (Quote, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return Quote{}, err
	}
	return QuoteStay(h, checkIn, checkOut)
}

func (s *HotelService) Stats(ctx context.Context) (HotelStats, error) {
	hs, err := s.List(ctx)
	if err != nil {
		return HotelStats{}, err
	}
	return ComputeHotelStats(hs), nil
}

func copyHotels(in []domain.Hotel) []domain.Hotel {
	out := make([]domain.Hotel, len(in))
	copy(out, in)
	return out
}
