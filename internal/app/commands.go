package app

import (
	"context"
	"fmt"
	"strings"

	"hotel_booking/internal/domain"
)

func validateHotel(h domain.Hotel) error {
	switch {
	case strings.TrimSpace(h.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	case h.Price < 0:
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	case h.Rating < 0 || h.Rating > 5:
		return fmt.Errorf("%w: rating must be between 0 and 5", domain.ErrInvalidInput)
	case h.AvailableRooms < 0:
		return fmt.Errorf("%w: availableRooms must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

func normalizeHotel(h domain.Hotel) domain.Hotel {
	h.Name = strings.TrimSpace(h.Name)
	h.Location = strings.TrimSpace(h.Location)
	amen := make([]string, 0, len(h.Amenities))
	for _, a := range h.Amenities {
		if t := strings.TrimSpace(a); t != "" {
			amen = append(amen, t)
		}
	}
	h.Amenities = amen
	return h
}

func (s *HotelService) Create(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	h = normalizeHotel(h)
	if err := validateHotel(h); err != nil {
		return domain.Hotel{}, err
	}
	h.ID = 0
	out, err := s.repo.CreateHotel(ctx, h)
	if err != nil {
		return domain.Hotel{}, err
	}
	s.invalidateList(ctx)
	return out, nil
}

// Update replaces the whole record, like a PUT on the collection item.
func (s *HotelService) Update(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	h = normalizeHotel(h)
	if err := validateHotel(h); err != nil {
		return domain.Hotel{}, err
	}
	out, err := s.repo.UpdateHotel(ctx, h)
	if err != nil {
		return domain.Hotel{}, err
	}
	s.invalidateHotel(ctx, h.ID)
	return out, nil
}

func (s *HotelService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteHotel(ctx, id); err != nil {
		return err
	}
	s.invalidateHotel(ctx, id)
	return nil
}

// invalidate hotel caches
func (s *HotelService) invalidateHotel(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, hotelKey(id))
	s.invalidateList(ctx)
}

func (s *HotelService) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, hotelsListKey)
}
