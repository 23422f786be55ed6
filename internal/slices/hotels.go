package slices

import (
	"context"

	"hotel_booking/internal/app"
	"hotel_booking/internal/bookingapi"
	"hotel_booking/internal/domain"
)

type HotelAPI interface {
	ListHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error)
	CreateHotel(ctx context.Context, h domain.Hotel, img *bookingapi.Image) (domain.Hotel, error)
	UpdateHotel(ctx context.Context, h domain.Hotel, img *bookingapi.Image) (domain.Hotel, error)
	DeleteHotel(ctx context.Context, id int64) error
}

type HotelSlice struct {
	*Slice[domain.Hotel]
	api HotelAPI
}

func NewHotelSlice(api HotelAPI) *HotelSlice {
	return &HotelSlice{Slice: newSlice(func(h domain.Hotel) int64 { return h.ID }), api: api}
}

func (s *HotelSlice) Fetch(ctx context.Context) error {
	return s.fetch(ctx, func(ctx context.Context) ([]domain.Hotel, error) {
		return s.api.ListHotels(ctx, domain.HotelFilter{})
	})
}

func (s *HotelSlice) Create(ctx context.Context, h domain.Hotel, img *bookingapi.Image) (domain.Hotel, error) {
	out, err := s.api.CreateHotel(ctx, h, img)
	if err != nil {
		return domain.Hotel{}, s.fail(err)
	}
	s.add(out)
	return out, nil
}

func (s *HotelSlice) Update(ctx context.Context, h domain.Hotel, img *bookingapi.Image) (domain.Hotel, error) {
	out, err := s.api.UpdateHotel(ctx, h, img)
	if err != nil {
		return domain.Hotel{}, s.fail(err)
	}
	s.replace(out)
	return out, nil
}

func (s *HotelSlice) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteHotel(ctx, id); err != nil {
		return s.fail(err)
	}
	s.remove(id)
	return nil
}

// Search filters the local list by name or location.
func (s *HotelSlice) Search(term string) []domain.Hotel {
	return app.FilterHotels(s.Items(), domain.HotelFilter{Search: term})
}

func (s *HotelSlice) Filter(f domain.HotelFilter) []domain.Hotel {
	return app.FilterHotels(s.Items(), f)
}

func (s *HotelSlice) Page(f domain.HotelFilter, pg domain.PageQuery) domain.Page[domain.Hotel] {
	return app.Paginate(s.Filter(f), pg)
}

// Quote prices a stay at a hotel from the local list.
func (s *HotelSlice) Quote(hotelID int64, checkIn, checkOut domain.Date) (app.Quote, error) {
	h, ok := s.Find(hotelID)
	if !ok {
		return app.Quote{}, domain.ErrNotFound
	}
	return app.QuoteStay(h, checkIn, checkOut)
}

func (s *HotelSlice) Stats() app.HotelStats {
	return app.ComputeHotelStats(s.Items())
}
