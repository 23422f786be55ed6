package app

import (
	"math"
	"time"

	"hotel_booking/internal/domain"
)

const day = 24 * time.Hour

type Quote struct {
	HotelID     int64   `json:"hotelId"`
	Nights      int     `json:"nights"`
	NightlyRate float64 `json:"nightlyRate"`
	Total       float64 `json:"total"`
}

// Nights counts started days between two instants. Calendar dates are UTC
// midnights, so the count never drifts across DST changes.
func Nights(checkIn, checkOut time.Time) (int, error) {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0, domain.ErrInvalidDateRange
	}
	return int(math.Ceil(float64(d) / float64(day))), nil
}

// TotalPrice is nightly rate times Nights, rounded to cents.
func TotalPrice(nightly float64, checkIn, checkOut time.Time) (float64, error) {
	n, err := Nights(checkIn, checkOut)
	if err != nil {
		return 0, err
	}
	return roundCents(nightly * float64(n)), nil
}

func QuoteStay(h domain.Hotel, checkIn, checkOut domain.Date) (Quote, error) {
	n, err := Nights(checkIn.Time, checkOut.Time)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		HotelID:     h.ID,
		Nights:      n,
		NightlyRate: h.Price,
		Total:       roundCents(h.Price * float64(n)),
	}, nil
}

func roundCents(v float64) float64 { return math.Round(v*100) / 100 }
