package app

import (
	"math"
	"strings"

	"hotel_booking/internal/domain"
)

type Bucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type HotelStats struct {
	Total       int      `json:"total"`
	AvgPrice    float64  `json:"avgPrice"`
	AvgRating   float64  `json:"avgRating"`
	TotalRooms  int      `json:"totalRooms"`
	PriceBands  []Bucket `json:"priceBands"`
	Regions     []Bucket `json:"regions"`
	RatingStars []Bucket `json:"ratingStars"`
}

// location keywords per region; unmatched locations count as Europe
var regionKeywords = []struct {
	name string
	keys []string
}{
	{"Europe", []string{"Europe", "Swiss", "France"}},
	{"America", []string{"America", "USA", "Canada"}},
	{"Asia", []string{"Asia", "China", "Japan"}},
	{"Africa", []string{"Africa", "Egypt", "Morocco"}},
	{"Oceania", []string{"Maldives", "Australia"}},
}

func ComputeHotelStats(hotels []domain.Hotel) HotelStats {
	st := HotelStats{
		Total: len(hotels),
		PriceBands: []Bucket{
			{Name: "budget (< 200)"},
			{Name: "midrange (200-350)"},
			{Name: "premium (350-500)"},
			{Name: "luxury (>= 500)"},
		},
		RatingStars: []Bucket{{Name: "5"}, {Name: "4"}, {Name: "3"}, {Name: "2"}, {Name: "1"}},
	}
	for _, r := range regionKeywords {
		st.Regions = append(st.Regions, Bucket{Name: r.name})
	}
	if len(hotels) == 0 {
		return st
	}

	var priceSum, ratingSum float64
	for _, h := range hotels {
		priceSum += h.Price
		ratingSum += h.Rating
		st.TotalRooms += h.AvailableRooms

		switch {
		case h.Price < 200:
			st.PriceBands[0].Value++
		case h.Price < 350:
			st.PriceBands[1].Value++
		case h.Price < 500:
			st.PriceBands[2].Value++
		default:
			st.PriceBands[3].Value++
		}

		st.Regions[regionOf(h.Location)].Value++

		if r := int(math.Floor(h.Rating)); r >= 1 && r <= 5 {
			st.RatingStars[5-r].Value++
		}
	}
	st.AvgPrice = roundCents(priceSum / float64(len(hotels)))
	st.AvgRating = math.Round(ratingSum/float64(len(hotels))*10) / 10
	return st
}

func regionOf(location string) int {
	for i, r := range regionKeywords {
		for _, k := range r.keys {
			if strings.Contains(location, k) {
				return i
			}
		}
	}
	return 0
}
