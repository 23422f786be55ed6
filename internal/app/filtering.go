package app

import (
	"strings"

	"hotel_booking/internal/domain"
)

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// FilterHotels keeps hotels whose name or location contains the search term
// (case-insensitive) and that satisfy every optional numeric/amenity bound.
func FilterHotels(hotels []domain.Hotel, f domain.HotelFilter) []domain.Hotel {
	term := strings.TrimSpace(f.Search)
	out := make([]domain.Hotel, 0, len(hotels))
	for _, h := range hotels {
		if term != "" && !containsFold(h.Name, term) && !containsFold(h.Location, term) {
			continue
		}
		if f.MinPrice != nil && h.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && h.Price > *f.MaxPrice {
			continue
		}
		if f.MinRating != nil && h.Rating < *f.MinRating {
			continue
		}
		if !hasAmenities(h.Amenities, f.Amenities) {
			continue
		}
		out = append(out, h)
	}
	return out
}

func hasAmenities(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, a := range have {
			if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(w)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FilterUsers matches name or email.
func FilterUsers(users []domain.User, search string) []domain.User {
	term := strings.TrimSpace(search)
	if term == "" {
		return users
	}
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if containsFold(u.Name, term) || containsFold(u.Email, term) {
			out = append(out, u)
		}
	}
	return out
}
