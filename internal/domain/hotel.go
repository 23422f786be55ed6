package domain

type Hotel struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"` // per night
	Image          string   `json:"image"` // URL or /uploads/... path
	Location       string   `json:"location"`
	Rating         float64  `json:"rating"`
	Amenities      []string `json:"amenities"`
	AvailableRooms int      `json:"availableRooms"`
}

// HotelFilter narrows a hotel listing. Zero values disable a criterion.
type HotelFilter struct {
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Amenities []string
}
