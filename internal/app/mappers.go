package app

import (
	"strconv"
	"strings"
	"time"

	"hotel_booking/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Records written by older clients used different field names; every known
// spelling is listed here, preferred first.
var bookingAliases = map[string][]string{
	"check_in":   {"checkIn", "startDate", "check_in", "start_date"},
	"check_out":  {"checkOut", "endDate", "check_out", "end_date"},
	"guests":     {"guestCount", "guests", "guest_count"},
	"user_id":    {"userId", "user_id"},
	"hotel_id":   {"hotelId", "hotel_id"},
	"total":      {"totalPrice", "total_price", "total"},
	"requests":   {"specialRequests", "special_requests"},
	"status":     {"status"},
	"created_at": {"createdAt", "created_at"},
	"room_type":  {"roomType", "room_type"},
	"payment":    {"paymentStatus", "payment_status"},
}

var userAliases = map[string][]string{
	"email":    {"email"},
	"name":     {"name", "fullName", "full_name"},
	"role":     {"role"},
	"status":   {"status"},
	"password": {"password", "passwordHash", "password_hash"},
}

var hotelAliases = map[string][]string{
	"name":        {"name", "hotel_name"},
	"description": {"description"},
	"image":       {"image", "imageUrl", "image_url"},
	"location":    {"location", "address", "city"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstInt64Flexible: int64 from several paths (float64/int/string).
func firstInt64Flexible(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int64(v)
			return &x
		case int:
			x := int64(v)
			return &x
		case int64:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

// firstSliceStrings: accept []any with either strings or {url/src/name}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if t != "" {
						out = append(out, t)
					}
				case map[string]any:
					if u, ok := t["url"].(string); ok && u != "" {
						out = append(out, u)
						continue
					}
					if u, ok := t["src"].(string); ok && u != "" {
						out = append(out, u)
						continue
					}
					if n, ok := t["name"].(string); ok && n != "" {
						out = append(out, n)
						continue
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

/********** hotel mapper **********/

func mapHotel(m map[string]any) domain.Hotel {
	h := domain.Hotel{
		Name:        deref(firstNonEmptyAlias(m, hotelAliases, "name")),
		Description: deref(firstNonEmptyAlias(m, hotelAliases, "description")),
		Image:       deref(firstNonEmptyAlias(m, hotelAliases, "image")),
		Location:    deref(firstNonEmptyAlias(m, hotelAliases, "location")),
		Amenities:   firstSliceStrings(m, "amenities", "facilities"),
	}
	if id := firstInt64Flexible(m, "id"); id != nil {
		h.ID = *id
	}
	if f := getFloatFlexible(m, "price", "pricePerNight", "price_per_night"); f != nil {
		h.Price = *f
	}
	if f := getFloatFlexible(m, "rating", "stars"); f != nil {
		h.Rating = *f
	}
	if n := firstInt64Flexible(m, "availableRooms", "available_rooms", "rooms"); n != nil {
		h.AvailableRooms = int(*n)
	}
	if h.Amenities == nil {
		h.Amenities = []string{}
	}
	return h
}

/********** user mapper **********/

// mapUser returns the user and the raw password field. The password may be
// plain text (seed files) or an existing bcrypt hash.
func mapUser(m map[string]any) (domain.User, string) {
	u := domain.User{
		Email: deref(firstNonEmptyAlias(m, userAliases, "email")),
		Name:  deref(firstNonEmptyAlias(m, userAliases, "name")),
		Role:  domain.Role(strings.ToLower(deref(firstNonEmptyAlias(m, userAliases, "role")))),
	}
	if id := firstInt64Flexible(m, "id"); id != nil {
		u.ID = *id
	}
	if !u.Role.Valid() {
		u.Role = domain.RoleUser
	}
	if s := firstNonEmptyAlias(m, userAliases, "status"); s != nil {
		st := domain.UserStatus(strings.ToLower(*s))
		if st.Valid() {
			u.Status = &st
		}
	}
	if t := parseTimeFlexible(lookupStr(m, "createdAt")); t != nil {
		u.CreatedAt = t
	}
	if t := parseTimeFlexible(lookupStr(m, "lastLogin")); t != nil {
		u.LastLogin = t
	}
	return u, deref(firstNonEmptyAlias(m, userAliases, "password"))
}

/********** booking mapper **********/

func mapBooking(m map[string]any) (domain.Booking, error) {
	var b domain.Booking
	if id := firstInt64Flexible(m, "id"); id != nil {
		b.ID = *id
	}
	if v := firstInt64Flexible(m, bookingAliases["user_id"]...); v != nil {
		b.UserID = *v
	}
	if v := firstInt64Flexible(m, bookingAliases["hotel_id"]...); v != nil {
		b.HotelID = *v
	}

	in, err := domain.ParseDate(deref(firstNonEmptyAlias(m, bookingAliases, "check_in")))
	if err != nil {
		return domain.Booking{}, err
	}
	out, err := domain.ParseDate(deref(firstNonEmptyAlias(m, bookingAliases, "check_out")))
	if err != nil {
		return domain.Booking{}, err
	}
	b.CheckIn, b.CheckOut = in, out

	if v := getFloatFlexible(m, bookingAliases["total"]...); v != nil {
		b.TotalPrice = *v
	}
	b.GuestCount = 1
	if v := firstInt64Flexible(m, bookingAliases["guests"]...); v != nil && *v > 0 {
		b.GuestCount = int(*v)
	}
	b.SpecialRequests = deref(firstNonEmptyAlias(m, bookingAliases, "requests"))
	b.RoomType = deref(firstNonEmptyAlias(m, bookingAliases, "room_type"))

	b.Status = domain.BookingStatus(strings.ToLower(deref(firstNonEmptyAlias(m, bookingAliases, "status"))))
	switch b.Status {
	case domain.BookingPending, domain.BookingConfirmed, domain.BookingCancelled, domain.BookingCompleted:
	case "upcoming":
		b.Status = domain.BookingConfirmed
	default:
		b.Status = domain.BookingPending
	}
	if p := domain.PaymentStatus(deref(firstNonEmptyAlias(m, bookingAliases, "payment"))); p != "" {
		b.PaymentStatus = p
	} else {
		b.PaymentStatus = domain.PaymentPending
	}

	if c := deref(firstNonEmptyAlias(m, bookingAliases, "created_at")); c != "" {
		if d, err := domain.ParseDate(c); err == nil {
			b.CreatedAt = d
		}
	}
	if g, ok := lookupAny(m, "guestDetails").(map[string]any); ok {
		b.GuestDetails = &domain.GuestDetails{
			Name:  lookupStr(g, "name"),
			Email: lookupStr(g, "email"),
			Phone: lookupStr(g, "phone"),
		}
	}
	return b, nil
}

func parseTimeFlexible(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, domain.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		return &t
	}
	return nil
}
