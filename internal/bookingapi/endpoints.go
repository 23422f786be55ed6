package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

// ---- auth ----

// Login exchanges credentials for a session and keeps its token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (app.Session, error) {
	req, err := jsonRequest(http.MethodPost, "/v1/auth/login", "/v1/auth/login",
		map[string]string{"email": email, "password": password})
	if err != nil {
		return app.Session{}, err
	}
	var out app.Session
	if err := c.do(ctx, req, &out); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return app.Session{}, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
		}
		return app.Session{}, err
	}
	c.SetToken(out.Token)
	return out, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	req, err := jsonRequest(http.MethodPost, "/v1/auth/register", "/v1/auth/register",
		map[string]string{"name": name, "email": email, "password": password})
	if err != nil {
		return domain.User{}, err
	}
	var out domain.User
	return out, c.do(ctx, req, &out)
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var out domain.User
	return out, c.do(ctx, request{method: http.MethodGet, route: "/v1/auth/me", path: "/v1/auth/me"}, &out)
}

// ---- hotels ----

func hotelQuery(f domain.HotelFilter) string {
	v := url.Values{}
	if f.Search != "" {
		v.Set("q", f.Search)
	}
	if f.MinPrice != nil {
		v.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		v.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.MinRating != nil {
		v.Set("minRating", strconv.FormatFloat(*f.MinRating, 'f', -1, 64))
	}
	for _, a := range f.Amenities {
		v.Add("amenity", a)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) ListHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	var out []domain.Hotel
	req := request{method: http.MethodGet, route: "/v1/hotels", path: "/v1/hotels" + hotelQuery(f)}
	return out, c.do(ctx, req, &out)
}

func (c *Client) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	var out domain.Hotel
	req := request{method: http.MethodGet, route: "/v1/hotels/{id}", path: fmt.Sprintf("/v1/hotels/%d", id)}
	return out, c.do(ctx, req, &out)
}

func (c *Client) QuoteHotel(ctx context.Context, id int64, checkIn, checkOut domain.Date) (app.Quote, error) {
	var out app.Quote
	v := url.Values{"checkIn": {checkIn.String()}, "checkOut": {checkOut.String()}}
	req := request{method: http.MethodGet, route: "/v1/hotels/{id}/quote", path: fmt.Sprintf("/v1/hotels/%d/quote?%s", id, v.Encode())}
	return out, c.do(ctx, req, &out)
}

// Image is a file sent along with a hotel create or update.
type Image struct {
	Filename string
	Data     io.Reader
}

// hotelRequest encodes h as JSON, or as a multipart form when an image is
// attached.
func hotelRequest(method, route, path string, h domain.Hotel, img *Image) (request, error) {
	if img == nil {
		return jsonRequest(method, route, path, h)
	}
	amen, err := json.Marshal(h.Amenities)
	if err != nil {
		return request{}, err
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"name", h.Name},
		{"description", h.Description},
		{"price", strconv.FormatFloat(h.Price, 'f', -1, 64)},
		{"location", h.Location},
		{"rating", strconv.FormatFloat(h.Rating, 'f', -1, 64)},
		{"amenities", string(amen)},
		{"availableRooms", strconv.Itoa(h.AvailableRooms)},
	}
	if h.Image != "" {
		fields = append(fields, [2]string{"image", h.Image})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return request{}, err
		}
	}
	fw, err := mw.CreateFormFile("image", img.Filename)
	if err != nil {
		return request{}, err
	}
	if _, err := io.Copy(fw, img.Data); err != nil {
		return request{}, err
	}
	if err := mw.Close(); err != nil {
		return request{}, err
	}
	return request{method: method, route: route, path: path, body: buf.Bytes(), contentType: mw.FormDataContentType()}, nil
}

func (c *Client) CreateHotel(ctx context.Context, h domain.Hotel, img *Image) (domain.Hotel, error) {
	req, err := hotelRequest(http.MethodPost, "/v1/hotels", "/v1/hotels", h, img)
	if err != nil {
		return domain.Hotel{}, err
	}
	var out domain.Hotel
	return out, c.do(ctx, req, &out)
}

func (c *Client) UpdateHotel(ctx context.Context, h domain.Hotel, img *Image) (domain.Hotel, error) {
	req, err := hotelRequest(http.MethodPut, "/v1/hotels/{id}", fmt.Sprintf("/v1/hotels/%d", h.ID), h, img)
	if err != nil {
		return domain.Hotel{}, err
	}
	var out domain.Hotel
	return out, c.do(ctx, req, &out)
}

func (c *Client) DeleteHotel(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, route: "/v1/hotels/{id}", path: fmt.Sprintf("/v1/hotels/%d", id)}, nil)
}

func (c *Client) HotelStats(ctx context.Context) (app.HotelStats, error) {
	var out app.HotelStats
	return out, c.do(ctx, request{method: http.MethodGet, route: "/v1/stats/hotels", path: "/v1/stats/hotels"}, &out)
}

// ---- users ----

// ListUsers returns users matching term on name or email; an empty term
// lists everyone.
func (c *Client) ListUsers(ctx context.Context, term string) ([]domain.User, error) {
	path := "/v1/users"
	if term != "" {
		path += "?" + url.Values{"q": {term}}.Encode()
	}
	var out []domain.User
	return out, c.do(ctx, request{method: http.MethodGet, route: "/v1/users", path: path}, &out)
}

func (c *Client) GetUser(ctx context.Context, id int64) (domain.User, error) {
	var out domain.User
	return out, c.do(ctx, request{method: http.MethodGet, route: "/v1/users/{id}", path: fmt.Sprintf("/v1/users/%d", id)}, &out)
}

func (c *Client) CreateUser(ctx context.Context, in app.UserInput) (domain.User, error) {
	req, err := jsonRequest(http.MethodPost, "/v1/users", "/v1/users", in)
	if err != nil {
		return domain.User{}, err
	}
	var out domain.User
	return out, c.do(ctx, req, &out)
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in app.UserInput) (domain.User, error) {
	req, err := jsonRequest(http.MethodPut, "/v1/users/{id}", fmt.Sprintf("/v1/users/%d", id), in)
	if err != nil {
		return domain.User{}, err
	}
	var out domain.User
	return out, c.do(ctx, req, &out)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, route: "/v1/users/{id}", path: fmt.Sprintf("/v1/users/%d", id)}, nil)
}

// ---- bookings ----

// ListBookings lists bookings, optionally for one user. The server scopes
// non-admin callers to their own bookings regardless.
func (c *Client) ListBookings(ctx context.Context, userID *int64) ([]domain.Booking, error) {
	path := "/v1/bookings"
	if userID != nil {
		path += "?userId=" + strconv.FormatInt(*userID, 10)
	}
	var out []domain.Booking
	return out, c.do(ctx, request{method: http.MethodGet, route: "/v1/bookings", path: path}, &out)
}

func (c *Client) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	var out domain.Booking
	return out, c.do(ctx, request{method: http.MethodGet, route: "/v1/bookings/{id}", path: fmt.Sprintf("/v1/bookings/%d", id)}, &out)
}

func (c *Client) CreateBooking(ctx context.Context, in app.BookingInput) (domain.Booking, error) {
	req, err := jsonRequest(http.MethodPost, "/v1/bookings", "/v1/bookings", in)
	if err != nil {
		return domain.Booking{}, err
	}
	var out domain.Booking
	return out, c.do(ctx, req, &out)
}

func (c *Client) CancelBooking(ctx context.Context, id int64) (domain.Booking, error) {
	var out domain.Booking
	req := request{method: http.MethodPost, route: "/v1/bookings/{id}/cancel", path: fmt.Sprintf("/v1/bookings/%d/cancel", id)}
	return out, c.do(ctx, req, &out)
}

func (c *Client) DeleteBooking(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, route: "/v1/bookings/{id}", path: fmt.Sprintf("/v1/bookings/%d", id)}, nil)
}
