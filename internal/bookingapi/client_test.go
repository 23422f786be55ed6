package bookingapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"hotel_booking/internal/app"
	"hotel_booking/internal/bookingapi"
	"hotel_booking/internal/domain"
)

func newClient(t *testing.T, h http.Handler) *bookingapi.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	cl, err := bookingapi.New(ts.URL, 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNew_RequiresBase(t *testing.T) {
	if _, err := bookingapi.New("", 1); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestClient_GetRetriesThenSuccess(t *testing.T) {
	var hits int32
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.WriteHeader(http.StatusInternalServerError)
		case 2:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			if r.URL.Query().Get("q") != "alps" {
				t.Errorf("query = %q", r.URL.RawQuery)
			}
			_ = json.NewEncoder(w).Encode([]domain.Hotel{{ID: 1, Name: "Alpine Lodge"}})
		}
	}))

	hs, err := cl.ListHotels(testCtx(t), domain.HotelFilter{Search: "alps"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(hs) != 1 || hs[0].Name != "Alpine Lodge" {
		t.Fatalf("unexpected payload: %+v", hs)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected 3 calls due to retries, got %d", hits)
	}
}

func TestClient_MutationsAreNotRetried(t *testing.T) {
	var hits int32
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := cl.CreateBooking(testCtx(t), app.BookingInput{HotelID: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("POST sent %d times, want 1", hits)
	}
}

func TestClient_StatusMapsToDomainErrors(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, domain.ErrInvalidInput},
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrForbidden},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusConflict, domain.ErrConflict},
	}
	for _, tc := range cases {
		cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"type":"about:blank","title":"x","status":0,"detail":"boom","redirect":"/login"}`))
		}))
		_, err := cl.GetHotel(testCtx(t), 9)
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: got %v, want %v", tc.status, err, tc.want)
		}
		var se *bookingapi.StatusError
		if !errors.As(err, &se) || se.Detail != "boom" || se.Redirect != "/login" {
			t.Fatalf("status %d: problem not decoded: %+v", tc.status, se)
		}
	}
}

func TestClient_LoginKeepsToken(t *testing.T) {
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			var in map[string]string
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in["password"] != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(app.Session{Token: "tok-1", User: domain.User{ID: 2, Email: in["email"]}})
		case "/v1/auth/me":
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(domain.User{ID: 2})
		}
	}))
	ctx := testCtx(t)

	if _, err := cl.Login(ctx, "ana@example.com", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("bad login: %v", err)
	}
	if cl.Token() != "" {
		t.Fatal("failed login must not set a token")
	}
	sess, err := cl.Login(ctx, "ana@example.com", "secret")
	if err != nil || sess.User.ID != 2 {
		t.Fatalf("login: %+v %v", sess, err)
	}
	if u, err := cl.Me(ctx); err != nil || u.ID != 2 {
		t.Fatalf("me: %+v %v", u, err)
	}
}

func TestClient_CreateHotelWithImageIsMultipart(t *testing.T) {
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse: %v", err)
		}
		f, fh, err := r.FormFile("image")
		if err != nil {
			t.Errorf("image part: %v", err)
			return
		}
		b, _ := io.ReadAll(f)
		if fh.Filename != "lobby.png" || string(b) != "png-bytes" {
			t.Errorf("image = %s %q", fh.Filename, b)
		}
		if r.FormValue("amenities") != `["Pool"]` || r.FormValue("price") != "99.5" {
			t.Errorf("fields = %v", r.MultipartForm.Value)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(domain.Hotel{ID: 5, Name: r.FormValue("name"), Image: "/uploads/image-x.png"})
	}))

	h, err := cl.CreateHotel(testCtx(t), domain.Hotel{Name: "Lobby", Price: 99.5, Amenities: []string{"Pool"}},
		&bookingapi.Image{Filename: "lobby.png", Data: strings.NewReader("png-bytes")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if h.ID != 5 || h.Image == "" {
		t.Fatalf("hotel = %+v", h)
	}
}

func TestClient_DeleteNoContent(t *testing.T) {
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/v1/bookings/3" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	if err := cl.DeleteBooking(testCtx(t), 3); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestClient_ContextCanceledDuringBackoff(t *testing.T) {
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := cl.GetHotel(ctx, 1)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("did not stop waiting on cancel")
	}
}
