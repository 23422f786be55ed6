package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

// bookingRequest accepts the startDate/endDate names older clients send
// alongside checkIn/checkOut. A client-sent totalPrice is ignored.
type bookingRequest struct {
	app.BookingInput
	StartDate domain.Date `json:"startDate"`
	EndDate   domain.Date `json:"endDate"`
}

func (b bookingRequest) input() app.BookingInput {
	in := b.BookingInput
	if in.CheckIn.IsZero() {
		in.CheckIn = b.StartDate
	}
	if in.CheckOut.IsZero() {
		in.CheckOut = b.EndDate
	}
	return in
}

func int64Param(r *http.Request, name string) (*int64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, name)
	}
	return &v, nil
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	var q domain.BookingQuery
	var err error
	if q.UserID, err = int64Param(r, "userId"); err != nil {
		writeError(w, r, err)
		return
	}
	if q.HotelID, err = int64Param(r, "hotelId"); err != nil {
		writeError(w, r, err)
		return
	}
	pg, paged, err := h.pageQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if paged {
		out, err := h.Bookings.ListPage(r.Context(), principal(r), q, pg)
		if err != nil {
			writeError(w, r, err)
			return
		}
		setTotal(w, out.Total)
		writeJSON(w, http.StatusOK, out)
		return
	}
	out, err := h.Bookings.List(r.Context(), principal(r), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	setTotal(w, len(out))
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.Create(r.Context(), principal(r), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	observability.ObserveBooking(b.TotalPrice)
	w.Header().Set("Location", fmt.Sprintf("/v1/bookings/%d", b.ID))
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.Get(r.Context(), principal(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Bookings.Cancel(r.Context(), principal(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Bookings.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
