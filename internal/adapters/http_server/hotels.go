package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"hotel_booking/internal/domain"
)

func parseFloatParam(r *http.Request, name string) (*float64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, name)
	}
	return &f, nil
}

func hotelFilter(r *http.Request) (domain.HotelFilter, error) {
	f := domain.HotelFilter{Search: strings.TrimSpace(r.URL.Query().Get("q"))}
	var err error
	if f.MinPrice, err = parseFloatParam(r, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parseFloatParam(r, "maxPrice"); err != nil {
		return f, err
	}
	if f.MinRating, err = parseFloatParam(r, "minRating"); err != nil {
		return f, err
	}
	for _, a := range r.URL.Query()["amenity"] {
		for _, p := range strings.Split(a, ",") {
			if t := strings.TrimSpace(p); t != "" {
				f.Amenities = append(f.Amenities, t)
			}
		}
	}
	return f, nil
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	f, err := hotelFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pg, paged, err := h.pageQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if paged {
		out, err := h.Hotels.SearchPage(r.Context(), f, pg)
		if err != nil {
			writeError(w, r, err)
			return
		}
		setTotal(w, out.Total)
		writeCached(w, r, out)
		return
	}
	out, err := h.Hotels.Search(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	setTotal(w, len(out))
	writeCached(w, r, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Hotels.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) quoteHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := domain.ParseDate(r.URL.Query().Get("checkIn"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := domain.ParseDate(r.URL.Query().Get("checkOut"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	q, err := h.Hotels.Quote(r.Context(), id, in, out)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var in domain.Hotel
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Hotels.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/hotels/%d", out.ID))
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in domain.Hotel
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ID = id
	out, err := h.Hotels.Update(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Hotels.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) hotelStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Hotels.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}
