package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	pg, paged, err := h.pageQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if paged {
		out, err := h.Users.SearchPage(r.Context(), term, pg)
		if err != nil {
			writeError(w, r, err)
			return
		}
		setTotal(w, out.Total)
		writeJSON(w, http.StatusOK, out)
		return
	}

	var q domain.UserQuery
	if e := r.URL.Query().Get("email"); e != "" {
		q.Email = &e
	}
	us, err := h.Users.List(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	us = app.FilterUsers(us, term)
	setTotal(w, len(us))
	writeJSON(w, http.StatusOK, us)
}

func (h *Handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var in app.UserInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Users.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/users/%d", out.ID))
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !app.CanActOn(principal(r), id) {
		writeError(w, r, domain.ErrForbidden)
		return
	}
	out, err := h.Users.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in app.UserInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Users.Update(r.Context(), principal(r), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Users.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
