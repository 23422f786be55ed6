package httpserver

import (
	"errors"
	"net/http"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := h.Auth.Login(r.Context(), in.Email, in.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		observability.ObserveLogin("rejected")
		writeError(w, r, err)
		return
	case err != nil:
		observability.ObserveLogin("error")
		writeError(w, r, err)
		return
	}
	observability.ObserveLogin("ok")
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var in registration
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.Auth.Register(r.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Get(r.Context(), principal(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
