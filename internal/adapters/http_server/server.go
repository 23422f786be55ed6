package httpserver

import (
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Server struct{ mux *chi.Mux }

// New builds the router. Forwarded client addresses are honoured only from
// the given proxy ranges.
func New(trustedProxies ...netip.Prefix) *Server {
	m := chi.NewRouter()

	// All middlewares go here (before any routes are added)
	m.Use(RealIP(trustedProxies))
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Timeout(15 * time.Second))
	m.Use(Metrics)
	m.Use(Logger(log.Logger))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	if h.UploadDir != "" {
		s.mux.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.UploadDir))))
	}

	admin := RequireRole(true)
	member := RequireRole(false)

	s.mux.Route("/v1", func(r chi.Router) {
		r.Use(h.Authenticate)

		r.Route("/auth", func(r chi.Router) {
			if h.LoginLimiter != nil {
				r.With(RateLimitByIP(h.LoginLimiter)).Post("/login", h.login)
			} else {
				r.Post("/login", h.login)
			}
			r.Post("/register", h.register)
			r.With(member).Get("/me", h.me)
		})

		r.Route("/hotels", func(r chi.Router) {
			r.Get("/", h.listHotels)
			r.Get("/{id}", h.getHotel)
			r.Get("/{id}/quote", h.quoteHotel)
			r.With(admin, Upload(h.UploadDir)).Post("/", h.createHotel)
			r.With(admin, Upload(h.UploadDir)).Put("/{id}", h.updateHotel)
			r.With(admin).Delete("/{id}", h.deleteHotel)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(admin).Get("/", h.listUsers)
			r.With(admin).Post("/", h.createUser)
			r.With(member).Get("/{id}", h.getUser)
			r.With(member).Put("/{id}", h.updateUser)
			r.With(admin).Delete("/{id}", h.deleteUser)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Use(member)
			r.Get("/", h.listBookings)
			r.Post("/", h.createBooking)
			r.Get("/{id}", h.getBooking)
			r.Post("/{id}/cancel", h.cancelBooking)
			r.With(admin).Delete("/{id}", h.deleteBooking)
		})

		r.With(admin).Get("/stats/hotels", h.hotelStats)
	})
}
