package app

import "hotel_booking/internal/domain"

// SessionState is the route-guard state derived from the current principal.
type SessionState string

const (
	StateAnonymous SessionState = "anonymous"
	StateUser      SessionState = "user"
	StateAdmin     SessionState = "admin"
)

type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectDashboard
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

func StateOf(p *domain.Principal) SessionState {
	switch {
	case p == nil:
		return StateAnonymous
	case p.Role == domain.RoleAdmin:
		return StateAdmin
	default:
		return StateUser
	}
}

func Access(s SessionState, adminOnly bool) Decision {
	switch {
	case s == StateAnonymous:
		return RedirectLogin
	case adminOnly && s != StateAdmin:
		return RedirectDashboard
	default:
		return Allow
	}
}

// Target is the redirect path for d, empty when access is allowed.
func (d Decision) Target() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectDashboard:
		return DashboardPath
	}
	return ""
}

// CanActOn reports whether p may read or modify data owned by ownerID.
func CanActOn(p domain.Principal, ownerID int64) bool {
	return p.Role == domain.RoleAdmin || p.UserID == ownerID
}
