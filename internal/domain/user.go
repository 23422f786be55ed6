package domain

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
)

func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserInactive || s == UserSuspended
}

type User struct {
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      Role        `json:"role"`
	Status    *UserStatus `json:"status,omitempty"`
	CreatedAt *time.Time  `json:"createdAt,omitempty"`
	LastLogin *time.Time  `json:"lastLogin,omitempty"`

	// PasswordHash is a bcrypt hash. It never leaves the server.
	PasswordHash string `json:"-"`
}

type UserQuery struct {
	Email *string
}
