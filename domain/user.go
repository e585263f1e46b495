package domain

import "time"

// User represents a team member who creates activities and is assigned tasks.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
