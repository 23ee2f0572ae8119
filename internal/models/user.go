package models

// UserRole distinguishes what a session is allowed to see.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleDriver UserRole = "driver"
	RoleClient UserRole = "client"
)

// UserInfo identifies the person behind a session and the orders they own.
type UserInfo struct {
	ID       int      `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
	OrderIDs []int    `json:"order_ids,omitempty"`
}

// IsAdmin reports whether this user sees the full order book.
func (u *UserInfo) IsAdmin() bool {
	return u.Role == RoleAdmin
}
