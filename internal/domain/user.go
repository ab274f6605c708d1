package domain

import (
	"time"
)

// User owns one or more accounts. Logins are unique across all users; a
// user always owns at least one account once creation has committed.
type User struct {
	ID        int64      `json:"user_id"`
	Login     string     `json:"login"`
	Accounts  []*Account `json:"accounts,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type UserRepository interface {
	CreateUser(login string) (*User, error)
	GetUser(id int64) (*User, error)
	ListUsers() ([]*User, error)
}
