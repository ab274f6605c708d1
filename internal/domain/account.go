package domain

import (
	"time"
)

// Account holds a non-negative integer balance and always belongs to
// exactly one user. Identities are assigned by storage on insert.
type Account struct {
	ID        int64     `json:"account_id"`
	UserID    int64     `json:"user_id"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AccountRepository interface {
	CreateAccount(userID, balance int64) (*Account, error)
	GetAccount(id int64) (*Account, error)
	// GetAccountForUpdate reads the account under a row lock so balance
	// checks and the following update see the same snapshot.
	GetAccountForUpdate(id int64) (*Account, error)
	ListByUser(userID int64) ([]*Account, error)
	// ListByUserForUpdate locks all of a user's account rows in ascending
	// id order.
	ListByUserForUpdate(userID int64) ([]*Account, error)
	UpdateBalance(id int64, newBalance int64) error
	DeleteAccount(id int64) error
}
