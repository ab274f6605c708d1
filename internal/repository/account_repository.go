package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"account-ledger/internal/apperrors"
	"account-ledger/internal/domain"
)

type accountRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewAccountRepository(db SQLExecutor, logger *slog.Logger) domain.AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) CreateAccount(userID, balance int64) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (user_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	now := time.Now()
	account := &domain.Account{
		UserID:    userID,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.QueryRow(query, userID, balance, now, now).Scan(&account.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" { // foreign_key_violation
				r.logger.Warn("Account creation for unknown user", "user_id", userID)
				return nil, apperrors.ErrUserNotFound
			}
		}
		r.logger.Error("Failed to create account", "user_id", userID, "error", err)
		return nil, wrapDBError(err, "failed to create account")
	}

	r.logger.Info("Account created successfully", "account_id", account.ID, "user_id", userID)
	return account, nil
}

func (r *accountRepository) GetAccount(id int64) (*domain.Account, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at
		FROM accounts WHERE id = $1
	`

	return r.scanAccount(query, id)
}

func (r *accountRepository) GetAccountForUpdate(id int64) (*domain.Account, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at
		FROM accounts WHERE id = $1 FOR UPDATE
	`

	return r.scanAccount(query, id)
}

func (r *accountRepository) scanAccount(query string, id int64) (*domain.Account, error) {
	var account domain.Account

	err := r.db.QueryRow(query, id).Scan(
		&account.ID,
		&account.UserID,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Account not found", "account_id", id)
			return nil, apperrors.ErrAccountNotFound
		}
		r.logger.Error("Failed to get account", "account_id", id, "error", err)
		return nil, wrapDBError(err, "failed to get account")
	}

	return &account, nil
}

func (r *accountRepository) ListByUser(userID int64) ([]*domain.Account, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at
		FROM accounts WHERE user_id = $1 ORDER BY id
	`

	return r.listAccounts(query, userID)
}

// ListByUserForUpdate locks all of the user's account rows. The ORDER BY
// id makes the lock acquisition order deterministic across concurrent
// multi-row operations.
func (r *accountRepository) ListByUserForUpdate(userID int64) ([]*domain.Account, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at
		FROM accounts WHERE user_id = $1 ORDER BY id FOR UPDATE
	`

	return r.listAccounts(query, userID)
}

func (r *accountRepository) listAccounts(query string, userID int64) ([]*domain.Account, error) {
	rows, err := r.db.Query(query, userID)
	if err != nil {
		r.logger.Error("Failed to list accounts", "user_id", userID, "error", err)
		return nil, wrapDBError(err, "failed to list accounts")
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.Balance,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, wrapDBError(err, "failed to scan account")
		}
		accounts = append(accounts, &account)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err, "failed to list accounts")
	}

	return accounts, nil
}

func (r *accountRepository) UpdateBalance(id int64, newBalance int64) error {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(query, newBalance, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update account balance", "account_id", id, "error", err)
		return wrapDBError(err, "failed to update account balance")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError(err, "failed to get rows affected")
	}

	if rowsAffected == 0 {
		r.logger.Warn("No account found to update", "account_id", id)
		return apperrors.ErrAccountNotFound
	}

	return nil
}

func (r *accountRepository) DeleteAccount(id int64) error {
	query := `DELETE FROM accounts WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		r.logger.Error("Failed to delete account", "account_id", id, "error", err)
		return wrapDBError(err, "failed to delete account")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError(err, "failed to get rows affected")
	}

	if rowsAffected == 0 {
		return apperrors.ErrAccountNotFound
	}

	r.logger.Info("Account deleted", "account_id", id)
	return nil
}
