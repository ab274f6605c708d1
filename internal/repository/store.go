package repository

import (
	"database/sql"
	"log/slog"

	"account-ledger/internal/apperrors"
	"account-ledger/internal/domain"
)

// Store provides a unified interface for all repository operations with
// transaction support. It is the concrete implementation of domain.Store.
type Store struct {
	executor SQLExecutor
	logger   *slog.Logger
}

var _ domain.Store = (*Store)(nil)

// NewStore creates a new Store instance
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		executor: db,
		logger:   logger,
	}
}

// User returns a UserRepository using the current executor
func (s *Store) User() domain.UserRepository {
	return NewUserRepository(s.executor, s.logger)
}

// Account returns an AccountRepository using the current executor
func (s *Store) Account() domain.AccountRepository {
	return NewAccountRepository(s.executor, s.logger)
}

// Transfer returns a TransferRepository using the current executor
func (s *Store) Transfer() domain.TransferRepository {
	return NewTransferRepository(s.executor, s.logger)
}

// WithTransaction executes a function within a database transaction. The
// error returned by fn propagates to the caller unchanged after rollback;
// a nil return commits.
func (s *Store) WithTransaction(fn func(domain.Store) error) error {
	// Only sql.DB can begin transactions
	db, ok := s.executor.(*sql.DB)
	if !ok {
		return apperrors.ErrCannotBeginTransaction
	}

	tx, err := db.Begin()
	if err != nil {
		return apperrors.New(apperrors.Transient, "cannot begin transaction").WithDetails(err.Error())
	}

	txStore := &Store{
		executor: &TxWrapper{Tx: tx},
		logger:   s.logger,
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txStore); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.New(apperrors.Transient, "cannot commit transaction").WithDetails(err.Error())
	}
	return nil
}
