package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"account-ledger/internal/apperrors"
	"account-ledger/internal/domain"
)

type transferRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewTransferRepository(db SQLExecutor, logger *slog.Logger) domain.TransferRepository {
	return &transferRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transferRepository) RecordTransfer(t *domain.Transfer) error {
	query := `
		INSERT INTO transfers
		(id, kind, source_account_id, destination_account_id, amount, credited, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now()

	var source, destination interface{}
	if t.SourceAccountID != nil {
		source = *t.SourceAccountID
	}
	if t.DestinationAccountID != nil {
		destination = *t.DestinationAccountID
	}

	_, err := r.db.Exec(
		query,
		t.ID,
		t.Kind,
		source,
		destination,
		t.Amount,
		t.Credited,
		now,
	)

	if err != nil {
		r.logger.Error("Failed to record transfer",
			"transfer_id", t.ID,
			"kind", t.Kind,
			"amount", t.Amount,
			"error", err)
		return wrapDBError(err, "failed to record transfer")
	}

	t.CreatedAt = now
	return nil
}

func (r *transferRepository) GetTransferByID(id uuid.UUID) (*domain.Transfer, error) {
	query := `
		SELECT id, kind, source_account_id, destination_account_id, amount, credited, created_at
		FROM transfers WHERE id = $1
	`

	var transfer domain.Transfer
	var source, destination sql.NullInt64

	err := r.db.QueryRow(query, id).Scan(
		&transfer.ID,
		&transfer.Kind,
		&source,
		&destination,
		&transfer.Amount,
		&transfer.Credited,
		&transfer.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrTransferNotFound
		}
		r.logger.Error("Failed to get transfer", "transfer_id", id, "error", err)
		return nil, wrapDBError(err, "failed to get transfer")
	}

	if source.Valid {
		transfer.SourceAccountID = &source.Int64
	}
	if destination.Valid {
		transfer.DestinationAccountID = &destination.Int64
	}

	return &transfer, nil
}
