package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransferKind string

const (
	TransferKindDeposit  TransferKind = "deposit"
	TransferKindWithdraw TransferKind = "withdraw"
	TransferKindTransfer TransferKind = "transfer"
	TransferKindClose    TransferKind = "close"
)

// Transfer is a journal record of one committed balance movement. It is
// written inside the same transaction as the movement itself. Credited may
// be lower than Amount when a cross-user commission was burned.
type Transfer struct {
	ID                   uuid.UUID    `json:"id"`
	Kind                 TransferKind `json:"kind"`
	SourceAccountID      *int64       `json:"source_account_id,omitempty"`
	DestinationAccountID *int64       `json:"destination_account_id,omitempty"`
	Amount               int64        `json:"amount"`
	Credited             int64        `json:"credited"`
	CreatedAt            time.Time    `json:"created_at"`
}

type TransferRepository interface {
	RecordTransfer(t *Transfer) error
	GetTransferByID(id uuid.UUID) (*Transfer, error)
}
