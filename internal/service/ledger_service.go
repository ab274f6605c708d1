package service

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"account-ledger/internal/apperrors"
	"account-ledger/internal/domain"
)

// LedgerService owns every balance mutation. All operations run inside a
// single unit of work; multi-row operations lock account rows in ascending
// id order.
type LedgerService struct {
	store          domain.Store
	defaultAmount  int64
	commissionRate decimal.Decimal
	logger         *slog.Logger
}

func NewLedgerService(store domain.Store, defaultAmount int64, commissionRate decimal.Decimal, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		store:          store,
		defaultAmount:  defaultAmount,
		commissionRate: commissionRate,
		logger:         logger,
	}
}

// CreateAccount opens a new account for an existing user, seeded with the
// configured default amount.
func (s *LedgerService) CreateAccount(userID int64) (*domain.Account, error) {
	s.logger.Info("Creating account", "user_id", userID)

	var account *domain.Account
	err := s.store.WithTransaction(func(tx domain.Store) error {
		if _, err := tx.User().GetUser(userID); err != nil {
			return err
		}

		created, err := s.OpenDefaultAccount(tx, userID)
		if err != nil {
			return err
		}
		account = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// OpenDefaultAccount inserts a default-seeded account using the given
// store, which may already be scoped to a transaction. UserService calls
// this so the first account is created in the same unit of work as the
// user row.
func (s *LedgerService) OpenDefaultAccount(tx domain.Store, userID int64) (*domain.Account, error) {
	return tx.Account().CreateAccount(userID, s.defaultAmount)
}

func (s *LedgerService) GetAccount(accountID int64) (*domain.Account, error) {
	return s.store.Account().GetAccount(accountID)
}

// Deposit adds amount to the account balance. Amount must be positive.
func (s *LedgerService) Deposit(accountID, amount int64) (*domain.Account, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	var account *domain.Account
	err := s.store.WithTransaction(func(tx domain.Store) error {
		acc, err := tx.Account().GetAccountForUpdate(accountID)
		if err != nil {
			return err
		}

		acc.Balance += amount
		if err := tx.Account().UpdateBalance(acc.ID, acc.Balance); err != nil {
			return err
		}
		account = acc

		return tx.Transfer().RecordTransfer(&domain.Transfer{
			ID:                   uuid.New(),
			Kind:                 domain.TransferKindDeposit,
			DestinationAccountID: &acc.ID,
			Amount:               amount,
			Credited:             amount,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Deposit completed", "account_id", accountID, "amount", amount)
	return account, nil
}

// Withdraw removes amount from the account balance. The existence check
// and the sufficiency check are evaluated against the same locked row the
// update is applied to.
func (s *LedgerService) Withdraw(accountID, amount int64) (*domain.Account, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	var account *domain.Account
	err := s.store.WithTransaction(func(tx domain.Store) error {
		acc, err := tx.Account().GetAccountForUpdate(accountID)
		if err != nil {
			return err
		}

		if acc.Balance < amount {
			return apperrors.Newf(apperrors.InsufficientFunds,
				"cannot withdraw %d from account %d: balance is %d", amount, accountID, acc.Balance)
		}

		acc.Balance -= amount
		if err := tx.Account().UpdateBalance(acc.ID, acc.Balance); err != nil {
			return err
		}
		account = acc

		return tx.Transfer().RecordTransfer(&domain.Transfer{
			ID:              uuid.New(),
			Kind:            domain.TransferKindWithdraw,
			SourceAccountID: &acc.ID,
			Amount:          amount,
			Credited:        0,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Withdrawal completed", "account_id", accountID, "amount", amount)
	return account, nil
}

// Close removes the account after folding its balance into the sibling
// account with the lowest id. Closing the owner's only account is refused.
// Returns a snapshot of the removed account.
func (s *LedgerService) Close(accountID int64) (*domain.Account, error) {
	var closed *domain.Account
	err := s.store.WithTransaction(func(tx domain.Store) error {
		// Existence check first; the lock is taken on the whole account
		// set below so the acquisition order stays ascending by id.
		probe, err := tx.Account().GetAccount(accountID)
		if err != nil {
			return err
		}

		accounts, err := tx.Account().ListByUserForUpdate(probe.UserID)
		if err != nil {
			return err
		}

		var closing, target *domain.Account
		for _, acc := range accounts {
			if acc.ID == accountID {
				closing = acc
			} else if target == nil {
				// Accounts arrive ordered by id, so the first sibling is
				// the lowest-id merge target.
				target = acc
			}
		}
		if closing == nil {
			return apperrors.ErrAccountNotFound
		}
		if target == nil {
			return apperrors.ErrLastAccount
		}

		if err := tx.Account().UpdateBalance(target.ID, target.Balance+closing.Balance); err != nil {
			return err
		}
		if err := tx.Account().DeleteAccount(closing.ID); err != nil {
			return err
		}
		closed = closing

		return tx.Transfer().RecordTransfer(&domain.Transfer{
			ID:                   uuid.New(),
			Kind:                 domain.TransferKindClose,
			SourceAccountID:      &closing.ID,
			DestinationAccountID: &target.ID,
			Amount:               closing.Balance,
			Credited:             closing.Balance,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Account closed", "account_id", accountID, "merged_amount", closed.Balance)
	return closed, nil
}

// Transfer moves amount from one account to another. The debit is always
// the full amount; when the accounts belong to different users the credit
// is reduced by the commission rate and the difference is burned.
// Transferring an account to itself is a valid no-op modulo the
// sufficiency check.
func (s *LedgerService) Transfer(fromID, toID, amount int64) (*domain.Transfer, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	var record *domain.Transfer
	err := s.store.WithTransaction(func(tx domain.Store) error {
		from, to, err := s.lockPair(tx, fromID, toID)
		if err != nil {
			return err
		}

		if from.Balance < amount {
			return apperrors.Newf(apperrors.InsufficientFunds,
				"cannot transfer %d from account %d: balance is %d", amount, fromID, from.Balance)
		}

		credited := amount
		if from.UserID != to.UserID {
			credited = s.creditedAmount(amount)
		}

		if from.ID != to.ID {
			if err := tx.Account().UpdateBalance(from.ID, from.Balance-amount); err != nil {
				return err
			}
			if err := tx.Account().UpdateBalance(to.ID, to.Balance+credited); err != nil {
				return err
			}
		}

		record = &domain.Transfer{
			ID:                   uuid.New(),
			Kind:                 domain.TransferKindTransfer,
			SourceAccountID:      &from.ID,
			DestinationAccountID: &to.ID,
			Amount:               amount,
			Credited:             credited,
		}
		return tx.Transfer().RecordTransfer(record)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transfer completed",
		"transfer_id", record.ID,
		"source_account_id", fromID,
		"destination_account_id", toID,
		"amount", amount,
		"credited", record.Credited)
	return record, nil
}

func (s *LedgerService) GetTransfer(id uuid.UUID) (*domain.Transfer, error) {
	return s.store.Transfer().GetTransferByID(id)
}

// lockPair locks both account rows, lower id first, to keep the lock
// acquisition order deterministic across concurrent transfers.
func (s *LedgerService) lockPair(tx domain.Store, fromID, toID int64) (*domain.Account, *domain.Account, error) {
	if fromID == toID {
		acc, err := tx.Account().GetAccountForUpdate(fromID)
		if err != nil {
			return nil, nil, err
		}
		return acc, acc, nil
	}

	firstID, secondID := fromID, toID
	if toID < fromID {
		firstID, secondID = toID, fromID
	}

	first, err := tx.Account().GetAccountForUpdate(firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := tx.Account().GetAccountForUpdate(secondID)
	if err != nil {
		return nil, nil, err
	}

	if firstID == fromID {
		return first, second, nil
	}
	return second, first, nil
}

// creditedAmount computes floor(amount * (1 - rate)) exactly.
func (s *LedgerService) creditedAmount(amount int64) int64 {
	factor := decimal.NewFromInt(1).Sub(s.commissionRate)
	return decimal.NewFromInt(amount).Mul(factor).Floor().IntPart()
}
