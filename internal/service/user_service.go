package service

import (
	"log/slog"
	"strings"

	"account-ledger/internal/apperrors"
	"account-ledger/internal/domain"
)

// UserService creates and looks up users. Creating a user opens its first
// account through the ledger inside the same unit of work, so a committed
// user always owns at least one account.
type UserService struct {
	store  domain.Store
	ledger *LedgerService
	logger *slog.Logger
}

func NewUserService(store domain.Store, ledger *LedgerService, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		ledger: ledger,
		logger: logger,
	}
}

func (s *UserService) CreateUser(login string) (*domain.User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, apperrors.New(apperrors.InvalidArgument, "login must not be empty")
	}

	s.logger.Info("Creating user", "login", login)

	var user *domain.User
	err := s.store.WithTransaction(func(tx domain.Store) error {
		// The unique index on login makes the check-and-insert atomic
		// against a racing duplicate; the repository surfaces the
		// violation as AlreadyExists.
		created, err := tx.User().CreateUser(login)
		if err != nil {
			return err
		}

		account, err := s.ledger.OpenDefaultAccount(tx, created.ID)
		if err != nil {
			return err
		}

		created.Accounts = []*domain.Account{account}
		user = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User created", "user_id", user.ID, "login", login)
	return user, nil
}

func (s *UserService) FindUserByID(id int64) (*domain.User, error) {
	user, err := s.store.User().GetUser(id)
	if err != nil {
		return nil, err
	}

	accounts, err := s.store.Account().ListByUser(id)
	if err != nil {
		return nil, err
	}
	user.Accounts = accounts

	return user, nil
}

func (s *UserService) ListUsers() ([]*domain.User, error) {
	users, err := s.store.User().ListUsers()
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		accounts, err := s.store.Account().ListByUser(user.ID)
		if err != nil {
			return nil, err
		}
		user.Accounts = accounts
	}

	return users, nil
}
