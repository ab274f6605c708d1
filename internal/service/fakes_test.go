package service

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"account-ledger/internal/apperrors"
	"account-ledger/internal/domain"
)

// fakeData is the shared state behind fakeStore. A coarse mutex serializes
// whole units of work, and WithTransaction restores a snapshot on error so
// rollback behaves like the real store.
type fakeData struct {
	mu            sync.Mutex
	nextUserID    int64
	nextAccountID int64
	users         map[int64]domain.User
	accounts      map[int64]domain.Account
	transfers     map[uuid.UUID]domain.Transfer
}

type fakeStore struct {
	data *fakeData
	tx   bool
}

var _ domain.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		data: &fakeData{
			users:     make(map[int64]domain.User),
			accounts:  make(map[int64]domain.Account),
			transfers: make(map[uuid.UUID]domain.Transfer),
		},
	}
}

// lock acquires the data mutex unless the store is already scoped to a
// transaction, which holds the mutex for its whole duration.
func (f *fakeStore) lock() func() {
	if f.tx {
		return func() {}
	}
	f.data.mu.Lock()
	return f.data.mu.Unlock
}

func (f *fakeStore) User() domain.UserRepository         { return &fakeUserRepo{f} }
func (f *fakeStore) Account() domain.AccountRepository   { return &fakeAccountRepo{f} }
func (f *fakeStore) Transfer() domain.TransferRepository { return &fakeTransferRepo{f} }

func (f *fakeStore) WithTransaction(fn func(domain.Store) error) error {
	if f.tx {
		return apperrors.ErrCannotBeginTransaction
	}

	f.data.mu.Lock()
	defer f.data.mu.Unlock()

	snapshot := f.data.clone()
	if err := fn(&fakeStore{data: f.data, tx: true}); err != nil {
		f.data.restore(snapshot)
		return err
	}
	return nil
}

type fakeSnapshot struct {
	nextUserID    int64
	nextAccountID int64
	users         map[int64]domain.User
	accounts      map[int64]domain.Account
	transfers     map[uuid.UUID]domain.Transfer
}

func (d *fakeData) clone() fakeSnapshot {
	s := fakeSnapshot{
		nextUserID:    d.nextUserID,
		nextAccountID: d.nextAccountID,
		users:         make(map[int64]domain.User, len(d.users)),
		accounts:      make(map[int64]domain.Account, len(d.accounts)),
		transfers:     make(map[uuid.UUID]domain.Transfer, len(d.transfers)),
	}
	for id, u := range d.users {
		s.users[id] = u
	}
	for id, a := range d.accounts {
		s.accounts[id] = a
	}
	for id, t := range d.transfers {
		s.transfers[id] = t
	}
	return s
}

func (d *fakeData) restore(s fakeSnapshot) {
	d.nextUserID = s.nextUserID
	d.nextAccountID = s.nextAccountID
	d.users = s.users
	d.accounts = s.accounts
	d.transfers = s.transfers
}

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) CreateUser(login string) (*domain.User, error) {
	unlock := r.store.lock()
	defer unlock()

	for _, u := range r.store.data.users {
		if u.Login == login {
			return nil, apperrors.ErrLoginTaken
		}
	}

	r.store.data.nextUserID++
	user := domain.User{ID: r.store.data.nextUserID, Login: login}
	r.store.data.users[user.ID] = user

	out := user
	return &out, nil
}

func (r *fakeUserRepo) GetUser(id int64) (*domain.User, error) {
	unlock := r.store.lock()
	defer unlock()

	user, ok := r.store.data.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	out := user
	return &out, nil
}

func (r *fakeUserRepo) ListUsers() ([]*domain.User, error) {
	unlock := r.store.lock()
	defer unlock()

	var users []*domain.User
	for _, u := range r.store.data.users {
		out := u
		users = append(users, &out)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

type fakeAccountRepo struct {
	store *fakeStore
}

func (r *fakeAccountRepo) CreateAccount(userID, balance int64) (*domain.Account, error) {
	unlock := r.store.lock()
	defer unlock()

	if _, ok := r.store.data.users[userID]; !ok {
		return nil, apperrors.ErrUserNotFound
	}

	r.store.data.nextAccountID++
	account := domain.Account{ID: r.store.data.nextAccountID, UserID: userID, Balance: balance}
	r.store.data.accounts[account.ID] = account

	out := account
	return &out, nil
}

func (r *fakeAccountRepo) GetAccount(id int64) (*domain.Account, error) {
	unlock := r.store.lock()
	defer unlock()

	account, ok := r.store.data.accounts[id]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	out := account
	return &out, nil
}

func (r *fakeAccountRepo) GetAccountForUpdate(id int64) (*domain.Account, error) {
	return r.GetAccount(id)
}

func (r *fakeAccountRepo) ListByUser(userID int64) ([]*domain.Account, error) {
	unlock := r.store.lock()
	defer unlock()

	var accounts []*domain.Account
	for _, a := range r.store.data.accounts {
		if a.UserID == userID {
			out := a
			accounts = append(accounts, &out)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (r *fakeAccountRepo) ListByUserForUpdate(userID int64) ([]*domain.Account, error) {
	return r.ListByUser(userID)
}

func (r *fakeAccountRepo) UpdateBalance(id int64, newBalance int64) error {
	unlock := r.store.lock()
	defer unlock()

	account, ok := r.store.data.accounts[id]
	if !ok {
		return apperrors.ErrAccountNotFound
	}
	account.Balance = newBalance
	r.store.data.accounts[id] = account
	return nil
}

func (r *fakeAccountRepo) DeleteAccount(id int64) error {
	unlock := r.store.lock()
	defer unlock()

	if _, ok := r.store.data.accounts[id]; !ok {
		return apperrors.ErrAccountNotFound
	}
	delete(r.store.data.accounts, id)
	return nil
}

type fakeTransferRepo struct {
	store *fakeStore
}

func (r *fakeTransferRepo) RecordTransfer(t *domain.Transfer) error {
	unlock := r.store.lock()
	defer unlock()

	r.store.data.transfers[t.ID] = *t
	return nil
}

func (r *fakeTransferRepo) GetTransferByID(id uuid.UUID) (*domain.Transfer, error) {
	unlock := r.store.lock()
	defer unlock()

	transfer, ok := r.store.data.transfers[id]
	if !ok {
		return nil, apperrors.ErrTransferNotFound
	}
	out := transfer
	return &out, nil
}
