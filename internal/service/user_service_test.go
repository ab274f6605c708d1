package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-ledger/internal/apperrors"
)

func newTestUsers(t *testing.T) (*UserService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ledger := NewLedgerService(store, 100, decimal.RequireFromString("0.1"), logger)
	return NewUserService(store, ledger, logger), store
}

func TestCreateUserOpensSeededAccount(t *testing.T) {
	users, store := newTestUsers(t)

	user, err := users.CreateUser("alice")
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Login)
	require.Len(t, user.Accounts, 1)
	assert.Equal(t, int64(100), user.Accounts[0].Balance)
	assert.Equal(t, user.ID, user.Accounts[0].UserID)

	accounts, err := store.Account().ListByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestCreateUserTrimsLogin(t *testing.T) {
	users, _ := newTestUsers(t)

	user, err := users.CreateUser("  carol  ")
	require.NoError(t, err)
	assert.Equal(t, "carol", user.Login)
}

func TestCreateUserRejectsEmptyLogin(t *testing.T) {
	users, _ := newTestUsers(t)

	for _, login := range []string{"", "   "} {
		_, err := users.CreateUser(login)
		assert.Equal(t, apperrors.InvalidArgument, errCode(t, err))
	}
}

func TestCreateUserDuplicateLoginCreatesNothing(t *testing.T) {
	users, store := newTestUsers(t)

	first, err := users.CreateUser("alice")
	require.NoError(t, err)

	_, err = users.CreateUser("alice")
	assert.Equal(t, apperrors.AlreadyExists, errCode(t, err))

	all, err := users.ListUsers()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, first.ID, all[0].ID)

	accounts, err := store.Account().ListByUser(first.ID)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestFindUserByIDLoadsAccounts(t *testing.T) {
	users, _ := newTestUsers(t)

	created, err := users.CreateUser("alice")
	require.NoError(t, err)

	found, err := users.FindUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Login)
	require.Len(t, found.Accounts, 1)
	assert.Equal(t, int64(100), found.Accounts[0].Balance)
}

func TestFindUserByIDUnknown(t *testing.T) {
	users, _ := newTestUsers(t)

	_, err := users.FindUserByID(42)
	assert.Equal(t, apperrors.NotFound, errCode(t, err))
}

func TestListUsersIncludesAccountSets(t *testing.T) {
	users, _ := newTestUsers(t)

	_, err := users.CreateUser("alice")
	require.NoError(t, err)
	_, err = users.CreateUser("bob")
	require.NoError(t, err)

	all, err := users.ListUsers()
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, user := range all {
		assert.NotEmpty(t, user.Accounts)
	}
}
