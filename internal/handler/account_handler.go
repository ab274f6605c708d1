package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"account-ledger/internal/apperrors"
	"account-ledger/internal/domain"
)

// Ledger is the slice of the ledger service the account and transfer
// handlers depend on.
type Ledger interface {
	CreateAccount(userID int64) (*domain.Account, error)
	GetAccount(accountID int64) (*domain.Account, error)
	Deposit(accountID, amount int64) (*domain.Account, error)
	Withdraw(accountID, amount int64) (*domain.Account, error)
	Close(accountID int64) (*domain.Account, error)
	Transfer(fromID, toID, amount int64) (*domain.Transfer, error)
	GetTransfer(id uuid.UUID) (*domain.Transfer, error)
}

type AccountHandler struct {
	ledger Ledger
}

func NewAccountHandler(ledger Ledger) *AccountHandler {
	return &AccountHandler{
		ledger: ledger,
	}
}

type CreateAccountRequest struct {
	UserID int64 `json:"user_id"`
}

type AmountRequest struct {
	Amount int64 `json:"amount"`
}

type AccountResponse struct {
	AccountID int64 `json:"account_id"`
	UserID    int64 `json:"user_id"`
	Balance   int64 `json:"balance"`
}

func toAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: account.ID,
		UserID:    account.UserID,
		Balance:   account.Balance,
	}
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.InvalidArgument, "invalid request body").WithDetails(err.Error()))
		return
	}

	account, err := h.ledger.CreateAccount(req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "account_id")
	if !ok {
		return
	}

	account, err := h.ledger.GetAccount(accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, h.ledger.Deposit)
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, h.ledger.Withdraw)
}

func (h *AccountHandler) applyAmount(w http.ResponseWriter, r *http.Request, op func(int64, int64) (*domain.Account, error)) {
	accountID, ok := pathID(w, r, "account_id")
	if !ok {
		return
	}

	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.InvalidArgument, "invalid request body").WithDetails(err.Error()))
		return
	}

	account, err := op(accountID, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *AccountHandler) Close(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "account_id")
	if !ok {
		return
	}

	account, err := h.ledger.Close(accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// pathID parses a positive int64 path variable; on failure it writes the
// error response and returns false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars[name], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, apperrors.Newf(apperrors.InvalidArgument, "invalid %s", name))
		return 0, false
	}
	return id, true
}
