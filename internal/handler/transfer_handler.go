package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"account-ledger/internal/apperrors"
	"account-ledger/internal/domain"
)

type TransferHandler struct {
	ledger Ledger
}

func NewTransferHandler(ledger Ledger) *TransferHandler {
	return &TransferHandler{
		ledger: ledger,
	}
}

type TransferRequest struct {
	SourceAccountID      int64 `json:"source_account_id"`
	DestinationAccountID int64 `json:"destination_account_id"`
	Amount               int64 `json:"amount"`
}

type TransferResponse struct {
	TransferID           string `json:"transfer_id"`
	SourceAccountID      *int64 `json:"source_account_id,omitempty"`
	DestinationAccountID *int64 `json:"destination_account_id,omitempty"`
	Amount               int64  `json:"amount"`
	Credited             int64  `json:"credited"`
}

func toTransferResponse(t *domain.Transfer) TransferResponse {
	return TransferResponse{
		TransferID:           t.ID.String(),
		SourceAccountID:      t.SourceAccountID,
		DestinationAccountID: t.DestinationAccountID,
		Amount:               t.Amount,
		Credited:             t.Credited,
	}
}

func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.InvalidArgument, "invalid request body").WithDetails(err.Error()))
		return
	}

	transfer, err := h.ledger.Transfer(req.SourceAccountID, req.DestinationAccountID, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransferResponse(transfer))
}

func (h *TransferHandler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["transfer_id"])
	if err != nil {
		writeError(w, apperrors.New(apperrors.InvalidArgument, "invalid transfer_id").WithDetails(err.Error()))
		return
	}

	transfer, err := h.ledger.GetTransfer(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransferResponse(transfer))
}
