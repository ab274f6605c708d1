package handler

import (
	"encoding/json"
	"net/http"

	"account-ledger/internal/apperrors"
	"account-ledger/internal/domain"
)

// Users is the slice of the user directory the user handler depends on.
type Users interface {
	CreateUser(login string) (*domain.User, error)
	FindUserByID(id int64) (*domain.User, error)
	ListUsers() ([]*domain.User, error)
}

type UserHandler struct {
	users Users
}

func NewUserHandler(users Users) *UserHandler {
	return &UserHandler{
		users: users,
	}
}

type CreateUserRequest struct {
	Login string `json:"login"`
}

type UserResponse struct {
	UserID   int64             `json:"user_id"`
	Login    string            `json:"login"`
	Accounts []AccountResponse `json:"accounts"`
}

func toUserResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		UserID:   user.ID,
		Login:    user.Login,
		Accounts: make([]AccountResponse, 0, len(user.Accounts)),
	}
	for _, account := range user.Accounts {
		resp.Accounts = append(resp.Accounts, toAccountResponse(account))
	}
	return resp
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.InvalidArgument, "invalid request body").WithDetails(err.Error()))
		return
	}

	user, err := h.users.CreateUser(req.Login)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}

	user, err := h.users.FindUserByID(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	views := make([]UserResponse, 0, len(users))
	for _, user := range users {
		views = append(views, toUserResponse(user))
	}

	writeJSON(w, http.StatusOK, views)
}
