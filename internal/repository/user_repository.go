package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"account-ledger/internal/apperrors"
	"account-ledger/internal/domain"
)

type userRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewUserRepository(db SQLExecutor, logger *slog.Logger) domain.UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

func (r *userRepository) CreateUser(login string) (*domain.User, error) {
	query := `
		INSERT INTO users (login, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	now := time.Now()
	user := &domain.User{
		Login:     login,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.QueryRow(query, login, now, now).Scan(&user.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				r.logger.Warn("Duplicate user creation attempt", "login", login)
				return nil, apperrors.ErrLoginTaken
			}
		}
		r.logger.Error("Failed to create user", "login", login, "error", err)
		return nil, wrapDBError(err, "failed to create user")
	}

	r.logger.Info("User created successfully", "user_id", user.ID, "login", login)
	return user, nil
}

func (r *userRepository) GetUser(id int64) (*domain.User, error) {
	query := `
		SELECT id, login, created_at, updated_at
		FROM users WHERE id = $1
	`

	var user domain.User
	err := r.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.Login,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("User not found", "user_id", id)
			return nil, apperrors.ErrUserNotFound
		}
		r.logger.Error("Failed to get user", "user_id", id, "error", err)
		return nil, wrapDBError(err, "failed to get user")
	}

	return &user, nil
}

func (r *userRepository) ListUsers() ([]*domain.User, error) {
	query := `
		SELECT id, login, created_at, updated_at
		FROM users ORDER BY id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list users", "error", err)
		return nil, wrapDBError(err, "failed to list users")
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Login,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, wrapDBError(err, "failed to scan user")
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err, "failed to list users")
	}

	return users, nil
}
