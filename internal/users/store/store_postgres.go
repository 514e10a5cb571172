package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"cruddur/internal/users/models"
	"cruddur/pkg/domain"
	"cruddur/pkg/platform/sentinel"
)

// PostgresStore persists users in the users table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (uuid, display_name, handle, email, cognito_user_id, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6)
		ON CONFLICT (handle) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			email = EXCLUDED.email,
			cognito_user_id = EXCLUDED.cognito_user_id
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(user.UUID), user.DisplayName, user.Handle, user.Email, user.CognitoUserID, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByCognitoUserID(ctx context.Context, cognitoUserID string) (*models.User, error) {
	return s.findOne(ctx, `WHERE cognito_user_id = $1`, cognitoUserID)
}

func (s *PostgresStore) FindByHandle(ctx context.Context, handle string) (*models.User, error) {
	return s.findOne(ctx, `WHERE lower(handle) = lower($1)`, handle)
}

func (s *PostgresStore) findOne(ctx context.Context, where string, arg any) (*models.User, error) {
	var (
		u             models.User
		id            uuid.UUID
		email         sql.NullString
		cognitoUserID sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT uuid, display_name, handle, email, cognito_user_id, created_at FROM users `+where, arg,
	).Scan(&id, &u.DisplayName, &u.Handle, &email, &cognitoUserID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("find user: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.UUID = domain.UserID(id)
	u.Email = email.String
	u.CognitoUserID = cognitoUserID.String
	return &u, nil
}
