package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cruddur/internal/messages/models"
	userModels "cruddur/internal/users/models"
	"cruddur/pkg/domain"
	"cruddur/pkg/platform/tx"
)

// PostgresStore persists conversations in message_groups and messages. A
// group row stores its two members in uuid order so each pair maps to one row.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func orderedPair(a, b domain.UserID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		a, b = b, a
	}
	return uuid.UUID(a), uuid.UUID(b)
}

func (s *PostgresStore) Create(ctx context.Context, sender, receiver *userModels.User, text string, now time.Time) (*models.Message, error) {
	userA, userB := orderedPair(sender.UUID, receiver.UUID)
	msg := &models.Message{
		UUID:        domain.NewMessageID(),
		SenderUUID:  sender.UUID,
		DisplayName: sender.DisplayName,
		Handle:      sender.Handle,
		Message:     text,
		CreatedAt:   now,
	}

	err := tx.Run(ctx, s.db, func(tx *sql.Tx) error {
		var groupID uuid.UUID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO message_groups (uuid, user_a_uuid, user_b_uuid, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_a_uuid, user_b_uuid) DO UPDATE SET user_a_uuid = EXCLUDED.user_a_uuid
			RETURNING uuid`,
			uuid.New(), userA, userB, now,
		).Scan(&groupID)
		if err != nil {
			return fmt.Errorf("open message group: %w", err)
		}
		msg.MessageGroupUUID = domain.MessageGroupID(groupID)

		_, err = tx.ExecContext(ctx, `
			INSERT INTO messages (uuid, message_group_uuid, user_uuid, message, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.UUID(msg.UUID), groupID, uuid.UUID(sender.UUID), text, now)
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *PostgresStore) ListGroups(ctx context.Context, user domain.UserID) ([]*models.MessageGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.uuid, o.display_name, o.handle,
			COALESCE(last.message, ''), COALESCE(last.created_at, g.created_at) AS active_at
		FROM message_groups g
		JOIN users o ON o.uuid = CASE WHEN g.user_a_uuid = $1 THEN g.user_b_uuid ELSE g.user_a_uuid END
		LEFT JOIN LATERAL (
			SELECT m.message, m.created_at FROM messages m
			WHERE m.message_group_uuid = g.uuid
			ORDER BY m.created_at DESC LIMIT 1
		) last ON true
		WHERE g.user_a_uuid = $1 OR g.user_b_uuid = $1
		ORDER BY active_at DESC`,
		uuid.UUID(user))
	if err != nil {
		return nil, fmt.Errorf("list message groups: %w", err)
	}
	defer rows.Close()

	out := make([]*models.MessageGroup, 0)
	for rows.Next() {
		var (
			g  models.MessageGroup
			id uuid.UUID
		)
		if err := rows.Scan(&id, &g.DisplayName, &g.Handle, &g.Message, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message group: %w", err)
		}
		g.UUID = domain.MessageGroupID(id)
		out = append(out, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list message groups: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListMessages(ctx context.Context, user, other domain.UserID) ([]*models.Message, error) {
	userA, userB := orderedPair(user, other)
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.uuid, m.message_group_uuid, m.user_uuid, u.display_name, u.handle, m.message, m.created_at
		FROM messages m
		JOIN message_groups g ON g.uuid = m.message_group_uuid
		JOIN users u ON u.uuid = m.user_uuid
		WHERE g.user_a_uuid = $1 AND g.user_b_uuid = $2
		ORDER BY m.created_at ASC`,
		userA, userB)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Message, 0)
	for rows.Next() {
		var (
			m                   models.Message
			id, groupID, sender uuid.UUID
		)
		if err := rows.Scan(&id, &groupID, &sender, &m.DisplayName, &m.Handle, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.UUID = domain.MessageID(id)
		m.MessageGroupUUID = domain.MessageGroupID(groupID)
		m.SenderUUID = domain.UserID(sender)
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return out, nil
}
