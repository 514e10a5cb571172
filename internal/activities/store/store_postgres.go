package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"cruddur/internal/activities/models"
	"cruddur/pkg/domain"
	"cruddur/pkg/platform/sentinel"
	"cruddur/pkg/platform/tx"
)

const selectActivity = `
	SELECT a.uuid, a.user_uuid, u.handle, u.display_name, a.message,
		a.replies_count, a.reposts_count, a.likes_count,
		a.reply_to_activity_uuid, a.created_at, a.expires_at
	FROM activities a
	JOIN users u ON u.uuid = a.user_uuid
`

const notExpired = `(a.expires_at IS NULL OR a.expires_at > $1)`

// PostgresStore persists activities in PostgreSQL; handle and display_name
// come from the users table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, activity *models.Activity) error {
	if err := insertActivity(ctx, s.db, activity); err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

// AddReply inserts reply and bumps the parent's replies_count in one transaction.
func (s *PostgresStore) AddReply(ctx context.Context, reply *models.Activity) error {
	if reply.ReplyToActivityUUID == nil {
		return errors.New("reply has no parent activity")
	}
	return tx.Run(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE activities SET replies_count = replies_count + 1 WHERE uuid = $1`,
			uuid.UUID(*reply.ReplyToActivityUUID))
		if err != nil {
			return fmt.Errorf("increment replies_count: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("parent activity %s: %w", reply.ReplyToActivityUUID, sentinel.ErrNotFound)
		}
		if err := insertActivity(ctx, tx, reply); err != nil {
			return fmt.Errorf("insert reply: %w", err)
		}
		return nil
	})
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertActivity(ctx context.Context, db execer, a *models.Activity) error {
	var replyTo uuid.NullUUID
	if a.ReplyToActivityUUID != nil {
		replyTo = uuid.NullUUID{UUID: uuid.UUID(*a.ReplyToActivityUUID), Valid: true}
	}
	var expiresAt sql.NullTime
	if a.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: *a.ExpiresAt, Valid: true}
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO activities (uuid, user_uuid, message, reply_to_activity_uuid, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(a.UUID), uuid.UUID(a.UserUUID), a.Message, replyTo, expiresAt, a.CreatedAt)
	return err
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ActivityID) (*models.Activity, error) {
	rows, err := s.db.QueryContext(ctx, selectActivity+` WHERE a.uuid = $1`, uuid.UUID(id))
	if err != nil {
		return nil, fmt.Errorf("find activity: %w", err)
	}
	found, err := scanActivities(rows)
	if err != nil {
		return nil, fmt.Errorf("find activity: %w", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("activity %s: %w", id, sentinel.ErrNotFound)
	}
	if err := s.attachReplies(ctx, found); err != nil {
		return nil, err
	}
	return found[0], nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, now time.Time, limit int) ([]*models.Activity, error) {
	return s.listFeed(ctx, `
		WHERE a.reply_to_activity_uuid IS NULL AND `+notExpired+`
		ORDER BY a.created_at DESC LIMIT $2`, now, limit)
}

func (s *PostgresStore) ListByHandle(ctx context.Context, handle string, now time.Time, limit int) ([]*models.Activity, error) {
	return s.listFeed(ctx, `
		WHERE a.reply_to_activity_uuid IS NULL AND `+notExpired+` AND lower(u.handle) = lower($3)
		ORDER BY a.created_at DESC LIMIT $2`, now, limit, handle)
}

func (s *PostgresStore) Search(ctx context.Context, term string, now time.Time, limit int) ([]*models.Activity, error) {
	return s.listFeed(ctx, `
		WHERE `+notExpired+` AND a.message ILIKE '%' || $3 || '%' ESCAPE '\'
		ORDER BY a.created_at DESC LIMIT $2`, now, limit, escapeLike(term))
}

func (s *PostgresStore) ListNotifications(ctx context.Context, handle string, now time.Time, limit int) ([]*models.Activity, error) {
	return s.listFeed(ctx, `
		JOIN activities p ON p.uuid = a.reply_to_activity_uuid
		JOIN users pu ON pu.uuid = p.user_uuid
		WHERE `+notExpired+` AND lower(pu.handle) = lower($3) AND a.user_uuid <> p.user_uuid
		ORDER BY a.created_at DESC LIMIT $2`, now, limit, handle)
}

func (s *PostgresStore) listFeed(ctx context.Context, clause string, now time.Time, limit int, args ...any) ([]*models.Activity, error) {
	rows, err := s.db.QueryContext(ctx, selectActivity+clause, append([]any{now, limit}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	activities, err := scanActivities(rows)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	if err := s.attachReplies(ctx, activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (s *PostgresStore) attachReplies(ctx context.Context, parents []*models.Activity) error {
	if len(parents) == 0 {
		return nil
	}
	ids := make([]string, len(parents))
	byID := make(map[domain.ActivityID]*models.Activity, len(parents))
	for i, p := range parents {
		ids[i] = p.UUID.String()
		byID[p.UUID] = p
	}
	rows, err := s.db.QueryContext(ctx,
		selectActivity+` WHERE a.reply_to_activity_uuid = ANY($1::uuid[]) ORDER BY a.created_at ASC`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("list replies: %w", err)
	}
	replies, err := scanActivities(rows)
	if err != nil {
		return fmt.Errorf("list replies: %w", err)
	}
	for _, r := range replies {
		if p, ok := byID[*r.ReplyToActivityUUID]; ok {
			p.Replies = append(p.Replies, r)
		}
	}
	return nil
}

func scanActivities(rows *sql.Rows) ([]*models.Activity, error) {
	defer rows.Close()
	out := make([]*models.Activity, 0)
	for rows.Next() {
		var (
			a         models.Activity
			id        uuid.UUID
			userID    uuid.UUID
			replyTo   uuid.NullUUID
			expiresAt sql.NullTime
		)
		if err := rows.Scan(&id, &userID, &a.Handle, &a.DisplayName, &a.Message,
			&a.RepliesCount, &a.RepostsCount, &a.LikesCount,
			&replyTo, &a.CreatedAt, &expiresAt); err != nil {
			return nil, err
		}
		a.UUID = domain.ActivityID(id)
		a.UserUUID = domain.UserID(userID)
		if replyTo.Valid {
			parent := domain.ActivityID(replyTo.UUID)
			a.ReplyToActivityUUID = &parent
		}
		if expiresAt.Valid {
			exp := expiresAt.Time
			a.ExpiresAt = &exp
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
