package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cruddur/internal/activities/models"
	"cruddur/pkg/domain"
	"cruddur/pkg/platform/sentinel"
)

// InMemoryStore keeps activities in process memory. Feeds are assembled at
// read time: top-level activities newest first, each with its replies oldest first.
type InMemoryStore struct {
	mu         sync.RWMutex
	activities map[domain.ActivityID]*models.Activity
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{activities: make(map[domain.ActivityID]*models.Activity)}
}

func (s *InMemoryStore) Create(_ context.Context, activity *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.activities[activity.UUID]; ok {
		return fmt.Errorf("activity %s: %w", activity.UUID, sentinel.ErrConflict)
	}
	s.activities[activity.UUID] = clone(activity)
	return nil
}

// AddReply stores reply and bumps the parent's replies_count.
func (s *InMemoryStore) AddReply(_ context.Context, reply *models.Activity) error {
	if reply.ReplyToActivityUUID == nil {
		return fmt.Errorf("reply has no parent activity")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	parent, ok := s.activities[*reply.ReplyToActivityUUID]
	if !ok {
		return fmt.Errorf("parent activity %s: %w", reply.ReplyToActivityUUID, sentinel.ErrNotFound)
	}
	parent.RepliesCount++
	s.activities[reply.UUID] = clone(reply)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.ActivityID) (*models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.activities[id]
	if !ok {
		return nil, fmt.Errorf("activity %s: %w", id, sentinel.ErrNotFound)
	}
	return s.withReplies(a), nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, now time.Time, limit int) ([]*models.Activity, error) {
	return s.list(now, limit, func(a *models.Activity) bool {
		return !a.IsReply()
	}), nil
}

func (s *InMemoryStore) ListByHandle(_ context.Context, handle string, now time.Time, limit int) ([]*models.Activity, error) {
	return s.list(now, limit, func(a *models.Activity) bool {
		return !a.IsReply() && strings.EqualFold(a.Handle, handle)
	}), nil
}

func (s *InMemoryStore) Search(_ context.Context, term string, now time.Time, limit int) ([]*models.Activity, error) {
	term = strings.ToLower(term)
	return s.list(now, limit, func(a *models.Activity) bool {
		return strings.Contains(strings.ToLower(a.Message), term)
	}), nil
}

// ListNotifications returns replies by other users to handle's activities.
func (s *InMemoryStore) ListNotifications(_ context.Context, handle string, now time.Time, limit int) ([]*models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(now, limit, func(a *models.Activity) bool {
		if !a.IsReply() || strings.EqualFold(a.Handle, handle) {
			return false
		}
		parent, ok := s.activities[*a.ReplyToActivityUUID]
		return ok && strings.EqualFold(parent.Handle, handle)
	}), nil
}

func (s *InMemoryStore) list(now time.Time, limit int, keep func(*models.Activity) bool) []*models.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(now, limit, keep)
}

func (s *InMemoryStore) listLocked(now time.Time, limit int, keep func(*models.Activity) bool) []*models.Activity {
	out := make([]*models.Activity, 0)
	for _, a := range s.activities {
		if a.Expired(now) || !keep(a) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i, a := range out {
		out[i] = s.withReplies(a)
	}
	return out
}

// withReplies copies a and attaches its replies; callers hold the read lock.
func (s *InMemoryStore) withReplies(a *models.Activity) *models.Activity {
	c := clone(a)
	c.Replies = nil
	for _, r := range s.activities {
		if r.ReplyToActivityUUID != nil && *r.ReplyToActivityUUID == a.UUID {
			c.Replies = append(c.Replies, clone(r))
		}
	}
	sort.Slice(c.Replies, func(i, j int) bool {
		return c.Replies[i].CreatedAt.Before(c.Replies[j].CreatedAt)
	})
	return c
}

func clone(a *models.Activity) *models.Activity {
	c := *a
	if a.ReplyToActivityUUID != nil {
		parent := *a.ReplyToActivityUUID
		c.ReplyToActivityUUID = &parent
	}
	if a.ExpiresAt != nil {
		exp := *a.ExpiresAt
		c.ExpiresAt = &exp
	}
	c.Replies = nil
	return &c
}
