package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"cruddur/internal/messages/models"
	userModels "cruddur/internal/users/models"
	"cruddur/pkg/domain"
)

type group struct {
	id        domain.MessageGroupID
	members   [2]userModels.User
	createdAt time.Time
}

func (g *group) other(me domain.UserID) userModels.User {
	if g.members[0].UUID == me {
		return g.members[1]
	}
	return g.members[0]
}

// InMemoryStore keeps conversations in process memory. A pair of users shares
// exactly one group regardless of who wrote first.
type InMemoryStore struct {
	mu       sync.RWMutex
	groups   map[[2]domain.UserID]*group
	messages map[domain.MessageGroupID][]*models.Message
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		groups:   make(map[[2]domain.UserID]*group),
		messages: make(map[domain.MessageGroupID][]*models.Message),
	}
}

func pairKey(a, b domain.UserID) [2]domain.UserID {
	if a.String() > b.String() {
		a, b = b, a
	}
	return [2]domain.UserID{a, b}
}

// Create appends a message from sender to receiver, opening their group on first use.
func (s *InMemoryStore) Create(_ context.Context, sender, receiver *userModels.User, text string, now time.Time) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(sender.UUID, receiver.UUID)
	g, ok := s.groups[key]
	if !ok {
		g = &group{
			id:        domain.NewMessageGroupID(),
			members:   [2]userModels.User{*sender, *receiver},
			createdAt: now,
		}
		s.groups[key] = g
	}

	msg := &models.Message{
		UUID:             domain.NewMessageID(),
		MessageGroupUUID: g.id,
		SenderUUID:       sender.UUID,
		DisplayName:      sender.DisplayName,
		Handle:           sender.Handle,
		Message:          text,
		CreatedAt:        now,
	}
	s.messages[g.id] = append(s.messages[g.id], msg)
	c := *msg
	return &c, nil
}

// ListGroups returns user's conversations, most recently active first.
func (s *InMemoryStore) ListGroups(_ context.Context, user domain.UserID) ([]*models.MessageGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.MessageGroup, 0)
	for _, g := range s.groups {
		if g.members[0].UUID != user && g.members[1].UUID != user {
			continue
		}
		other := g.other(user)
		mg := &models.MessageGroup{
			UUID:        g.id,
			DisplayName: other.DisplayName,
			Handle:      other.Handle,
			CreatedAt:   g.createdAt,
		}
		if msgs := s.messages[g.id]; len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			mg.Message = last.Message
			mg.CreatedAt = last.CreatedAt
		}
		out = append(out, mg)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ListMessages returns the conversation between user and other, oldest first.
// Users who never wrote to each other have an empty conversation.
func (s *InMemoryStore) ListMessages(_ context.Context, user, other domain.UserID) ([]*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[pairKey(user, other)]
	if !ok {
		return []*models.Message{}, nil
	}
	msgs := s.messages[g.id]
	out := make([]*models.Message, len(msgs))
	for i, m := range msgs {
		c := *m
		out[i] = &c
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
