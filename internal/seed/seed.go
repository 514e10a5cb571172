// Package seed loads the demo data served when no database is configured.
package seed

import (
	"context"
	"fmt"
	"time"

	activityModels "cruddur/internal/activities/models"
	messageModels "cruddur/internal/messages/models"
	userModels "cruddur/internal/users/models"
	"cruddur/pkg/domain"
)

type UserStore interface {
	Save(ctx context.Context, user *userModels.User) error
}

type ActivityStore interface {
	Create(ctx context.Context, activity *activityModels.Activity) error
	AddReply(ctx context.Context, reply *activityModels.Activity) error
}

type MessageStore interface {
	Create(ctx context.Context, sender, receiver *userModels.User, text string, now time.Time) (*messageModels.Message, error)
}

// Load writes the demo users, activities and conversations relative to now.
func Load(ctx context.Context, users UserStore, activities ActivityStore, messages MessageStore, now time.Time) error {
	people := map[string]*userModels.User{}
	for _, u := range []struct{ handle, name string }{
		{"andrewbrown", "Andrew Brown"},
		{"worf", "Worf"},
		{"garek", "Garek"},
		{"lore", "Lore"},
	} {
		user := &userModels.User{
			UUID:        domain.NewUserID(),
			Handle:      u.handle,
			DisplayName: u.name,
			Email:       u.handle + "@example.com",
			CreatedAt:   now.Add(-30 * 24 * time.Hour),
		}
		if err := users.Save(ctx, user); err != nil {
			return fmt.Errorf("seed user @%s: %w", u.handle, err)
		}
		people[u.handle] = user
	}

	post := func(handle, message string, age, ttl time.Duration) (*activityModels.Activity, error) {
		author := people[handle]
		created := now.Add(-age)
		expires := created.Add(ttl)
		a := &activityModels.Activity{
			UUID:        domain.NewActivityID(),
			UserUUID:    author.UUID,
			Handle:      author.Handle,
			DisplayName: author.DisplayName,
			Message:     message,
			CreatedAt:   created,
			ExpiresAt:   &expires,
		}
		if err := activities.Create(ctx, a); err != nil {
			return nil, fmt.Errorf("seed activity: %w", err)
		}
		return a, nil
	}

	cloud, err := post("andrewbrown", "Cloud is very fun!", 3*24*time.Hour, 8*24*time.Hour)
	if err != nil {
		return err
	}
	if _, err := post("worf", "I am out of prune juice", 7*24*time.Hour, 16*24*time.Hour); err != nil {
		return err
	}
	if _, err := post("garek", "My dear doctor, I am just simple tailor. Can't you see the pattern?", 12*time.Hour, 24*time.Hour); err != nil {
		return err
	}

	parent := cloud.UUID
	worf := people["worf"]
	reply := &activityModels.Activity{
		UUID:                domain.NewActivityID(),
		UserUUID:            worf.UUID,
		Handle:              worf.Handle,
		DisplayName:         worf.DisplayName,
		Message:             "This post has no honor!",
		ReplyToActivityUUID: &parent,
		CreatedAt:           now.Add(-2 * 24 * time.Hour),
		ExpiresAt:           cloud.ExpiresAt,
	}
	if err := activities.AddReply(ctx, reply); err != nil {
		return fmt.Errorf("seed reply: %w", err)
	}

	for _, m := range []struct {
		from, to, text string
		age            time.Duration
	}{
		{"worf", "andrewbrown", "This is not very interesting", 2 * time.Hour},
		{"andrewbrown", "worf", "I disagree, it is a great deal of fun", 90 * time.Minute},
		{"lore", "andrewbrown", "I have a proposal for you", 5 * time.Hour},
	} {
		if _, err := messages.Create(ctx, people[m.from], people[m.to], m.text, now.Add(-m.age)); err != nil {
			return fmt.Errorf("seed message: %w", err)
		}
	}
	return nil
}
