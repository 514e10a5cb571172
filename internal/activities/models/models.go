package models

import (
	"time"

	"cruddur/pkg/domain"
)

const (
	// MaxActivityChars bounds a top-level activity, counted in runes.
	MaxActivityChars = 280
	// MaxReplyChars bounds a reply, counted in runes.
	MaxReplyChars = 1024
)

// Activity is a post (crud) or a reply to one.
type Activity struct {
	UUID                domain.ActivityID  `json:"uuid"`
	UserUUID            domain.UserID      `json:"-"`
	Handle              string             `json:"handle"`
	DisplayName         string             `json:"display_name"`
	Message             string             `json:"message"`
	RepliesCount        int                `json:"replies_count"`
	RepostsCount        int                `json:"reposts_count"`
	LikesCount          int                `json:"likes_count"`
	ReplyToActivityUUID *domain.ActivityID `json:"reply_to_activity_uuid,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	ExpiresAt           *time.Time         `json:"expires_at,omitempty"`
	Replies             []*Activity        `json:"replies,omitempty"`
}

// IsReply reports whether the activity answers another one.
func (a *Activity) IsReply() bool {
	return a.ReplyToActivityUUID != nil
}

// Expired reports whether the activity's lifetime has ended at now.
func (a *Activity) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && !now.Before(*a.ExpiresAt)
}

// ttls maps the lifetimes offered by the compose form.
var ttls = map[string]time.Duration{
	"30-days":  30 * 24 * time.Hour,
	"7-days":   7 * 24 * time.Hour,
	"3-days":   3 * 24 * time.Hour,
	"1-day":    24 * time.Hour,
	"12-hours": 12 * time.Hour,
	"3-hours":  3 * time.Hour,
	"1-hour":   time.Hour,
}

// ParseTTL resolves a compose-form lifetime such as "7-days".
func ParseTTL(s string) (time.Duration, bool) {
	d, ok := ttls[s]
	return d, ok
}

// CreateActivityRequest is the body of POST /api/activities.
type CreateActivityRequest struct {
	Message string `json:"message"`
	TTL     string `json:"ttl"`
}

// CreateReplyRequest is the body of POST /api/activities/{uuid}/reply.
type CreateReplyRequest struct {
	Message string `json:"message"`
}
