// Package domain defines typed identifiers shared across the activity and message
// modules. Parsing happens once at the trust boundary (handlers); everything
// downstream works with the typed value.
package domain

import (
	"github.com/google/uuid"

	dErrors "cruddur/pkg/domain-errors"
)

type (
	ActivityID     uuid.UUID
	UserID         uuid.UUID
	MessageGroupID uuid.UUID
	MessageID      uuid.UUID
)

func NewActivityID() ActivityID         { return ActivityID(uuid.New()) }
func NewUserID() UserID                 { return UserID(uuid.New()) }
func NewMessageGroupID() MessageGroupID { return MessageGroupID(uuid.New()) }
func NewMessageID() MessageID           { return MessageID(uuid.New()) }

func (id ActivityID) String() string     { return uuid.UUID(id).String() }
func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id MessageGroupID) String() string { return uuid.UUID(id).String() }
func (id MessageID) String() string      { return uuid.UUID(id).String() }

func (id ActivityID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets typed IDs serialize as plain UUID strings in JSON.
func (id ActivityID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id UserID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id MessageGroupID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id MessageID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }

// ParseActivityID parses a non-nil activity UUID.
func ParseActivityID(s string) (ActivityID, error) {
	u, err := parseUUID(s, "activity_uuid")
	return ActivityID(u), err
}

// ParseUserID parses a non-nil user UUID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user_uuid")
	return UserID(u), err
}

// ParseMessageGroupID parses a non-nil message group UUID.
func ParseMessageGroupID(s string) (MessageGroupID, error) {
	u, err := parseUUID(s, "message_group_uuid")
	return MessageGroupID(u), err
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be nil")
	}
	return u, nil
}
