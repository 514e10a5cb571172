package models

import (
	"time"

	"cruddur/pkg/domain"
)

// MaxMessageChars bounds a direct message, counted in runes.
const MaxMessageChars = 1024

// MessageGroup is a conversation as seen by one participant: the other party
// and the latest message exchanged.
type MessageGroup struct {
	UUID        domain.MessageGroupID `json:"uuid"`
	DisplayName string                `json:"display_name"`
	Handle      string                `json:"handle"`
	Message     string                `json:"message"`
	CreatedAt   time.Time             `json:"created_at"`
}

// Message is one direct message; Handle and DisplayName describe the sender.
type Message struct {
	UUID             domain.MessageID      `json:"uuid"`
	MessageGroupUUID domain.MessageGroupID `json:"message_group_uuid"`
	SenderUUID       domain.UserID         `json:"-"`
	DisplayName      string                `json:"display_name"`
	Handle           string                `json:"handle"`
	Message          string                `json:"message"`
	CreatedAt        time.Time             `json:"created_at"`
}

// CreateMessageRequest is the body of POST /api/messages.
type CreateMessageRequest struct {
	Message            string `json:"message"`
	UserReceiverHandle string `json:"user_receiver_handle"`
}
