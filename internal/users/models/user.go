package models

import (
	"time"

	"cruddur/pkg/domain"
)

// User is a cruddur account linked to a Cognito identity.
type User struct {
	UUID          domain.UserID
	DisplayName   string
	Handle        string
	Email         string
	CognitoUserID string
	CreatedAt     time.Time
}
