package cognito

import "time"

// Claims is the verified claim set of a Cognito access token.
type Claims struct {
	Subject   string
	Username  string
	ClientID  string
	Issuer    string
	TokenUse  string
	Scope     string
	JTI       string
	Audience  []string
	ExpiresAt time.Time
	NotBefore time.Time
	IssuedAt  time.Time

	// Raw holds every claim as decoded from the payload.
	Raw map[string]any
}

// Identity is the handle downstream services key users by: the Cognito
// username when present, otherwise the sub.
func (c *Claims) Identity() string {
	if c.Username != "" {
		return c.Username
	}
	return c.Subject
}
