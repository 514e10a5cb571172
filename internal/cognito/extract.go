package cognito

import (
	"errors"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// ExtractAccessToken returns the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-sensitively with a single space separator.
// Only an absent header is missing; a present but empty one is malformed.
func ExtractAccessToken(h http.Header) (string, error) {
	values := h.Values("Authorization")
	if len(values) == 0 {
		return "", newError(KindAccessTokenMissing, errors.New("authorization header not found"))
	}
	authHeader := values[0]

	token, ok := strings.CutPrefix(authHeader, bearerPrefix)
	if !ok || token == "" || strings.ContainsAny(token, " \t") {
		return "", newError(KindAccessTokenMalformed, errors.New("authorization header must be in format: Bearer <token>"))
	}
	return token, nil
}
