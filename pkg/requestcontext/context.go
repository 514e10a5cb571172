// Package requestcontext carries request-scoped values (verified subject,
// client metadata, request id, request time) without depending on net/http.
// Middleware writes them; services and stores only read.
package requestcontext

import (
	"context"
	"time"
)

type key int

const (
	subjectKey key = iota
	clientIDKey
	clientIPKey
	userAgentKey
	requestIDKey
	requestTimeKey
)

func str(ctx context.Context, k key) string {
	v, _ := ctx.Value(k).(string)
	return v
}

// Subject is the verified token identity (Cognito username, else sub).
// Empty for anonymous requests.
func Subject(ctx context.Context) string { return str(ctx, subjectKey) }

func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// Authenticated reports whether a verified subject is present.
func Authenticated(ctx context.Context) bool { return Subject(ctx) != "" }

// ClientID is the app client the access token was issued to.
func ClientID(ctx context.Context) string { return str(ctx, clientIDKey) }

func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDKey, clientID)
}

func ClientIP(ctx context.Context) string  { return str(ctx, clientIPKey) }
func UserAgent(ctx context.Context) string { return str(ctx, userAgentKey) }

func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey, clientIP)
	return context.WithValue(ctx, userAgentKey, userAgent)
}

func RequestID(ctx context.Context) string { return str(ctx, requestIDKey) }

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// Now is the time the request entered the server. Outside a request (seeding,
// tests without middleware) it falls back to the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the request time; token expiry and activity expiry are both
// judged against it.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}
