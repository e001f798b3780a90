// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values and services read them, without services
// having to import net/http. Tests inject fixed values (notably the request
// time) through the same accessors.
//
// Usage in services:
//
//	adminID := requestcontext.AdminID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware:
//
//	ctx = requestcontext.WithAdmin(ctx, adminID, username)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in tests:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type (
	adminIDKey       struct{}
	adminUsernameKey struct{}
	requestIDKey     struct{}
	requestTimeKey   struct{}
)

// WithAdmin records the authenticated admin identity on the context.
func WithAdmin(ctx context.Context, adminID uuid.UUID, username string) context.Context {
	ctx = context.WithValue(ctx, adminIDKey{}, adminID)
	return context.WithValue(ctx, adminUsernameKey{}, username)
}

// AdminID returns the authenticated admin's ID, or uuid.Nil when the request
// is unauthenticated.
func AdminID(ctx context.Context) uuid.UUID {
	id, ok := ctx.Value(adminIDKey{}).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// AdminUsername returns the authenticated admin's username, or "".
func AdminUsername(ctx context.Context) string {
	username, _ := ctx.Value(adminUsernameKey{}).(string)
	return username
}

// WithRequestID records the correlation ID assigned by middleware.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the correlation ID for the request, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithTime pins the request time. Middleware sets this once per request so
// every age calculation and timestamp within the request agrees; tests use it
// to make time-dependent logic deterministic.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// Now returns the pinned request time, falling back to the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}
