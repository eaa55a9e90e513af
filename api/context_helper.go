package api

import (
	"context"
	"time"

	"github.com/carebridge/carebridge-api/models"
)

// QueryTimeout is the default timeout for database queries
const QueryTimeout = 10 * time.Second

// WithQueryTimeout creates a context with query timeout
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}

type contextKey string

const userContextKey contextKey = "authenticatedUser"

// ContextWithUser attaches the authenticated user to the request context
func ContextWithUser(parent context.Context, user *models.User) context.Context {
	return context.WithValue(parent, userContextKey, user)
}

// UserFromContext returns the authenticated user attached by the middleware,
// or nil when the request was not authenticated
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

const adminContextKey contextKey = "authenticatedAdminID"

// ContextWithAdminID attaches the admin id from a verified admin JWT
func ContextWithAdminID(parent context.Context, adminID string) context.Context {
	return context.WithValue(parent, adminContextKey, adminID)
}

// AdminIDFromContext returns the admin id attached by the admin middleware,
// or "" when the request did not carry an admin token
func AdminIDFromContext(ctx context.Context) string {
	adminID, _ := ctx.Value(adminContextKey).(string)
	return adminID
}
