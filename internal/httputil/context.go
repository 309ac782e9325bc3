package httputil

import (
	"context"
	"net/http"
)

// unexported key type so other packages cannot collide with our values
type contextKey int

const userIDKey contextKey = iota

// WithUserID returns the request with the authenticated user id attached.
func WithUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
}

// GetUserID returns the authenticated user id, or "" on an unauthenticated
// request.
func GetUserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
