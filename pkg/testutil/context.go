package testutil

import (
	"net/http"

	id "formprefill/pkg/domain"
	"formprefill/pkg/requestcontext"
)

// WithUserID adds a user ID to the request context.
// This simulates what the auth middleware does for logged-in visitors.
func WithUserID(req *http.Request, userID id.UserID) *http.Request {
	return req.WithContext(requestcontext.WithUserID(req.Context(), userID))
}

// WithSessionID adds a session ID to the request context.
func WithSessionID(req *http.Request, sessionID string) *http.Request {
	return req.WithContext(requestcontext.WithSessionID(req.Context(), sessionID))
}

// WithAuth adds both user ID and session ID to the request context.
// An empty sessionID is left out.
func WithAuth(req *http.Request, userID id.UserID, sessionID string) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), userID)
	if sessionID != "" {
		ctx = requestcontext.WithSessionID(ctx, sessionID)
	}
	return req.WithContext(ctx)
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
