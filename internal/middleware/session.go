package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// SessionHeader carries the shopper's cart session
const SessionHeader = "X-Session-ID"

const sessionKey contextKey = "session_id"

// SessionMiddleware resolves the shopper session from X-Session-ID, issuing a
// fresh id when the header is absent or malformed. The id is echoed back so
// the client can keep its cart across requests.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(SessionHeader)
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.NewString()
		}

		w.Header().Set(SessionHeader, sessionID)
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sessionID)))
	})
}

// WithSession stores a session id on the context
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey, sessionID)
}

// GetSession returns the session id placed by SessionMiddleware
func GetSession(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionKey).(string)
	return sessionID, ok && sessionID != ""
}
