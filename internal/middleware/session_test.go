package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureSession(t *testing.T, header string) (string, *httptest.ResponseRecorder) {
	t.Helper()

	var seen string
	handler := SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetSession(r.Context())
		require.True(t, ok)
		seen = id
	}))

	req := httptest.NewRequest("GET", "/api/cart", nil)
	if header != "" {
		req.Header.Set(SessionHeader, header)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return seen, w
}

func TestSessionMiddleware_KeepsValidSession(t *testing.T) {
	id := uuid.NewString()

	seen, w := captureSession(t, id)
	assert.Equal(t, id, seen)
	assert.Equal(t, id, w.Header().Get(SessionHeader))
}

func TestSessionMiddleware_IssuesSession(t *testing.T) {
	for _, header := range []string{"", "not-a-uuid"} {
		seen, w := captureSession(t, header)

		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
		assert.NotEqual(t, header, seen)
		assert.Equal(t, seen, w.Header().Get(SessionHeader))
	}
}

func TestGetSession_Empty(t *testing.T) {
	_, ok := GetSession(httptest.NewRequest("GET", "/", nil).Context())
	assert.False(t, ok)
}
