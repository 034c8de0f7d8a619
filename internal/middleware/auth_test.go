package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator_Middleware(t *testing.T) {
	auth := NewAuthenticator("test-secret")
	memberID := uuid.New()

	var seen uuid.UUID
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = MemberIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sel/balance", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	t.Run("valid token", func(t *testing.T) {
		token, err := auth.IssueToken(memberID, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
		require.NoError(t, err)

		w := serve("Bearer " + token)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, memberID, seen)
	})

	t.Run("missing header", func(t *testing.T) {
		w := serve("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Authorization header required")
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := serve("Basic abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewAuthenticator("other").IssueToken(memberID, nil)
		require.NoError(t, err)

		w := serve("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := auth.IssueToken(memberID, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
		require.NoError(t, err)

		w := serve("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("member id not a uuid", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256,
			jwt.MapClaims{"member_id": "42"}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		w := serve("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestMemberIDFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := MemberIDFromContext(req.Context())
	assert.False(t, ok)

	id := uuid.New()
	got, ok := MemberIDFromContext(WithMemberID(req.Context(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
