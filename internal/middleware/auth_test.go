package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/triporia/triporia-backend/internal/models"
	"github.com/triporia/triporia-backend/internal/services"
	"github.com/triporia/triporia-backend/internal/store"
)

type stubUserStore struct {
	users map[primitive.ObjectID]models.User
}

func (s *stubUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *stubUserStore) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, store.ErrNotFound
}

func (s *stubUserStore) FindByGoogleID(context.Context, string) (*models.User, error) {
	return nil, store.ErrNotFound
}

func (s *stubUserStore) Create(context.Context, *models.User) error { return nil }
func (s *stubUserStore) Save(context.Context, *models.User) error   { return nil }

func okHandler(t *testing.T, sawUser *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if ok {
			*sawUser = true
			assert.Empty(t, user.Password, "context user must be sanitized")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func errorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestAuthenticate(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	alice := models.User{
		ID:       primitive.NewObjectID(),
		Name:     "Alice",
		Role:     models.RoleUser,
		Password: "stored-hash",
	}
	users := &stubUserStore{users: map[primitive.ObjectID]models.User{alice.ID: alice}}

	valid, err := tokens.Issue(alice.ID.Hex(), alice.Role, time.Hour)
	require.NoError(t, err)
	expired, err := tokens.Issue(alice.ID.Hex(), alice.Role, -time.Hour)
	require.NoError(t, err)
	unknown, err := tokens.Issue(primitive.NewObjectID().Hex(), models.RoleUser, time.Hour)
	require.NoError(t, err)
	foreign, err := services.NewTokenService("other-secret").Issue(alice.ID.Hex(), alice.Role, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantKind   string
	}{
		{"no header", "", http.StatusUnauthorized, "missing_token"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "missing_token"},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, "invalid_token"},
		{"wrong signature", "Bearer " + foreign, http.StatusUnauthorized, "invalid_token"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "expired_token"},
		{"deleted account", "Bearer " + unknown, http.StatusUnauthorized, "user_not_found"},
		{"valid", "Bearer " + valid, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sawUser := false
			handler := Authenticate(tokens, users)(okHandler(t, &sawUser))

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, errorKind(t, rec))
				assert.False(t, sawUser, "handler must not run on auth failure")
			} else {
				assert.True(t, sawUser)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	withUser := func(role string) *http.Request {
		user := models.User{ID: primitive.NewObjectID(), Role: role}
		req := httptest.NewRequest(http.MethodDelete, "/api/trips/abc", nil)
		ctx := context.WithValue(req.Context(), userContextKey, &user)
		return req.WithContext(ctx)
	}

	t.Run("allowed role", func(t *testing.T) {
		sawUser := false
		rec := httptest.NewRecorder()
		Authorize(models.RoleAdmin)(okHandler(t, &sawUser)).ServeHTTP(rec, withUser(models.RoleAdmin))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("one of several roles", func(t *testing.T) {
		sawUser := false
		rec := httptest.NewRecorder()
		Authorize(models.RoleAdmin, models.RoleCarOwner)(okHandler(t, &sawUser)).ServeHTTP(rec, withUser(models.RoleCarOwner))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		sawUser := false
		rec := httptest.NewRecorder()
		Authorize(models.RoleAdmin)(okHandler(t, &sawUser)).ServeHTTP(rec, withUser(models.RoleUser))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "forbidden", errorKind(t, rec))
		assert.False(t, sawUser)
	})

	t.Run("no authenticated user", func(t *testing.T) {
		sawUser := false
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/trips/abc", nil)
		Authorize(models.RoleAdmin)(okHandler(t, &sawUser)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthenticated", errorKind(t, rec))
	})
}
