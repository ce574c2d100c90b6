package services

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/triporia/triporia-backend/internal/models"
	"github.com/triporia/triporia-backend/internal/store"
)

// memUserStore is an in-memory store.UserStore for exercising the identity
// service without a database.
type memUserStore struct {
	users map[primitive.ObjectID]models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (m *memUserStore) find(match func(models.User) bool) (*models.User, error) {
	for _, u := range m.users {
		if match(u) {
			copied := u
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Email == email })
}

func (m *memUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.ID == id })
}

func (m *memUserStore) FindByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.GoogleID != "" && u.GoogleID == googleID })
}

func (m *memUserStore) Create(_ context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memUserStore) Save(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return store.ErrNotFound
	}
	m.users[user.ID] = *user
	return nil
}

type fakeGoogleVerifier struct {
	profile *GoogleProfile
	err     error
}

func (f *fakeGoogleVerifier) Verify(context.Context, string) (*GoogleProfile, error) {
	return f.profile, f.err
}

type fakeGoogleExchanger struct {
	profile *GoogleProfile
	err     error
}

func (f *fakeGoogleExchanger) Exchange(context.Context, string) (*GoogleProfile, error) {
	return f.profile, f.err
}

func newTestIdentity(users store.UserStore, verifier GoogleVerifier, exchanger GoogleExchanger) *IdentityService {
	return NewIdentityService(users, NewTokenService("test-secret"), verifier, exchanger)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestIdentity(newMemUserStore(), nil, nil)

	res, err := svc.Register(ctx, "Asha", "asha@example.com", "hunter22", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, res.User.Role)
	assert.True(t, res.User.Verified, "plain user accounts are verified on sign-up")
	assert.Empty(t, res.User.Password, "hash must not leak in the result")
	assert.NotEmpty(t, res.Token)

	login, err := svc.Login(ctx, "asha@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestIdentity(newMemUserStore(), nil, nil)

	_, err := svc.Register(ctx, "Asha", "asha@example.com", "hunter22", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other", "asha@example.com", "different", "")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterPrivilegedRolesUnverified(t *testing.T) {
	ctx := context.Background()

	for _, role := range []string{models.RoleAdmin, models.RoleCarOwner} {
		svc := newTestIdentity(newMemUserStore(), nil, nil)
		res, err := svc.Register(ctx, "Asha", "asha@example.com", "hunter22", role)
		require.NoError(t, err)
		assert.False(t, res.User.Verified, "role %s must start unverified", role)

		_, err = svc.Login(ctx, "asha@example.com", "hunter22")
		assert.ErrorIs(t, err, ErrNotVerified, "role %s", role)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newTestIdentity(newMemUserStore(), nil, nil)
	_, err := svc.Register(context.Background(), "Asha", "asha@example.com", "hunter22", "superuser")
	assert.True(t, IsValidation(err), "got %v", err)
}

func TestLoginBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newTestIdentity(newMemUserStore(), nil, nil)

	_, err := svc.Register(ctx, "Asha", "asha@example.com", "hunter22", "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "asha@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email must look like a bad password")
}

func TestGoogleLoginCreatesVerifiedUser(t *testing.T) {
	ctx := context.Background()
	users := newMemUserStore()
	svc := newTestIdentity(users, &fakeGoogleVerifier{profile: &GoogleProfile{
		GoogleID: "g-123",
		Email:    "asha@example.com",
		Name:     "Asha",
		Picture:  "https://example.com/p.png",
	}}, nil)

	res, err := svc.GoogleLogin(ctx, "raw-id-token")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, res.User.Role)
	assert.True(t, res.User.Verified)
	assert.Equal(t, models.AuthTypeGoogle, res.User.AuthType)
	assert.Len(t, users.users, 1)

	// The same assertion on repeat login resolves by googleId and does not
	// create a second record.
	again, err := svc.GoogleLogin(ctx, "raw-id-token")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, again.User.ID)
	assert.Len(t, users.users, 1)
}

func TestGoogleLoginBackfillsLocalAccount(t *testing.T) {
	ctx := context.Background()
	users := newMemUserStore()
	svc := newTestIdentity(users, &fakeGoogleVerifier{profile: &GoogleProfile{
		GoogleID: "g-123",
		Email:    "asha@example.com",
		Name:     "Asha",
	}}, nil)

	// A pre-existing local account with the same email, still unverified.
	reg, err := svc.Register(ctx, "Asha", "asha@example.com", "hunter22", models.RoleCarOwner)
	require.NoError(t, err)

	res, err := svc.GoogleLogin(ctx, "raw-id-token")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID, "must link to the existing account, not create one")
	assert.True(t, res.User.Verified)
	assert.Len(t, users.users, 1)

	stored, err := users.FindByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "g-123", stored.GoogleID)
	assert.Equal(t, models.RoleCarOwner, stored.Role, "role is preserved on backfill")
}

func TestGoogleLoginNotConfigured(t *testing.T) {
	svc := newTestIdentity(newMemUserStore(), nil, nil)
	_, err := svc.GoogleLogin(context.Background(), "raw-id-token")
	assert.ErrorIs(t, err, ErrGoogleNotConfigured)
}

func TestGoogleLoginBadToken(t *testing.T) {
	svc := newTestIdentity(newMemUserStore(), &fakeGoogleVerifier{err: ErrInvalidProviderToken}, nil)
	_, err := svc.GoogleLogin(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidProviderToken)
}

func TestGoogleCallbackUsesStateRole(t *testing.T) {
	ctx := context.Background()
	users := newMemUserStore()
	svc := newTestIdentity(users, nil, &fakeGoogleExchanger{profile: &GoogleProfile{
		GoogleID: "g-456",
		Email:    "owner@example.com",
		Name:     "Owner",
	}})

	state := base64.StdEncoding.EncodeToString([]byte(`{"role":"car_owner"}`))
	res, err := svc.GoogleCallback(ctx, "auth-code", state)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCarOwner, res.User.Role)
	assert.True(t, res.User.Verified)
}

func TestRoleFromState(t *testing.T) {
	tests := []struct {
		name  string
		state string
		want  string
	}{
		{"empty", "", models.RoleUser},
		{"not base64", "%%%", models.RoleUser},
		{"not json", base64.StdEncoding.EncodeToString([]byte("hello")), models.RoleUser},
		{"unknown role", base64.StdEncoding.EncodeToString([]byte(`{"role":"root"}`)), models.RoleUser},
		{"admin", base64.StdEncoding.EncodeToString([]byte(`{"role":"admin"}`)), models.RoleAdmin},
		{"car owner", base64.StdEncoding.EncodeToString([]byte(`{"role":"car_owner"}`)), models.RoleCarOwner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roleFromState(tt.state))
		})
	}
}

func TestVerifyUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestIdentity(newMemUserStore(), nil, nil)

	reg, err := svc.Register(ctx, "Asha", "asha@example.com", "hunter22", models.RoleAdmin)
	require.NoError(t, err)
	require.False(t, reg.User.Verified)

	user, err := svc.VerifyUser(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.True(t, user.Verified)

	_, err = svc.Login(ctx, "asha@example.com", "hunter22")
	assert.NoError(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	svc := newTestIdentity(newMemUserStore(), nil, nil)

	_, err := svc.Register(ctx, "Asha", "asha@example.com", "hunter22", "")
	require.NoError(t, err)

	token, err := svc.ForgotPassword(ctx, "asha@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, token, "new-password"))

	_, err = svc.Login(ctx, "asha@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "old password must stop working")

	_, err = svc.Login(ctx, "asha@example.com", "new-password")
	assert.NoError(t, err)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc := newTestIdentity(newMemUserStore(), nil, nil)
	_, err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
