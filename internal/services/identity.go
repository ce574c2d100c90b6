package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/triporia/triporia-backend/internal/models"
	"github.com/triporia/triporia-backend/internal/store"
	"github.com/triporia/triporia-backend/pkg/utils"
)

// AuthResult is what every login/registration protocol terminates in:
// exactly one user record plus a bearer token for it.
type AuthResult struct {
	User  models.User
	Token string
}

// IdentityService resolves local credentials and Google identity assertions
// to user records.
type IdentityService struct {
	users     store.UserStore
	tokens    *TokenService
	verifier  GoogleVerifier
	exchanger GoogleExchanger
}

func NewIdentityService(users store.UserStore, tokens *TokenService, verifier GoogleVerifier, exchanger GoogleExchanger) *IdentityService {
	return &IdentityService{
		users:     users,
		tokens:    tokens,
		verifier:  verifier,
		exchanger: exchanger,
	}
}

func (s *IdentityService) result(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID.Hex(), user.Role, DefaultTokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user.Sanitized(), Token: token}, nil
}

// Register creates a local account. Accounts registered with the plain
// "user" role are verified immediately; admin and car_owner sign-ups stay
// unverified until an admin approves them.
func (s *IdentityService) Register(ctx context.Context, name, email, password, role string) (*AuthResult, error) {
	if name == "" || email == "" || password == "" {
		return nil, validationErr("name, email and password are required")
	}
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, validationErr("invalid role")
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     role,
		AuthType: models.AuthTypeLocal,
		Verified: role == models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.result(user)
}

// Login authenticates local credentials. Unknown email and wrong password
// are indistinguishable to the caller; the verified check runs only after
// the credentials match.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, validationErr("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.Verified {
		return nil, ErrNotVerified
	}

	return s.result(user)
}

// GoogleLogin handles the ID-token flow. Resolution order: googleId first,
// then email; a user matched by email without a googleId gets it backfilled
// and is marked verified. A previously unseen identity becomes a new
// verified "user" account.
func (s *IdentityService) GoogleLogin(ctx context.Context, rawIDToken string) (*AuthResult, error) {
	if s.verifier == nil {
		return nil, ErrGoogleNotConfigured
	}
	profile, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByGoogleID(ctx, profile.GoogleID)
	if errors.Is(err, store.ErrNotFound) {
		user, err = s.users.FindByEmail(ctx, profile.Email)
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		user, err = s.createGoogleUser(ctx, profile, models.RoleUser)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case user.GoogleID == "":
		user.GoogleID = profile.GoogleID
		user.Verified = true
		user.ProfilePicture = profile.Picture
		if err := s.users.Save(ctx, user); err != nil {
			return nil, err
		}
	}

	return s.result(user)
}

// GoogleCallback handles the redirect flow. Resolution keys on email only.
// The opaque state may carry a requested role for account creation; it is
// untrusted input, so anything undecodable or outside the role enum falls
// back to "user" without failing the flow.
func (s *IdentityService) GoogleCallback(ctx context.Context, code, state string) (*AuthResult, error) {
	if code == "" {
		return nil, validationErr("missing authorization code")
	}

	profile, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, profile.Email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		user, err = s.createGoogleUser(ctx, profile, roleFromState(state))
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	return s.result(user)
}

func (s *IdentityService) createGoogleUser(ctx context.Context, profile *GoogleProfile, role string) (*models.User, error) {
	// Google accounts never log in locally; store a random hashed password
	// so the record still satisfies the schema.
	password, err := randomPassword()
	if err != nil {
		return nil, err
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:           profile.Name,
		Email:          profile.Email,
		Password:       hashed,
		Role:           role,
		GoogleID:       profile.GoogleID,
		ProfilePicture: profile.Picture,
		AuthType:       models.AuthTypeGoogle,
		Verified:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// roleFromState decodes the base64 JSON {"role": ...} state parameter.
// It never fails: garbage state or an unknown role yields "user".
func roleFromState(state string) string {
	if state == "" {
		return models.RoleUser
	}
	raw, err := base64.StdEncoding.DecodeString(state)
	if err != nil {
		log.Printf("⚠️  Failed to decode oauth state: %v", err)
		return models.RoleUser
	}
	var decoded struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		log.Printf("⚠️  Failed to parse oauth state: %v", err)
		return models.RoleUser
	}
	if !models.ValidRole(decoded.Role) {
		return models.RoleUser
	}
	return decoded.Role
}

func randomPassword() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// CurrentUser loads the user behind a verified token identifier.
func (s *IdentityService) CurrentUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// VerifyUser marks an account verified. Admin-only; the route guard
// enforces that.
func (s *IdentityService) VerifyUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	user.Verified = true
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// ForgotPassword issues a short-lived reset token for the account.
// TODO: send the token by email once an email provider is wired up; until
// then the handler only returns it in development.
func (s *IdentityService) ForgotPassword(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", validationErr("email is required")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(user.ID.Hex(), user.Role, ResetTokenTTL)
}

// ResetPassword verifies a reset token and replaces the account password.
func (s *IdentityService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return validationErr("password is required")
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	return s.users.Save(ctx, user)
}
