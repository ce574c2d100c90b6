package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// GoogleProfile is the identity assertion extracted from a verified Google
// token or userinfo response.
type GoogleProfile struct {
	GoogleID string
	Email    string
	Name     string
	Picture  string
}

// GoogleVerifier verifies a Google ID token (the POST /google-login flow).
type GoogleVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*GoogleProfile, error)
}

// GoogleExchanger exchanges an authorization code for a profile (the
// redirect/callback flow).
type GoogleExchanger interface {
	Exchange(ctx context.Context, code string) (*GoogleProfile, error)
}

type idTokenVerifier struct {
	clientID string
}

// NewGoogleVerifier returns a verifier that checks ID tokens against
// Google's public keys and the configured OAuth client ID audience.
func NewGoogleVerifier(clientID string) GoogleVerifier {
	return &idTokenVerifier{clientID: clientID}
}

func (v *idTokenVerifier) Verify(ctx context.Context, rawIDToken string) (*GoogleProfile, error) {
	payload, err := idtoken.Validate(ctx, rawIDToken, v.clientID)
	if err != nil {
		return nil, ErrInvalidProviderToken
	}

	profile := &GoogleProfile{
		GoogleID: payload.Subject,
		Email:    claimString(payload.Claims, "email"),
		Name:     claimString(payload.Claims, "name"),
		Picture:  claimString(payload.Claims, "picture"),
	}
	if profile.GoogleID == "" || profile.Email == "" {
		return nil, ErrInvalidProviderToken
	}
	return profile, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleOAuth drives the redirect/callback login. AuthURL sends the browser
// to Google's consent screen; Exchange turns the returned code into a
// profile via the userinfo endpoint.
type GoogleOAuth struct {
	conf *oauth2.Config
}

func NewGoogleOAuth(clientID, clientSecret, callbackURL string) *GoogleOAuth {
	return &GoogleOAuth{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     googleoauth.Endpoint,
		},
	}
}

// AuthURL returns the consent-screen URL carrying the opaque state through
// the round trip.
func (g *GoogleOAuth) AuthURL(state string) string {
	return g.conf.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, ErrInvalidProviderToken
	}

	resp, err := g.conf.Client(ctx, token).Get(googleUserinfoURL)
	if err != nil {
		return nil, fmt.Errorf("google userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, ErrInvalidProviderToken
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("google userinfo decode: %w", err)
	}
	if info.ID == "" || info.Email == "" {
		return nil, ErrInvalidProviderToken
	}

	return &GoogleProfile{
		GoogleID: info.ID,
		Email:    info.Email,
		Name:     info.Name,
		Picture:  info.Picture,
	}, nil
}
