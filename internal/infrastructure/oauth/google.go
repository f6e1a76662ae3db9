package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

// GoogleConfig holds the OAuth client registration. The URL fields are
// optional and default to Google's endpoints.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

// Google implements ports.IdentityProvider for Google sign-in.
type Google struct {
	oauth       *oauth2.Config
	userInfoURL string
}

func NewGoogle(cfg GoogleConfig) (*Google, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("google oauth: client id, secret and redirect url are required")
	}
	g := &Google{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   orDefault(cfg.AuthURL, googleAuthURL),
				TokenURL:  orDefault(cfg.TokenURL, googleTokenURL),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: orDefault(cfg.UserInfoURL, googleUserInfoURL),
	}
	return g, nil
}

func (g *Google) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

type googleUser struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Exchange trades the callback code for tokens and fetches the profile.
func (g *Google) Exchange(ctx context.Context, code string) (*ports.FederatedIdentity, error) {
	if code == "" {
		return nil, domain.NewValidationError("missing authorization code")
	}

	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange failed", domain.ErrUnauthenticated)
	}

	resp, err := g.oauth.Client(ctx, tok).Get(g.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch google profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch google profile: status %d", resp.StatusCode)
	}

	var u googleUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode google profile: %w", err)
	}
	if u.Sub == "" || u.Email == "" {
		return nil, domain.NewValidationError("google profile is missing id or email")
	}
	if !u.EmailVerified {
		return nil, domain.NewValidationError("google email is not verified")
	}

	id := &ports.FederatedIdentity{
		Provider:     domain.ProviderGoogle,
		ProviderID:   u.Sub,
		Email:        u.Email,
		Name:         u.Name,
		Picture:      u.Picture,
		RefreshToken: tok.RefreshToken,
	}
	if !tok.Expiry.IsZero() {
		exp := tok.Expiry.UTC().Truncate(time.Second)
		id.TokenExpiry = &exp
	}
	return id, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
