package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/pageza/porkchop/backend/internal/session"
)

var wristbandScopes = []string{"openid", "offline_access", "email", "profile"}

// WristbandConfig holds the OAuth client registration
type WristbandConfig struct {
	// ApplicationDomain is the vanity domain of the Wristband application. A
	// value with a scheme is used as-is for every endpoint.
	ApplicationDomain string
	ClientID          string
	ClientSecret      string
	CallbackURL       string
}

// UserInfo is the subset of the userinfo claims stored on the session
type UserInfo struct {
	Sub      string `json:"sub"`
	TenantID string `json:"tnt_id"`
	IDPName  string `json:"idp_name"`
	Email    string `json:"email"`
}

// WristbandService runs the authorization code flow against Wristband
type WristbandService struct {
	cfg    WristbandConfig
	client *http.Client
}

// NewWristbandService creates a new WristbandService instance
func NewWristbandService(cfg WristbandConfig) *WristbandService {
	return &WristbandService{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (w *WristbandService) explicitBase() bool {
	return strings.Contains(w.cfg.ApplicationDomain, "://")
}

func (w *WristbandService) appBase() string {
	if w.explicitBase() {
		return strings.TrimRight(w.cfg.ApplicationDomain, "/")
	}
	return "https://" + w.cfg.ApplicationDomain
}

// tenantBase is the tenant's own host, "<tenant>-<application domain>"
func (w *WristbandService) tenantBase(tenant string) string {
	if w.explicitBase() || tenant == "" {
		return w.appBase()
	}
	return "https://" + tenant + "-" + w.cfg.ApplicationDomain
}

func (w *WristbandService) oauthConfig(tenant string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     w.cfg.ClientID,
		ClientSecret: w.cfg.ClientSecret,
		RedirectURL:  w.cfg.CallbackURL,
		Scopes:       wristbandScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   w.tenantBase(tenant) + "/api/v1/oauth2/authorize",
			TokenURL:  w.appBase() + "/api/v1/oauth2/token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

func (w *WristbandService) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, w.client)
}

// AuthorizeURL builds the authorize redirect for tenant with a PKCE challenge
// derived from verifier
func (w *WristbandService) AuthorizeURL(tenant, state, verifier string) string {
	opts := []oauth2.AuthCodeOption{oauth2.S256ChallengeOption(verifier)}
	if w.explicitBase() && tenant != "" {
		opts = append(opts, oauth2.SetAuthURLParam("tenant_domain", tenant))
	}
	return w.oauthConfig(tenant).AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for tokens
func (w *WristbandService) Exchange(ctx context.Context, code, verifier string) (*session.TokenSet, error) {
	token, err := w.oauthConfig("").Exchange(w.withClient(ctx), code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return tokenSet(token), nil
}

// RefreshTokens trades a refresh token for a new token set
func (w *WristbandService) RefreshTokens(ctx context.Context, refreshToken string) (*session.TokenSet, error) {
	expired := &oauth2.Token{RefreshToken: refreshToken, Expiry: time.Now().Add(-time.Minute)}
	token, err := w.oauthConfig("").TokenSource(w.withClient(ctx), expired).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return tokenSet(token), nil
}

// UserInfo fetches the claims of the user the access token belongs to
func (w *WristbandService) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	client := oauth2.NewClient(w.withClient(ctx), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.appBase()+"/api/v1/oauth2/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to parse userinfo: %w", err)
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("userinfo has no subject")
	}
	return &info, nil
}

// RevokeRefreshToken invalidates a refresh token at Wristband
func (w *WristbandService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	form := url.Values{"token": {refreshToken}, "token_type_hint": {"refresh_token"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.appBase()+"/api/v1/oauth2/revoke", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(url.QueryEscape(w.cfg.ClientID), url.QueryEscape(w.cfg.ClientSecret))

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("revoke request failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// LogoutURL is the tenant's logout endpoint, which ends the Wristband session
// and lands the user on the login page
func (w *WristbandService) LogoutURL(tenant string) string {
	q := url.Values{"client_id": {w.cfg.ClientID}}
	if w.explicitBase() && tenant != "" {
		q.Set("tenant_domain", tenant)
	}
	return w.tenantBase(tenant) + "/api/v1/logout?" + q.Encode()
}

func tokenSet(token *oauth2.Token) *session.TokenSet {
	return &session.TokenSet{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
}
