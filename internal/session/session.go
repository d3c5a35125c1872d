// Package session keeps the server-side login session. The browser only holds
// a signed cookie carrying the session id; tokens and the CSRF secret stay in
// the store.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrNotFound is returned by a Store when no live session has the given id
var ErrNotFound = errors.New("session not found")

const contextKey = "session"

// Session is the server-side record behind the session cookie
type Session struct {
	ID                   string    `json:"id"`
	IsAuthenticated      bool      `json:"is_authenticated"`
	UserID               string    `json:"user_id,omitempty"`
	Email                string    `json:"email,omitempty"`
	TenantID             string    `json:"tenant_id,omitempty"`
	TenantDomainName     string    `json:"tenant_domain_name,omitempty"`
	IdentityProviderName string    `json:"identity_provider_name,omitempty"`
	AccessToken          string    `json:"access_token,omitempty"`
	RefreshToken         string    `json:"refresh_token,omitempty"`
	ExpiresAt            time.Time `json:"expires_at"`
	CSRFSecret           string    `json:"csrf_secret,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

// TokenSet is what the identity provider hands back on code exchange or refresh
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Apply copies the tokens onto the session. An empty refresh token keeps the old one.
func (s *Session) Apply(tokens *TokenSet) {
	s.AccessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		s.RefreshToken = tokens.RefreshToken
	}
	s.ExpiresAt = tokens.ExpiresAt
}

// ExpiresWithin reports whether the access token expires before now+d
func (s *Session) ExpiresWithin(now time.Time, d time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return now.Add(d).After(s.ExpiresAt)
}

// Store persists sessions with a time to live
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

func newID() string {
	return uuid.NewString()
}

// SetContext attaches the session to the request
func SetContext(c *gin.Context, s *Session) {
	c.Set(contextKey, s)
}

// FromContext returns the session loaded by the auth middleware
func FromContext(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok && s != nil
}
