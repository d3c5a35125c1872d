package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName        = "session"
	CSRFCookieName    = "XSRF-TOKEN"
	CSRFHeaderName    = "X-XSRF-TOKEN"
	loginCookiePrefix = "login#"
	loginStateMaxAge  = time.Hour
)

// ErrInvalidCookie is returned when a cookie is missing, expired or badly signed
var ErrInvalidCookie = errors.New("invalid session cookie")

// LoginState is remembered between the login redirect and the callback
type LoginState struct {
	State        string `json:"state"`
	CodeVerifier string `json:"code_verifier"`
	ReturnURL    string `json:"return_url,omitempty"`
	TenantDomain string `json:"tenant_domain,omitempty"`
}

type loginClaims struct {
	LoginState
	jwt.RegisteredClaims
}

// Manager ties the session store to the signed cookies sent to the browser
type Manager struct {
	store  Store
	secret []byte
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(store Store, secret string, maxAge time.Duration, secure bool) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		maxAge: maxAge,
		secure: secure,
		now:    time.Now,
	}
}

// MaxAge is the inactivity timeout of a session
func (m *Manager) MaxAge() time.Duration {
	return m.maxAge
}

// New returns an unsaved session with a fresh id and CSRF secret
func (m *Manager) New() (*Session, error) {
	secret, err := NewCSRFSecret()
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:         newID(),
		CSRFSecret: secret,
		CreatedAt:  m.now(),
	}, nil
}

// Load resolves the session cookie to its stored session
func (m *Manager) Load(c *gin.Context) (*Session, error) {
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return nil, ErrInvalidCookie
	}

	claims := &jwt.RegisteredClaims{}
	if _, err := m.parse(raw, claims); err != nil {
		return nil, ErrInvalidCookie
	}
	if claims.ID == "" {
		return nil, ErrInvalidCookie
	}

	return m.store.Get(c.Request.Context(), claims.ID)
}

// Save stores the session for another max-age period and re-issues its cookie
func (m *Manager) Save(c *gin.Context, s *Session) error {
	if err := m.store.Save(c.Request.Context(), s, m.maxAge); err != nil {
		return err
	}

	now := m.now()
	token, err := m.sign(&jwt.RegisteredClaims{
		ID:        s.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
	})
	if err != nil {
		return err
	}

	m.setCookie(c, CookieName, token, int(m.maxAge.Seconds()), true)
	return nil
}

// Destroy deletes the stored session, when there is one, and clears both cookies
func (m *Manager) Destroy(c *gin.Context, s *Session) error {
	m.setCookie(c, CookieName, "", -1, true)
	m.setCookie(c, CSRFCookieName, "", -1, false)
	if s == nil {
		return nil
	}
	return m.store.Delete(c.Request.Context(), s.ID)
}

// IssueCSRFCookie writes a fresh token for the session into the JS readable cookie
func (m *Manager) IssueCSRFCookie(c *gin.Context, s *Session) error {
	token, err := CSRFToken(s.CSRFSecret)
	if err != nil {
		return err
	}
	m.setCookie(c, CSRFCookieName, token, int(m.maxAge.Seconds()), false)
	return nil
}

// SaveLoginState keeps the state, PKCE verifier and return URL in a signed
// cookie named after the state value
func (m *Manager) SaveLoginState(c *gin.Context, ls LoginState) error {
	now := m.now()
	token, err := m.sign(&loginClaims{
		LoginState: ls,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(loginStateMaxAge)),
		},
	})
	if err != nil {
		return err
	}
	m.setCookie(c, loginCookiePrefix+ls.State, token, int(loginStateMaxAge.Seconds()), true)
	return nil
}

// TakeLoginState reads and clears the login-state cookie for the given state
func (m *Manager) TakeLoginState(c *gin.Context, state string) (*LoginState, error) {
	if state == "" {
		return nil, ErrInvalidCookie
	}
	name := loginCookiePrefix + state
	raw, err := c.Cookie(name)
	if err != nil || raw == "" {
		return nil, ErrInvalidCookie
	}
	m.setCookie(c, name, "", -1, true)

	claims := &loginClaims{}
	if _, err := m.parse(raw, claims); err != nil {
		return nil, ErrInvalidCookie
	}
	if claims.State != state {
		return nil, ErrInvalidCookie
	}
	return &claims.LoginState, nil
}

func (m *Manager) sign(claims jwt.Claims) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign cookie: %w", err)
	}
	return token, nil
}

func (m *Manager) parse(raw string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
}

func (m *Manager) setCookie(c *gin.Context, name, value string, maxAge int, httpOnly bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", m.secure, httpOnly)
}
