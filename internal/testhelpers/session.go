package testhelpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/porkchop/backend/internal/session"
)

// TestSessionSecret is long enough to pass config validation
const TestSessionSecret = "test-session-secret-0123456789abcdef"

// NewSessionManager returns a manager over an in-memory store
func NewSessionManager() *session.Manager {
	return session.NewManager(session.NewMemoryStore(), TestSessionSecret, 30*time.Minute, false)
}

// AuthenticatedSession stores an authenticated session for userID and returns
// the session cookie plus a CSRF token valid for it
func AuthenticatedSession(t *testing.T, m *session.Manager, userID string) (*session.Session, *http.Cookie, string) {
	t.Helper()

	s, err := m.New()
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	s.IsAuthenticated = true
	s.UserID = userID
	s.TenantID = "tenant-1"
	s.AccessToken = "access-token"
	s.ExpiresAt = time.Now().Add(time.Hour)

	return s, SaveSession(t, m, s), CSRFToken(t, s)
}

// SaveSession writes s and returns the cookie the browser would receive
func SaveSession(t *testing.T, m *session.Manager, s *session.Session) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if err := m.Save(c, s); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}
	for _, ck := range w.Result().Cookies() {
		if ck.Name == session.CookieName {
			return &http.Cookie{Name: ck.Name, Value: ck.Value}
		}
	}
	t.Fatalf("session cookie not set")
	return nil
}

// CSRFToken returns a valid X-XSRF-TOKEN value for s
func CSRFToken(t *testing.T, s *session.Session) string {
	t.Helper()
	token, err := session.CSRFToken(s.CSRFSecret)
	if err != nil {
		t.Fatalf("failed to create csrf token: %v", err)
	}
	return token
}
