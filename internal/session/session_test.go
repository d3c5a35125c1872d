package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestContext(cookies ...*http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	c.Request = req
	return c, w
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestManagerSaveAndLoad(t *testing.T) {
	m := NewManager(NewMemoryStore(), testSecret, 30*time.Minute, true)

	s, err := m.New()
	require.NoError(t, err)
	s.IsAuthenticated = true
	s.UserID = "user-1"

	c, w := newTestContext()
	require.NoError(t, m.Save(c, s))

	ck := findCookie(w, CookieName)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, 1800, ck.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)

	c2, _ := newTestContext(&http.Cookie{Name: CookieName, Value: ck.Value})
	loaded, err := m.Load(c2)
	require.NoError(t, err)
	assert.Equal(t, "user-1", loaded.UserID)
	assert.Equal(t, s.CSRFSecret, loaded.CSRFSecret)
}

func TestManagerLoadRejectsForeignSignature(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, testSecret, time.Minute, false)
	other := NewManager(store, "ffffffffffffffffffffffffffffffff", time.Minute, false)

	s, err := other.New()
	require.NoError(t, err)
	c, w := newTestContext()
	require.NoError(t, other.Save(c, s))

	ck := findCookie(w, CookieName)
	require.NotNil(t, ck)

	c2, _ := newTestContext(&http.Cookie{Name: CookieName, Value: ck.Value})
	_, err = m.Load(c2)
	assert.ErrorIs(t, err, ErrInvalidCookie)
}

func TestManagerLoadWithoutCookie(t *testing.T) {
	m := NewManager(NewMemoryStore(), testSecret, time.Minute, false)
	c, _ := newTestContext()
	_, err := m.Load(c)
	assert.ErrorIs(t, err, ErrInvalidCookie)
}

func TestManagerDestroy(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, testSecret, time.Minute, false)

	s, err := m.New()
	require.NoError(t, err)
	c, _ := newTestContext()
	require.NoError(t, m.Save(c, s))

	c2, w := newTestContext()
	require.NoError(t, m.Destroy(c2, s))

	_, err = store.Get(context.Background(), s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, name := range []string{CookieName, CSRFCookieName} {
		ck := findCookie(w, name)
		require.NotNil(t, ck, name)
		assert.Equal(t, "", ck.Value)
		assert.True(t, ck.MaxAge < 0)
	}
}

func TestLoginStateRoundTrip(t *testing.T) {
	m := NewManager(NewMemoryStore(), testSecret, time.Minute, false)

	c, w := newTestContext()
	require.NoError(t, m.SaveLoginState(c, LoginState{
		State:        "abc123",
		CodeVerifier: "verifier",
		ReturnURL:    "http://localhost:3000/recipes",
	}))

	ck := findCookie(w, "login#abc123")
	require.NotNil(t, ck)

	c2, w2 := newTestContext(&http.Cookie{Name: ck.Name, Value: ck.Value})
	ls, err := m.TakeLoginState(c2, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "verifier", ls.CodeVerifier)
	assert.Equal(t, "http://localhost:3000/recipes", ls.ReturnURL)

	cleared := findCookie(w2, "login#abc123")
	require.NotNil(t, cleared)
	assert.True(t, cleared.MaxAge < 0)

	c3, _ := newTestContext(&http.Cookie{Name: ck.Name, Value: ck.Value})
	_, err = m.TakeLoginState(c3, "other")
	assert.ErrorIs(t, err, ErrInvalidCookie)
}

func TestCSRFToken(t *testing.T) {
	secret, err := NewCSRFSecret()
	require.NoError(t, err)

	token, err := CSRFToken(secret)
	require.NoError(t, err)
	assert.True(t, VerifyCSRFToken(secret, token))

	other, err := NewCSRFSecret()
	require.NoError(t, err)
	assert.False(t, VerifyCSRFToken(other, token))
	assert.False(t, VerifyCSRFToken(secret, ""))
	assert.False(t, VerifyCSRFToken(secret, "no-dash-mac"))
	assert.False(t, VerifyCSRFToken("", token))

	second, err := CSRFToken(secret)
	require.NoError(t, err)
	assert.NotEqual(t, token, second)
	assert.True(t, VerifyCSRFToken(secret, second))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(context.Background(), &Session{ID: "s1"}, time.Minute))
	_, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreSaveDropsExpiredEntries(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		require.NoError(t, store.Save(ctx, &Session{ID: fmt.Sprintf("short-%d", i)}, time.Millisecond))
	}
	require.NoError(t, store.Save(ctx, &Session{ID: "long"}, time.Hour))

	now = now.Add(time.Second)
	require.NoError(t, store.Save(ctx, &Session{ID: "fresh"}, time.Hour))

	assert.Len(t, store.entries, 2)
	_, err := store.Get(ctx, "long")
	assert.NoError(t, err)
}

func TestSessionExpiresWithin(t *testing.T) {
	now := time.Now()
	s := &Session{ExpiresAt: now.Add(30 * time.Second)}
	assert.True(t, s.ExpiresWithin(now, time.Minute))

	s.ExpiresAt = now.Add(5 * time.Minute)
	assert.False(t, s.ExpiresWithin(now, time.Minute))

	s.ExpiresAt = time.Time{}
	assert.False(t, s.ExpiresWithin(now, time.Minute))
}

func TestSessionApplyKeepsRefreshToken(t *testing.T) {
	s := &Session{RefreshToken: "old"}
	s.Apply(&TokenSet{AccessToken: "a", ExpiresAt: time.Unix(100, 0)})
	assert.Equal(t, "a", s.AccessToken)
	assert.Equal(t, "old", s.RefreshToken)

	s.Apply(&TokenSet{AccessToken: "b", RefreshToken: "new"})
	assert.Equal(t, "new", s.RefreshToken)
}
