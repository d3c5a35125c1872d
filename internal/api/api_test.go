package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/porkchop/backend/internal/api"
	"github.com/pageza/porkchop/backend/internal/middleware"
	"github.com/pageza/porkchop/backend/internal/service"
	"github.com/pageza/porkchop/backend/internal/session"
	"github.com/pageza/porkchop/backend/internal/testhelpers"
	"github.com/pageza/porkchop/backend/internal/types"
)

const appURL = "http://localhost:3000"

type fakeIdentity struct {
	tokens   *session.TokenSet
	info     *service.UserInfo
	exchErr  error
	revoked  []string
	verifier string
}

func (f *fakeIdentity) AuthorizeURL(tenant, state, verifier string) string {
	return "https://" + tenant + ".idp.example.com/authorize?state=" + state
}

func (f *fakeIdentity) Exchange(_ context.Context, code, verifier string) (*session.TokenSet, error) {
	f.verifier = verifier
	if f.exchErr != nil {
		return nil, f.exchErr
	}
	return f.tokens, nil
}

func (f *fakeIdentity) RefreshTokens(context.Context, string) (*session.TokenSet, error) {
	return f.tokens, nil
}

func (f *fakeIdentity) UserInfo(context.Context, string) (*service.UserInfo, error) {
	return f.info, nil
}

func (f *fakeIdentity) RevokeRefreshToken(_ context.Context, refreshToken string) error {
	f.revoked = append(f.revoked, refreshToken)
	return nil
}

func (f *fakeIdentity) LogoutURL(tenant string) string {
	return "https://" + tenant + ".idp.example.com/logout"
}

type fakeSignUp struct {
	user *service.AuthUser
	err  error
}

func (f *fakeSignUp) SignUp(context.Context, string, string) (*service.AuthUser, error) {
	return f.user, f.err
}

type fakeChef struct {
	err   error
	query string
}

func (f *fakeChef) Ask(_ context.Context, query string, recipe types.ChefRecipe) (*types.ChefResponse, error) {
	f.query = query
	if f.err != nil {
		return nil, f.err
	}
	return &types.ChefResponse{
		Response:     "Cook it until golden, about " + recipe.CookTime + ".",
		QuickReplies: service.QuickReplies(query),
	}, nil
}

type harness struct {
	router   *gin.Engine
	db       *gorm.DB
	sessions *session.Manager
	idp      *fakeIdentity
	signup   *fakeSignUp
	chef     *fakeChef
	users    *service.UserService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLite(t)
	log := zap.NewNop()
	users := service.NewUserService(db)

	h := &harness{
		db:       db,
		sessions: testhelpers.NewSessionManager(),
		idp: &fakeIdentity{
			tokens: &session.TokenSet{AccessToken: "access", RefreshToken: "refresh"},
			info:   &service.UserInfo{Sub: "user-1", TenantID: "tenant-1", IDPName: "Wristband", Email: "cook@example.com"},
		},
		signup: &fakeSignUp{},
		chef:   &fakeChef{},
		users:  users,
	}

	reg := prometheus.NewRegistry()
	r := gin.New()
	r.Use(middleware.ErrorHandler(log))
	api.RegisterRoutes(r, api.Dependencies{
		Sessions:      h.sessions,
		Identity:      h.idp,
		SignUp:        h.signup,
		Users:         users,
		Subscriptions: service.NewSubscriptionService(db, users, log),
		Recipes:       service.NewRecipeService(db, nil, log),
		Analytics:     service.NewAnalyticsService(db),
		Chef:          h.chef,
		Metrics:       middleware.NewMetrics(reg),
		Gatherer:      reg,
		Auth: api.AuthConfig{
			AppDomainURL:  appURL,
			LoginURL:      "/api/auth/login",
			DefaultTenant: "global",
		},
		Logger: log,
	})
	h.router = r
	return h
}

func (h *harness) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

// authed sends a protected request carrying a valid session and CSRF header
func (h *harness) authed(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	_, cookie, csrf := testhelpers.AuthenticatedSession(t, h.sessions, "user-1")

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(session.CSRFHeaderName, csrf)
	return h.do(req, cookie)
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func loginCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if strings.HasPrefix(c.Name, "login#") {
			return c
		}
	}
	return nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

var errBoom = errors.New("boom")
