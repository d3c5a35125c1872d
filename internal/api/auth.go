package api

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/pageza/porkchop/backend/internal/service"
	"github.com/pageza/porkchop/backend/internal/session"
	"github.com/pageza/porkchop/backend/internal/types"
)

const defaultLoginPath = "/api/auth/login"

// AuthConfig holds the URLs the login flow redirects between
type AuthConfig struct {
	AppDomainURL        string
	LoginURL            string
	DefaultTenant       string
	UseTenantSubdomains bool
}

// AuthHandler runs Wristband login and direct Supabase registration
type AuthHandler struct {
	sessions *session.Manager
	idp      service.IIdentityProvider
	signup   service.ISignUpService
	users    service.IUserService
	cfg      AuthConfig
	log      *zap.Logger
}

func NewAuthHandler(
	sessions *session.Manager,
	idp service.IIdentityProvider,
	signup service.ISignUpService,
	users service.IUserService,
	cfg AuthConfig,
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		idp:      idp,
		signup:   signup,
		users:    users,
		cfg:      cfg,
		log:      log,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.GET("/login", h.Login)
		auth.GET("/callback", h.Callback)
		auth.POST("/register", h.Register)
		auth.GET("/logout", h.Logout)
	}
}

func (h *AuthHandler) loginURL() string {
	if h.cfg.LoginURL != "" {
		return h.cfg.LoginURL
	}
	return defaultLoginPath
}

// tenant picks the tenant from the request subdomain or the tenant_domain
// query parameter
func (h *AuthHandler) tenant(c *gin.Context) string {
	if h.cfg.UseTenantSubdomains {
		host := c.Request.Host
		if hostname, _, err := net.SplitHostPort(host); err == nil {
			host = hostname
		}
		if i := strings.Index(host, "."); i > 0 {
			return host[:i]
		}
	}
	if t := c.Query("tenant_domain"); t != "" {
		return t
	}
	return h.cfg.DefaultTenant
}

// returnURL only keeps destinations inside the browser app
func (h *AuthHandler) returnURL(raw string) string {
	if raw == "" || h.cfg.AppDomainURL == "" {
		return ""
	}
	if raw == h.cfg.AppDomainURL || strings.HasPrefix(raw, h.cfg.AppDomainURL+"/") {
		return raw
	}
	return ""
}

func noCache(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

// Login redirects to the Wristband authorize endpoint
func (h *AuthHandler) Login(c *gin.Context) {
	tenant := h.tenant(c)
	state := strings.ReplaceAll(uuid.NewString(), "-", "")
	verifier := oauth2.GenerateVerifier()

	if err := h.sessions.SaveLoginState(c, session.LoginState{
		State:        state,
		CodeVerifier: verifier,
		ReturnURL:    h.returnURL(c.Query("return_url")),
		TenantDomain: tenant,
	}); err != nil {
		_ = c.Error(err)
		return
	}

	noCache(c)
	c.Redirect(http.StatusFound, h.idp.AuthorizeURL(tenant, state, verifier))
}

// Callback completes the login, creates the session and sends the user on
func (h *AuthHandler) Callback(c *gin.Context) {
	noCache(c)

	if c.Query("error") == "login_required" {
		c.Redirect(http.StatusFound, h.loginURL())
		return
	}

	ls, err := h.sessions.TakeLoginState(c, c.Query("state"))
	code := c.Query("code")
	if err != nil || code == "" {
		h.log.Info("login state missing or mismatched, restarting login")
		c.Redirect(http.StatusFound, h.loginURL())
		return
	}

	ctx := c.Request.Context()
	tokens, err := h.idp.Exchange(ctx, code, ls.CodeVerifier)
	if err != nil {
		_ = c.Error(err)
		return
	}
	info, err := h.idp.UserInfo(ctx, tokens.AccessToken)
	if err != nil {
		_ = c.Error(err)
		return
	}

	s, err := h.sessions.New()
	if err != nil {
		_ = c.Error(err)
		return
	}
	s.IsAuthenticated = true
	s.Apply(tokens)
	s.UserID = info.Sub
	s.Email = info.Email
	s.TenantID = info.TenantID
	s.IdentityProviderName = info.IDPName
	s.TenantDomainName = ls.TenantDomain

	if err := h.sessions.Save(c, s); err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.sessions.IssueCSRFCookie(c, s); err != nil {
		_ = c.Error(err)
		return
	}

	pricing := h.cfg.AppDomainURL + "/pricing"
	user, err := h.users.GetUser(ctx, info.Sub)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		if _, err := h.users.CreateUser(ctx, info.Sub, info.Email); err != nil {
			h.log.Error("error creating user record", zap.String("user_id", info.Sub), zap.Error(err))
		}
		c.Redirect(http.StatusFound, pricing)
		return
	case err != nil:
		h.log.Error("error loading user record", zap.String("user_id", info.Sub), zap.Error(err))
		c.Redirect(http.StatusFound, pricing)
		return
	case user.IsNewUser:
		c.Redirect(http.StatusFound, pricing)
		return
	}

	dest := ls.ReturnURL
	if dest == "" {
		dest = h.cfg.AppDomainURL + "/dashboard"
	}
	c.Redirect(http.StatusFound, dest)
}

// Register signs a user up with email and password and logs them in
func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.users.FindByEmail(ctx, req.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	} else if !errors.Is(err, service.ErrUserNotFound) {
		h.log.Error("registration error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	authUser, err := h.signup.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		var supaErr *service.SupabaseError
		if errors.As(err, &supaErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": supaErr.Message})
			return
		}
		h.log.Error("registration error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	if _, err := h.users.CreateUser(ctx, authUser.ID, req.Email); err != nil {
		h.log.Error("error creating user record", zap.String("user_id", authUser.ID), zap.Error(err))
	}

	s, err := h.sessions.New()
	if err == nil {
		s.IsAuthenticated = true
		s.UserID = authUser.ID
		s.Email = authUser.Email
		s.TenantID = authUser.TenantID()
		err = h.sessions.Save(c, s)
	}
	if err == nil {
		err = h.sessions.IssueCSRFCookie(c, s)
	}
	if err != nil {
		h.log.Error("registration error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"user":       gin.H{"id": authUser.ID, "email": authUser.Email},
		"isNewUser":  true,
		"redirectTo": "/pricing",
	})
}

// Logout ends the session and sends the browser to the Wristband logout endpoint
func (h *AuthHandler) Logout(c *gin.Context) {
	s, err := h.sessions.Load(c)
	if err != nil {
		s = nil
	}

	if err := h.sessions.Destroy(c, s); err != nil {
		h.log.Warn("failed to delete session", zap.Error(err))
	}

	tenant := h.cfg.DefaultTenant
	if s != nil {
		if s.RefreshToken != "" {
			if err := h.idp.RevokeRefreshToken(c.Request.Context(), s.RefreshToken); err != nil {
				h.log.Warn("failed to revoke refresh token", zap.String("user_id", s.UserID), zap.Error(err))
			}
		}
		if s.TenantDomainName != "" {
			tenant = s.TenantDomainName
		}
	}

	noCache(c)
	c.Redirect(http.StatusFound, h.idp.LogoutURL(tenant))
}
