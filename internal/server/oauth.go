package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/toptracks/internal/models"
	"github.com/desertthunder/toptracks/internal/services"
	"github.com/desertthunder/toptracks/internal/shared"
)

const (
	LoginPath    = "/api/auth/login"
	CallbackPath = "/api/auth/callback"
	LogoutPath   = "/api/auth/logout"

	DashboardPath   = "/dashboard"
	AuthFailedPath  = "/?error=auth_failed"
	AfterLogoutPath = "/"
)

// authProvider is the subset of [services.Provider] the auth routes use.
type authProvider interface {
	services.Authorizer
	services.TokenExchanger
}

// AuthHandler serves the login, callback and logout routes.
//
// It holds no per-user state; the token pair lives only in the session cookies.
type AuthHandler struct {
	provider authProvider
	cookies  *CookieManager
	logger   *log.Logger
}

func NewAuthHandler(provider authProvider, cookies *CookieManager, logger *log.Logger) *AuthHandler {
	return &AuthHandler{provider: provider, cookies: cookies, logger: shared.WithLogger(logger, "handler", "auth")}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{"GET " + LoginPath, "GET " + CallbackPath, "GET " + LogoutPath}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case LoginPath:
		h.Login(w, r)
	case CallbackPath:
		h.Callback(w, r)
	case LogoutPath:
		h.Logout(w, r)
	default:
		http.NotFound(w, r)
	}
}

// Login redirects the browser to the provider's consent screen.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.provider.AuthURL(""), http.StatusFound)
}

// Callback completes the authorization code flow.
//
// An error parameter, a missing code, or a failed exchange all redirect to the auth failure page
// without setting cookies.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.exchange(r.Context(), r)
	if err != nil {
		logProviderError(h.logger, "authorization callback failed", err)
		http.Redirect(w, r, AuthFailedPath, http.StatusFound)
		return
	}

	h.cookies.SetTokens(w, tokens)
	h.logger.Debug("session established", "expires_in", tokens.ExpiresIn, "refresh", tokens.HasRefreshToken())
	http.Redirect(w, r, DashboardPath, http.StatusFound)
}

func (h *AuthHandler) exchange(ctx context.Context, r *http.Request) (*models.TokenSet, error) {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		return nil, fmt.Errorf("%w: provider returned %q", shared.ErrAuthFailed, e)
	}

	code := q.Get("code")
	if code == "" {
		return nil, fmt.Errorf("%w: missing code", shared.ErrAuthFailed)
	}

	tokens, err := h.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}
	return tokens, nil
}

// Logout clears both session cookies and redirects home.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearTokens(w)
	http.Redirect(w, r, AfterLogoutPath, http.StatusFound)
}
