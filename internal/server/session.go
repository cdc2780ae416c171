package server

import (
	"net/http"
	"strings"

	"github.com/desertthunder/toptracks/internal/models"
)

const (
	AccessTokenCookie  = "spotify_access_token"
	RefreshTokenCookie = "spotify_refresh_token"

	// RefreshMaxAge is the refresh token cookie lifetime in seconds (30 days).
	RefreshMaxAge = 60 * 60 * 24 * 30
)

// CookieManager reads and writes the session cookies.
//
// Every cookie it writes is HttpOnly, SameSite=Lax and scoped to "/". Secure is set only when the
// manager was built for production.
type CookieManager struct {
	secure bool
}

func NewCookieManager(secure bool) *CookieManager {
	return &CookieManager{secure: secure}
}

// Set writes a cookie that expires after maxAge seconds.
func (m *CookieManager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, m.cookie(name, value, maxAge))
}

// Get returns the trimmed cookie value when present and non-empty.
func (m *CookieManager) Get(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// Clear expires the cookie immediately.
func (m *CookieManager) Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.cookie(name, "", -1))
}

// SetTokens writes the access token cookie and, when present, the refresh token cookie.
func (m *CookieManager) SetTokens(w http.ResponseWriter, tokens *models.TokenSet) {
	m.Set(w, AccessTokenCookie, tokens.AccessToken, tokens.ExpiresIn)
	if tokens.HasRefreshToken() {
		m.Set(w, RefreshTokenCookie, tokens.RefreshToken, RefreshMaxAge)
	}
}

func (m *CookieManager) ClearTokens(w http.ResponseWriter) {
	m.Clear(w, AccessTokenCookie)
	m.Clear(w, RefreshTokenCookie)
}

func (m *CookieManager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
