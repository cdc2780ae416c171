// package testing contains shared testing utilities
package testing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/toptracks/internal/models"
	"github.com/desertthunder/toptracks/internal/shared"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// FakeSpotify stands in for the accounts service token endpoint and the Web API top-items endpoint.
//
// OnToken and OnTop replace the default responses. Call counters and captured requests are safe to read
// after the handler under test returns.
type FakeSpotify struct {
	Server *httptest.Server

	OnToken func(w http.ResponseWriter, form url.Values)
	OnTop   func(w http.ResponseWriter, r *http.Request)

	tokenCalls atomic.Int32
	topCalls   atomic.Int32

	mu         sync.Mutex
	tokenForms []url.Values
	tokenAuth  []string
	topAuth    []string
}

// NewFakeSpotify starts a fake provider that is closed when the test ends.
func NewFakeSpotify(t *testing.T) *FakeSpotify {
	t.Helper()

	f := &FakeSpotify{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/token", f.handleToken)
	mux.HandleFunc("GET /v1/me/top/{type}", f.handleTop)
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)

	return f
}

// Config returns credentials pointing every endpoint at the fake server.
func (f *FakeSpotify) Config() shared.SpotifyConfig {
	return shared.SpotifyConfig{
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
		RedirectURI:  "http://127.0.0.1:3000/api/auth/callback",
		AuthURL:      f.Server.URL + "/authorize",
		TokenURL:     f.Server.URL + "/api/token",
		APIBaseURL:   f.Server.URL,
	}
}

func (f *FakeSpotify) TokenCalls() int { return int(f.tokenCalls.Load()) }
func (f *FakeSpotify) TopCalls() int   { return int(f.topCalls.Load()) }

// TokenForms returns the form bodies posted to the token endpoint, in order.
func (f *FakeSpotify) TokenForms() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.tokenForms...)
}

// TokenAuth returns the Authorization headers sent to the token endpoint, in order.
func (f *FakeSpotify) TokenAuth() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tokenAuth...)
}

// TopAuth returns the Authorization headers sent to the top-items endpoint, in order.
func (f *FakeSpotify) TopAuth() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.topAuth...)
}

func (f *FakeSpotify) handleToken(w http.ResponseWriter, r *http.Request) {
	f.tokenCalls.Add(1)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.tokenForms = append(f.tokenForms, r.PostForm)
	f.tokenAuth = append(f.tokenAuth, r.Header.Get("Authorization"))
	f.mu.Unlock()

	if f.OnToken != nil {
		f.OnToken(w, r.PostForm)
		return
	}
	WriteJSON(w, http.StatusOK, TokenResponse("T", "R", 3600))
}

func (f *FakeSpotify) handleTop(w http.ResponseWriter, r *http.Request) {
	f.topCalls.Add(1)

	f.mu.Lock()
	f.topAuth = append(f.topAuth, r.Header.Get("Authorization"))
	f.mu.Unlock()

	if f.OnTop != nil {
		f.OnTop(w, r)
		return
	}
	ServeTopPage(w, r)
}

// ServeTopPage answers a top-items request with as many items as the limit parameter asks for.
func ServeTopPage(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = 20
	}

	switch r.PathValue("type") {
	case "tracks":
		WriteJSON(w, http.StatusOK, Page(Tracks(limit)))
	case "artists":
		WriteJSON(w, http.StatusOK, Page(Artists(limit)))
	default:
		WriteJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"status": 404, "message": "not found"}})
	}
}

// RequireBearer returns an OnTop handler answering 401 unless the bearer token equals want.
func RequireBearer(want string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+want {
			WriteJSON(w, http.StatusUnauthorized, map[string]any{
				"error": map[string]any{"status": 401, "message": "The access token expired"},
			})
			return
		}
		ServeTopPage(w, r)
	}
}

// TokenResponse builds a token endpoint body. An empty refresh token is omitted.
func TokenResponse(access, refresh string, expiresIn int) map[string]any {
	body := map[string]any{
		"access_token": access,
		"token_type":   "Bearer",
		"expires_in":   expiresIn,
		"scope":        "user-top-read user-read-private user-read-email",
	}
	if refresh != "" {
		body["refresh_token"] = refresh
	}
	return body
}

// Page wraps items in the provider's paging envelope.
func Page[T any](items []T) map[string]any {
	return map[string]any{
		"items":    items,
		"total":    len(items),
		"limit":    len(items),
		"offset":   0,
		"href":     "https://api.spotify.com/v1/me/top",
		"next":     nil,
		"previous": nil,
	}
}

// Tracks returns n distinct tracks.
func Tracks(n int) []models.Track {
	tracks := make([]models.Track, 0, n)
	for i := range n {
		tracks = append(tracks, models.Track{
			ID:         fmt.Sprintf("track%d", i+1),
			Name:       fmt.Sprintf("Song %d", i+1),
			Type:       "track",
			DurationMS: 180000 + i*1000,
			Popularity: 80 - i,
			Album:      models.Album{ID: fmt.Sprintf("album%d", i+1), Name: fmt.Sprintf("Album %d", i+1), Type: "album"},
			Artists:    []models.Artist{{ID: fmt.Sprintf("artist%d", i+1), Name: fmt.Sprintf("Artist %d", i+1), Type: "artist"}},
		})
	}
	return tracks
}

// Artists returns n distinct artists.
func Artists(n int) []models.Artist {
	artists := make([]models.Artist, 0, n)
	for i := range n {
		artists = append(artists, models.Artist{
			ID:         fmt.Sprintf("artist%d", i+1),
			Name:       fmt.Sprintf("Artist %d", i+1),
			Type:       "artist",
			Genres:     []string{"indie"},
			Followers:  models.Followers{Total: 1000 * (i + 1)},
			Popularity: 70 - i,
		})
	}
	return artists
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// FindCookie returns the Set-Cookie entry named name from a recorded response.
func FindCookie(t *testing.T, rr *httptest.ResponseRecorder, name string) (*http.Cookie, bool) {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return nil, false
}
