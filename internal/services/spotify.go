// Spotify implementation of [Provider]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/toptracks/internal/models"
	"github.com/desertthunder/toptracks/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com"
)

// Scopes are requested on every login.
var Scopes = []string{"user-top-read", "user-read-private", "user-read-email"}

// paginated is the provider's paging envelope. Only Items leaves this package.
type paginated[T any] struct {
	Items    []T     `json:"items"`
	Total    int     `json:"total"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Href     string  `json:"href"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// SpotifyService implements [Provider] for the Spotify accounts service and Web API.
//
// It holds no per-user state: tokens are passed in on every call, so one instance serves all requests.
type SpotifyService struct {
	config     *oauth2.Config
	apiBaseURL string
	httpClient *http.Client
	logger     *log.Logger
}

// NewSpotifyService creates a new Spotify service from the immutable credentials config.
//
// client and logger default to [http.DefaultClient] and a stderr logger.
func NewSpotifyService(creds shared.SpotifyConfig, client *http.Client, logger *log.Logger) (*SpotifyService, error) {
	if creds.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}
	if creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI := creds.RedirectURI
	if redirectURI == "" {
		redirectURI = shared.DefaultRedirectURI
	}
	authURL := creds.AuthURL
	if authURL == "" {
		authURL = spotifyAuthURL
	}
	tokenURL := creds.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}
	apiBaseURL := strings.TrimRight(creds.APIBaseURL, "/")
	if apiBaseURL == "" {
		apiBaseURL = spotifyBaseURL
	}

	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	config := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	return &SpotifyService{
		config:     config,
		apiBaseURL: apiBaseURL,
		httpClient: client,
		logger:     shared.WithLogger(logger, "service", "spotify"),
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL returns the OAuth2 authorization URL for user login.
//
// show_dialog forces the consent screen on every login so users can switch accounts.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
}

// ExchangeCode trades an authorization code for tokens (grant_type=authorization_code).
func (s *SpotifyService) ExchangeCode(ctx context.Context, code string) (*models.TokenSet, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty authorization code", shared.ErrMissingArgument)
	}

	token, err := s.config.Exchange(s.clientContext(ctx), code)
	if err != nil {
		return nil, exchangeError("exchange code", err)
	}

	return toTokenSet("exchange code", token, "")
}

// Refresh mints a new access token from refreshToken (grant_type=refresh_token).
//
// When the provider omits refresh_token in its response the original stays valid and is returned in the TokenSet.
func (s *SpotifyService) Refresh(ctx context.Context, refreshToken string) (*models.TokenSet, error) {
	if refreshToken == "" {
		return nil, shared.ErrNoRefreshToken
	}

	source := s.config.TokenSource(s.clientContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, exchangeError("refresh token", err)
	}

	return toTokenSet("refresh token", token, refreshToken)
}

// TopItems fetches the user's top tracks or artists.
//
// A 401 is reported as a [ProviderError] matching [shared.ErrUnauthorized] so callers can decide whether to refresh.
func (s *SpotifyService) TopItems(ctx context.Context, q models.TopItemsQuery, accessToken string) (models.TopItems, error) {
	if err := q.Validate(); err != nil {
		return models.TopItems{}, err
	}

	endpoint := fmt.Sprintf("/v1/me/top/%s?%s", q.Type, q.Values().Encode())
	op := "top " + string(q.Type)

	switch q.Type {
	case models.ItemTypeTracks:
		var page paginated[models.Track]
		if err := s.doRequest(ctx, op, endpoint, accessToken, &page); err != nil {
			return models.TopItems{}, err
		}
		return models.TopItems{Type: q.Type, Tracks: truncate(page.Items, q.Limit)}, nil
	case models.ItemTypeArtists:
		var page paginated[models.Artist]
		if err := s.doRequest(ctx, op, endpoint, accessToken, &page); err != nil {
			return models.TopItems{}, err
		}
		return models.TopItems{Type: q.Type, Artists: truncate(page.Items, q.Limit)}, nil
	default:
		return models.TopItems{}, fmt.Errorf("%w: unknown item type %q", shared.ErrInvalidArgument, q.Type)
	}
}

// TopItemsWithRefresh applies [TopItemsWithRefresh] using this service for both tokens and items.
func (s *SpotifyService) TopItemsWithRefresh(ctx context.Context, q models.TopItemsQuery, accessToken, refreshToken string) (models.TopItems, *models.TokenSet, error) {
	return TopItemsWithRefresh(ctx, s, s, q, accessToken, refreshToken)
}

// doRequest performs an authenticated GET request to the Spotify API and decodes the JSON body into result.
func (s *SpotifyService) doRequest(ctx context.Context, op, endpoint, accessToken string, result any) error {
	if accessToken == "" {
		return fmt.Errorf("%s: %w: missing access token", op, shared.ErrUnauthorized)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiBaseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &ProviderError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	s.logger.Debug("provider response", "op", op, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ProviderError{Op: op, StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &ProviderError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}

// clientContext hands our HTTP client to the oauth2 package, which reads it from the context.
func (s *SpotifyService) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// toTokenSet projects an [oauth2.Token] onto [models.TokenSet], carrying fallbackRefresh forward when the
// response had no refresh token.
func toTokenSet(op string, token *oauth2.Token, fallbackRefresh string) (*models.TokenSet, error) {
	expiresIn := int(token.ExpiresIn)
	if expiresIn <= 0 && !token.Expiry.IsZero() {
		expiresIn = int(time.Until(token.Expiry).Round(time.Second).Seconds())
	}

	scope, _ := token.Extra("scope").(string)

	set := &models.TokenSet{
		AccessToken:  token.AccessToken,
		TokenType:    token.TokenType,
		ExpiresIn:    expiresIn,
		RefreshToken: token.RefreshToken,
		Scope:        scope,
	}
	if set.RefreshToken == "" {
		set.RefreshToken = fallbackRefresh
	}

	if err := set.Validate(); err != nil {
		return nil, &TokenExchangeError{Op: op, Err: err}
	}
	return set, nil
}

// exchangeError maps oauth2 failures onto [TokenExchangeError], keeping the provider's status text.
func exchangeError(op string, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		code := retrieveErr.Response.StatusCode
		return &TokenExchangeError{
			Op:         op,
			StatusCode: code,
			Status:     http.StatusText(code),
			ErrorCode:  retrieveErr.ErrorCode,
			Err:        err,
		}
	}
	return &TokenExchangeError{Op: op, Err: err}
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
