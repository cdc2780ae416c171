// package services defines the interfaces for talking to a music provider's OAuth and Web API endpoints
package services

import (
	"context"

	"github.com/desertthunder/toptracks/internal/models"
)

// Authorizer builds the provider's consent-screen URL.
type Authorizer interface {
	// AuthURL returns the authorize endpoint URL. state is appended only when non-empty.
	AuthURL(state string) string
}

// TokenExchanger converts an authorization code or a refresh token into a [models.TokenSet].
//
// Implementations never retry; a failed call surfaces immediately.
type TokenExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*models.TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenSet, error)
}

// TopItemsFetcher performs the "top items" query with a bearer token.
type TopItemsFetcher interface {
	TopItems(ctx context.Context, q models.TopItemsQuery, accessToken string) (models.TopItems, error)
}

// Provider is everything the HTTP handlers need from a music provider.
type Provider interface {
	Authorizer
	TokenExchanger
	TopItemsFetcher

	// TopItemsWithRefresh runs the query and applies the single refresh-and-retry policy.
	// The returned TokenSet is non-nil only when a refresh happened.
	TopItemsWithRefresh(ctx context.Context, q models.TopItemsQuery, accessToken, refreshToken string) (models.TopItems, *models.TokenSet, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}
