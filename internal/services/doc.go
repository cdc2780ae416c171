// Package services defines the [Provider] interface for music streaming providers and implements it for Spotify.
//
// # Provider Interface
//
// The HTTP handlers depend on [Provider], which groups three capabilities:
//   - [Authorizer] : builds the consent-screen URL
//   - [TokenExchanger] : exchanges codes and refresh tokens at the token endpoint
//   - [TopItemsFetcher] : performs the "top items" query with a bearer token
//
// # Spotify Implementation
//
// [SpotifyService] uses [oauth2.Config] for the authorization URL and token endpoint calls.
// Client credentials go in an HTTP Basic header ([oauth2.AuthStyleInHeader]).
//
// Unlike a long-lived [oauth2.Config.Client], the service never caches a token: the caller passes the
// access token read from the session cookie on every request.
//
// # Refresh Policy
//
// [TopItemsWithRefresh] is the only place a request is retried. On a 401 with a refresh token present it
// refreshes once and retries once, returning the refreshed tokens so the HTTP layer can write them back to
// the session cookies.
//
// # Error Handling
//
// Services use typed errors that unwrap to sentinels from the shared package:
//   - [ProviderError] : non-2xx or network failure from the Web API; a 401 matches [shared.ErrUnauthorized],
//     anything else [shared.ErrAPIRequest]
//   - [TokenExchangeError] : the token endpoint failed; matches [shared.ErrTokenExchange]
//   - [shared.ErrReAuthRequired] : the refresh policy gave up
//   - [shared.ErrNoRefreshToken] : a refresh was needed but no refresh token was available
package services
