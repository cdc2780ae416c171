// Package server provides HTTP routing, middleware, session cookies and the handlers for the toptracks web service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] with method-qualified patterns.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Routes
//
//	GET /api/auth/login     → 302 to the provider consent screen
//	GET /api/auth/callback  → exchange code, set cookies, 302 /dashboard (or /?error=auth_failed)
//	GET /api/auth/logout    → clear cookies, 302 /
//	GET /api/spotify/top    → JSON array of tracks or artists
//	GET /healthz            → {"status":"ok"}
//	GET /metrics            → Prometheus exposition
//
// # Sessions
//
// There is no server-side session store. [CookieManager] is the single place that reads and writes the
// access and refresh token cookies and owns their security attributes.
//
// When the top items handler refreshes an expired access token, the new token pair is written back to the
// cookies on the same response.
package server
