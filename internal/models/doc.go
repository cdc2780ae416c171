// Package models defines the data passed between the Spotify client, the HTTP handlers, and the CLI.
//
// The package contains two categories of types:
//
// 1. Credentials
//   - [TokenSet] : tokens returned by the provider's token endpoint
//
// 2. Top items
//   - [TopItemsQuery] : the type, limit and time range of a "top items" request
//   - [Track], [Artist], [Album] : read-only projections of provider responses
//   - [TopItems] : a tagged union holding either tracks or artists, keyed by [ItemType]
//
// Consumers that treat tracks and artists differently implement [TopItemsVisitor].
package models
