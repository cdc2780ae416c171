package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/toptracks/internal/shared"
)

// MaxLimit is the largest page size the provider accepts for top items.
const MaxLimit = 50

// ItemType selects which kind of top item is requested.
type ItemType string

const (
	ItemTypeTracks  ItemType = "tracks"
	ItemTypeArtists ItemType = "artists"
)

// ParseItemType validates s as an [ItemType].
func ParseItemType(s string) (ItemType, error) {
	switch t := ItemType(strings.TrimSpace(s)); t {
	case ItemTypeTracks, ItemTypeArtists:
		return t, nil
	default:
		return "", fmt.Errorf("%w: type must be tracks or artists, got %q", shared.ErrInvalidArgument, s)
	}
}

// TimeRange is the listening-history window for top items.
type TimeRange string

const (
	ShortTerm  TimeRange = "short_term"
	MediumTerm TimeRange = "medium_term"
	LongTerm   TimeRange = "long_term"
)

// ParseTimeRange validates s as a [TimeRange].
func ParseTimeRange(s string) (TimeRange, error) {
	switch r := TimeRange(strings.TrimSpace(s)); r {
	case ShortTerm, MediumTerm, LongTerm:
		return r, nil
	default:
		return "", fmt.Errorf("%w: time_range must be short_term, medium_term or long_term, got %q", shared.ErrInvalidArgument, s)
	}
}

// ParseLimit validates s as a page size between 1 and [MaxLimit].
func ParseLimit(s string) (int, error) {
	limit, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: limit must be an integer, got %q", shared.ErrInvalidArgument, s)
	}
	if limit < 1 || limit > MaxLimit {
		return 0, fmt.Errorf("%w: limit must be between 1 and %d, got %d", shared.ErrInvalidArgument, MaxLimit, limit)
	}
	return limit, nil
}

// TopItemsQuery describes a single "top items" request. Constructed per request, never stored.
type TopItemsQuery struct {
	Type      ItemType
	Limit     int
	TimeRange TimeRange
}

// ParseTopItemsQuery builds a query from raw string parameters.
//
// Missing parameters are reported as [shared.ErrMissingArgument] before any value is checked.
func ParseTopItemsQuery(itemType, limit, timeRange string) (TopItemsQuery, error) {
	if itemType == "" || limit == "" || timeRange == "" {
		return TopItemsQuery{}, fmt.Errorf("%w: type, limit and time_range are required", shared.ErrMissingArgument)
	}

	t, err := ParseItemType(itemType)
	if err != nil {
		return TopItemsQuery{}, err
	}
	l, err := ParseLimit(limit)
	if err != nil {
		return TopItemsQuery{}, err
	}
	r, err := ParseTimeRange(timeRange)
	if err != nil {
		return TopItemsQuery{}, err
	}

	return TopItemsQuery{Type: t, Limit: l, TimeRange: r}, nil
}

// Validate checks an already-typed query, e.g. one built from CLI flags.
func (q TopItemsQuery) Validate() error {
	if _, err := ParseItemType(string(q.Type)); err != nil {
		return err
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", shared.ErrInvalidArgument, MaxLimit, q.Limit)
	}
	if _, err := ParseTimeRange(string(q.TimeRange)); err != nil {
		return err
	}
	return nil
}

// Values encodes the query string sent to the provider.
func (q TopItemsQuery) Values() url.Values {
	return url.Values{
		"limit":      {strconv.Itoa(q.Limit)},
		"time_range": {string(q.TimeRange)},
	}
}

// TokenSet is the provider's token endpoint response.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // seconds
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope"`
}

// Validate enforces a non-empty access token and a positive lifetime.
func (t TokenSet) Validate() error {
	if t.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", shared.ErrTokenExchange)
	}
	if t.ExpiresIn <= 0 {
		return fmt.Errorf("%w: non-positive expires_in %d", shared.ErrTokenExchange, t.ExpiresIn)
	}
	return nil
}

// HasRefreshToken reports whether the provider returned (or carried forward) a refresh token.
func (t TokenSet) HasRefreshToken() bool {
	return t.RefreshToken != ""
}

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// ExternalURLs holds links to the provider's own pages.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

type Followers struct {
	Total int `json:"total"`
}

// Artist represents a provider artist.
type Artist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Followers    Followers    `json:"followers"`
	Genres       []string     `json:"genres"`
	Images       []Image      `json:"images"`
	Popularity   int          `json:"popularity"`
}

// Album represents the album a track belongs to.
type Album struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Images       []Image      `json:"images"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// Track represents a provider track.
type Track struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	DurationMS   int          `json:"duration_ms"`
	Popularity   int          `json:"popularity"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Album        Album        `json:"album"`
	Artists      []Artist     `json:"artists"`
}

// ArtistNames joins the names of the track's artists.
func (t Track) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// TopItemsVisitor handles each variant of [TopItems].
type TopItemsVisitor interface {
	VisitTracks(tracks []Track) error
	VisitArtists(artists []Artist) error
}

// TopItems is either a list of tracks or a list of artists. Type says which slice is populated.
type TopItems struct {
	Type    ItemType
	Tracks  []Track
	Artists []Artist
}

// Len returns the number of items in the populated variant.
func (t TopItems) Len() int {
	switch t.Type {
	case ItemTypeTracks:
		return len(t.Tracks)
	case ItemTypeArtists:
		return len(t.Artists)
	default:
		return 0
	}
}

// Accept dispatches to the visitor method matching t.Type.
func (t TopItems) Accept(v TopItemsVisitor) error {
	switch t.Type {
	case ItemTypeTracks:
		return v.VisitTracks(t.Tracks)
	case ItemTypeArtists:
		return v.VisitArtists(t.Artists)
	default:
		return fmt.Errorf("%w: unknown item type %q", shared.ErrInvalidArgument, t.Type)
	}
}

// MarshalJSON encodes the populated variant as a bare JSON array, never null.
func (t TopItems) MarshalJSON() ([]byte, error) {
	switch t.Type {
	case ItemTypeTracks:
		if t.Tracks == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(t.Tracks)
	case ItemTypeArtists:
		if t.Artists == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(t.Artists)
	default:
		return nil, fmt.Errorf("%w: unknown item type %q", shared.ErrInvalidArgument, t.Type)
	}
}
