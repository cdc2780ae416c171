package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/desertthunder/toptracks/internal/shared"
)

func TestParseTopItemsQuery(t *testing.T) {
	tc := []struct {
		name      string
		itemType  string
		limit     string
		timeRange string
		want      TopItemsQuery
		wantErr   error
	}{
		{
			name:      "tracks",
			itemType:  "tracks",
			limit:     "10",
			timeRange: "medium_term",
			want:      TopItemsQuery{Type: ItemTypeTracks, Limit: 10, TimeRange: MediumTerm},
		},
		{
			name:      "artists at the cap",
			itemType:  "artists",
			limit:     "50",
			timeRange: "long_term",
			want:      TopItemsQuery{Type: ItemTypeArtists, Limit: 50, TimeRange: LongTerm},
		},
		{name: "missing type", limit: "10", timeRange: "short_term", wantErr: shared.ErrMissingArgument},
		{name: "missing limit", itemType: "tracks", timeRange: "short_term", wantErr: shared.ErrMissingArgument},
		{name: "missing time range", itemType: "tracks", limit: "10", wantErr: shared.ErrMissingArgument},
		{name: "unknown type", itemType: "albums", limit: "10", timeRange: "short_term", wantErr: shared.ErrInvalidArgument},
		{name: "non-numeric limit", itemType: "tracks", limit: "ten", timeRange: "short_term", wantErr: shared.ErrInvalidArgument},
		{name: "zero limit", itemType: "tracks", limit: "0", timeRange: "short_term", wantErr: shared.ErrInvalidArgument},
		{name: "limit over cap", itemType: "tracks", limit: "51", timeRange: "short_term", wantErr: shared.ErrInvalidArgument},
		{name: "unknown time range", itemType: "tracks", limit: "10", timeRange: "forever", wantErr: shared.ErrInvalidArgument},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTopItemsQuery(tt.itemType, tt.limit, tt.timeRange)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("parsed query should validate, got %v", err)
			}
		})
	}
}

func TestTopItemsQueryValues(t *testing.T) {
	q := TopItemsQuery{Type: ItemTypeArtists, Limit: 5, TimeRange: ShortTerm}

	if got := q.Values().Encode(); got != "limit=5&time_range=short_term" {
		t.Errorf("unexpected encoding %s", got)
	}
}

func TestTokenSet(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		if err := (TokenSet{AccessToken: "T", ExpiresIn: 3600}).Validate(); err != nil {
			t.Errorf("expected valid token set, got %v", err)
		}
		if err := (TokenSet{ExpiresIn: 3600}).Validate(); !errors.Is(err, shared.ErrTokenExchange) {
			t.Errorf("expected ErrTokenExchange for empty access token, got %v", err)
		}
		if err := (TokenSet{AccessToken: "T"}).Validate(); !errors.Is(err, shared.ErrTokenExchange) {
			t.Errorf("expected ErrTokenExchange for zero expiry, got %v", err)
		}
	})

	t.Run("HasRefreshToken", func(t *testing.T) {
		if (TokenSet{AccessToken: "T"}).HasRefreshToken() {
			t.Error("expected no refresh token")
		}
		if !(TokenSet{AccessToken: "T", RefreshToken: "R"}).HasRefreshToken() {
			t.Error("expected refresh token")
		}
	})
}

type countingVisitor struct {
	tracks, artists int
}

func (c *countingVisitor) VisitTracks(tracks []Track) error {
	c.tracks += len(tracks)
	return nil
}

func (c *countingVisitor) VisitArtists(artists []Artist) error {
	c.artists += len(artists)
	return nil
}

func TestTopItems(t *testing.T) {
	tracks := TopItems{Type: ItemTypeTracks, Tracks: []Track{{ID: "t1", Name: "One"}, {ID: "t2", Name: "Two"}}}
	artists := TopItems{Type: ItemTypeArtists, Artists: []Artist{{ID: "a1", Name: "Artist"}}}

	t.Run("Len", func(t *testing.T) {
		if tracks.Len() != 2 {
			t.Errorf("expected 2 tracks, got %d", tracks.Len())
		}
		if artists.Len() != 1 {
			t.Errorf("expected 1 artist, got %d", artists.Len())
		}
		if (TopItems{}).Len() != 0 {
			t.Error("expected zero length for untyped items")
		}
	})

	t.Run("Accept", func(t *testing.T) {
		v := &countingVisitor{}
		if err := tracks.Accept(v); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := artists.Accept(v); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if v.tracks != 2 || v.artists != 1 {
			t.Errorf("unexpected visit counts %+v", v)
		}
		if err := (TopItems{Type: "albums"}).Accept(v); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		data, err := json.Marshal(tracks)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var decoded []Track
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("expected a bare array, got %s", data)
		}
		if len(decoded) != 2 || decoded[1].ID != "t2" {
			t.Errorf("unexpected decoded tracks %+v", decoded)
		}

		empty, err := json.Marshal(TopItems{Type: ItemTypeArtists})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(empty) != "[]" {
			t.Errorf("expected empty array, got %s", empty)
		}

		if _, err := json.Marshal(TopItems{}); err == nil {
			t.Error("expected error for untyped items")
		}
	})
}

func TestTrackArtistNames(t *testing.T) {
	track := Track{Artists: []Artist{{Name: "A"}, {Name: "B"}}}
	if got := track.ArtistNames(); got != "A, B" {
		t.Errorf("expected 'A, B', got %q", got)
	}
}
