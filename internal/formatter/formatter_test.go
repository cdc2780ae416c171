package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/toptracks/internal/models"
	"github.com/desertthunder/toptracks/internal/shared"
	th "github.com/desertthunder/toptracks/internal/testing"
)

func TestExporters(t *testing.T) {
	tracks := models.TopItems{Type: models.ItemTypeTracks, Tracks: th.Tracks(2)}
	artists := models.TopItems{Type: models.ItemTypeArtists, Artists: th.Artists(2)}
	trackQuery := models.TopItemsQuery{Type: models.ItemTypeTracks, Limit: 2, TimeRange: models.ShortTerm}
	artistQuery := models.TopItemsQuery{Type: models.ItemTypeArtists, Limit: 2, TimeRange: models.LongTerm}

	t.Run("ExportToCSV", func(t *testing.T) {
		t.Run("tracks", func(t *testing.T) {
			data, err := ExportToCSV(tracks)
			if err != nil {
				t.Fatalf("ExportToCSV failed: %v", err)
			}

			records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
			if err != nil {
				t.Fatalf("invalid CSV: %v", err)
			}
			if len(records) != 3 {
				t.Fatalf("expected header and 2 rows, got %d", len(records))
			}
			if got := strings.Join(records[0], ","); got != "Rank,ID,Name,Artists,Album,Duration,Popularity" {
				t.Errorf("unexpected header %q", got)
			}
			if got := strings.Join(records[1], ","); got != "1,track1,Song 1,Artist 1,Album 1,3:00,80" {
				t.Errorf("unexpected first row %q", got)
			}
		})

		t.Run("artists", func(t *testing.T) {
			data, err := ExportToCSV(artists)
			if err != nil {
				t.Fatalf("ExportToCSV failed: %v", err)
			}

			output := string(data)
			if !strings.HasPrefix(output, "Rank,ID,Name,Genres,Followers,Popularity\n") {
				t.Errorf("CSV missing headers, got: %s", output)
			}
			if !strings.Contains(output, "2,artist2,Artist 2,indie,2000,69") {
				t.Errorf("CSV missing second artist, got: %s", output)
			}
		})

		t.Run("unknown type", func(t *testing.T) {
			if _, err := ExportToCSV(models.TopItems{Type: "albums"}); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		withURL := tracks
		withURL.Tracks = th.Tracks(2)
		withURL.Tracks[0].ExternalURLs.Spotify = "https://open.spotify.com/track/track1"

		data, err := ExportToMarkdown(withURL, trackQuery)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "# Top tracks (last 4 weeks)\n\n") {
			t.Errorf("Markdown missing heading, got: %s", output)
		}
		if !strings.Contains(output, "1. Artist 1 - [Song 1](https://open.spotify.com/track/track1) (Album 1) [3:00]") {
			t.Errorf("Markdown missing linked track, got: %s", output)
		}
		if !strings.Contains(output, "2. Artist 2 - Song 2 (Album 2) [3:01]") {
			t.Errorf("Markdown missing second track, got: %s", output)
		}

		data, err = ExportToMarkdown(artists, artistQuery)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if !strings.Contains(string(data), "1. Artist 1 _indie_") {
			t.Errorf("Markdown missing artist genres, got: %s", data)
		}

		data, _ = ExportToMarkdown(models.TopItems{Type: models.ItemTypeTracks}, trackQuery)
		if !strings.Contains(string(data), "_No items._") {
			t.Errorf("expected empty marker, got: %s", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(tracks, trackQuery)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Top tracks (last 4 weeks)") {
			t.Errorf("text missing heading, got: %s", output)
		}
		if !strings.Contains(output, " 1. Artist 1 - Song 1") || !strings.Contains(output, " 2. Artist 2 - Song 2") {
			t.Errorf("text missing tracks, got: %s", output)
		}

		data, err = ExportToText(artists, artistQuery)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		if !strings.Contains(string(data), "Top artists (all time)") || !strings.Contains(string(data), " 1. Artist 1") {
			t.Errorf("text missing artists, got: %s", data)
		}
	})

	t.Run("Render", func(t *testing.T) {
		t.Run("json is a bare array", func(t *testing.T) {
			data, err := Render(artists, artistQuery, FormatJSON)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			var out []models.Artist
			if err := json.Unmarshal(data, &out); err != nil || len(out) != 2 {
				t.Errorf("expected a JSON array of 2 artists, got %s", data)
			}
		})

		t.Run("every format renders", func(t *testing.T) {
			for _, f := range Formats {
				if data, err := Render(tracks, trackQuery, f); err != nil || len(data) == 0 {
					t.Errorf("%s: unexpected result %q, %v", f, data, err)
				}
			}
		})

		t.Run("unknown format", func(t *testing.T) {
			if _, err := Render(tracks, trackQuery, "xml"); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "text", want: FormatText},
		{in: "Markdown", want: FormatMarkdown},
		{in: "md", want: FormatMarkdown},
		{in: "csv", want: FormatCSV},
		{in: " JSON ", want: FormatJSON},
		{in: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	t.Run("FormatDuration", func(t *testing.T) {
		for ms, want := range map[int]string{0: "0:00", 59999: "0:59", 180000: "3:00", 3723000: "62:03"} {
			if got := FormatDuration(ms); got != want {
				t.Errorf("FormatDuration(%d) = %q, want %q", ms, got, want)
			}
		}
	})

	t.Run("TimeRangeLabel", func(t *testing.T) {
		if got := TimeRangeLabel(models.MediumTerm); got != "last 6 months" {
			t.Errorf("unexpected label %q", got)
		}
		if got := TimeRangeLabel("custom"); got != "custom" {
			t.Errorf("expected passthrough, got %q", got)
		}
	})

	t.Run("styles keep their text", func(t *testing.T) {
		for _, render := range []func(string) string{Title, Success, Error, Warning, Muted} {
			if got := render("hello"); !strings.Contains(got, "hello") {
				t.Errorf("styled text lost its content: %q", got)
			}
		}
	})
}
