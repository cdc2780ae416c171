// package formatter renders top tracks and artists as plain text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/toptracks/internal/models"
	"github.com/desertthunder/toptracks/internal/shared"
)

// Format selects an output renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// Formats lists every supported format, in the order shown in help text.
var Formats = []Format{FormatText, FormatMarkdown, FormatCSV, FormatJSON}

// ParseFormat accepts a format name case-insensitively. "md" is an alias for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatMarkdown, FormatCSV, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Render writes items in the requested format. The heading names the item type and time range.
func Render(items models.TopItems, q models.TopItemsQuery, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return shared.MarshalJSON(items, true)
	case FormatCSV:
		return ExportToCSV(items)
	case FormatMarkdown:
		return ExportToMarkdown(items, q)
	case FormatText, "":
		return ExportToText(items, q)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// Heading describes a query, e.g. "Top tracks (last 4 weeks)".
func Heading(q models.TopItemsQuery) string {
	return fmt.Sprintf("Top %s (%s)", q.Type, TimeRangeLabel(q.TimeRange))
}

// TimeRangeLabel returns a human-readable label for a time range.
func TimeRangeLabel(r models.TimeRange) string {
	switch r {
	case models.ShortTerm:
		return "last 4 weeks"
	case models.MediumTerm:
		return "last 6 months"
	case models.LongTerm:
		return "all time"
	default:
		return string(r)
	}
}

// FormatDuration converts milliseconds to m:ss.
func FormatDuration(ms int) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// ExportToCSV writes one row per item with a rank column.
//
// Tracks: Rank, ID, Name, Artists, Album, Duration, Popularity.
// Artists: Rank, ID, Name, Genres, Followers, Popularity.
func ExportToCSV(items models.TopItems) ([]byte, error) {
	var buf bytes.Buffer
	v := &csvVisitor{w: csv.NewWriter(&buf)}

	if err := items.Accept(v); err != nil {
		return nil, err
	}

	v.w.Flush()
	if err := v.w.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown renders a numbered list under a level-one heading.
func ExportToMarkdown(items models.TopItems, q models.TopItemsQuery) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", Heading(q))

	if items.Len() == 0 {
		buf.WriteString("_No items._\n")
		return buf.Bytes(), nil
	}

	if err := items.Accept(&markdownVisitor{buf: &buf}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportToText renders a styled heading followed by a numbered list.
func ExportToText(items models.TopItems, q models.TopItemsQuery) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Title(Heading(q)))
	buf.WriteString("\n\n")

	if items.Len() == 0 {
		buf.WriteString(Muted("No items."))
		buf.WriteString("\n")
		return buf.Bytes(), nil
	}

	if err := items.Accept(&textVisitor{buf: &buf}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type csvVisitor struct {
	w *csv.Writer
}

func (v *csvVisitor) VisitTracks(tracks []models.Track) error {
	if err := v.w.Write([]string{"Rank", "ID", "Name", "Artists", "Album", "Duration", "Popularity"}); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for i, t := range tracks {
		record := []string{
			strconv.Itoa(i + 1),
			t.ID,
			t.Name,
			t.ArtistNames(),
			t.Album.Name,
			FormatDuration(t.DurationMS),
			strconv.Itoa(t.Popularity),
		}
		if err := v.w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	return nil
}

func (v *csvVisitor) VisitArtists(artists []models.Artist) error {
	if err := v.w.Write([]string{"Rank", "ID", "Name", "Genres", "Followers", "Popularity"}); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for i, a := range artists {
		record := []string{
			strconv.Itoa(i + 1),
			a.ID,
			a.Name,
			strings.Join(a.Genres, "; "),
			strconv.Itoa(a.Followers.Total),
			strconv.Itoa(a.Popularity),
		}
		if err := v.w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	return nil
}

type markdownVisitor struct {
	buf *bytes.Buffer
}

func (v *markdownVisitor) VisitTracks(tracks []models.Track) error {
	for i, t := range tracks {
		albumPart := ""
		if t.Album.Name != "" {
			albumPart = fmt.Sprintf(" (%s)", t.Album.Name)
		}
		name := t.Name
		if t.ExternalURLs.Spotify != "" {
			name = fmt.Sprintf("[%s](%s)", t.Name, t.ExternalURLs.Spotify)
		}
		fmt.Fprintf(v.buf, "%d. %s - %s%s [%s]\n", i+1, t.ArtistNames(), name, albumPart, FormatDuration(t.DurationMS))
	}
	return nil
}

func (v *markdownVisitor) VisitArtists(artists []models.Artist) error {
	for i, a := range artists {
		name := a.Name
		if a.ExternalURLs.Spotify != "" {
			name = fmt.Sprintf("[%s](%s)", a.Name, a.ExternalURLs.Spotify)
		}
		fmt.Fprintf(v.buf, "%d. %s", i+1, name)
		if len(a.Genres) > 0 {
			fmt.Fprintf(v.buf, " _%s_", strings.Join(a.Genres, ", "))
		}
		v.buf.WriteString("\n")
	}
	return nil
}

type textVisitor struct {
	buf *bytes.Buffer
}

func (v *textVisitor) VisitTracks(tracks []models.Track) error {
	for i, t := range tracks {
		fmt.Fprintf(v.buf, "%2d. %s - %s\n", i+1, t.ArtistNames(), t.Name)
		if t.Album.Name != "" {
			fmt.Fprintf(v.buf, "    %s\n", Muted(fmt.Sprintf("%s · %s", t.Album.Name, FormatDuration(t.DurationMS))))
		}
	}
	return nil
}

func (v *textVisitor) VisitArtists(artists []models.Artist) error {
	for i, a := range artists {
		fmt.Fprintf(v.buf, "%2d. %s\n", i+1, a.Name)
		if len(a.Genres) > 0 {
			fmt.Fprintf(v.buf, "    %s\n", Muted(strings.Join(a.Genres, ", ")))
		}
	}
	return nil
}
