// Package export renders the journal to its three interchange formats (JSON,
// plain text, CSV) and parses them back into entries. JSON round-trips
// exactly; text and CSV are lossy, human-oriented renderings with best-effort
// parsers on the way back in.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/daybook-sh/daybook/pkg/journal"
)

// Archive is the JSON export envelope.
type Archive struct {
	Entries    []journal.Entry     `json:"entries"`
	Streak     journal.StreakState `json:"streak"`
	ExportDate time.Time           `json:"exportDate"`
	AppVersion string              `json:"appVersion"`
}

// csvHeader is the fixed CSV column layout.
var csvHeader = []string{"Date", "Time", "Category", "Content", "Has Photo"}

// dayFormat is how dates render in the text and CSV formats.
const dayFormat = "2006-01-02"

// JSON renders the full journal as an indented JSON archive.
func JSON(entries []journal.Entry, streak journal.StreakState, appVersion string, exportDate time.Time) ([]byte, error) {
	archive := Archive{
		Entries:    entries,
		Streak:     streak,
		ExportDate: exportDate,
		AppVersion: appVersion,
	}
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode journal archive: %w", err)
	}
	return data, nil
}

// Text renders entries as a human-readable sectioned document, one block per
// entry.
func Text(entries []journal.Entry) []byte {
	var sb strings.Builder
	sb.WriteString("Daybook Journal Export\n")
	sb.WriteString("======================\n\n")

	for _, e := range entries {
		sb.WriteString("- Date: " + e.Date.Format(dayFormat) + "\n")
		if e.Category != nil && *e.Category != "" {
			sb.WriteString("  Category: " + *e.Category + "\n")
		}
		if e.Time != nil && *e.Time != "" {
			sb.WriteString("  Time: " + *e.Time + "\n")
		}
		sb.WriteString("  Content: " + e.Content + "\n")
		if e.PhotoFilename != nil && *e.PhotoFilename != "" {
			sb.WriteString("  [photo attached]\n")
		}
		sb.WriteString("\n")
	}

	return []byte(sb.String())
}

// CSV renders entries as quoted-field rows under the fixed header. The photo
// column carries Yes/No rather than the filename.
func CSV(entries []journal.Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, e := range entries {
		timeNote := ""
		if e.Time != nil {
			timeNote = *e.Time
		}
		category := ""
		if e.Category != nil {
			category = *e.Category
		}
		hasPhoto := "No"
		if e.PhotoFilename != nil && *e.PhotoFilename != "" {
			hasPhoto = "Yes"
		}

		row := []string{e.Date.Format(dayFormat), timeNote, category, e.Content, hasPhoto}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to render CSV: %w", err)
	}
	return buf.Bytes(), nil
}
