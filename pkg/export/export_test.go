package export

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/daybook-sh/daybook/pkg/journal"
)

func sampleEntries(t *testing.T) []journal.Entry {
	t.Helper()

	category := "Travel"
	timeNote := "10:00"
	photo := "f3a2.jpg"
	place := "Lisbon"

	return []journal.Entry{
		{
			ID:            uuid.New(),
			Content:       "Climbed to the castle",
			Category:      &category,
			Date:          time.Date(2026, time.August, 28, 9, 30, 0, 0, time.UTC),
			Time:          &timeNote,
			PhotoFilename: &photo,
			Location: &journal.Location{
				Latitude:  38.7139,
				Longitude: -9.1335,
				PlaceName: &place,
			},
		},
		{
			ID:      uuid.New(),
			Content: "Quiet day, nothing much",
			Date:    time.Date(2026, time.August, 27, 21, 0, 0, 0, time.UTC),
		},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	entries := sampleEntries(t)
	last := journal.DayOf(entries[0].Date)
	streak := journal.StreakState{Current: 2, Longest: 5, LastEntryDate: &last}

	data, err := JSON(entries, streak, "0.4.0", time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("JSON export failed: %v", err)
	}
	for _, want := range []string{`"appVersion": "0.4.0"`, `"exportDate"`, `"lastEntryDate": "2026-08-28"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON export missing %s", want)
		}
	}

	parsed, err := Parse(data, FormatJSON)
	if err != nil {
		t.Fatalf("JSON import failed: %v", err)
	}
	if len(parsed) != len(entries) {
		t.Fatalf("Expected %d entries, got %d", len(entries), len(parsed))
	}
	for i, got := range parsed {
		want := entries[i]
		if got.ID != want.ID {
			t.Errorf("Entry %d: id mismatch (JSON must round-trip exactly)", i)
		}
		if got.Content != want.Content {
			t.Errorf("Entry %d: content mismatch: %q != %q", i, got.Content, want.Content)
		}
		if !got.Date.Equal(want.Date) {
			t.Errorf("Entry %d: date mismatch: %v != %v", i, got.Date, want.Date)
		}
	}

	got := parsed[0]
	if got.Category == nil || *got.Category != "Travel" {
		t.Error("Category lost in JSON round trip")
	}
	if got.PhotoFilename == nil || *got.PhotoFilename != "f3a2.jpg" {
		t.Error("Photo filename lost in JSON round trip")
	}
	if got.Location == nil || got.Location.PlaceName == nil || *got.Location.PlaceName != "Lisbon" {
		t.Error("Location lost in JSON round trip")
	}
}

func TestTextExportAndImport(t *testing.T) {
	entries := sampleEntries(t)

	data := Text(entries)
	text := string(data)

	for _, want := range []string{
		"- Date: 2026-08-28",
		"  Category: Travel",
		"  Time: 10:00",
		"  Content: Climbed to the castle",
		"  [photo attached]",
		"- Date: 2026-08-27",
		"  Content: Quiet day, nothing much",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Text export missing line %q in:\n%s", want, text)
		}
	}

	parsed, err := Parse(data, FormatText)
	if err != nil {
		t.Fatalf("Text import failed: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(parsed))
	}
	if parsed[0].Content != "Climbed to the castle" {
		t.Errorf("Content mismatch: %q", parsed[0].Content)
	}
	if parsed[0].Category == nil || *parsed[0].Category != "Travel" {
		t.Error("Category lost in text round trip")
	}
	if parsed[0].Time == nil || *parsed[0].Time != "10:00" {
		t.Error("Time annotation lost in text round trip")
	}
	if journal.DayOf(parsed[0].Date) != journal.DayOf(entries[0].Date) {
		t.Error("Date day lost in text round trip")
	}
	// The photo itself is not in the export, only a marker.
	if parsed[0].PhotoFilename != nil {
		t.Error("Text import must not invent a photo reference")
	}
}

func TestTextImportSkipsMalformedBlocks(t *testing.T) {
	text := `Daybook Journal Export
======================

- Date: not-a-date
  Content: this block is dropped

- Date: 2026-08-27
  Content: this one survives
`
	parsed, err := Parse([]byte(text), FormatText)
	if err != nil {
		t.Fatalf("Text import failed: %v", err)
	}
	if len(parsed) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(parsed))
	}
	if parsed[0].Content != "this one survives" {
		t.Errorf("Wrong entry survived: %q", parsed[0].Content)
	}
}

func TestCSVExportAndImport(t *testing.T) {
	entries := sampleEntries(t)
	entries[1].Content = `Has a comma, and "quotes"`

	data, err := CSV(entries)
	if err != nil {
		t.Fatalf("CSV export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "Date,Time,Category,Content,Has Photo" {
		t.Errorf("Unexpected CSV header: %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "Yes") {
		t.Errorf("Expected photo flagged Yes: %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "No") {
		t.Errorf("Expected photo flagged No: %q", lines[2])
	}

	parsed, err := Parse(data, FormatCSV)
	if err != nil {
		t.Fatalf("CSV import failed: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(parsed))
	}
	if parsed[1].Content != `Has a comma, and "quotes"` {
		t.Errorf("Quoted content mangled: %q", parsed[1].Content)
	}
	if parsed[0].Category == nil || *parsed[0].Category != "Travel" {
		t.Error("Category lost in CSV round trip")
	}
	if journal.DayOf(parsed[0].Date) != journal.DayOf(entries[0].Date) {
		t.Error("Date day lost in CSV round trip")
	}
}

func TestCSVImportSkipsMalformedRows(t *testing.T) {
	csvData := `Date,Time,Category,Content,Has Photo
2026-08-28,,Work,good row,No
yesterday-ish,,Work,bad date,No
2026-08-27,,,another good row,No
`
	parsed, err := Parse([]byte(csvData), FormatCSV)
	if err != nil {
		t.Fatalf("CSV import failed: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("Expected 2 entries after skipping the bad row, got %d", len(parsed))
	}
}

func TestCSVImportWithNoEntriesFails(t *testing.T) {
	if _, err := Parse([]byte("Date,Time,Category,Content,Has Photo\n"), FormatCSV); err == nil {
		t.Error("Expected error for a CSV file with no entries")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
		want     Format
		wantErr  bool
	}{
		{"json extension", "journal.json", "", FormatJSON, false},
		{"csv extension", "journal.csv", "", FormatCSV, false},
		{"txt extension", "journal.txt", "", FormatText, false},
		{"sniff json object", "backup", `{"entries":[]}`, FormatJSON, false},
		{"sniff csv header", "backup", "Date,Time,Category,Content,Has Photo\n", FormatCSV, false},
		{"sniff text", "backup", "- Date: 2026-08-28\n  Content: hi\n", FormatText, false},
		{"unknown", "backup.bin", "\x00\x01", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectFormat(tc.filename, []byte(tc.data))
			if tc.wantErr {
				if err == nil {
					t.Error("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectFormat failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %s, got %s", tc.want, got)
			}
		})
	}
}
