package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/daybook-sh/daybook/pkg/journal"
)

// Format identifies an interchange format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
	FormatCSV  Format = "csv"
)

// ErrUnknownFormat is returned when a file can be matched to none of the
// supported formats.
var ErrUnknownFormat = errors.New("unknown import format: expected JSON, CSV, or text export")

// DetectFormat decides which format a file carries, first by extension and
// then by sniffing the content.
func DetectFormat(filename string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".txt", ".text":
		return FormatText, nil
	}

	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '['):
		return FormatJSON, nil
	case bytes.Contains(trimmed, []byte(strings.Join(csvHeader, ","))):
		return FormatCSV, nil
	case bytes.Contains(trimmed, []byte("Date:")):
		return FormatText, nil
	}
	return "", ErrUnknownFormat
}

// Parse reconstructs entries from exported data. JSON round-trips exactly,
// including ids; text and CSV parsing is best-effort and line-oriented, so
// malformed lines are skipped and reconstructed entries carry no id (the
// store generates one on import).
func Parse(data []byte, format Format) ([]journal.Entry, error) {
	switch format {
	case FormatJSON:
		return parseJSON(data)
	case FormatCSV:
		return parseCSV(data)
	case FormatText:
		return parseText(data)
	default:
		return nil, ErrUnknownFormat
	}
}

func parseJSON(data []byte) ([]journal.Entry, error) {
	var archive Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("failed to parse JSON export: %w", err)
	}
	return archive.Entries, nil
}

func parseCSV(data []byte) ([]journal.Entry, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	var entries []journal.Entry
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip rows the reader cannot make sense of.
			continue
		}
		if first {
			first = false
			if len(row) > 0 && row[0] == csvHeader[0] {
				continue
			}
		}
		if len(row) < 4 {
			continue
		}

		date, ok := parseEntryDate(row[0])
		if !ok {
			continue
		}

		entry := journal.Entry{Content: row[3], Date: date}
		if row[1] != "" {
			entry.Time = strPtr(row[1])
		}
		if row[2] != "" {
			entry.Category = strPtr(row[2])
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, errors.New("no entries found in CSV file")
	}
	return entries, nil
}

func parseText(data []byte) ([]journal.Entry, error) {
	var entries []journal.Entry
	var current *journal.Entry

	flush := func() {
		if current != nil {
			entries = append(entries, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimPrefix(line, "- ")

		switch {
		case strings.HasPrefix(line, "Date: "):
			flush()
			date, ok := parseEntryDate(strings.TrimPrefix(line, "Date: "))
			if !ok {
				continue
			}
			current = &journal.Entry{Date: date}
		case current == nil:
			// Header lines or stray text before the first parseable block.
		case strings.HasPrefix(line, "Category: "):
			current.Category = strPtr(strings.TrimPrefix(line, "Category: "))
		case strings.HasPrefix(line, "Time: "):
			current.Time = strPtr(strings.TrimPrefix(line, "Time: "))
		case strings.HasPrefix(line, "Content: "):
			current.Content = strings.TrimPrefix(line, "Content: ")
		case line == "[photo attached]" || line == "":
			// The photo itself is not part of the export; the marker is dropped.
		default:
			// Continuation of a multi-line content field.
			if current.Content != "" {
				current.Content += "\n"
			}
			current.Content += line
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read text export: %w", err)
	}
	if len(entries) == 0 {
		return nil, errors.New("no entries found in text file")
	}
	return entries, nil
}

// parseEntryDate accepts the day format used by text/CSV exports and, for
// tolerance toward hand-edited files, full RFC 3339 timestamps.
func parseEntryDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dayFormat, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func strPtr(s string) *string {
	return &s
}
