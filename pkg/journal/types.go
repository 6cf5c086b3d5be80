package journal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is a single dated journal record. Content, category and the time
// annotation may be edited after creation; everything else is immutable.
type Entry struct {
	ID            uuid.UUID `json:"id"`
	Content       string    `json:"content"`
	Category      *string   `json:"category"`
	Date          time.Time `json:"date"`
	Time          *string   `json:"time"`
	PhotoFilename *string   `json:"photoFilename"`
	Location      *Location `json:"location"`
}

// Location is a snapshot of where an entry was written, captured at creation
// time and never updated afterwards.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	PlaceName *string `json:"placeName"`
	Address   *string `json:"address"`
}

// StreakState tracks consecutive journaling days. Longest is never less than
// Current and never decreases, even when old entries are deleted.
type StreakState struct {
	Current       int  `json:"current"`
	Longest       int  `json:"longest"`
	LastEntryDate *Day `json:"lastEntryDate"`
}

// DefaultCategories lists the built-in entry categories. Categories are
// stored as plain text, so imports may carry values outside this list.
var DefaultCategories = []string{
	"Personal",
	"Work",
	"Travel",
	"Health",
	"Gratitude",
	"Ideas",
}

// IsDefaultCategory returns true if the given category is one of the built-in set.
func IsDefaultCategory(name string) bool {
	for _, c := range DefaultCategories {
		if c == name {
			return true
		}
	}
	return false
}

// Day is a calendar day independent of time of day and zone offset. It is
// the unit of streak counting and of day-granularity queries.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf truncates a timestamp to its calendar day in the timestamp's location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay parses a "YYYY-MM-DD" string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return DayOf(t), nil
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Prev returns the previous calendar day, handling month and year boundaries.
func (d Day) Prev() Day {
	return DayOf(d.midnight().AddDate(0, 0, -1))
}

// Next returns the following calendar day.
func (d Day) Next() Day {
	return DayOf(d.midnight().AddDate(0, 0, 1))
}

// Compare orders two days chronologically: -1 if d is earlier than o,
// 0 if equal, +1 if later.
func (d Day) Compare(o Day) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

func (d Day) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// MarshalJSON encodes the day as a "YYYY-MM-DD" string.
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Day) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid day %s: not a JSON string", data)
	}
	parsed, err := ParseDay(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
