package journal

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/daybook-sh/daybook/pkg/logging"
)

// Persistence keys. The full entry list and the streak record are stored as
// JSON under these two fixed keys.
const (
	entriesKey = "journal_entries"
	streakKey  = "journal_streak"
)

// KV is the key-value persistence capability the store consumes.
// pkg/kv provides the SQLite-backed implementation.
type KV interface {
	// Save stores value under key, overwriting any previous value.
	Save(ctx context.Context, key string, value []byte) error

	// Load retrieves the value stored under key. ok is false when the key
	// has never been written.
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)
}

// Draft holds the caller-supplied fields for a new entry. Nil optional
// fields are simply absent; a nil Date means "now".
type Draft struct {
	Content  string
	Category *string
	TimeNote *string
	Photo    *string
	Location *Location
	Date     *time.Time
}

// Patch holds replacement values for an entry's mutable fields. Nil fields
// are left unchanged.
type Patch struct {
	Content  *string
	Category *string
	TimeNote *string
}

// EntryStore is the sole owner of the entry collection and the streak state.
// It keeps everything in memory, sorted by date descending, and writes both
// records back to the key-value store after every mutation.
//
// All methods must be called from one logical goroutine; the store does no
// internal locking because the application has no concurrent writers.
type EntryStore struct {
	kv       KV
	log      logging.Logger
	reporter *Reporter
	now      func() time.Time

	entries   []Entry
	streak    StreakState
	observers []func()
}

// Option configures an EntryStore.
type Option func(*EntryStore)

// WithLogger sets the store's logger.
func WithLogger(l logging.Logger) Option {
	return func(s *EntryStore) { s.log = l }
}

// WithReporter sets the reporter that receives persistence-failure notices.
func WithReporter(r *Reporter) Option {
	return func(s *EntryStore) { s.reporter = r }
}

// WithClock overrides the store's notion of "now". Tests use this to pin
// the current day.
func WithClock(now func() time.Time) Option {
	return func(s *EntryStore) { s.now = now }
}

// NewEntryStore loads persisted entries and streak state from kv. Missing or
// malformed data is non-fatal: the store starts empty with a zero streak and
// logs a warning. The streak is recomputed once against the current day, so
// a store reopened after a gap reflects the decayed streak immediately.
func NewEntryStore(ctx context.Context, kv KV, opts ...Option) *EntryStore {
	s := &EntryStore{
		kv:       kv,
		log:      logging.Nop(),
		reporter: NewReporter(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.loadEntries(ctx)
	s.loadStreak(ctx)
	s.sortEntries()
	s.recompute()

	return s
}

func (s *EntryStore) loadEntries(ctx context.Context) {
	data, ok, err := s.kv.Load(ctx, entriesKey)
	if err != nil {
		s.log.Warn(ctx, "failed to load entries, starting empty", "err", err)
		return
	}
	if !ok {
		return
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.log.Warn(ctx, "persisted entries are malformed, starting empty", "err", err)
		return
	}
	s.entries = entries
}

func (s *EntryStore) loadStreak(ctx context.Context) {
	data, ok, err := s.kv.Load(ctx, streakKey)
	if err != nil {
		s.log.Warn(ctx, "failed to load streak, starting at zero", "err", err)
		return
	}
	if !ok {
		return
	}
	var streak StreakState
	if err := json.Unmarshal(data, &streak); err != nil {
		s.log.Warn(ctx, "persisted streak is malformed, starting at zero", "err", err)
		return
	}
	s.streak = streak
}

// Create appends a new entry and returns it. The id is generated here and
// the date defaults to now; both are immutable afterwards.
func (s *EntryStore) Create(ctx context.Context, d Draft) Entry {
	date := s.now()
	if d.Date != nil {
		date = *d.Date
	}

	entry := Entry{
		ID:            uuid.New(),
		Content:       d.Content,
		Category:      d.Category,
		Date:          date,
		Time:          d.TimeNote,
		PhotoFilename: d.Photo,
		Location:      d.Location,
	}

	s.entries = append(s.entries, entry)
	s.sortEntries()
	s.recompute()
	s.persist(ctx, true)
	s.notify()

	return entry
}

// Delete removes the entry with the given id. Deleting an id that is not
// present is a no-op, not an error. Longest-streak history survives the
// deletion even when the deleted entry was part of the record run.
func (s *EntryStore) Delete(ctx context.Context, id uuid.UUID) {
	idx := s.indexOf(id)
	if idx < 0 {
		return
	}

	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	s.recompute()
	s.persist(ctx, true)
	s.notify()
}

// Update replaces the mutable fields of the entry with the given id. The
// id, date, photo and location references are preserved, so the streak does
// not change and is not recomputed. Updating an absent id is a no-op.
func (s *EntryStore) Update(ctx context.Context, id uuid.UUID, p Patch) {
	idx := s.indexOf(id)
	if idx < 0 {
		return
	}

	entry := &s.entries[idx]
	if p.Content != nil {
		entry.Content = *p.Content
	}
	if p.Category != nil {
		entry.Category = p.Category
	}
	if p.TimeNote != nil {
		entry.Time = p.TimeNote
	}

	s.persist(ctx, false)
	s.notify()
}

// ImportBatch appends the given entries as if individually created: ids are
// preserved when present, generated when zero, and entries whose id already
// exists in the store are skipped to keep ids unique. The streak is
// recomputed once over the full resulting date set.
func (s *EntryStore) ImportBatch(ctx context.Context, entries []Entry) {
	seen := make(map[uuid.UUID]bool, len(s.entries))
	for _, e := range s.entries {
		seen[e.ID] = true
	}

	added := 0
	for _, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		s.entries = append(s.entries, e)
		added++
	}
	if added == 0 {
		return
	}

	s.sortEntries()
	s.recompute()
	s.persist(ctx, true)
	s.notify()
}

// Entries returns a copy of the collection in canonical order, newest first.
func (s *EntryStore) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns the entry with the given id.
func (s *EntryStore) Get(id uuid.UUID) (Entry, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Entry{}, false
	}
	return s.entries[idx], true
}

// EntriesOn returns all entries whose date falls on the given calendar day,
// preserving the store's canonical order.
func (s *EntryStore) EntriesOn(day Day) []Entry {
	var out []Entry
	for _, e := range s.entries {
		if DayOf(e.Date) == day {
			out = append(out, e)
		}
	}
	return out
}

// EntriesInRange returns all entries whose calendar day falls within
// [from, to] inclusive, preserving the store's canonical order.
func (s *EntryStore) EntriesInRange(from, to Day) []Entry {
	var out []Entry
	for _, e := range s.entries {
		d := DayOf(e.Date)
		if d.Compare(from) >= 0 && d.Compare(to) <= 0 {
			out = append(out, e)
		}
	}
	return out
}

// Streak returns the current streak state.
func (s *EntryStore) Streak() StreakState {
	return s.streak
}

// Reporter returns the reporter receiving this store's failure notices.
func (s *EntryStore) Reporter() *Reporter {
	return s.reporter
}

// Subscribe registers fn to be called after each completed mutation. The
// callback runs on the goroutine that issued the mutation.
func (s *EntryStore) Subscribe(fn func()) {
	s.observers = append(s.observers, fn)
}

func (s *EntryStore) indexOf(id uuid.UUID) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// sortEntries establishes the canonical iteration order: date descending,
// newest first. The sort is stable so same-instant entries keep their
// insertion order.
func (s *EntryStore) sortEntries() {
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].Date.After(s.entries[j].Date)
	})
}

// recompute rebuilds the streak from the entry date set. Longest carries
// forward so the historical maximum is never lost.
func (s *EntryStore) recompute() {
	days := make(map[Day]bool, len(s.entries))
	for _, e := range s.entries {
		days[DayOf(e.Date)] = true
	}
	s.streak = ComputeStreak(days, DayOf(s.now()), s.streak.Longest)
}

// persist writes the entry list and, when withStreak is set, the streak
// record. A write failure is non-fatal: the in-memory state stays
// authoritative for the session and the failure surfaces as a notice.
func (s *EntryStore) persist(ctx context.Context, withStreak bool) {
	data, err := json.Marshal(s.entries)
	if err != nil {
		s.persistFailed(ctx, "encode entries", err)
	} else if err := s.kv.Save(ctx, entriesKey, data); err != nil {
		s.persistFailed(ctx, "save entries", err)
	}

	if !withStreak {
		return
	}

	data, err = json.Marshal(s.streak)
	if err != nil {
		s.persistFailed(ctx, "encode streak", err)
	} else if err := s.kv.Save(ctx, streakKey, data); err != nil {
		s.persistFailed(ctx, "save streak", err)
	}
}

func (s *EntryStore) persistFailed(ctx context.Context, op string, err error) {
	s.log.Error(ctx, "persistence failed", "op", op, "err", err)
	s.reporter.Report(Notice{
		Title:    "Couldn't save your journal",
		Message:  "Your latest changes are kept for this session but could not be written to storage.",
		Category: NoticeStorage,
	})
}

func (s *EntryStore) notify() {
	for _, fn := range s.observers {
		fn()
	}
}
