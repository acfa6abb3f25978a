package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DateLayout is the format of Record.LastDate.
const DateLayout = "2006-01-02"

// DefaultKey is the key the record is stored under.
const DefaultKey = "glassqr_data"

// Record is the persisted usage state.
type Record struct {
	GeneratedCount int        `json:"generatedCount"`
	TotalSaved     int        `json:"totalSaved"`
	TodayCount     int        `json:"todayCount"`
	LastDate       string     `json:"lastDate"`
	Theme          string     `json:"theme"`
	LastGenerated  *time.Time `json:"lastGenerated"`
}

// DefaultRecord is what Load returns when nothing usable is stored.
func DefaultRecord() Record {
	return Record{Theme: "dark"}
}

// Repository reads and writes the Record through a KV.
type Repository struct {
	kv           KV
	key          string
	now          func() time.Time
	defaultTheme string
}

func NewRepository(kv KV, key string) *Repository {
	if key == "" {
		key = DefaultKey
	}
	return &Repository{kv: kv, key: key, now: time.Now, defaultTheme: "dark"}
}

// WithDefaultTheme sets the theme reported when no record is stored yet.
func (r *Repository) WithDefaultTheme(theme string) *Repository {
	if theme == "light" || theme == "dark" {
		r.defaultTheme = theme
	}
	return r
}

// WithClock replaces the clock used for the day boundary.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	r.now = now
	return r
}

func (r *Repository) today() string {
	return r.now().Format(DateLayout)
}

// Load returns the stored record. Missing or unreadable data yields the
// defaults. A record from an earlier day has TodayCount reset to zero.
func (r *Repository) Load(ctx context.Context) Record {
	data, err := r.kv.Get(ctx, r.key)
	if errors.Is(err, ErrNotFound) {
		rec := DefaultRecord()
		rec.Theme = r.defaultTheme
		return rec
	}
	if err != nil {
		slog.Error("failed to load usage record", "key", r.key, "error", err)
		return DefaultRecord()
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		slog.Error("failed to parse usage record", "key", r.key, "error", err)
		return DefaultRecord()
	}

	rec.GeneratedCount = max(rec.GeneratedCount, 0)
	rec.TotalSaved = max(rec.TotalSaved, 0)
	rec.TodayCount = max(rec.TodayCount, 0)
	if rec.Theme != "light" {
		rec.Theme = "dark"
	}
	if rec.LastDate != r.today() {
		rec.TodayCount = 0
	}
	return rec
}

// Save writes rec, stamping LastDate with today's date.
func (r *Repository) Save(ctx context.Context, rec Record) error {
	rec.LastDate = r.today()
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal usage record: %w", err)
	}
	if err := r.kv.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("save usage record: %w", err)
	}
	return nil
}
