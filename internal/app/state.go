package app

import (
	"time"

	"github.com/glassqr/glassqr/internal/device"
	"github.com/glassqr/glassqr/internal/qr"
)

// Phase is the lifecycle of the current bitmap.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseGenerating
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseGenerating:
		return "generating"
	case PhaseReady:
		return "ready"
	default:
		return "empty"
	}
}

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func (t Theme) Label() string {
	if t == ThemeLight {
		return "Light"
	}
	return "Dark"
}

func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// State is a snapshot of the session. Bitmap is shared and must not be
// modified.
type State struct {
	Text  string
	Size  qr.Size
	Color qr.Color

	Bitmap *qr.Bitmap
	Phase  Phase

	GeneratedCount int
	TodayCount     int
	TotalSaved     int

	Theme    Theme
	Compact  bool
	Viewport device.Viewport

	LastGenerated time.Time
	SizeLabel     string
	ColorLabel    string
	TimeLabel     string
}

// Ready reports whether export actions are possible.
func (s State) Ready() bool {
	return s.Phase == PhaseReady && s.Bitmap != nil
}

// Stats are the persisted counters.
type Stats struct {
	GeneratedCount int        `json:"generatedCount"`
	TodayCount     int        `json:"todayCount"`
	TotalSaved     int        `json:"totalSaved"`
	Theme          Theme      `json:"theme"`
	LastGenerated  *time.Time `json:"lastGenerated,omitempty"`
}

func (s State) Stats() Stats {
	stats := Stats{
		GeneratedCount: s.GeneratedCount,
		TodayCount:     s.TodayCount,
		TotalSaved:     s.TotalSaved,
		Theme:          s.Theme,
	}
	if !s.LastGenerated.IsZero() {
		ts := s.LastGenerated
		stats.LastGenerated = &ts
	}
	return stats
}
