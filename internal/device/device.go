// Package device derives layout facts from the terminal size.
package device

import (
	"github.com/glassqr/glassqr/internal/qr"
)

const (
	DefaultCompactBreakpoint = 100
	DefaultCellWidthPx       = 9

	minClampedSize = 128
	// clampMarginPx keeps a margin around the code on narrow terminals.
	clampMarginPx = 100
)

// Options tune the detector. Zero values select the defaults.
type Options struct {
	CompactBreakpoint int
	CellWidthPx       int
}

// Viewport describes the terminal as seen at the last resize. The zero value
// is a desktop layout with unknown width.
type Viewport struct {
	Columns int
	Rows    int
	WidthPx int
	Compact bool
}

// Detect builds a viewport for a terminal of the given size.
func Detect(columns, rows int, opts Options) Viewport {
	if opts.CompactBreakpoint <= 0 {
		opts.CompactBreakpoint = DefaultCompactBreakpoint
	}
	if opts.CellWidthPx <= 0 {
		opts.CellWidthPx = DefaultCellWidthPx
	}
	if columns <= 0 {
		return Viewport{Rows: max(rows, 0)}
	}
	return Viewport{
		Columns: columns,
		Rows:    max(rows, 0),
		WidthPx: columns * opts.CellWidthPx,
		Compact: columns < opts.CompactBreakpoint,
	}
}

// ClampSize limits a pixel size to the viewport width minus a margin, with a
// floor of 128. An unknown width leaves the size unchanged.
func (v Viewport) ClampSize(size int) int {
	if v.WidthPx <= 0 {
		return size
	}
	limit := max(v.WidthPx-clampMarginPx, minClampedSize)
	return min(size, limit)
}

// DefaultSize returns the size to preselect: small on compact layouts,
// otherwise the configured size.
func DefaultSize(v Viewport, configured qr.Size) qr.Size {
	if v.Compact {
		return qr.SizeSmall
	}
	if _, err := qr.ParseSize(string(configured)); err != nil {
		return qr.DefaultSize
	}
	return configured
}
