package format

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OutputFormat represents the format for non-interactive mode output
type OutputFormat string

const (
	// TextFormat is plain text output (default)
	TextFormat OutputFormat = "text"

	// JSONFormat is output as an indented JSON object
	JSONFormat OutputFormat = "json"
)

// IsValid checks if the output format is valid
func (f OutputFormat) IsValid() bool {
	return f == TextFormat || f == JSONFormat
}

// String returns the string representation of the output format
func (f OutputFormat) String() string {
	return string(f)
}

// Result describes a code generated from the command line.
type Result struct {
	Text       string `json:"text"`
	Size       string `json:"size"`
	SizeLabel  string `json:"sizeLabel"`
	Color      string `json:"color"`
	ColorLabel string `json:"colorLabel"`
	Encoder    string `json:"encoder"`
	Width      int    `json:"width"`
	File       string `json:"file,omitempty"`
	Copied     string `json:"copied,omitempty"`

	// Preview is the terminal rendering; it is only part of text output.
	Preview string `json:"-"`
}

func (r Result) String() string {
	var b strings.Builder
	if r.Preview != "" {
		b.WriteString(r.Preview)
		b.WriteString("\n\n")
	}
	field(&b, "Size", r.SizeLabel)
	field(&b, "Color", r.ColorLabel)
	field(&b, "Encoder", r.Encoder)
	if r.File != "" {
		field(&b, "Saved", r.File)
	}
	if r.Copied != "" {
		field(&b, "Copied", r.Copied)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Stats are the usage counters.
type Stats struct {
	GeneratedCount int        `json:"generatedCount"`
	TodayCount     int        `json:"todayCount"`
	TotalSaved     int        `json:"totalSaved"`
	Theme          string     `json:"theme"`
	LastGenerated  *time.Time `json:"lastGenerated,omitempty"`
}

func (s Stats) String() string {
	var b strings.Builder
	field(&b, "Generated", fmt.Sprint(s.GeneratedCount))
	field(&b, "Today", fmt.Sprint(s.TodayCount))
	field(&b, "Saved", fmt.Sprint(s.TotalSaved))
	field(&b, "Theme", s.Theme)
	last := "never"
	if s.LastGenerated != nil {
		last = s.LastGenerated.Local().Format("2006-01-02 15:04")
	}
	field(&b, "Last", last)
	return strings.TrimRight(b.String(), "\n")
}

func field(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "%-10s %s\n", name+":", value)
}

// FormatOutput formats v according to the specified format. Text output uses
// v's String method when it has one.
func FormatOutput(v any, format OutputFormat) (string, error) {
	switch format {
	case TextFormat:
		if s, ok := v.(fmt.Stringer); ok {
			return s.String(), nil
		}
		return fmt.Sprint(v), nil
	case JSONFormat:
		jsonBytes, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(jsonBytes), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}
