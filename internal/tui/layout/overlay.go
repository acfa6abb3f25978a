package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	chAnsi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"

	"github.com/glassqr/glassqr/internal/tui/theme"
	"github.com/glassqr/glassqr/internal/util"
)

// Split a string into lines, additionally returning the size of the widest line.
func getLines(s string) (lines []string, widest int) {
	lines = strings.Split(s, "\n")
	for _, l := range lines {
		w := ansi.PrintableRuneWidth(l)
		if widest < w {
			widest = w
		}
	}
	return lines, widest
}

// PlaceOverlay places fg on top of bg at column x, row y. With shadow set, a
// shaded edge is drawn below and to the right of fg.
func PlaceOverlay(
	x, y int,
	fg, bg string,
	shadow bool, opts ...WhitespaceOption,
) string {
	fgLines, fgWidth := getLines(fg)
	bgLines, bgWidth := getLines(bg)
	bgHeight := len(bgLines)
	fgHeight := len(fgLines)

	if shadow {
		t := theme.Current()
		shade := lipgloss.NewStyle().
			Background(t.BackgroundPanel).
			Foreground(t.Border).
			Render("░")
		blank := lipgloss.NewStyle().Background(t.Background).Render(" ")

		var sb strings.Builder
		for i := 0; i <= fgHeight; i++ {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if i == 0 {
				sb.WriteString(strings.Repeat(blank, fgWidth+1))
				continue
			}
			sb.WriteString(blank + strings.Repeat(shade, fgWidth))
		}
		fg = PlaceOverlay(0, 0, fg, sb.String(), false, opts...)
		fgLines, fgWidth = getLines(fg)
		fgHeight = len(fgLines)
	}

	if fgWidth >= bgWidth && fgHeight >= bgHeight {
		return fg
	}
	x = util.Clamp(x, 0, bgWidth-fgWidth)
	y = util.Clamp(y, 0, bgHeight-fgHeight)

	ws := &whitespace{}
	for _, opt := range opts {
		opt(ws)
	}

	var b strings.Builder
	for i, bgLine := range bgLines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i < y || i >= y+fgHeight {
			b.WriteString(bgLine)
			continue
		}

		pos := 0
		if x > 0 {
			left := truncate.String(bgLine, uint(x))
			pos = ansi.PrintableRuneWidth(left)
			b.WriteString(left)
			if pos < x {
				b.WriteString(ws.render(x - pos))
				pos = x
			}
		}

		fgLine := fgLines[i-y]
		b.WriteString(fgLine)
		pos += ansi.PrintableRuneWidth(fgLine)

		right := cutLeft(bgLine, pos)
		lineWidth := ansi.PrintableRuneWidth(bgLine)
		rightWidth := ansi.PrintableRuneWidth(right)
		if rightWidth <= lineWidth-pos {
			b.WriteString(ws.render(lineWidth - rightWidth - pos))
		}
		b.WriteString(right)
	}

	return b.String()
}

// PlaceCentered places fg in the middle of bg.
func PlaceCentered(fg, bg string, shadow bool) string {
	row := lipgloss.Height(bg)/2 - lipgloss.Height(fg)/2
	col := lipgloss.Width(bg)/2 - lipgloss.Width(fg)/2
	return PlaceOverlay(col, row, fg, bg, shadow)
}

// cutLeft drops the first cutWidth printable cells of s, keeping styles.
func cutLeft(s string, cutWidth int) string {
	return chAnsi.Cut(s, cutWidth, lipgloss.Width(s))
}

type whitespace struct {
	style termenv.Style
	chars string
}

// Render whitespaces.
func (w whitespace) render(width int) string {
	if w.chars == "" {
		w.chars = " "
	}

	r := []rune(w.chars)
	j := 0
	b := strings.Builder{}

	for i := 0; i < width; {
		b.WriteRune(r[j])
		j++
		if j >= len(r) {
			j = 0
		}
		i += ansi.PrintableRuneWidth(string(r[j]))
	}

	// Wide runes can leave a one-cell gap.
	short := width - ansi.PrintableRuneWidth(b.String())
	if short > 0 {
		b.WriteString(strings.Repeat(" ", short))
	}

	return w.style.Styled(b.String())
}

// WhitespaceOption sets a styling rule for rendering whitespace.
type WhitespaceOption func(*whitespace)

// WithWhitespaceChars fills gaps with the given characters.
func WithWhitespaceChars(s string) WhitespaceOption {
	return func(w *whitespace) {
		w.chars = s
	}
}
