// Package theme holds the TUI colour palettes.
package theme

import (
	"fmt"
	"sync"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	Dark  = "dark"
	Light = "light"
)

// Theme is a resolved palette.
type Theme struct {
	Name string

	Background        lipgloss.Color
	BackgroundPanel   lipgloss.Color
	BackgroundElement lipgloss.Color

	Border       lipgloss.Color
	BorderActive lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Text      lipgloss.Color
	TextMuted lipgloss.Color

	Error   lipgloss.Color
	Warning lipgloss.Color
	Success lipgloss.Color
	Info    lipgloss.Color
}

// flavour is the subset of a catppuccin flavour the themes read.
type flavour interface {
	Base() catppuccin.Color
	Mantle() catppuccin.Color
	Surface0() catppuccin.Color
	Surface1() catppuccin.Color
	Mauve() catppuccin.Color
	Lavender() catppuccin.Color
	Pink() catppuccin.Color
	Text() catppuccin.Color
	Subtext0() catppuccin.Color
	Red() catppuccin.Color
	Yellow() catppuccin.Color
	Green() catppuccin.Color
	Blue() catppuccin.Color
}

func fromFlavour(name string, f flavour) *Theme {
	c := func(col catppuccin.Color) lipgloss.Color { return lipgloss.Color(col.Hex) }
	return &Theme{
		Name:              name,
		Background:        c(f.Base()),
		BackgroundPanel:   c(f.Mantle()),
		BackgroundElement: c(f.Surface0()),
		Border:            c(f.Surface1()),
		BorderActive:      c(f.Mauve()),
		Primary:           c(f.Mauve()),
		Secondary:         c(f.Lavender()),
		Accent:            c(f.Pink()),
		Text:              c(f.Text()),
		TextMuted:         c(f.Subtext0()),
		Error:             c(f.Red()),
		Warning:           c(f.Yellow()),
		Success:           c(f.Green()),
		Info:              c(f.Blue()),
	}
}

var (
	mu      sync.RWMutex
	themes  = map[string]*Theme{}
	current string
)

func init() {
	themes[Dark] = fromFlavour(Dark, catppuccin.Mocha)
	themes[Light] = fromFlavour(Light, catppuccin.Latte)
	current = Dark
}

// Set changes the active theme.
func Set(name string) error {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := themes[name]; !ok {
		return fmt.Errorf("theme '%s' not found", name)
	}
	current = name
	return nil
}

// Current returns the active theme. It is never nil.
func Current() *Theme {
	mu.RLock()
	defer mu.RUnlock()
	return themes[current]
}

func CurrentName() string {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Blend mixes two hex colours in Lab space; t=0 returns from and t=1 returns to.
func Blend(from, to lipgloss.Color, t float64) lipgloss.Color {
	if t <= 0 {
		return from
	}
	if t >= 1 {
		return to
	}
	a, err := colorful.Hex(string(from))
	if err != nil {
		return to
	}
	b, err := colorful.Hex(string(to))
	if err != nil {
		return from
	}
	return lipgloss.Color(a.BlendLab(b, t).Clamped().Hex())
}

// Gradient returns n colours evenly spaced between from and to.
func Gradient(from, to lipgloss.Color, n int) []lipgloss.Color {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []lipgloss.Color{from}
	}
	out := make([]lipgloss.Color, n)
	for i := range out {
		out[i] = Blend(from, to, float64(i)/float64(n-1))
	}
	return out
}
