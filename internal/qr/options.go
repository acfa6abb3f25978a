package qr

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Size is one of the three fixed output sizes.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// DefaultSize is used when no size has been chosen.
const DefaultSize = SizeSmall

var sizePixels = map[Size]int{
	SizeSmall:  256,
	SizeMedium: 350,
	SizeLarge:  450,
}

// Sizes returns every size in display order.
func Sizes() []Size {
	return []Size{SizeSmall, SizeMedium, SizeLarge}
}

// Pixels returns the edge length in pixels. Unknown sizes map to the default.
func (s Size) Pixels() int {
	if px, ok := sizePixels[s]; ok {
		return px
	}
	return sizePixels[DefaultSize]
}

func (s Size) Label() string {
	name := map[Size]string{SizeSmall: "Small", SizeMedium: "Medium", SizeLarge: "Large"}[s]
	if name == "" {
		return fmt.Sprintf("%d×%dpx", s.Pixels(), s.Pixels())
	}
	return fmt.Sprintf("%s (%d×%dpx)", name, s.Pixels(), s.Pixels())
}

func ParseSize(s string) (Size, error) {
	size := Size(s)
	if _, ok := sizePixels[size]; !ok {
		return "", fmt.Errorf("unknown size %q", s)
	}
	return size, nil
}

// Color is one of the named foreground colours.
type Color string

const (
	ColorDark    Color = "dark"
	ColorPrimary Color = "primary"
	ColorAccent  Color = "accent"
)

// DefaultColor is used when no colour has been chosen.
const DefaultColor = ColorDark

// LightHex is the background of every generated code.
const LightHex = "#ffffff"

var colorHex = map[Color]string{
	ColorDark:    "#1e1b4b",
	ColorPrimary: "#8a5cf6",
	ColorAccent:  "#ec4899",
}

func Colors() []Color {
	return []Color{ColorDark, ColorPrimary, ColorAccent}
}

// Hex returns the colour's hex code, falling back to dark for unknown names.
func (c Color) Hex() string {
	if hex, ok := colorHex[c]; ok {
		return hex
	}
	return colorHex[DefaultColor]
}

func (c Color) Label() string {
	switch c {
	case ColorDark:
		return "Dark"
	case ColorPrimary:
		return "Primary"
	case ColorAccent:
		return "Accent"
	}
	return string(c)
}

func ParseColor(s string) (Color, error) {
	c := Color(s)
	if _, ok := colorHex[c]; !ok {
		return "", fmt.Errorf("unknown color %q", s)
	}
	return c, nil
}

// ResolveColor returns the foreground for c. Unknown names resolve to dark.
func ResolveColor(c Color) color.RGBA {
	return hexToRGBA(c.Hex())
}

// Light returns the fixed background colour.
func Light() color.RGBA {
	return hexToRGBA(LightHex)
}

func hexToRGBA(hex string) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
