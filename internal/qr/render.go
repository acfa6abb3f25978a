package qr

import (
	"strings"

	rscqr "rsc.io/qr"
)

var topsBottoms = []rune{' ', '▀', '▄', '█'}

// Render draws modules with half-block characters, two module rows per line.
// Dark modules are drawn as filled cells; callers style the result.
func Render(modules [][]bool) string {
	if len(modules) == 0 {
		return ""
	}
	width := len(modules[0])
	at := func(x, y int) bool {
		return y < len(modules) && x < len(modules[y]) && modules[y][x]
	}

	var result strings.Builder
	for y := 0; y < len(modules); y += 2 {
		for x := range width {
			var num int
			if at(x, y) {
				num += 1
			}
			if at(x, y+1) {
				num += 2
			}
			result.WriteRune(topsBottoms[num])
		}
		if y+2 < len(modules) {
			result.WriteByte('\n')
		}
	}
	return result.String()
}

// Invert swaps dark and light modules. Terminals with a dark background
// need the inverted form for phones to scan the code.
func Invert(modules [][]bool) [][]bool {
	out := make([][]bool, len(modules))
	for y, row := range modules {
		out[y] = make([]bool, len(row))
		for x, dark := range row {
			out[y][x] = !dark
		}
	}
	return out
}

// Text encodes text at a low correction level for on-screen display, such
// as a share link. The result includes the quiet zone.
func Text(text string) (string, int, error) {
	code, err := rscqr.Encode(text, rscqr.L)
	if err != nil {
		return "", 0, err
	}
	side := code.Size + 2*quietZone
	modules := make([][]bool, side)
	for y := range side {
		modules[y] = make([]bool, side)
		for x := range side {
			modules[y][x] = code.Black(x-quietZone, y-quietZone)
		}
	}
	return Render(modules), side, nil
}
