// Package qr turns text into QR bitmaps and renders them for the terminal.
package qr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
)

// Level is the error-correction level.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelQuartile
	LevelHigh
)

// quietZone is the border in modules around rendered codes.
const quietZone = 4

var (
	ErrEmptyOutput    = errors.New("encoder produced no output")
	ErrUnknownEncoder = errors.New("unknown encoder")
	// ErrCapacity means the text does not fit in the largest QR version at
	// the requested error-correction level.
	ErrCapacity = errors.New("text too long for a QR code")
)

// Request describes a single bitmap to produce.
type Request struct {
	Text       string
	Width      int
	Height     int
	Foreground color.RGBA
	Background color.RGBA
	Level      Level
}

// Bitmap is an encoded code together with its PNG rendering.
type Bitmap struct {
	Request Request
	Image   image.Image
	PNG     []byte
	// Modules includes the quiet zone. true is a dark module.
	Modules [][]bool
}

func (b *Bitmap) empty() bool {
	return b == nil || len(b.PNG) == 0 || len(b.Modules) == 0
}

// Encoder produces a bitmap for a request.
type Encoder interface {
	Name() string
	Encode(ctx context.Context, req Request) (*Bitmap, error)
}

// NewEncoder returns the encoder registered under name.
func NewEncoder(name string) (Encoder, error) {
	switch name {
	case "", "skip2":
		return Skip2Encoder{}, nil
	case "rsc":
		return RSCEncoder{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoder, name)
}

// capacityError tags the encoders' "too long" failures with ErrCapacity.
func capacityError(err error) error {
	if strings.Contains(err.Error(), "too long") {
		return fmt.Errorf("%w: %v", ErrCapacity, err)
	}
	return err
}
