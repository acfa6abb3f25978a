package qr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	rscqr "rsc.io/qr"
)

// RSCEncoder encodes with rsc.io/qr and scales with nearest-neighbour
// resampling so module edges stay sharp.
type RSCEncoder struct{}

func (RSCEncoder) Name() string { return "rsc" }

func (RSCEncoder) Encode(ctx context.Context, req Request) (*Bitmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	code, err := rscqr.Encode(req.Text, rscLevel(req.Level))
	if err != nil {
		return nil, fmt.Errorf("rscqr.Encode: %w", capacityError(err))
	}

	side := code.Size + 2*quietZone
	modules := make([][]bool, side)
	src := image.NewPaletted(image.Rect(0, 0, side, side), color.Palette{req.Background, req.Foreground})
	for y := range side {
		modules[y] = make([]bool, side)
		for x := range side {
			dark := code.Black(x-quietZone, y-quietZone)
			modules[y][x] = dark
			if dark {
				src.SetColorIndex(x, y, 1)
			}
		}
	}

	width, height := req.Width, req.Height
	if width <= 0 {
		width = side
	}
	if height <= 0 {
		height = width
	}
	img := imaging.Resize(src, width, height, imaging.NearestNeighbor)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return &Bitmap{
		Request: req,
		Image:   img,
		PNG:     buf.Bytes(),
		Modules: modules,
	}, nil
}

func rscLevel(l Level) rscqr.Level {
	switch l {
	case LevelLow:
		return rscqr.L
	case LevelMedium:
		return rscqr.M
	case LevelQuartile:
		return rscqr.Q
	default:
		return rscqr.H
	}
}
