package qr

import (
	"context"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Skip2Encoder encodes with github.com/skip2/go-qrcode.
type Skip2Encoder struct{}

func (Skip2Encoder) Name() string { return "skip2" }

func (Skip2Encoder) Encode(ctx context.Context, req Request) (*Bitmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, err := qrcode.New(req.Text, skip2Level(req.Level))
	if err != nil {
		return nil, fmt.Errorf("qrcode.New: %w", capacityError(err))
	}
	q.ForegroundColor = req.Foreground
	q.BackgroundColor = req.Background

	png, err := q.PNG(req.Width)
	if err != nil {
		return nil, fmt.Errorf("qrcode.PNG: %w", err)
	}
	return &Bitmap{
		Request: req,
		Image:   q.Image(req.Width),
		PNG:     png,
		Modules: q.Bitmap(),
	}, nil
}

func skip2Level(l Level) qrcode.RecoveryLevel {
	switch l {
	case LevelLow:
		return qrcode.Low
	case LevelMedium:
		return qrcode.Medium
	case LevelQuartile:
		return qrcode.High
	default:
		return qrcode.Highest
	}
}
