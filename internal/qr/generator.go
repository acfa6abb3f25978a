package qr

import (
	"context"
	"fmt"

	"github.com/glassqr/glassqr/internal/util"
)

// Generator runs encodes off the caller's goroutine.
type Generator struct {
	enc Encoder
}

func NewGenerator(enc Encoder) *Generator {
	if enc == nil {
		enc = Skip2Encoder{}
	}
	return &Generator{enc: enc}
}

func (g *Generator) EncoderName() string {
	return g.enc.Name()
}

// Task is the pending result of a Submit call.
type Task struct {
	Request Request

	done   chan struct{}
	bitmap *Bitmap
	err    error
}

// Submit starts encoding req and returns immediately.
func (g *Generator) Submit(ctx context.Context, req Request) *Task {
	t := &Task{Request: req, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		done := util.Measure("qr encode finished")
		t.bitmap, t.err = g.encode(ctx, req)
		done("encoder", g.enc.Name(), "width", req.Width, "error", t.err)
	}()
	return t
}

func (g *Generator) encode(ctx context.Context, req Request) (bm *Bitmap, err error) {
	defer func() {
		if r := recover(); r != nil {
			bm, err = nil, fmt.Errorf("%s encoder panicked: %v", g.enc.Name(), r)
		}
	}()
	bm, err = g.enc.Encode(ctx, req)
	if err != nil {
		return nil, err
	}
	if bm.empty() {
		return nil, ErrEmptyOutput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return bm, nil
}

// Done is closed once the result is available.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Result returns the outcome. It must only be called after Done is closed.
func (t *Task) Result() (*Bitmap, error) {
	return t.bitmap, t.err
}

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) (*Bitmap, error) {
	select {
	case <-t.done:
		return t.bitmap, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
