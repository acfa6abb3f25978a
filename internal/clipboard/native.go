package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"
)

const (
	nativeTimeout = 5 * time.Second
	// pipeWait bounds how long a tool's daemonised child may hold our pipes
	// after the tool itself has exited.
	pipeWait = time.Second
)

// imageTool is an external program that accepts PNG data.
type imageTool interface {
	name() string
	copy(ctx context.Context, png []byte) error
}

// pipeTool feeds the PNG on stdin.
type pipeTool struct {
	path string
	args []string
}

func (p pipeTool) name() string { return p.path }

func (p pipeTool) copy(ctx context.Context, png []byte) error {
	ctx, cancel := context.WithTimeout(ctx, nativeTimeout)
	defer cancel()

	// wl-copy and xclip fork a child that owns the selection and inherits
	// whatever pipes we hand them, so stdout and stderr stay unattached.
	cmd := exec.CommandContext(ctx, p.path, p.args...)
	cmd.Stdin = bytes.NewReader(png)
	cmd.WaitDelay = pipeWait
	err := cmd.Run()
	if errors.Is(err, exec.ErrWaitDelay) {
		slog.Debug("clipboard tool left its stdin open", "tool", p.path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", p.path, err)
	}
	return nil
}

// osascriptTool reads the PNG from a temporary file on macOS.
type osascriptTool struct {
	path string
}

func (o osascriptTool) name() string { return o.path }

func (o osascriptTool) copy(ctx context.Context, png []byte) error {
	f, err := os.CreateTemp("", "glassqr-*.png")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(png); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, nativeTimeout)
	defer cancel()
	script := fmt.Sprintf(`set the clipboard to (read (POSIX file %q) as «class PNGf»)`, f.Name())
	cmd := exec.CommandContext(ctx, o.path, "-e", script)
	cmd.WaitDelay = pipeWait
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("osascript: %w: %s", err, bytes.TrimSpace(out))
	}
	return nil
}

func detectImageTool() imageTool {
	if runtime.GOOS == "darwin" {
		if path, err := exec.LookPath("osascript"); err == nil {
			return osascriptTool{path: path}
		}
		return nil
	}
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		if path, err := exec.LookPath("wl-copy"); err == nil {
			return pipeTool{path: path, args: []string{"--type", "image/png"}}
		}
	}
	if os.Getenv("DISPLAY") != "" {
		if path, err := exec.LookPath("xclip"); err == nil {
			return pipeTool{path: path, args: []string{"-selection", "clipboard", "-t", "image/png", "-i"}}
		}
	}
	return nil
}
