package logging

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"
)

// RecoverPanic is a common function to handle panics gracefully.
// It logs the error, creates a panic log file with stack trace,
// and executes an optional cleanup function.
func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		slog.Error("panic recovered", "component", name, "panic", r)

		timestamp := time.Now().Format("20060102-150405")
		filename := fmt.Sprintf("glassqr-panic-%s-%s.log", name, timestamp)

		if err := writePanicFile(filename, name, r); err != nil {
			slog.Error("failed to write panic log", "file", filename, "error", err)
		} else {
			slog.Info("panic details written", "file", filename)
		}

		if cleanup != nil {
			cleanup()
		}
	}
}

func writePanicFile(filename, name string, r any) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "Panic in %s: %v\n\n", name, r)
	fmt.Fprintf(file, "Time: %s\n\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "Stack Trace:\n%s\n", debug.Stack())
	return nil
}
