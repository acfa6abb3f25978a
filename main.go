package main

import (
	"log/slog"

	"github.com/glassqr/glassqr/cmd"
	"github.com/glassqr/glassqr/internal/logging"
)

func main() {
	defer logging.RecoverPanic("main", func() {
		slog.Error("Application terminated due to unhandled panic")
	})

	cmd.Execute()
}
