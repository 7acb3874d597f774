// Ghost Content MCP Server - A Model Context Protocol server for the Ghost
// Content API. Provides read-only tools for posts, pages, authors, tags,
// tiers and site settings.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
)

const (
	ServerName    = "ghost-content-mcp-server"
	ServerVersion = "1.0.0"
)

// recoverPanic logs a panic instead of letting it crash the process
func recoverPanic(logger *slog.Logger, operation string) {
	if r := recover(); r != nil {
		logger.Error("Panic recovered",
			"operation", operation,
			"panic", r,
			"stack", string(debug.Stack()))
	}
}

// recoverPanicAsError logs a panic and turns it into an error in *errp, so
// the process still exits non-zero.
func recoverPanicAsError(logger *slog.Logger, operation string, errp *error) {
	if r := recover(); r != nil {
		logger.Error("Panic recovered",
			"operation", operation,
			"panic", r,
			"stack", string(debug.Stack()))
		*errp = fmt.Errorf("panic in %s: %v", operation, r)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
