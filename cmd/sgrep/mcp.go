package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/sgrep/internal/config"
	"github.com/standardbeagle/sgrep/internal/debug"
	"github.com/standardbeagle/sgrep/internal/grammar"
	"github.com/standardbeagle/sgrep/internal/mcp"
)

// mcpCommand serves the search engine over stdio until the client closes
// the stream or a shutdown signal arrives.
func mcpCommand(c *cli.Context) error {
	root := c.Args().Get(0)
	if root == "" {
		root = "."
	}
	// The server resolves tool paths against its root; pin it down before
	// any client request can arrive.
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	// stdout carries the protocol, so debug output must go to a file.
	// Stderr is still ours; clients surface it as server diagnostics.
	if debug.IsDebugEnabled() {
		if logPath, err := debug.InitDebugLogFile(); err != nil {
			log.Printf("WARNING: debug log unavailable: %v", err)
		} else {
			log.Printf("debug log: %s", logPath)
			defer debug.CloseDebugLog()
		}
	}

	cfg, err := config.Load(absRoot)
	if err != nil {
		return err
	}

	srv := mcp.NewServer(absRoot, cfg, grammar.Builtin())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
