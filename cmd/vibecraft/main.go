// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

// Command vibecraft runs the VibeCraft MCP-to-Minecraft bridge: an
// MCP server exposing Minecraft building and inspection tools,
// backed by a persistent WebSocket connection to an in-game client
// helper.
//
// Flag parsing is hand-rolled (a manual switch over os.Args, no
// third-party flag library), grounded on the teacher's
// cmd/bureau-bridge/main.go, which parses its own small flag set by
// hand for the same reason: a handful of process-lifecycle flags
// don't justify a dependency, while VibeCraft's substantive
// configuration (bridge address, safety policy, build box) is
// environment-variable driven via internal/config, matching that
// package's own "loaded once, immutable" design.
package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vibecraft/vibecraft/internal/buildengine"
	"github.com/vibecraft/vibecraft/internal/buildlog"
	"github.com/vibecraft/vibecraft/internal/catalog"
	"github.com/vibecraft/vibecraft/internal/clientbridge"
	"github.com/vibecraft/vibecraft/internal/config"
	"github.com/vibecraft/vibecraft/internal/dashboard"
	"github.com/vibecraft/vibecraft/internal/markdown"
	"github.com/vibecraft/vibecraft/internal/mcpserver"
	"github.com/vibecraft/vibecraft/internal/obslog"
	"github.com/vibecraft/vibecraft/internal/tool"
)

//go:embed docs/overview.md
var overviewDoc string

// version is overridden at build time via -ldflags.
var version = "dev"

// exitMisconfigured and exitBridgeUnreachable are the non-zero exit
// codes this process reports on startup failure.
const (
	exitOK                = 0
	exitMisconfigured     = 1
	exitBridgeUnreachable = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	sub := "serve"
	if len(args) > 0 && args[0][0] != '-' {
		sub = args[0]
		args = args[1:]
	}

	transport := "stdio"
	addr := "127.0.0.1:8765"
	verbose := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--transport":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "error: --transport requires an argument")
				return exitMisconfigured
			}
			transport = args[i]
		case "--addr":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "error: --addr requires an argument")
				return exitMisconfigured
			}
			addr = args[i]
		case "--verbose", "-v":
			verbose = true
		case "--help", "-h":
			printUsage()
			return exitOK
		case "--version":
			fmt.Printf("vibecraft %s\n", version)
			return exitOK
		default:
			fmt.Fprintf(os.Stderr, "error: unknown flag: %s\n", args[i])
			return exitMisconfigured
		}
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := obslog.New(level)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: configuration: %v\n", err)
		return exitMisconfigured
	}

	switch sub {
	case "serve":
		return runServe(cfg, logger, transport, addr)
	case "status":
		return runStatus(cfg, logger)
	case "watch":
		return runWatch(cfg, logger)
	case "docs":
		return runDocs()
	default:
		fmt.Fprintf(os.Stderr, "error: unknown subcommand: %s\n", sub)
		return exitMisconfigured
	}
}

// runDocs prints the tool catalog and safety model overview, rendered
// from embedded markdown for terminal display.
func runDocs() int {
	fmt.Println(markdown.Render(overviewDoc, 78))
	return exitOK
}

func printUsage() {
	fmt.Print(`vibecraft - MCP-to-Minecraft WebSocket bridge

USAGE
    vibecraft [serve] [flags]
    vibecraft status
    vibecraft watch
    vibecraft docs

FLAGS (serve)
    --transport <stdio|sse>   MCP transport (default: stdio)
    --addr <host:port>        Listen address when --transport=sse
    -v, --verbose             Enable debug logging
    -h, --help                Show this help
    --version                 Print the version and exit

Substantive configuration (bridge address, safety policy, build box)
is environment-variable driven; see internal/config for the full list
of VIBECRAFT_* variables.
`)
}

func buildComponents(cfg *config.Config, logger *slog.Logger) (*clientbridge.Bridge, *buildengine.Engine, *catalog.Catalog, error) {
	bridge := clientbridge.New(cfg, logger.With("component", "bridge"))

	cat, err := catalog.Load(cfg.CatalogOverridePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading catalog: %w", err)
	}

	log, err := buildlog.Open(buildLogPathIfEnabled(cfg))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening build log: %w", err)
	}
	engine := buildengine.New(bridge, cfg).WithLog(log)

	return bridge, engine, cat, nil
}

func buildLogPathIfEnabled(cfg *config.Config) string {
	if !cfg.CommandLogging {
		return ""
	}
	return cfg.BuildLogPath
}

func runServe(cfg *config.Config, logger *slog.Logger, transport, addr string) int {
	bridge, engine, cat, err := buildComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitMisconfigured
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.RequireBridgeAtStartup {
		startCtx, startCancel := context.WithTimeout(ctx, 10*time.Second)
		err := bridge.Start(startCtx)
		startCancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: bridge unreachable at startup: %v\n", err)
			return exitBridgeUnreachable
		}
	} else {
		go func() {
			if err := bridge.Start(ctx); err != nil {
				logger.Warn("bridge connection failed", "error", err)
			}
		}()
	}

	registry := tool.NewRegistry(&tool.Deps{Bridge: bridge, Engine: engine, Catalog: cat, Config: cfg})
	server := mcpserver.New(registry, logger.With("component", "mcpserver"), version)

	done := make(chan error, 1)
	switch transport {
	case "stdio":
		go func() { done <- server.Run(ctx, os.Stdin, os.Stdout) }()
	case "sse":
		go func() { done <- serveSSE(ctx, addr, server, logger) }()
	default:
		fmt.Fprintf(os.Stderr, "error: unknown transport: %s\n", transport)
		return exitMisconfigured
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down", "reason", ctx.Err())
		bridge.Close()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			logger.Warn("shutdown grace period exceeded")
		}
		return exitOK
	case err := <-done:
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return exitMisconfigured
		}
		return exitOK
	}
}

// serveSSE runs the MCP server over HTTP server-sent events until ctx
// is cancelled, then shuts the listener down within a bounded grace
// period.
func serveSSE(ctx context.Context, addr string, server *mcpserver.Server, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpserver.NewSSEHandler(server))

	httpServer := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("sse transport listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// runStatus prints a single snapshot of the bridge connection state
// and exits, for scripting and quick checks ("vibecraft status").
func runStatus(cfg *config.Config, logger *slog.Logger) int {
	bridge := clientbridge.New(cfg, logger.With("component", "bridge"))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	startErr := bridge.Start(ctx)
	defer bridge.Close()

	fmt.Printf("state:        %s\n", bridge.State())
	if startErr != nil {
		fmt.Printf("connect:      failed: %v\n", startErr)
	} else {
		fmt.Printf("connect:      ok\n")
	}
	fmt.Printf("worldedit:    %v\n", bridge.WorldEditAvailable())
	backoff := bridge.BackoffStatus()
	fmt.Printf("reconnects:   %d\n", backoff.Attempts)

	if startErr != nil {
		return exitBridgeUnreachable
	}
	return exitOK
}

// runWatch launches the live bubbletea status dashboard ("vibecraft
// watch") and connects to the bridge in the background. Once
// connected, a dropped connection is re-established by the Bridge's
// reconnect loop; a failed initial connect is logged and not retried.
func runWatch(cfg *config.Config, logger *slog.Logger) int {
	bridge := clientbridge.New(cfg, logger.With("component", "bridge"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := bridge.Start(ctx); err != nil {
			logger.Warn("bridge connection failed", "error", err)
		}
	}()
	defer bridge.Close()

	program := tea.NewProgram(dashboard.New(bridge))
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitMisconfigured
	}
	return exitOK
}
