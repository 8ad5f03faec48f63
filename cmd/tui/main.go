package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mbeoliero/kit/log"

	"github.com/mbeoliero/threadly/internal/app"
	"github.com/mbeoliero/threadly/internal/config"
	"github.com/mbeoliero/threadly/internal/layout"
	"github.com/mbeoliero/threadly/internal/tui"
	"github.com/mbeoliero/threadly/pkg/constant"
	"github.com/mbeoliero/threadly/sdk"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file for the in-process engine")
	serverURL := flag.String("server", "", "threadly server address; empty runs the engine in-process")
	logPath := flag.String("log", "threadly-tui.log", "file receiving engine logs while the UI owns the terminal")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The UI owns the terminal; everything else writes to the log file.
	tty := os.Stdout
	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	os.Stdout, os.Stderr = logFile, logFile

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.CtxWarn(ctx, "config not loaded, using defaults: %v", err)
		cfg = config.Default()
	}

	var backend tui.Backend
	if *serverURL != "" {
		backend, err = remoteBackend(ctx, *serverURL)
	} else {
		backend, err = localBackend(ctx, cfg)
	}
	if err != nil {
		fmt.Fprintf(tty, "start: %v\n", err)
		os.Exit(1)
	}
	defer backend.Shutdown()

	resolver := layout.NewResolver(config.LayoutConfig{
		Breakpoint: cfg.Layout.Breakpoint / constant.CellWidth,
		ListWidth:  cfg.Layout.ListWidth / constant.CellWidth,
	})

	program := tea.NewProgram(tui.NewModel(ctx, backend, resolver), tea.WithAltScreen(), tea.WithOutput(tty))
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(tty, "tui: %v\n", err)
		os.Exit(1)
	}
}

func localBackend(ctx context.Context, cfg *config.Config) (tui.Backend, error) {
	engine, err := app.New(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}
	return tui.NewLocalBackend(engine.Chat, engine.Hub, cfg.Emoji.Palette), nil
}

func remoteBackend(ctx context.Context, serverURL string) (tui.Backend, error) {
	client, err := sdk.NewClient(serverURL)
	if err != nil {
		return nil, err
	}
	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("server not reachable: %w", err)
	}
	return tui.NewRemoteBackend(ctx, client)
}
