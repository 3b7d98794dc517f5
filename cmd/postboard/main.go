// Package main provides the CLI entry point for postboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/postboard/internal/config"
	"github.com/lepinkainen/postboard/internal/server"
	"github.com/lepinkainen/postboard/pkg/agent"
	"github.com/lepinkainen/postboard/pkg/preview"
)

// CLI structure
var CLI struct {
	Config string `help:"Configuration file path" default:"config.yaml"`
	Debug  bool   `help:"Enable debug logging" default:"false"`

	Fetch struct {
		Format  string `help:"Output format" enum:"text,json,yaml,html,atom,rss,jsonfeed" default:"text"`
		Outfile string `help:"Output file path, stdout when empty" short:"o"`
	} `cmd:"fetch" help:"Fetch posts once and print them."`

	Preview struct{} `cmd:"preview" help:"Browse posts interactively."`

	Serve struct {
		Addr string `help:"Listen address, overrides server.addr"`
	} `cmd:"serve" help:"Serve the board over a JSON API."`

	Agent struct {
		UserAgent string `arg:"" optional:"" help:"Agent string to label, the environment is used when omitted"`
	} `cmd:"agent" help:"Print the detected agent label."`

	ShowConfig struct{} `cmd:"" name:"config" help:"Print the effective configuration."`
}

func main() {
	// Parse CLI with Kong YAML configuration file loading
	ctx := kong.Parse(&CLI,
		kong.Configuration(kongyaml.Loader, "config.yaml", "~/.postboard/config.yaml"),
	)

	// Configure logging level based on debug flag
	if CLI.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelWarn)
	}

	cfg, err := config.LoadConfig(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	switch ctx.Command() {
	case "fetch":
		if err := runFetch(cfg, CLI.Fetch.Format, CLI.Fetch.Outfile); err != nil {
			slog.Error("Fetch failed", "error", err)
			os.Exit(1)
		}

	case "preview":
		if err := preview.Run(context.Background(), newViewModel(cfg, nil), newGenerator(cfg)); err != nil {
			slog.Error("Preview failed", "error", err)
			os.Exit(1)
		}

	case "serve":
		if err := runServe(cfg, CLI.Serve.Addr); err != nil {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}

	case "agent", "agent <user-agent>":
		src := agent.Env(cfg.View.AgentEnv)
		if CLI.Agent.UserAgent != "" {
			src = agent.Static(CLI.Agent.UserAgent)
		}
		fmt.Println(agent.Detect(src))

	case "config":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			slog.Error("Failed to encode configuration", "error", err)
			os.Exit(1)
		}
		fmt.Print(string(data))

	default:
		panic(ctx.Command())
	}
}

// runFetch performs a single load and writes the rendered state
func runFetch(cfg *config.Config, format, outfile string) error {
	vm := newViewModel(cfg, nil)
	defer vm.Close()

	vm.Load(context.Background())

	state := vm.State()
	if state.HasError() {
		fmt.Fprintf(os.Stderr, "API Error: %s\n", state.Error)
		return vm.LastError()
	}

	return writeOutput(state, format, outfile, newGenerator(cfg))
}

// runServe blocks until SIGINT or SIGTERM, then shuts the server down
func runServe(cfg *config.Config, addr string) error {
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(&server.Config{
		VM:        newViewModel(cfg, nil),
		Generator: newGenerator(cfg),
		ImagesDir: cfg.Gallery.Dir,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx, addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	return <-errCh
}
