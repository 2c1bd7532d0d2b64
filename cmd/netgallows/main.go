package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/netgallows/netgallows/internal/config"
	"github.com/netgallows/netgallows/internal/peer"
)

var version = "dev"

const defaultConfigPath = "netgallows.yaml"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("netgallows %s\n", version)
		return
	case "host":
		err = runDuel(peer.Initiator, os.Args[2:])
	case "join":
		err = runDuel(peer.Responder, os.Args[2:])
	case "history":
		err = runHistory(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "netgallows: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: netgallows <command> [flags]

Commands:
  host       Wait for one opponent and play
  join       Connect to a host and play
  history    Show recent matches and the win/loss record
  version    Print version

Run "netgallows <command> -h" for flags.
`)
}

// newLogger writes to cfg.Log.File, or nowhere: the terminal belongs to the
// UI. The returned func closes the file.
func newLogger(cfg config.LogConfig, level slog.Level) (*slog.Logger, func(), error) {
	if cfg.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
