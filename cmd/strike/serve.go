package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/star-strike/internal/platform/tui"
)

var (
	flagSSHAddr       string
	flagHostKey       string
	flagIdleTimeout   int
	flagServeSpectate string
	flagServeConfig   string
	flagServeDiff     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own engine and a map picker menu.
Scores are stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.strike/host_key

Examples:
  strike serve                           # Listen on :23234 with auto-generated key
  strike serve --ssh :2222               # Listen on port 2222
  strike serve --host-key ./my_host_key  # Use specific host key
  strike serve --spectate :8080          # Also stream every session over WebSocket

Users can connect with:
  ssh localhost -p 23234

Spectators list sessions at http://<addr>/sessions and watch
ws://<addr>/ws?session=<name>.`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeSpectate, "spectate", "", "Serve a WebSocket spectator feed on this address")
	serveCmd.Flags().StringVar(&flagServeConfig, "config", "", "Path to custom config YAML")
	serveCmd.Flags().StringVar(&flagServeDiff, "difficulty", "", "Difficulty preset: easy, normal, hard")
}

func runServe(_ *cobra.Command, _ []string) {
	logger, closeLog := newLogger("strike-ssh", os.Stderr)
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}
	game, preset := loadGameConfig(flagServeConfig, flagServeDiff, store)

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	cfg.Game = game
	cfg.Difficulty = string(preset)
	cfg.Store = store
	cfg.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if flagServeSpectate != "" {
		cfg.Hub = startSpectatorFeed(ctx, flagServeSpectate, logger)
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting Star Strike SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh -p %s localhost\n", sshPort(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// sshPort extracts the port from a listen address, defaulting to 22.
func sshPort(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		return "22"
	}
	return port
}
