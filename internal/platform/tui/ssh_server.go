package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/star-strike/internal/config"
	"github.com/vovakirdan/star-strike/internal/core"
	"github.com/vovakirdan/star-strike/internal/engine"
	"github.com/vovakirdan/star-strike/internal/platform/web"
	"github.com/vovakirdan/star-strike/internal/storage"
)

// SSHServerConfig configures the SSH front end.
type SSHServerConfig struct {
	Address     string        // host:port, ":23234" by default
	HostKeyPath string        // empty means ~/.strike/host_key, generated on first use
	IdleTimeout time.Duration // idle connections are closed after this long
	TickRate    int
	Game        config.Config // shared by every session
	Difficulty  string        // preset name shown in the menu

	// Store is shared by all sessions, so every player lands on one
	// leaderboard. May be nil.
	Store *storage.Store
	// Hub, when set, publishes every session to the spectator feed.
	Hub    *web.Hub
	Logger *log.Logger
}

// DefaultSSHServerConfig returns the config used by "strike serve".
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
		Game:        config.Default(),
	}
}

// SSHServer runs one menu and engine per SSH connection.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	logger *log.Logger
	active atomic.Int64
}

// NewSSHServer prepares the host key and the wish middleware chain.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "strike-ssh"})
	}
	keyPath, err := hostKeyPath(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	srv := &SSHServer{config: cfg, logger: cfg.Logger}
	srv.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.trackSessions,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("ssh: cannot create server: %w", err)
	}
	return srv, nil
}

// hostKeyPath resolves the key location and makes sure its directory exists.
func hostKeyPath(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("ssh: cannot get home directory: %w", err)
		}
		path = filepath.Join(home, ".strike", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("ssh: cannot create host key directory: %w", err)
	}
	return path, nil
}

func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		wish.Fatalln(sess, "Star Strike needs a terminal: connect with ssh -t")
		return nil, nil
	}

	now := time.Now()
	id := fmt.Sprintf("%s-%d", sess.User(), now.UnixNano())
	opts := SessionOptions{
		Runtime: core.RuntimeConfig{
			ScreenW:  pty.Window.Width,
			ScreenH:  pty.Window.Height,
			TickRate: s.config.TickRate,
			Seed:     now.UnixNano(),
		},
		Difficulty: s.config.Difficulty,
		Logger:     s.logger.With("session", id),
	}
	if s.config.Hub != nil {
		ch := s.config.Hub.Channel(id)
		opts.Publisher = ch
		go func() {
			<-sess.Context().Done()
			ch.Close()
		}()
	}

	engOpts := []engine.Option{engine.WithSeed(opts.Runtime.Seed), engine.WithLogger(opts.Logger)}
	if s.config.Store != nil {
		engOpts = append(engOpts, engine.WithStore(s.config.Store))
	}
	eng := engine.New(s.config.Game, engOpts...)

	return NewSessionModel(eng, s.config.Store, opts), []tea.ProgramOption{tea.WithAltScreen()}
}

// trackSessions logs connects and disconnects with the live session count.
func (s *SSHServer) trackSessions(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("session started", "user", sess.User(),
			"remote", sess.RemoteAddr().String(), "active", s.active.Add(1))
		next(sess)
		s.logger.Info("session ended", "user", sess.User(),
			"duration", time.Since(start).Round(time.Second), "active", s.active.Add(-1))
	}
}

// ActiveSessions returns the number of connected players.
func (s *SSHServer) ActiveSessions() int {
	return int(s.active.Load())
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.logger.Info("shutting down", "active", s.ActiveSessions())
	return s.Shutdown()
}

// Shutdown stops accepting connections and waits up to 10s for sessions.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
