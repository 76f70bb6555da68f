package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/prefs"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	shutdownTimeout    = 15 * time.Second
)

// arcade runs one independent game per SSH session.
type arcade struct {
	cfg      config.Config
	sessions *loop.Registry
	log      *log.Logger
}

func main() {
	logger := config.NewLogger(os.Stderr, "invaders-ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "workingDir", workingDir)

	cfg, err := config.Load(config.GetEnv("INVADERS_CONFIG", ""))
	if err != nil {
		logger.Fatal("failed to load game config", "err", err)
	}

	a := &arcade{cfg: cfg, sessions: loop.NewRegistry(), log: logger}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			a.gameMiddleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server", "players", a.sessions.Len())

	// Every game shows the shutdown notice; wait for players to leave
	if !a.sessions.Shutdown(shutdownTimeout) {
		logger.Warn("sessions still open after timeout", "players", a.sessions.Len())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware runs a game for the session until the player leaves.
func (a *arcade) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := a.log.With("user", sess.User())
		logger.Info("New game session", "terminal", pty.Term, "size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		store := &prefs.Memory{}
		if skin, ok := skinFromCommand(sess.Command(), a.cfg.SkinCount); ok {
			_ = store.SetSkin(skin)
		}

		m, err := game.New(a.cfg, game.Options{Prefs: store, Logger: logger})
		if err != nil {
			logger.Error("failed to start game", "err", err)
			return
		}

		ctx, sessionDone := a.sessions.Add(sess.Context())
		defer sessionDone()

		err = loop.Run(ctx, bufio.NewReader(sess), sess, m, loop.Options{
			TermSizeFunc: sizeTracker.getSize,
			Logger:       logger,
			IdleWarn:     loop.InactivityWarnUser,
			IdleLimit:    loop.InactivityDisconnectUser,
		})
		if err != nil {
			logger.Warn("game error", "err", err)
		}

		s := m.Session()
		logger.Info("Session ended", "score", s.Score, "level", s.Level)
		next(sess)
	}
}

// skinFromCommand reads a skin choice from the ssh command, as in `ssh -t host skin 2`
// or `ssh -t host 2`.
func skinFromCommand(args []string, skinCount int) (int, bool) {
	if len(args) > 0 && strings.EqualFold(args[0], "skin") {
		args = args[1:]
	}
	if len(args) == 0 {
		return 0, false
	}
	skin, err := strconv.Atoi(args[0])
	if err != nil || skin < 0 || skin >= skinCount {
		return 0, false
	}
	return skin, true
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
