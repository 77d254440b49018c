package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/lasereye/internal/config"
	"github.com/tomz197/lasereye/internal/data"
	"github.com/tomz197/lasereye/internal/draw"
	"github.com/tomz197/lasereye/internal/loop"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadOrDefault(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "lasereye-ssh: %v\n", err)
		os.Exit(1)
	}
	cfg.SSH.Host = config.GetEnv("SSH_HOST", cfg.SSH.Host)
	cfg.SSH.Port = config.GetEnv("SSH_PORT", cfg.SSH.Port)
	cfg.SSH.HostKeyPath = config.GetEnv("SSH_HOST_KEY", cfg.SSH.HostKeyPath)

	log, err := config.NewLogger(cfg.Logging, "stderr")
	if err != nil {
		fmt.Fprintf(os.Stderr, "lasereye-ssh: create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	table, err := data.LoadOrDefault(cfg.Game.TargetsFile)
	if err != nil {
		log.Fatal("load target table", zap.Error(err))
	}

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		log.Warn("failed to get working directory", zap.Error(workErr))
	}
	log.Info("ssh config",
		zap.String("host", cfg.SSH.Host),
		zap.String("port", cfg.SSH.Port),
		zap.String("host_key", cfg.SSH.HostKeyPath),
		zap.String("working_dir", workingDir))

	hub := loop.NewHub()
	games := &gameHandler{cfg: cfg, table: table, hub: hub, log: log}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port)),
		wish.WithMiddleware(
			games.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for pointer input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.SSH.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSH.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		log.Fatal("failed to create server", zap.Error(err))
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Info("starting ssh server", zap.String("addr", net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port)))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-done
	log.Info("shutting down server", zap.Int("players", hub.Count()))

	// Notify players and give them time to read the notice and leave.
	if !hub.Shutdown(cfg.SSH.ShutdownGrace) {
		log.Warn("players still connected after grace period", zap.Int("players", hub.Count()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Fatal("shutdown error", zap.Error(err))
	}
}

// gameHandler runs one independent game per SSH session.
type gameHandler struct {
	cfg   *config.Config
	table *data.Table
	hub   *loop.Hub
	log   *zap.Logger
}

func (g *gameHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		log := g.log.With(zap.String("user", sess.User()), zap.String("remote", sess.RemoteAddr().String()))
		log.Info("new game session",
			zap.String("term", pty.Term),
			zap.Int("width", pty.Window.Width),
			zap.Int("height", pty.Window.Height))

		sizes := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizes.update(win.Width, win.Height)
			}
		}()

		s, err := loop.NewSession(bufio.NewReader(sess), sess, loop.Options{
			Terminal:     g.cfg.Terminal,
			Game:         g.cfg.Game,
			Table:        g.table,
			Logger:       log,
			TermSizeFunc: sizes.getSize,
			Hub:          g.hub,
			Username:     sess.User(),
			IdleTimeout:  g.cfg.SSH.IdleTimeout,
		})
		if err != nil {
			log.Error("create session", zap.Error(err))
			fmt.Fprintln(sess, "Error: could not start the game")
			return
		}
		if err := s.Run(sess.Context()); err != nil {
			log.Warn("game error", zap.Error(err))
		}

		log.Info("session ended")
		next(sess)
	}
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

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
