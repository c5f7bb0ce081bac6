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
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/crossing/internal/config"
	"github.com/tomz197/crossing/internal/draw"
	"github.com/tomz197/crossing/internal/gameconfig"
	"github.com/tomz197/crossing/internal/preview"
)

const (
	defaultHost              = "::"
	defaultPort              = "2222"
	defaultHostKeyPath       = "/app/keys/host_key"
	defaultFPS               = "20"
	defaultDesktopMinColumns = "100"
)

// sessionSettings is what every SSH session builds its holder from.
type sessionSettings struct {
	provider   gameconfig.Provider
	fps        int
	minColumns int
	logger     *log.Logger
}

func main() {
	logger := config.NewLogger(os.Stderr, "crossing-ssh")
	// wish's logging middleware writes through the default logger.
	log.SetDefault(logger)

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)

	provider, err := gameconfig.LoadOrDefault(config.GetEnv("CROSSING_CONFIG", ""))
	if err != nil {
		logger.Fatal("failed to load game constants", "err", err)
	}
	fps, _ := strconv.Atoi(config.GetEnv("CROSSING_FPS", defaultFPS))
	minColumns, _ := strconv.Atoi(config.GetEnv("CROSSING_DESKTOP_COLUMNS", defaultDesktopMinColumns))
	settings := sessionSettings{provider: provider, fps: fps, minColumns: minColumns, logger: logger}

	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "fps", fps)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			previewMiddleware(settings),
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for key input
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
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// previewMiddleware builds a holder for the session and runs the preview.
// Debug comes from the command ("ssh -t host debug=true") or a forwarded
// CROSSING_DEBUG variable.
func previewMiddleware(settings sessionSettings) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			logger := settings.logger.With("user", sess.User())
			logger.Info("New preview session", "terminal", pty.Term,
				"size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

			lookup := config.Chain(
				config.ArgsLookup(sess.Command()),
				config.EnvironLookup("CROSSING_", sess.Environ()),
			)
			cfg := gameconfig.New(settings.provider,
				gameconfig.WithDesktop(pty.Window.Width >= settings.minColumns),
				gameconfig.WithLookup(lookup),
			)
			if settings.fps > 0 {
				cfg.SetPerformance(gameconfig.TierForFPS(settings.fps), settings.fps)
			}

			// Create a terminal size tracker that updates on window changes
			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

			// Listen for window size changes in a goroutine
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			session := preview.New(cfg, bufio.NewReader(sess), sess, preview.Options{
				TermSizeFunc:      sizeTracker.getSize,
				Logger:            settings.logger,
				Username:          sess.User(),
				BaseCanvasHeight:  settings.provider.Game.BaseCanvasHeight,
				DesktopMinColumns: settings.minColumns,
			})
			if err := session.Run(); err != nil {
				logger.Error("Preview error", "err", err)
			}

			logger.Info("Session ended", "desktop", cfg.IsDesktop())
			next(sess)
		}
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

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
