// Package preview runs a terminal screen that shows the game settings a
// session would play with, following the terminal as it is resized.
package preview

import (
	"bufio"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/crossing/internal/draw"
	"github.com/tomz197/crossing/internal/gameconfig"
	"github.com/tomz197/crossing/internal/input"
)

// Actions the screen reacts to. Keys come from the session's key map.
const (
	ActionQuit          = "quit"
	ActionPause         = "pause"
	ActionToggleDesktop = "toggle_desktop"
)

const (
	defaultFPS               = 30
	defaultDesktopMinColumns = 100
	redrawInterval           = time.Second

	inactivityWarn       = 90 * time.Second
	inactivityDisconnect = 120 * time.Second

	panelWidth  = 64
	panelHeight = 30
)

// Options configures a Session.
type Options struct {
	TermSizeFunc      draw.TermSizeFunc
	Logger            *log.Logger
	Username          string
	BaseCanvasHeight  float64 // Height the winning line is expressed against
	DesktopMinColumns int     // Terminals at least this wide count as desktop
}

// Session renders one holder to one terminal.
type Session struct {
	cfg          *gameconfig.Config
	opts         Options
	logger       *log.Logger
	writer       io.Writer
	chunkWriter  *draw.ChunkWriter
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc

	running    bool
	paused     bool
	manual     bool // desktop mode was toggled by hand since the last resize
	inactive   bool
	dirty      bool
	termWidth  int
	termHeight int
	lastInput  time.Time
	lastRender time.Time
	lastFrame  time.Time
	fps        float64
}

// New creates a session reading keys from r and drawing to w.
func New(cfg *gameconfig.Config, r *bufio.Reader, w io.Writer, opts Options) *Session {
	s := newSession(cfg, w, opts)
	s.inputStream = input.StartStream(r)
	return s
}

func newSession(cfg *gameconfig.Config, w io.Writer, opts Options) *Session {
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.DesktopMinColumns <= 0 {
		opts.DesktopMinColumns = defaultDesktopMinColumns
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.Username != "" {
		logger = logger.With("user", opts.Username)
	}

	now := time.Now()
	return &Session{
		cfg:          cfg,
		opts:         opts,
		logger:       logger,
		writer:       w,
		chunkWriter:  draw.NewChunkWriter(w, 0, 0),
		termSizeFunc: opts.TermSizeFunc,
		running:      true,
		dirty:        true,
		lastInput:    now,
		lastFrame:    now,
	}
}

// Run starts the screen loop. Blocks until the user quits, the input ends,
// or the session has been idle too long.
func (s *Session) Run() error {
	draw.HideCursor(s.writer)
	defer draw.ShowCursor(s.writer)
	draw.ClearScreen(s.writer)

	frameTime := s.frameTime()
	for s.running {
		frameStart := time.Now()

		if err := s.step(frameStart); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}

	draw.ClearScreen(s.writer)
	return nil
}

// step runs one frame: input, resize handling, drawing.
func (s *Session) step(now time.Time) error {
	if d := now.Sub(s.lastFrame); d > 0 {
		s.fps = float64(time.Second) / float64(d)
	}
	s.lastFrame = now

	keys := input.ReadKeys(s.inputStream)
	if s.inputStream.Closed() {
		s.running = false
	}
	s.handleKeys(keys, now)
	s.updateScreen()

	if !s.running {
		return nil
	}
	if s.dirty || now.Sub(s.lastRender) >= redrawInterval {
		s.lastRender = now
		return s.drawFrame()
	}
	return nil
}

func (s *Session) frameTime() time.Duration {
	fps, ok := s.cfg.TargetFPS()
	if !ok {
		fps = defaultFPS
	}
	return time.Second / time.Duration(fps)
}

// handleKeys applies pressed keys and tracks inactivity.
func (s *Session) handleKeys(keys []string, now time.Time) {
	if len(keys) > 0 {
		s.lastInput = now
		if s.inactive {
			s.inactive = false
			s.dirty = true
		}
	} else if idle := now.Sub(s.lastInput); idle > inactivityDisconnect {
		s.logger.Info("disconnecting idle session", "idle", idle.Round(time.Second))
		s.running = false
		return
	} else if idle > inactivityWarn && !s.inactive {
		s.inactive = true
		s.dirty = true
	}

	for _, key := range keys {
		if key == input.KeyInterrupt {
			s.running = false
			return
		}
	}

	for _, action := range input.Actions(keys, s.cfg.Keys()) {
		switch action {
		case ActionQuit:
			s.running = false
			return
		case ActionPause:
			s.paused = !s.paused
			s.dirty = true
		case ActionToggleDesktop:
			s.setDesktop(!s.cfg.IsDesktop(), "manual")
			s.manual = true
		}
	}
}

// updateScreen re-derives platform mode when the terminal size changes.
func (s *Session) updateScreen() {
	width, height, err := s.termSizeFunc()
	if err != nil {
		return
	}
	if width == s.termWidth && height == s.termHeight {
		return
	}
	s.termWidth, s.termHeight = width, height
	s.manual = false
	s.dirty = true

	offsetCol := max((width-panelWidth)/2, 0)
	offsetRow := max((height-panelHeight)/2, 0)
	s.chunkWriter.SetOffset(offsetCol, offsetRow)

	s.setDesktop(width >= s.opts.DesktopMinColumns, "resize")
}

func (s *Session) setDesktop(desktop bool, reason string) {
	if desktop == s.cfg.IsDesktop() {
		return
	}
	s.cfg.SetDesktopMode(desktop)
	s.dirty = true
	s.logger.Debug("platform mode changed",
		"desktop", desktop, "reason", reason,
		"baseSpeed", s.cfg.BaseSpeed(), "maxCars", s.cfg.MaxCars())
}
