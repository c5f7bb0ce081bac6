package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/tomz197/crossing/internal/config"
	"github.com/tomz197/crossing/internal/draw"
	"github.com/tomz197/crossing/internal/gameconfig"
	"github.com/tomz197/crossing/internal/preview"
)

const (
	defaultFPS               = "60"
	defaultDesktopMinColumns = "100"
)

func main() {
	// Logs go to stderr so they do not tear the preview on stdout.
	logger := config.NewLogger(os.Stderr, "crossing")
	args := config.ArgsLookup(os.Args[1:])

	// "crossing dump-defaults > constants.yaml" gives a starting point for
	// CROSSING_CONFIG.
	if _, ok := args("dump-defaults"); ok {
		if _, err := os.Stdout.Write(gameconfig.DefaultYAML()); err != nil {
			logger.Fatal("failed to write defaults", "err", err)
		}
		return
	}

	provider, err := gameconfig.LoadOrDefault(config.GetEnv("CROSSING_CONFIG", ""))
	if err != nil {
		logger.Fatal("failed to load game constants", "err", err)
	}

	minColumns, _ := strconv.Atoi(config.GetEnv("CROSSING_DESKTOP_COLUMNS", defaultDesktopMinColumns))
	fps, _ := strconv.Atoi(config.GetEnv("CROSSING_FPS", defaultFPS))

	width, _, err := draw.DefaultTermSizeFunc()
	if err != nil {
		logger.Warn("cannot read terminal size, assuming mobile layout", "err", err)
	}

	// debug=true on the command line wins over CROSSING_DEBUG.
	lookup := config.Chain(args, config.EnvLookup("CROSSING_"))
	cfg := gameconfig.New(provider,
		gameconfig.WithDesktop(width >= minColumns),
		gameconfig.WithLookup(lookup),
	)
	if fps > 0 {
		cfg.SetPerformance(gameconfig.TierForFPS(fps), fps)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	session := preview.New(cfg, bufio.NewReader(os.Stdin), os.Stdout, preview.Options{
		Logger:            logger,
		BaseCanvasHeight:  provider.Game.BaseCanvasHeight,
		DesktopMinColumns: minColumns,
	})
	if err := session.Run(); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "preview error: %v\n", err)
		os.Exit(1)
	}
}
