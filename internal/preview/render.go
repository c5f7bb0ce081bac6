package preview

import (
	"fmt"
	"strings"
	"time"
)

const (
	labelWidth = 24
	title      = "CROSSING - settings preview"
)

// drawFrame draws the settings panel: the title centered on the first row
// and the lines below it.
func (s *Session) drawFrame() error {
	cw := s.chunkWriter
	if s.dirty {
		cw.Clear()
		s.dirty = false
	}

	cw.WriteCentered(1, panelWidth, title)
	for i, line := range s.lines() {
		cw.WriteAt(1, i+2, line)
	}
	return cw.Flush()
}

// lines builds the panel text below the title, one entry per row.
func (s *Session) lines() []string {
	cfg := s.cfg
	lines := []string{
		"",
		row("Mode", s.modeText()),
		row("State", s.stateText()),
		"",
		row("Winning line", fmt.Sprintf("%.2f (%.1f rows on this terminal)",
			cfg.WinningLine(), cfg.ScaledWinningLine(float64(s.termHeight), s.opts.BaseCanvasHeight))),
		row("Base speed", fmt.Sprintf("%.2f", cfg.BaseSpeed())),
		row("Player size ratio", fmt.Sprintf("%.3f", cfg.PlayerSizeRatio())),
		row("Min step", fmt.Sprintf("%.2f", cfg.MinStep())),
		row("Obstacle width ratio", fmt.Sprintf("%.2f - %.2f", cfg.ObstacleMinWidthRatio(), cfg.ObstacleMaxWidthRatio())),
		row("Max cars", fmt.Sprintf("%d (keeps at least %d)", cfg.MaxCars(), cfg.MinObstacles())),
		row("Difficulty rate", fmt.Sprintf("%.3f", cfg.DifficultyIncreaseRate())),
		"",
		row("Debug", onOff(cfg.IsDebugEnabled())),
	}
	if cfg.ShowCollisions() {
		lines = append(lines, row("Collision outlines", "shown"))
	}
	if cfg.ShowFPS() {
		lines = append(lines, row("FPS", fmt.Sprintf("%.0f", s.fps)))
	}
	if tier := cfg.DeviceTier(); tier != "" {
		fps, _ := cfg.TargetFPS()
		lines = append(lines, row("Device tier", fmt.Sprintf("%s @ %d fps", tier, fps)))
	}

	lines = append(lines, "", "Key bindings")
	keys := cfg.Keys()
	for _, action := range keys.Actions() {
		lines = append(lines, row("  "+action, strings.Join(quoteKeys(keys.Keys(action)), " ")))
	}

	lines = append(lines, "", s.hint())
	if s.inactive {
		left := inactivityDisconnect - time.Since(s.lastInput)
		lines = append(lines, fmt.Sprintf("Inactive: disconnecting in %d seconds, press any key", int(left.Seconds())))
	}
	return lines
}

func (s *Session) modeText() string {
	mode := "mobile"
	if s.cfg.IsDesktop() {
		mode = "desktop"
	}
	how := "auto"
	if s.manual {
		how = "manual"
	}
	return fmt.Sprintf("%s (%s, %dx%d)", mode, how, s.termWidth, s.termHeight)
}

func (s *Session) stateText() string {
	if s.paused {
		return s.cfg.States().Paused
	}
	return s.cfg.States().Waiting
}

// hint lists the first key bound to each screen action.
func (s *Session) hint() string {
	keys := s.cfg.Keys()
	var parts []string
	for _, a := range []struct{ action, label string }{
		{ActionToggleDesktop, "toggle desktop"},
		{ActionPause, "pause"},
		{ActionQuit, "quit"},
	} {
		bound := keys.Keys(a.action)
		if len(bound) == 0 {
			continue
		}
		parts = append(parts, quoteKey(bound[0])+": "+a.label)
	}
	return strings.Join(parts, "  ")
}

func row(label, value string) string {
	return fmt.Sprintf("%-*s%s", labelWidth, label, value)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func quoteKeys(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = quoteKey(k)
	}
	return out
}

func quoteKey(k string) string {
	if k == " " {
		return "Space"
	}
	return k
}
