// Package gameconfig holds the per-session game settings: base constants,
// optionally overlaid with desktop overrides, plus debug flags read once
// from a parameter lookup.
//
// A Config is owned by a single session and is not safe for concurrent use.
package gameconfig

import (
	"math"

	"github.com/tomz197/crossing/internal/config"
)

// Settings is the merged configuration in effect.
type Settings struct {
	WinningLine            float64 `json:"winningLine"`
	BaseSpeed              float64 `json:"baseSpeed"`
	PlayerSizeRatio        float64 `json:"playerSizeRatio"`
	MinStep                float64 `json:"minStep"`
	ObstacleMinWidthRatio  float64 `json:"obstacleMinWidthRatio"`
	ObstacleMaxWidthRatio  float64 `json:"obstacleMaxWidthRatio"`
	MaxCars                int     `json:"maxCars"`
	DifficultyIncreaseRate float64 `json:"difficultyIncreaseRate"`
}

// merge returns base with every non-nil override applied.
func merge(base Settings, o Overrides) Settings {
	s := base
	if o.WinningLine != nil {
		s.WinningLine = *o.WinningLine
	}
	if o.BaseSpeed != nil {
		s.BaseSpeed = *o.BaseSpeed
	}
	if o.PlayerSizeRatio != nil {
		s.PlayerSizeRatio = *o.PlayerSizeRatio
	}
	if o.MinStep != nil {
		s.MinStep = *o.MinStep
	}
	if o.ObstacleMinWidthRatio != nil {
		s.ObstacleMinWidthRatio = *o.ObstacleMinWidthRatio
	}
	if o.ObstacleMaxWidthRatio != nil {
		s.ObstacleMaxWidthRatio = *o.ObstacleMaxWidthRatio
	}
	if o.MaxCars != nil {
		s.MaxCars = *o.MaxCars
	}
	if o.DifficultyIncreaseRate != nil {
		s.DifficultyIncreaseRate = *o.DifficultyIncreaseRate
	}
	return s
}

// DebugFlags toggles diagnostic overlays. All three fields come from the
// same "debug" parameter and are always equal.
type DebugFlags struct {
	Enabled        bool `json:"enabled"`
	ShowCollisions bool `json:"showCollisions"`
	ShowFPS        bool `json:"showFPS"`
}

// DeviceTier is a coarse performance class attached by a tuner.
type DeviceTier string

const (
	TierLow    DeviceTier = "low"
	TierMedium DeviceTier = "medium"
	TierHigh   DeviceTier = "high"
)

// Config is the configuration holder for one game session.
type Config struct {
	base      Settings
	desktop   Overrides
	settings  Settings
	isDesktop bool
	debug     DebugFlags
	states    States
	keys      KeyMap

	tier      DeviceTier
	targetFPS int
}

type options struct {
	desktop bool
	lookup  config.Lookup
}

// Option configures New.
type Option func(*options)

// WithDesktop sets the initial platform mode.
func WithDesktop(isDesktop bool) Option {
	return func(o *options) { o.desktop = isDesktop }
}

// WithLookup sets where the "debug" parameter is read from. Without it
// debug flags are off.
func WithLookup(lookup config.Lookup) Option {
	return func(o *options) { o.lookup = lookup }
}

// New builds a Config from p. The provider is copied; later changes to it
// do not reach the Config.
func New(p Provider, opts ...Option) *Config {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Config{
		base:    p.base(),
		desktop: p.Desktop.clone(),
		debug:   readDebug(o.lookup),
		states:  p.States,
		keys:    NewKeyMap(p.Keys),
	}
	c.SetDesktopMode(o.desktop)
	return c
}

func readDebug(lookup config.Lookup) DebugFlags {
	on := false
	if lookup != nil {
		v, ok := lookup("debug")
		on = ok && v == "true"
	}
	return DebugFlags{Enabled: on, ShowCollisions: on, ShowFPS: on}
}

// SetDesktopMode switches platform mode and rebuilds the settings from the
// base values, so no override from a previous mode survives.
func (c *Config) SetDesktopMode(isDesktop bool) {
	c.isDesktop = isDesktop
	if isDesktop {
		c.settings = merge(c.base, c.desktop)
	} else {
		c.settings = c.base
	}
}

// IsDesktop reports the current platform mode.
func (c *Config) IsDesktop() bool { return c.isDesktop }

// Snapshot returns a copy of the settings in effect.
func (c *Config) Snapshot() Settings { return c.settings }

// WinningLine returns the unscaled winning line.
func (c *Config) WinningLine() float64 { return c.settings.WinningLine }

// ScaledWinningLine scales the winning line by canvasHeight/baseCanvasHeight.
// If either height is zero or NaN the unscaled value is returned.
func (c *Config) ScaledWinningLine(canvasHeight, baseCanvasHeight float64) float64 {
	if unset(canvasHeight) || unset(baseCanvasHeight) {
		return c.settings.WinningLine
	}
	return c.settings.WinningLine * (canvasHeight / baseCanvasHeight)
}

func unset(v float64) bool {
	return v == 0 || math.IsNaN(v)
}

// BaseSpeed returns the obstacle base speed.
func (c *Config) BaseSpeed() float64 { return c.settings.BaseSpeed }
// MinStep returns the smallest player step.
func (c *Config) MinStep() float64 { return c.settings.MinStep }
// PlayerSizeRatio returns the player size as a fraction of the canvas.
func (c *Config) PlayerSizeRatio() float64 { return c.settings.PlayerSizeRatio }
// ObstacleMinWidthRatio returns the narrowest obstacle as a fraction of the canvas width.
func (c *Config) ObstacleMinWidthRatio() float64 { return c.settings.ObstacleMinWidthRatio }
// ObstacleMaxWidthRatio returns the widest obstacle as a fraction of the canvas width.
func (c *Config) ObstacleMaxWidthRatio() float64 { return c.settings.ObstacleMaxWidthRatio }
// MaxCars returns the obstacle pool ceiling.
func (c *Config) MaxCars() int { return c.settings.MaxCars }
// DifficultyIncreaseRate returns the speed gain per level.
func (c *Config) DifficultyIncreaseRate() float64 { return c.settings.DifficultyIncreaseRate }

// MinObstacles is the number of cars an obstacle pool keeps alive:
// half of MaxCars, rounded down.
func (c *Config) MinObstacles() int {
	return int(math.Floor(float64(c.settings.MaxCars) / 2))
}

// Debug returns the debug flags read at construction.
func (c *Config) Debug() DebugFlags { return c.debug }
// IsDebugEnabled reports whether debug mode is on.
func (c *Config) IsDebugEnabled() bool { return c.debug.Enabled }
// ShowCollisions reports whether collision outlines are drawn.
func (c *Config) ShowCollisions() bool { return c.debug.ShowCollisions }
// ShowFPS reports whether the frame rate counter is drawn.
func (c *Config) ShowFPS() bool { return c.debug.ShowFPS }
// States returns the game state names.
func (c *Config) States() States { return c.states }
// Keys returns the key bindings.
func (c *Config) Keys() KeyMap { return c.keys }

// SetPerformance records the device tier and frame rate target chosen by a
// performance tuner. A non-positive targetFPS clears the target.
func (c *Config) SetPerformance(tier DeviceTier, targetFPS int) {
	c.tier = tier
	if targetFPS < 0 {
		targetFPS = 0
	}
	c.targetFPS = targetFPS
}

// DeviceTier returns the recorded tier, or "" if none was set.
func (c *Config) DeviceTier() DeviceTier { return c.tier }

// TargetFPS returns the frame rate target, if one was set.
func (c *Config) TargetFPS() (int, bool) {
	return c.targetFPS, c.targetFPS > 0
}

// TierForFPS picks the device tier that matches a frame rate target.
func TierForFPS(fps int) DeviceTier {
	switch {
	case fps <= 20:
		return TierLow
	case fps <= 40:
		return TierMedium
	default:
		return TierHigh
	}
}
