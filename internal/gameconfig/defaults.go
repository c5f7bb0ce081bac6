package gameconfig

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultYAML []byte

// ErrInvalidProvider wraps every validation failure.
var ErrInvalidProvider = errors.New("invalid game constants")

// Default returns the built-in constants. Each call returns an
// independent copy.
func Default() Provider {
	var p Provider
	if err := yaml.Unmarshal(defaultYAML, &p); err != nil {
		panic(fmt.Sprintf("gameconfig: embedded defaults: %v", err))
	}
	return p
}

// DefaultYAML returns the embedded defaults document.
func DefaultYAML() []byte {
	return bytes.Clone(defaultYAML)
}

// Load decodes a YAML document over the built-in constants and validates
// the result. Sections and fields the document omits keep their defaults;
// KEYS entries are merged per action.
func Load(r io.Reader) (Provider, error) {
	p := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Provider{}, fmt.Errorf("decode game constants: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Provider{}, err
	}
	return p, nil
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string) (Provider, error) {
	f, err := os.Open(path)
	if err != nil {
		return Provider{}, fmt.Errorf("open game constants: %w", err)
	}
	defer f.Close()

	p, err := Load(f)
	if err != nil {
		return Provider{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Validate reports every problem with p, joined.
func (p Provider) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidProvider}, args...)...))
	}

	if p.Game.WinningLine <= 0 {
		bad("GAME.WINNING_LINE must be positive, got %v", p.Game.WinningLine)
	}
	if p.Game.MaxObstacles < 0 {
		bad("GAME.MAX_OBSTACLES must not be negative, got %d", p.Game.MaxObstacles)
	}
	if p.Game.DifficultyIncreaseRate < 0 {
		bad("GAME.DIFFICULTY_INCREASE_RATE must not be negative, got %v", p.Game.DifficultyIncreaseRate)
	}
	if p.Game.BaseCanvasHeight <= 0 {
		bad("GAME.BASE_CANVAS_HEIGHT must be positive, got %v", p.Game.BaseCanvasHeight)
	}
	if p.Player.MinStep <= 0 {
		bad("PLAYER.MIN_STEP must be positive, got %v", p.Player.MinStep)
	}
	if p.Obstacle.BaseSpeed <= 0 {
		bad("OBSTACLE.BASE_SPEED must be positive, got %v", p.Obstacle.BaseSpeed)
	}

	// Ratios are checked on both the base and the desktop-merged settings.
	for _, s := range []struct {
		name     string
		settings Settings
	}{
		{"base", p.base()},
		{"desktop", merge(p.base(), p.Desktop)},
	} {
		for _, r := range []struct {
			field string
			v     float64
		}{
			{"PLAYER_SIZE_RATIO", s.settings.PlayerSizeRatio},
			{"OBSTACLE_MIN_WIDTH_RATIO", s.settings.ObstacleMinWidthRatio},
			{"OBSTACLE_MAX_WIDTH_RATIO", s.settings.ObstacleMaxWidthRatio},
		} {
			if r.v <= 0 || r.v > 1 {
				bad("%s %s must be in (0, 1], got %v", s.name, r.field, r.v)
			}
		}
		if s.settings.ObstacleMinWidthRatio > s.settings.ObstacleMaxWidthRatio {
			bad("%s OBSTACLE_MIN_WIDTH_RATIO %v exceeds OBSTACLE_MAX_WIDTH_RATIO %v",
				s.name, s.settings.ObstacleMinWidthRatio, s.settings.ObstacleMaxWidthRatio)
		}
	}

	if d := p.Desktop; d.MaxCars != nil && *d.MaxCars < 0 {
		bad("DESKTOP_SETTINGS.MAX_CARS must not be negative, got %d", *d.MaxCars)
	}
	if d := p.Desktop; d.BaseSpeed != nil && *d.BaseSpeed <= 0 {
		bad("DESKTOP_SETTINGS.BASE_SPEED must be positive, got %v", *d.BaseSpeed)
	}

	for name, v := range map[string]string{
		"WAITING":   p.States.Waiting,
		"STARTING":  p.States.Starting,
		"PLAYING":   p.States.Playing,
		"PAUSED":    p.States.Paused,
		"GAME_OVER": p.States.GameOver,
	} {
		if v == "" {
			bad("STATE.%s is empty", name)
		}
	}

	keys := NewKeyMap(p.Keys)
	owner := make(map[string]string)
	for _, action := range keys.Actions() {
		bound := keys.Keys(action)
		if len(bound) == 0 {
			bad("KEYS.%s has no keys", action)
		}
		for _, key := range bound {
			if prev, ok := owner[key]; ok && prev != action {
				bad("key %q bound to both %s and %s", key, prev, action)
				continue
			}
			owner[key] = action
		}
	}

	return errors.Join(errs...)
}

// base flattens the provider's sections into a Settings.
func (p Provider) base() Settings {
	return Settings{
		WinningLine:            p.Game.WinningLine,
		BaseSpeed:              p.Obstacle.BaseSpeed,
		PlayerSizeRatio:        p.Player.SizeRatio,
		MinStep:                p.Player.MinStep,
		ObstacleMinWidthRatio:  p.Obstacle.MinWidthRatio,
		ObstacleMaxWidthRatio:  p.Obstacle.MaxWidthRatio,
		MaxCars:                p.Game.MaxObstacles,
		DifficultyIncreaseRate: p.Game.DifficultyIncreaseRate,
	}
}

// LoadOrDefault loads path, or returns the built-in constants when path
// is empty.
func LoadOrDefault(path string) (Provider, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
