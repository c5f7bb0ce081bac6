package gameconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	p := Default()
	require.NoError(t, p.Validate())

	assert.Equal(t, 60.0, p.Game.WinningLine)
	assert.Equal(t, 600.0, p.Game.BaseCanvasHeight)
	require.NotNil(t, p.Desktop.BaseSpeed)
	assert.Equal(t, 4.5, *p.Desktop.BaseSpeed)
	assert.Nil(t, p.Desktop.WinningLine)
	assert.Equal(t, []string{"q", "Q"}, p.Keys["quit"])
	assert.Equal(t, "paused", p.States.Paused)
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a := Default()
	*a.Desktop.BaseSpeed = 42
	a.Keys["quit"][0] = "x"

	b := Default()
	assert.Equal(t, 4.5, *b.Desktop.BaseSpeed)
	assert.Equal(t, "q", b.Keys["quit"][0])
}

func TestDefaultDesktopMerge(t *testing.T) {
	p := Default()
	mobile := New(p)
	desktop := New(p, WithDesktop(true))

	assert.Equal(t, 3.0, mobile.BaseSpeed())
	assert.Equal(t, 4.5, desktop.BaseSpeed())
	assert.Equal(t, 10, mobile.MaxCars())
	assert.Equal(t, 14, desktop.MaxCars())
	assert.Equal(t, mobile.WinningLine(), desktop.WinningLine())
	assert.Equal(t, mobile.MinStep(), desktop.MinStep())
}

func TestLoadPartialDocumentKeepsDefaults(t *testing.T) {
	doc := `
GAME:
  WINNING_LINE: 80
DESKTOP_SETTINGS:
  WINNING_LINE: 90
KEYS:
  jump: [j]
`
	p, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 80.0, p.Game.WinningLine)
	assert.Equal(t, 10, p.Game.MaxObstacles)
	assert.Equal(t, 3.0, p.Obstacle.BaseSpeed)
	require.NotNil(t, p.Desktop.WinningLine)
	assert.Equal(t, 90.0, *p.Desktop.WinningLine)
	require.NotNil(t, p.Desktop.BaseSpeed)
	assert.Equal(t, 4.5, *p.Desktop.BaseSpeed)
	assert.Equal(t, []string{"j"}, p.Keys["jump"])
	assert.Equal(t, []string{"q", "Q"}, p.Keys["quit"])
}

func TestLoadEmptyDocument(t *testing.T) {
	p, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default().Game, p.Game)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	_, err := Load(strings.NewReader("GAME:\n  WINNING_LIN: 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode game constants")
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(strings.NewReader("OBSTACLE:\n  BASE_SPEED: 0\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidProvider))
	assert.Contains(t, err.Error(), "OBSTACLE.BASE_SPEED")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "constants.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PLAYER:\n  MIN_STEP: 7\n"), 0o644))

	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7.0, p.Player.MinStep)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDefaultYAMLRoundTripsThroughLoad(t *testing.T) {
	p, err := Load(strings.NewReader(string(DefaultYAML())))
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Provider)
		want   string
	}{
		{
			name:   "winning line",
			mutate: func(p *Provider) { p.Game.WinningLine = 0 },
			want:   "GAME.WINNING_LINE",
		},
		{
			name:   "negative obstacles",
			mutate: func(p *Provider) { p.Game.MaxObstacles = -1 },
			want:   "GAME.MAX_OBSTACLES",
		},
		{
			name:   "base canvas height",
			mutate: func(p *Provider) { p.Game.BaseCanvasHeight = 0 },
			want:   "GAME.BASE_CANVAS_HEIGHT",
		},
		{
			name:   "min step",
			mutate: func(p *Provider) { p.Player.MinStep = -1 },
			want:   "PLAYER.MIN_STEP",
		},
		{
			name:   "ratio above one",
			mutate: func(p *Provider) { p.Player.SizeRatio = 1.5 },
			want:   "base PLAYER_SIZE_RATIO",
		},
		{
			name:   "desktop ratio",
			mutate: func(p *Provider) { p.Desktop.ObstacleMaxWidthRatio = Float(0) },
			want:   "desktop OBSTACLE_MAX_WIDTH_RATIO",
		},
		{
			name: "min width above max",
			mutate: func(p *Provider) {
				p.Obstacle.MinWidthRatio = 0.5
				p.Obstacle.MaxWidthRatio = 0.2
			},
			want: "exceeds",
		},
		{
			name:   "desktop max cars",
			mutate: func(p *Provider) { p.Desktop.MaxCars = Int(-2) },
			want:   "DESKTOP_SETTINGS.MAX_CARS",
		},
		{
			name:   "empty state",
			mutate: func(p *Provider) { p.States.GameOver = "" },
			want:   "STATE.GAME_OVER",
		},
		{
			name:   "unbound action",
			mutate: func(p *Provider) { p.Keys["jump"] = nil },
			want:   "KEYS.jump",
		},
		{
			name:   "shared key",
			mutate: func(p *Provider) { p.Keys["jump"] = []string{"q"} },
			want:   `key "q" bound to both`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.mutate(&p)

			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidProvider)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateJoinsAllProblems(t *testing.T) {
	p := Default()
	p.Game.WinningLine = -1
	p.Obstacle.BaseSpeed = 0

	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GAME.WINNING_LINE")
	assert.Contains(t, err.Error(), "OBSTACLE.BASE_SPEED")
}

func TestLoadOrDefault(t *testing.T) {
	p, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), p)

	_, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
