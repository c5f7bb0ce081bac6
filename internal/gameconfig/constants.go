package gameconfig

import (
	"slices"
	"sort"
)

// GameConstants holds round-level tuning.
type GameConstants struct {
	WinningLine            float64 `yaml:"WINNING_LINE"`
	MaxObstacles           int     `yaml:"MAX_OBSTACLES"`
	DifficultyIncreaseRate float64 `yaml:"DIFFICULTY_INCREASE_RATE"`
	BaseCanvasHeight       float64 `yaml:"BASE_CANVAS_HEIGHT"` // Height WinningLine is expressed against
}

// PlayerConstants holds player sizing and movement.
type PlayerConstants struct {
	SizeRatio float64 `yaml:"SIZE_RATIO"`
	MinStep   float64 `yaml:"MIN_STEP"`
}

// ObstacleConstants holds car speed and width range.
type ObstacleConstants struct {
	BaseSpeed     float64 `yaml:"BASE_SPEED"`
	MinWidthRatio float64 `yaml:"MIN_WIDTH_RATIO"`
	MaxWidthRatio float64 `yaml:"MAX_WIDTH_RATIO"`
}

// Overrides is a partial Settings. A nil field keeps the base value.
type Overrides struct {
	WinningLine            *float64 `yaml:"WINNING_LINE,omitempty"`
	BaseSpeed              *float64 `yaml:"BASE_SPEED,omitempty"`
	PlayerSizeRatio        *float64 `yaml:"PLAYER_SIZE_RATIO,omitempty"`
	MinStep                *float64 `yaml:"MIN_STEP,omitempty"`
	ObstacleMinWidthRatio  *float64 `yaml:"OBSTACLE_MIN_WIDTH_RATIO,omitempty"`
	ObstacleMaxWidthRatio  *float64 `yaml:"OBSTACLE_MAX_WIDTH_RATIO,omitempty"`
	MaxCars                *int     `yaml:"MAX_CARS,omitempty"`
	DifficultyIncreaseRate *float64 `yaml:"DIFFICULTY_INCREASE_RATE,omitempty"`
}

// clone returns a copy that shares no pointers with o.
func (o Overrides) clone() Overrides {
	return Overrides{
		WinningLine:            clonePtr(o.WinningLine),
		BaseSpeed:              clonePtr(o.BaseSpeed),
		PlayerSizeRatio:        clonePtr(o.PlayerSizeRatio),
		MinStep:                clonePtr(o.MinStep),
		ObstacleMinWidthRatio:  clonePtr(o.ObstacleMinWidthRatio),
		ObstacleMaxWidthRatio:  clonePtr(o.ObstacleMaxWidthRatio),
		MaxCars:                clonePtr(o.MaxCars),
		DifficultyIncreaseRate: clonePtr(o.DifficultyIncreaseRate),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Float builds a float override value inline.
func Float(v float64) *float64 { return &v }

// Int builds an int override value inline.
func Int(v int) *int { return &v }

// States names the game phases. The holder carries them without
// interpreting them.
type States struct {
	Waiting  string `yaml:"WAITING" json:"WAITING"`
	Starting string `yaml:"STARTING" json:"STARTING"`
	Playing  string `yaml:"PLAYING" json:"PLAYING"`
	Paused   string `yaml:"PAUSED" json:"PAUSED"`
	GameOver string `yaml:"GAME_OVER" json:"GAME_OVER"`
}

// Provider is the full constants source a Config is built from.
type Provider struct {
	Game     GameConstants       `yaml:"GAME"`
	Player   PlayerConstants     `yaml:"PLAYER"`
	Obstacle ObstacleConstants   `yaml:"OBSTACLE"`
	Desktop  Overrides           `yaml:"DESKTOP_SETTINGS"`
	States   States              `yaml:"STATE"`
	Keys     map[string][]string `yaml:"KEYS"`
}

// KeyMap is a read-only view of action name to physical key identifiers.
// The zero value is an empty map.
type KeyMap struct {
	actions map[string][]string
}

// NewKeyMap copies m into a KeyMap.
func NewKeyMap(m map[string][]string) KeyMap {
	actions := make(map[string][]string, len(m))
	for action, keys := range m {
		actions[action] = slices.Clone(keys)
	}
	return KeyMap{actions: actions}
}

// Keys returns the keys bound to action, in binding order.
func (k KeyMap) Keys(action string) []string {
	return slices.Clone(k.actions[action])
}

// Actions returns all action names, sorted.
func (k KeyMap) Actions() []string {
	names := make([]string, 0, len(k.actions))
	for action := range k.actions {
		names = append(names, action)
	}
	sort.Strings(names)
	return names
}

// Action resolves a physical key to the action it is bound to.
func (k KeyMap) Action(key string) (string, bool) {
	for _, action := range k.Actions() {
		if slices.Contains(k.actions[action], key) {
			return action, true
		}
	}
	return "", false
}

// Len returns the number of actions.
func (k KeyMap) Len() int {
	return len(k.actions)
}

// Map returns a copy of the underlying mapping.
func (k KeyMap) Map() map[string][]string {
	out := make(map[string][]string, len(k.actions))
	for action, keys := range k.actions {
		out[action] = slices.Clone(keys)
	}
	return out
}
