// Package config provides YAML-based configuration loading for the
// LED matrix game, its hardware and its status surfaces.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/ledtris/internal/core"
	"github.com/vovakirdan/ledtris/internal/display"
	"github.com/vovakirdan/ledtris/internal/game"
	"github.com/vovakirdan/ledtris/internal/input"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the full runtime configuration.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Input   InputConfig   `yaml:"input"`
	Game    GameConfig    `yaml:"game"`
	Storage StorageConfig `yaml:"storage"`
	Status  StatusConfig  `yaml:"status"`
	Log     LogConfig     `yaml:"log"`
}

// DisplayConfig selects and tunes the LED backend.
type DisplayConfig struct {
	Driver     string `yaml:"driver"`
	SPIPort    string `yaml:"spi_port"`
	SpeedHz    int64  `yaml:"speed_hz"`
	Rotations  []int  `yaml:"rotations"` // degrees per module, top first
	Brightness uint8  `yaml:"brightness"`
	Retries    int    `yaml:"retries"`
}

// InputConfig describes the button lines.
type InputConfig struct {
	DebounceMS int               `yaml:"debounce_ms"`
	Edge       string            `yaml:"edge"`
	Buttons    map[string]string `yaml:"buttons"` // action name -> GPIO pin name
}

// GameConfig holds timing and scoring rules.
type GameConfig struct {
	TickHz         int   `yaml:"tick_hz"`
	DropIntervalMS int   `yaml:"drop_interval_ms"`
	PointsPerRow   int   `yaml:"points_per_row"`
	NextRevealRow  int   `yaml:"next_reveal_row"`
	Seed           int64 `yaml:"seed"` // 0 picks a time-based seed
	AnimateMenu    bool  `yaml:"animate_menu"`
}

// StorageConfig locates the highscore entry.
type StorageConfig struct {
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
	Key       string `yaml:"key"`
}

// StatusConfig holds listen addresses. Empty addresses disable a surface.
type StatusConfig struct {
	HTTPAddr string `yaml:"http_addr"`
	SSHAddr  string `yaml:"ssh_addr"`
	HostKey  string `yaml:"host_key"`
}

// LogConfig sets the log level name understood by charmbracelet/log.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Modules returns the number of cascaded LED modules.
func (c DisplayConfig) Modules() int {
	return len(c.Rotations)
}

// ParsedRotations converts the configured degrees.
func (c DisplayConfig) ParsedRotations() ([]display.Rotation, error) {
	out := make([]display.Rotation, len(c.Rotations))
	for i, deg := range c.Rotations {
		r, err := display.ParseRotation(deg)
		if err != nil {
			return nil, fmt.Errorf("%w: module %d: %v", ErrInvalid, i, err)
		}
		out[i] = r
	}
	return out, nil
}

// Debounce returns the debounce window.
func (c InputConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Bindings resolves the button map into actions, in action order.
func (c InputConfig) Bindings() ([]Binding, error) {
	byAction := make(map[core.ButtonAction]string, len(c.Buttons))
	for name, pin := range c.Buttons {
		a, ok := core.ParseAction(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown button action %q", ErrInvalid, name)
		}
		if pin == "" {
			return nil, fmt.Errorf("%w: button %q has no pin", ErrInvalid, name)
		}
		if prev, dup := byAction[a]; dup {
			return nil, fmt.Errorf("%w: action %s bound to %s and %s", ErrInvalid, a, prev, pin)
		}
		byAction[a] = pin
	}

	out := make([]Binding, 0, len(byAction))
	for _, a := range core.AllActions {
		if pin, ok := byAction[a]; ok {
			out = append(out, Binding{Action: a, Pin: pin})
		}
	}
	return out, nil
}

// Binding is one button line.
type Binding struct {
	Action core.ButtonAction
	Pin    string
}

// Rules converts the game section.
func (c GameConfig) Rules() game.Rules {
	r := game.DefaultRules()
	r.DropInterval = time.Duration(c.DropIntervalMS) * time.Millisecond
	r.PointsPerRow = c.PointsPerRow
	r.NextRevealRow = c.NextRevealRow
	r.AnimateMenu = c.AnimateMenu
	return r
}

// Runtime converts the game section into loop timing.
func (c GameConfig) Runtime() core.RuntimeConfig {
	return core.RuntimeConfig{TickRate: c.TickHz, Seed: c.Seed}
}

// Validate checks the configuration for values the engine cannot run with.
func (c Config) Validate() error {
	d := c.Display
	if d.Driver == "" {
		return fmt.Errorf("%w: display.driver is empty", ErrInvalid)
	}
	if d.Modules()*display.ModuleSize != game.Height {
		return fmt.Errorf("%w: display needs %d modules for a %d-row board, got %d",
			ErrInvalid, game.Height/display.ModuleSize, game.Height, d.Modules())
	}
	if _, err := d.ParsedRotations(); err != nil {
		return err
	}
	if d.Brightness > display.MaxIntensity {
		return fmt.Errorf("%w: display.brightness %d exceeds %d", ErrInvalid, d.Brightness, display.MaxIntensity)
	}
	if d.Retries < 1 {
		return fmt.Errorf("%w: display.retries must be at least 1", ErrInvalid)
	}
	if d.SpeedHz < 0 {
		return fmt.Errorf("%w: display.speed_hz is negative", ErrInvalid)
	}

	if c.Input.DebounceMS < 0 {
		return fmt.Errorf("%w: input.debounce_ms is negative", ErrInvalid)
	}
	if _, err := input.ParseEdge(c.Input.Edge); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := c.Input.Bindings(); err != nil {
		return err
	}

	g := c.Game
	if g.TickHz <= 0 {
		return fmt.Errorf("%w: game.tick_hz must be positive", ErrInvalid)
	}
	if g.DropIntervalMS <= 0 {
		return fmt.Errorf("%w: game.drop_interval_ms must be positive", ErrInvalid)
	}
	if g.PointsPerRow < 0 {
		return fmt.Errorf("%w: game.points_per_row is negative", ErrInvalid)
	}
	if g.NextRevealRow < 0 || g.NextRevealRow > game.Height {
		return fmt.Errorf("%w: game.next_reveal_row out of range", ErrInvalid)
	}

	if c.Storage.Path == "" {
		return fmt.Errorf("%w: storage.path is empty", ErrInvalid)
	}
	return nil
}
