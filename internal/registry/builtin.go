package registry

import (
	"errors"

	"github.com/vovakirdan/ledtris/internal/display"
)

func init() {
	Register(DriverInfo{Name: "max7219", Title: "MAX7219 cascade over SPI", Hardware: true}, newCascade)
	Register(DriverInfo{Name: "text", Title: "In-memory text matrix"}, newText)
}

func newCascade(d Deps) (display.Display, error) {
	if d.Port == nil {
		return nil, errors.New("no SPI port")
	}
	c, err := display.NewCascade(d.Port, d.Speed, d.Rotations)
	if err != nil {
		return nil, err
	}
	if err := c.Init(d.Intensity); err != nil {
		return nil, err
	}
	return c, nil
}

func newText(d Deps) (display.Display, error) {
	h := d.Height
	if h <= 0 {
		h = len(d.Rotations) * display.ModuleSize
	}
	if h <= 0 {
		return nil, errors.New("height must be positive")
	}
	return display.NewText(h), nil
}
