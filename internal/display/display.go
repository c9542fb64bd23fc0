// Package display drives 8-pixel-wide LED matrices. A Display collects
// pixels into a framebuffer and pushes it somewhere on Flush: a cascade of
// MAX7219 modules on an SPI bus, or an in-memory text buffer.
package display

import (
	"errors"
	"fmt"
)

// ModuleSize is the edge length of one LED module.
const ModuleSize = 8

// Display is a monochrome pixel sink. Fill and SetPixel only touch the
// framebuffer; Flush transfers it.
type Display interface {
	Fill(on bool)
	SetPixel(x, y int, on bool)
	Flush() error
}

// Rotation is the quarter-turn mounting of a single module.
type Rotation uint8

const (
	Deg0 Rotation = iota
	Deg90
	Deg180
	Deg270
)

// ParseRotation accepts 0, 90, 180 or 270.
func ParseRotation(degrees int) (Rotation, error) {
	switch degrees {
	case 0:
		return Deg0, nil
	case 90:
		return Deg90, nil
	case 180:
		return Deg180, nil
	case 270:
		return Deg270, nil
	}
	return 0, fmt.Errorf("display: invalid rotation %d", degrees)
}

func (r Rotation) String() string {
	return fmt.Sprintf("%d°", int(r)*90)
}

// Tee forwards every call to several displays.
type Tee []Display

func (t Tee) Fill(on bool) {
	for _, d := range t {
		d.Fill(on)
	}
}

func (t Tee) SetPixel(x, y int, on bool) {
	for _, d := range t {
		d.SetPixel(x, y, on)
	}
}

// Flush flushes every display and joins the errors.
func (t Tee) Flush() error {
	var errs []error
	for _, d := range t {
		if err := d.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
