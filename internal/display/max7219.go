package display

import (
	"errors"
	"fmt"
	"strings"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// MAX7219 register addresses.
const (
	opNoop        byte = 0x00
	opDigit0      byte = 0x01 // digits 0..7 are 0x01..0x08
	opDecodeMode  byte = 0x09
	opIntensity   byte = 0x0A
	opScanLimit   byte = 0x0B
	opShutdown    byte = 0x0C
	opDisplayTest byte = 0x0F
)

// MaxIntensity is the brightest duty-cycle setting.
const MaxIntensity = 15

// DefaultSpeed is the bus clock used when none is configured.
const DefaultSpeed = 1 * physic.MegaHertz

// ErrClosed is returned by operations on a closed cascade.
var ErrClosed = errors.New("display: cascade closed")

// Cascade drives a chain of MAX7219 modules stacked vertically, module 0 at
// the top. Each module may be mounted with its own rotation.
type Cascade struct {
	conn      spi.Conn
	rotations []Rotation
	bitmap    []byte // ModuleSize bytes per module, one per module column
	frame     []byte // reused wire buffer
	closed    bool
}

// NewCascade connects to port and returns a cascade with one module per
// rotation entry. Call Init before the first Flush.
func NewCascade(port spi.Port, speed physic.Frequency, rotations []Rotation) (*Cascade, error) {
	if len(rotations) == 0 {
		return nil, errors.New("display: cascade needs at least one module")
	}
	if speed <= 0 {
		speed = DefaultSpeed
	}
	conn, err := port.Connect(speed, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("display: connect spi: %w", err)
	}
	n := len(rotations)
	return &Cascade{
		conn:      conn,
		rotations: append([]Rotation(nil), rotations...),
		bitmap:    make([]byte, n*ModuleSize),
		frame:     make([]byte, 0, n*2),
	}, nil
}

// Modules returns the number of modules in the chain.
func (c *Cascade) Modules() int {
	return len(c.rotations)
}

// Height returns the pixel height of the stacked chain.
func (c *Cascade) Height() int {
	return len(c.rotations) * ModuleSize
}

// Init leaves test mode, scans all digits, disables BCD decoding, wakes the
// chips and sets the brightness.
func (c *Cascade) Init(intensity uint8) error {
	steps := []struct {
		op, data byte
	}{
		{opDisplayTest, 0x00},
		{opScanLimit, 0x07},
		{opDecodeMode, 0x00},
	}
	for _, s := range steps {
		if err := c.broadcast(s.op, s.data); err != nil {
			return err
		}
	}
	if err := c.SetShutdown(false); err != nil {
		return err
	}
	return c.SetIntensity(intensity)
}

// SetShutdown blanks (true) or wakes (false) every module.
func (c *Cascade) SetShutdown(off bool) error {
	var data byte = 0x01
	if off {
		data = 0x00
	}
	return c.broadcast(opShutdown, data)
}

// SetIntensity sets the brightness of every module, clamped to MaxIntensity.
func (c *Cascade) SetIntensity(v uint8) error {
	return c.broadcast(opIntensity, min(v, MaxIntensity))
}

// broadcast writes the same register on every module in one bus frame.
func (c *Cascade) broadcast(op, data byte) error {
	if c.closed {
		return ErrClosed
	}
	c.frame = c.frame[:0]
	for range c.rotations {
		c.frame = append(c.frame, op, data)
	}
	if err := c.conn.Tx(c.frame, nil); err != nil {
		return fmt.Errorf("display: write register 0x%02X: %w", op, err)
	}
	return nil
}

// Fill sets or clears the whole framebuffer.
func (c *Cascade) Fill(on bool) {
	var v byte
	if on {
		v = 0xFF
	}
	for i := range c.bitmap {
		c.bitmap[i] = v
	}
}

// SetPixel maps a logical pixel to its module and applies that module's
// rotation. Pixels outside the chain are ignored.
func (c *Cascade) SetPixel(x, y int, on bool) {
	if x < 0 || x >= ModuleSize || y < 0 || y >= c.Height() {
		return
	}
	module := y / ModuleSize
	lx, ly := x%ModuleSize, y%ModuleSize

	const last = ModuleSize - 1
	switch c.rotations[module] {
	case Deg90:
		lx, ly = ly, last-lx
	case Deg180:
		lx, ly = last-lx, last-ly
	case Deg270:
		lx, ly = last-ly, lx
	}

	idx := module*ModuleSize + lx
	mask := byte(1) << uint(ly)
	if on {
		c.bitmap[idx] |= mask
	} else {
		c.bitmap[idx] &^= mask
	}
}

// Flush sends the framebuffer as eight digit writes. Each write carries
// one pair per module, last module first, because data shifts through the
// chain.
func (c *Cascade) Flush() error {
	if c.closed {
		return ErrClosed
	}
	n := len(c.rotations)
	for row := range ModuleSize {
		c.frame = c.frame[:0]
		for m := n - 1; m >= 0; m-- {
			c.frame = append(c.frame, opDigit0+byte(row), c.bitmap[m*ModuleSize+row])
		}
		if err := c.conn.Tx(c.frame, nil); err != nil {
			return fmt.Errorf("display: write digit %d: %w", row, err)
		}
	}
	return nil
}

// Bitmap returns a copy of the hardware framebuffer.
func (c *Cascade) Bitmap() []byte {
	return append([]byte(nil), c.bitmap...)
}

// Close blanks the modules. The underlying port is owned by the caller.
func (c *Cascade) Close() error {
	if c.closed {
		return nil
	}
	err := c.SetShutdown(true)
	c.closed = true
	return err
}

// String dumps the framebuffer, one binary byte per line.
func (c *Cascade) String() string {
	var sb strings.Builder
	for _, b := range c.bitmap {
		fmt.Fprintf(&sb, "%08b\n", b)
	}
	return sb.String()
}
