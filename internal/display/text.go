package display

import (
	"strings"
	"sync"
)

// Text is an in-memory display one module wide. Rows are bitmasks with the
// leftmost pixel in the high bit. It is safe to read Frame from other
// goroutines while the tick loop draws.
type Text struct {
	mu      sync.RWMutex
	draw    []uint8 // rows being drawn this tick
	shown   []uint8 // rows as of the last Flush
	flushes uint64
}

// NewText returns a blank display of the given height in pixels.
func NewText(height int) *Text {
	return &Text{
		draw:  make([]uint8, height),
		shown: make([]uint8, height),
	}
}

// Height returns the number of rows.
func (t *Text) Height() int {
	return len(t.draw)
}

func (t *Text) Fill(on bool) {
	var v uint8
	if on {
		v = 0xFF
	}
	for y := range t.draw {
		t.draw[y] = v
	}
}

func (t *Text) SetPixel(x, y int, on bool) {
	if x < 0 || x >= ModuleSize || y < 0 || y >= len(t.draw) {
		return
	}
	mask := uint8(0x80) >> uint(x)
	if on {
		t.draw[y] |= mask
	} else {
		t.draw[y] &^= mask
	}
}

// Flush publishes the drawn rows to readers.
func (t *Text) Flush() error {
	t.mu.Lock()
	copy(t.shown, t.draw)
	t.flushes++
	t.mu.Unlock()
	return nil
}

// Frame returns a copy of the published rows and the flush count.
func (t *Text) Frame() ([]uint8, uint64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]uint8(nil), t.shown...), t.flushes
}

// Pixel reports whether (x, y) was lit at the last Flush.
func (t *Text) Pixel(x, y int) bool {
	if x < 0 || x >= ModuleSize || y < 0 || y >= len(t.shown) {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.shown[y]&(0x80>>uint(x)) != 0
}

// String draws the published frame with ● for lit and ◌ for dark pixels.
func (t *Text) String() string {
	rows, _ := t.Frame()
	return FormatRows(rows, "●", "◌")
}

// FormatRows renders bitmask rows as text, cells separated by spaces.
func FormatRows(rows []uint8, on, off string) string {
	var sb strings.Builder
	for y, row := range rows {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := range ModuleSize {
			if x > 0 {
				sb.WriteByte(' ')
			}
			if row&(0x80>>uint(x)) != 0 {
				sb.WriteString(on)
			} else {
				sb.WriteString(off)
			}
		}
	}
	return sb.String()
}
