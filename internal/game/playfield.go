package game

import (
	"strings"

	"github.com/vovakirdan/ledtris/internal/core"
)

// Board geometry. The field is one 8-bit row mask per row across four
// stacked 8x8 modules.
const (
	Width      = 8
	Height     = 32
	DividerRow = 7 // last row of the preview area, drawn as a solid line

	fullRow uint8 = 0xFF
)

// Playfield is the grid of locked blocks, one bitmask per row. Bit 7 of a row
// is column 0. The zero value is an empty field.
type Playfield struct {
	rows [Height]uint8
}

func columnMask(x int) uint8 {
	return 0x80 >> uint(core.Mod(x, Width))
}

// Occupied reports whether (x, y) is blocked. Columns wrap, rows at or below
// the floor are solid and rows above the ceiling are free.
func (f *Playfield) Occupied(x, y int) bool {
	if y < 0 {
		return false
	}
	if y >= Height {
		return true
	}
	return f.rows[y]&columnMask(x) != 0
}

// Set marks (x, y) as occupied. Cells outside the vertical range are dropped.
func (f *Playfield) Set(x, y int) {
	if y < 0 || y >= Height {
		return
	}
	f.rows[y] |= columnMask(x)
}

// Row returns the bitmask of row y, or 0 if y is out of range.
func (f *Playfield) Row(y int) uint8 {
	if y < 0 || y >= Height {
		return 0
	}
	return f.rows[y]
}

// Rows returns a copy of the grid.
func (f *Playfield) Rows() [Height]uint8 {
	return f.rows
}

// Intersects reports whether any cell of p lands on a blocked cell.
func (f *Playfield) Intersects(p Piece) bool {
	for c := range p.Cells() {
		if f.Occupied(c.X, c.Y) {
			return true
		}
	}
	return false
}

// Place locks the cells of p into the grid.
func (f *Playfield) Place(p Piece) {
	for c := range p.Cells() {
		f.Set(c.X, c.Y)
	}
}

// ClearFullRows removes every full row, shifting the rows above down and
// inserting empty rows at the top. It returns how many rows were removed.
// After a removal the same index is examined again, since the row that slid
// into it may be full too.
func (f *Playfield) ClearFullRows() int {
	removed := 0
	for y := Height - 1; y >= 0; {
		if f.rows[y] != fullRow {
			y--
			continue
		}
		removed++
		copy(f.rows[1:y+1], f.rows[:y])
		f.rows[0] = 0
	}
	return removed
}

// Overflowed reports whether any locked block sits in the preview area,
// which ends the game.
func (f *Playfield) Overflowed() bool {
	for y := 0; y <= DividerRow; y++ {
		if f.rows[y] != 0 {
			return true
		}
	}
	return false
}

// String renders the grid with '#' for blocks, one line per row.
func (f *Playfield) String() string {
	var sb strings.Builder
	for y, row := range f.rows {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := range Width {
			if row&(0x80>>uint(x)) != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
