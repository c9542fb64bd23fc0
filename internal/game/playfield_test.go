package game

import "testing"

func TestOccupiedBoundaries(t *testing.T) {
	var f Playfield
	f.Set(0, 10)
	f.Set(-1, 5) // wraps to column 7

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"set cell", 0, 10, true},
		{"wrapped right", 8, 10, true},
		{"wrapped left", -8, 10, true},
		{"negative column write", 7, 5, true},
		{"empty cell", 1, 10, false},
		{"above ceiling", 0, -1, false},
		{"far above ceiling", 3, -40, false},
		{"floor", 0, Height, true},
		{"below floor", 5, Height + 3, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.Occupied(tc.x, tc.y); got != tc.expected {
				t.Errorf("Occupied(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestSetOutsideRowsIsDropped(t *testing.T) {
	var f Playfield
	f.Set(2, -1)
	f.Set(2, Height)
	if f.Rows() != ([Height]uint8{}) {
		t.Error("writes outside the vertical range changed the grid")
	}
}

func TestIntersects(t *testing.T) {
	var f Playfield
	f.Set(5, 10)

	tests := []struct {
		name     string
		piece    Piece
		expected bool
	}{
		{"free at spawn", NewPiece(KindI), false},
		{"hits set cell", NewPiece(KindI).MoveBy(0, 7), true},
		{"hits set cell through wrap", NewPiece(KindI).MoveBy(8, 7), true},
		{"above ceiling", NewPiece(KindI).MoveBy(0, -20), false},
		{"resting on floor", NewPiece(KindI).MoveBy(0, Height-4), false},
		{"through floor", NewPiece(KindI).MoveBy(0, Height-3), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.Intersects(tc.piece); got != tc.expected {
				t.Errorf("Intersects(%v) = %v, expected %v", tc.piece, got, tc.expected)
			}
		})
	}
}

func TestPlaceWrapsColumns(t *testing.T) {
	var f Playfield
	f.Place(NewPiece(KindO).MoveBy(-4, 0)) // columns -1 and 0
	if f.Row(3) != 0x81 || f.Row(4) != 0x81 {
		t.Errorf("rows 3/4 = %08b/%08b, expected 10000001", f.Row(3), f.Row(4))
	}
}

func TestClearSingleRow(t *testing.T) {
	var f Playfield
	f.rows[28] = 0b00001111
	f.rows[29] = 0b10100000
	f.rows[30] = 0xFF
	f.rows[31] = 0b00000001

	if n := f.ClearFullRows(); n != 1 {
		t.Fatalf("ClearFullRows() = %d, expected 1", n)
	}

	expected := map[int]uint8{
		0:  0,
		28: 0,
		29: 0b00001111,
		30: 0b10100000,
		31: 0b00000001,
	}
	for y, row := range expected {
		if f.Row(y) != row {
			t.Errorf("row %d = %08b, expected %08b", y, f.Row(y), row)
		}
	}
}

func TestClearStackedRowsCascades(t *testing.T) {
	var f Playfield
	f.rows[29] = 0b10000001
	f.rows[30] = 0xFF
	f.rows[31] = 0xFF

	if n := f.ClearFullRows(); n != 2 {
		t.Fatalf("ClearFullRows() = %d, expected 2", n)
	}
	if f.Row(31) != 0b10000001 {
		t.Errorf("row 31 = %08b, expected 10000001", f.Row(31))
	}
	for y := range Height - 1 {
		if f.Row(y) != 0 {
			t.Errorf("row %d = %08b, expected empty", y, f.Row(y))
		}
	}
}

func TestClearSeparatedRows(t *testing.T) {
	var f Playfield
	f.rows[27] = 0b11000000
	f.rows[28] = 0xFF
	f.rows[29] = 0b00111100
	f.rows[30] = 0xFF
	f.rows[31] = 0b00000011

	if n := f.ClearFullRows(); n != 2 {
		t.Fatalf("ClearFullRows() = %d, expected 2", n)
	}
	if f.Row(31) != 0b00000011 || f.Row(30) != 0b00111100 || f.Row(29) != 0b11000000 {
		t.Errorf("unexpected rows after clear:\n%s", f.String())
	}
}

func TestClearNothing(t *testing.T) {
	var f Playfield
	f.rows[31] = 0b01111111
	before := f.Rows()
	if n := f.ClearFullRows(); n != 0 {
		t.Errorf("ClearFullRows() = %d, expected 0", n)
	}
	if f.Rows() != before {
		t.Error("grid changed without a full row")
	}
}

func TestOverflowed(t *testing.T) {
	var f Playfield
	f.rows[DividerRow+1] = 0xF0
	if f.Overflowed() {
		t.Error("blocks below the divider should not end the game")
	}
	f.Set(3, DividerRow)
	if !f.Overflowed() {
		t.Error("a block on the divider row should end the game")
	}
}
