package game

// 8x8 glyphs, one byte per row, leftmost pixel in the high bit.
type glyph [8]uint8

// titleGlyphs spell the start-screen banner, one per module.
var titleGlyphs = [4]glyph{
	{0b01111110, 0b00011000, 0b00011000, 0b00011000, 0b00000000, 0b01111110, 0b01100000, 0b01111100},
	{0b01100000, 0b01111110, 0b00000000, 0b01111110, 0b00011000, 0b00011000, 0b00011000, 0b01111100},
	{0b01101100, 0b01111110, 0b01101100, 0b01100110, 0b00000000, 0b00011000, 0b00011000, 0b00011000},
	{0b00011000, 0b00000000, 0b01111110, 0b01100000, 0b01111110, 0b00000110, 0b01111110, 0b00000000},
}

var (
	buttonUp   = glyph{0, 0, 0, 0, 0b01111110, 0b01111110, 0, 0}
	buttonDown = glyph{0, 0, 0b00011000, 0b00011000, 0b01111110, 0b01111110, 0, 0}
)

var digitGlyphs = [10]glyph{
	{0b00111100, 0b01100110, 0b01101110, 0b01110110, 0b01100110, 0b01100110, 0b00111100, 0},
	{0b00011000, 0b00111000, 0b00011000, 0b00011000, 0b00011000, 0b00011000, 0b00111100, 0},
	{0b00111100, 0b01100110, 0b00000110, 0b00001100, 0b00011000, 0b01100000, 0b01111110, 0},
	{0b00111100, 0b01100110, 0b00000110, 0b00011100, 0b00000110, 0b01100110, 0b00111100, 0},
	{0b00001100, 0b00011100, 0b00101100, 0b01001100, 0b01111110, 0b00001100, 0b00001100, 0},
	{0b01111110, 0b01100000, 0b01111100, 0b00000110, 0b00000110, 0b01100110, 0b00111100, 0},
	{0b00111100, 0b01100110, 0b01100000, 0b01111100, 0b01100110, 0b01100110, 0b00111100, 0},
	{0b01111110, 0b01100110, 0b00000110, 0b00001100, 0b00011000, 0b00011000, 0b00011000, 0},
	{0b00111100, 0b01100110, 0b01100110, 0b00111100, 0b01100110, 0b01100110, 0b00111100, 0},
	{0b00111100, 0b01100110, 0b01100110, 0b00111110, 0b00000110, 0b01100110, 0b00111100, 0},
}
