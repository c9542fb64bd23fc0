package game

import "github.com/vovakirdan/ledtris/internal/core"

// Canvas is the pixel sink a state is rendered into.
type Canvas interface {
	Fill(on bool)
	SetPixel(x, y int, on bool)
}

// Render draws s onto c from scratch.
func Render(s State, c Canvas) {
	c.Fill(false)
	switch s := s.(type) {
	case StartMenu:
		renderMenu(s.Phase, c)
	case *InGame:
		renderGame(s, c)
	case GameOver:
		renderScore(s.Score, c)
	}
}

func renderMenu(p Phase, c Canvas) {
	for block := range 4 {
		switch p {
		case PhaseText:
			drawGlyph(c, block, titleGlyphs[block])
		case PhaseButtonPressed:
			drawGlyph(c, block, buttonDown)
		default:
			drawGlyph(c, block, buttonUp)
		}
	}
}

func renderGame(g *InGame, c Canvas) {
	for y := range Height {
		row := g.Field.Row(y)
		for x := range Width {
			c.SetPixel(x, y, row&(0x80>>uint(x)) != 0)
		}
	}
	drawPiece(c, g.Current)
	for x := range Width {
		c.SetPixel(x, DividerRow, true)
	}
	if g.Next != nil {
		drawPiece(c, *g.Next)
	}
}

// drawPiece wraps columns the same way Playfield does.
func drawPiece(c Canvas, p Piece) {
	for cell := range p.Cells() {
		if cell.Y < 0 || cell.Y >= Height {
			continue
		}
		c.SetPixel(core.Mod(cell.X, Width), cell.Y, true)
	}
}

// renderScore shows the last four decimal digits, one per module.
func renderScore(score int, c Canvas) {
	digits := [4]int{score / 1000 % 10, score / 100 % 10, score / 10 % 10, score % 10}
	for block, d := range digits {
		drawGlyph(c, block, digitGlyphs[d])
	}
}

func drawGlyph(c Canvas, block int, g glyph) {
	top := block * 8
	for y, bits := range g {
		for x := range 8 {
			if bits&(0x80>>uint(x)) != 0 {
				c.SetPixel(x, top+y, true)
			}
		}
	}
}
