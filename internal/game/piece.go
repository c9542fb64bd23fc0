// Package game contains the tetromino engine: piece geometry, the bit-packed
// playfield, the StartMenu/InGame/GameOver state machine and the renderer that
// turns a state into pixels. Nothing here touches hardware or the terminal.
package game

import (
	"fmt"
	"iter"
	"math/rand"

	"github.com/vovakirdan/ledtris/internal/core"
)

// Kind identifies one of the seven tetromino shapes.
type Kind uint8

const (
	KindO Kind = iota
	KindT
	KindS
	KindZ
	KindJ
	KindL
	KindI
)

// Kinds lists all shapes in spawn-table order.
var Kinds = [...]Kind{KindO, KindT, KindS, KindZ, KindJ, KindL, KindI}

func (k Kind) String() string {
	switch k {
	case KindO:
		return "O"
	case KindT:
		return "T"
	case KindS:
		return "S"
	case KindZ:
		return "Z"
	case KindJ:
		return "J"
	case KindL:
		return "L"
	case KindI:
		return "I"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Rotation is a clockwise quarter-turn count in [0, 4).
type Rotation uint8

const (
	Deg0 Rotation = iota
	Deg90
	Deg180
	Deg270
)

// Add composes two rotations modulo a full turn.
func (r Rotation) Add(by Rotation) Rotation {
	return (r + by) % 4
}

// Degrees returns the rotation in degrees.
func (r Rotation) Degrees() int {
	return int(r%4) * 90
}

// shape is the constant per-kind geometry table entry.
type shape struct {
	blocks [4]core.Point // offsets at Deg0
	w, h   int           // extent used by the quarter-turn transform
	spawn  core.Point    // position at spawn time
	// fix is the extra translation applied per rotation so a rotated shape
	// stays centred on the same cells instead of drifting.
	fix [4]core.Point
}

var shapes = [...]shape{
	KindO: {
		blocks: [4]core.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		w:      2,
		h:      2,
		spawn:  core.Pt(3, 3),
		fix:    [4]core.Point{{0, 0}, {0, -1}, {-1, -1}, {-1, 0}},
	},
	KindT: {
		blocks: [4]core.Point{{0, 0}, {0, 1}, {1, 1}, {0, 2}},
		w:      2,
		h:      3,
		spawn:  core.Pt(3, 2),
		fix:    [4]core.Point{{0, 0}, {-1, -1}, {-2, -1}, {-2, 1}},
	},
	KindS: {
		blocks: [4]core.Point{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
		w:      2,
		h:      3,
		spawn:  core.Pt(3, 2),
		fix:    [4]core.Point{{0, 0}, {0, 0}, {-1, -1}, {-1, 1}},
	},
	KindZ: {
		blocks: [4]core.Point{{1, 0}, {0, 1}, {1, 1}, {0, 2}},
		w:      2,
		h:      3,
		spawn:  core.Pt(3, 2),
		fix:    [4]core.Point{{0, 0}, {-1, 0}, {-1, -1}, {-2, 1}},
	},
	KindJ: {
		blocks: [4]core.Point{{1, 0}, {1, 1}, {0, 2}, {1, 2}},
		w:      2,
		h:      3,
		spawn:  core.Pt(3, 2),
		fix:    [4]core.Point{{0, 0}, {-1, 0}, {-1, 0}, {-1, 1}},
	},
	KindL: {
		blocks: [4]core.Point{{0, 0}, {0, 1}, {0, 2}, {1, 2}},
		w:      2,
		h:      3,
		spawn:  core.Pt(3, 2),
		fix:    [4]core.Point{{0, 0}, {-1, 0}, {-1, 0}, {-1, 1}},
	},
	KindI: {
		blocks: [4]core.Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
		w:      4,
		h:      1,
		spawn:  core.Pt(2, 3),
		fix:    [4]core.Point{{0, 0}, {2, -2}, {-1, -1}, {0, -1}},
	},
}

// Piece is a tetromino value. Its four cells are derived from Kind, Rot and
// Pos alone. Pos.X may leave [0, Width) because the board wraps horizontally.
type Piece struct {
	Kind Kind
	Pos  core.Point
	Rot  Rotation
}

// NewPiece returns a piece of kind k at its spawn position, unrotated.
func NewPiece(k Kind) Piece {
	return Piece{Kind: k, Pos: shapes[k].spawn}
}

// Spawn draws a uniformly random kind.
func Spawn(rng *rand.Rand) Piece {
	return NewPiece(Kinds[rng.Intn(len(Kinds))])
}

// Rotate returns the piece turned clockwise by the given quarter turns.
func (p Piece) Rotate(by Rotation) Piece {
	p.Rot = p.Rot.Add(by)
	return p
}

// MoveBy returns the piece translated by (dx, dy).
func (p Piece) MoveBy(dx, dy int) Piece {
	p.Pos = p.Pos.Add(core.Pt(dx, dy))
	return p
}

// blocks computes the four absolute cells. Columns are not wrapped.
func (p Piece) blocks() [4]core.Point {
	s := &shapes[p.Kind]
	fix := s.fix[p.Rot]
	var out [4]core.Point
	for i, o := range s.blocks {
		var r core.Point
		switch p.Rot {
		case Deg0:
			r = o
		case Deg90:
			r = core.Pt(o.Y, s.w-o.X)
		case Deg180:
			r = core.Pt(s.w-o.X, s.h-o.Y)
		case Deg270:
			r = core.Pt(s.h-o.Y, o.X)
		default:
			panic(fmt.Sprintf("game: invalid rotation %d", p.Rot))
		}
		out[i] = p.Pos.Add(r).Add(fix)
	}
	return out
}

// Cells yields the four occupied cells. Columns are unwrapped; callers that
// touch the grid go through Playfield, which applies the wrap.
func (p Piece) Cells() iter.Seq[core.Point] {
	return func(yield func(core.Point) bool) {
		for _, c := range p.blocks() {
			if !yield(c) {
				return
			}
		}
	}
}

// BoundingBox returns the component-wise minimum and maximum over the cells.
func (p Piece) BoundingBox() (lo, hi core.Point) {
	b := p.blocks()
	lo, hi = b[0], b[0]
	for _, c := range b[1:] {
		lo = core.Pt(core.Min(lo.X, c.X), core.Min(lo.Y, c.Y))
		hi = core.Pt(core.Max(hi.X, c.X), core.Max(hi.Y, c.Y))
	}
	return lo, hi
}

func (p Piece) String() string {
	return fmt.Sprintf("%s@(%d,%d)/%d", p.Kind, p.Pos.X, p.Pos.Y, p.Rot.Degrees())
}
