package game

import (
	"maps"
	"math/rand"
	"slices"
	"testing"

	"github.com/vovakirdan/ledtris/internal/core"
)

func cellSet(p Piece) map[core.Point]bool {
	set := make(map[core.Point]bool, 4)
	for c := range p.Cells() {
		set[c] = true
	}
	return set
}

func TestCellsAreFourDistinct(t *testing.T) {
	for _, k := range Kinds {
		for r := Deg0; r <= Deg270; r++ {
			p := NewPiece(k).Rotate(r)
			if n := len(cellSet(p)); n != 4 {
				t.Errorf("%v: expected 4 distinct cells, got %d", p, n)
			}
		}
	}
}

func TestRotateFullTurnIsIdentity(t *testing.T) {
	for _, k := range Kinds {
		for r := Deg0; r <= Deg270; r++ {
			p := NewPiece(k).MoveBy(-5, 7).Rotate(r)
			q := p
			for range 4 {
				q = q.Rotate(Deg90)
			}
			if !maps.Equal(cellSet(p), cellSet(q)) {
				t.Errorf("%v: four quarter turns changed the cells", p)
			}
			if !maps.Equal(cellSet(p.Rotate(r).Rotate(4-r)), cellSet(p)) {
				t.Errorf("%v: rotating by %d and back changed the cells", p, r.Degrees())
			}
		}
	}
}

func TestSpawnPositions(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected core.Point
	}{
		{KindO, core.Pt(3, 3)},
		{KindT, core.Pt(3, 2)},
		{KindS, core.Pt(3, 2)},
		{KindZ, core.Pt(3, 2)},
		{KindJ, core.Pt(3, 2)},
		{KindL, core.Pt(3, 2)},
		{KindI, core.Pt(2, 3)},
	}

	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			p := NewPiece(tc.kind)
			if p.Pos != tc.expected || p.Rot != Deg0 {
				t.Errorf("NewPiece(%v) = %v, expected position %v rotation 0", tc.kind, p, tc.expected)
			}
		})
	}
}

func TestRotatedCells(t *testing.T) {
	tests := []struct {
		name     string
		piece    Piece
		expected []core.Point
	}{
		{
			name:     "I spawn",
			piece:    NewPiece(KindI),
			expected: []core.Point{{2, 3}, {3, 3}, {4, 3}, {5, 3}},
		},
		{
			name:     "I vertical",
			piece:    NewPiece(KindI).Rotate(Deg90),
			expected: []core.Point{{4, 2}, {4, 3}, {4, 4}, {4, 5}},
		},
		{
			name:     "O quarter turn stays in place",
			piece:    NewPiece(KindO).Rotate(Deg90),
			expected: []core.Point{{3, 3}, {4, 3}, {3, 4}, {4, 4}},
		},
		{
			name:     "T half turn",
			piece:    NewPiece(KindT).Rotate(Deg180),
			expected: []core.Point{{3, 4}, {3, 3}, {2, 3}, {3, 2}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := slices.Collect(tc.piece.Cells())
			if len(got) != len(tc.expected) {
				t.Fatalf("Cells() returned %d cells, expected %d", len(got), len(tc.expected))
			}
			for _, c := range tc.expected {
				if !slices.Contains(got, c) {
					t.Errorf("Cells() = %v, missing %v", got, c)
				}
			}
		})
	}
}

func TestCellsStopsEarly(t *testing.T) {
	n := 0
	for range NewPiece(KindL).Cells() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("expected iteration to stop after 2 cells, got %d", n)
	}
}

func TestBoundingBoxIsComponentWise(t *testing.T) {
	// Z cells: (4,2) (3,3) (4,3) (3,4). The smallest x and the smallest y
	// come from different cells.
	lo, hi := NewPiece(KindZ).BoundingBox()
	if lo != core.Pt(3, 2) {
		t.Errorf("min = %v, expected (3,2)", lo)
	}
	if hi != core.Pt(4, 4) {
		t.Errorf("max = %v, expected (4,4)", hi)
	}
}

func TestMoveByDoesNotMutate(t *testing.T) {
	p := NewPiece(KindS)
	q := p.MoveBy(-4, 1)
	if p.Pos != core.Pt(3, 2) {
		t.Errorf("original piece moved to %v", p.Pos)
	}
	if q.Pos != core.Pt(-1, 3) {
		t.Errorf("MoveBy() = %v, expected (-1,3)", q.Pos)
	}
}

func TestSpawnDrawsEveryKind(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := make(map[Kind]int)
	for range 7000 {
		p := Spawn(rng)
		if p.Pos != shapes[p.Kind].spawn || p.Rot != Deg0 {
			t.Fatalf("Spawn() = %v, not at its spawn offset", p)
		}
		seen[p.Kind]++
	}
	for _, k := range Kinds {
		if seen[k] < 800 {
			t.Errorf("kind %v drawn %d times out of 7000", k, seen[k])
		}
	}
}
