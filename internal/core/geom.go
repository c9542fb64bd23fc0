// Package core provides fundamental types and utilities shared by the game,
// input and display layers. It has no hardware or terminal dependencies so
// game logic stays pure and testable.
package core

// Point is a signed cell coordinate. X grows to the right, Y grows downward.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns the component-wise sum of two points.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Mod returns the Euclidean remainder of x by n, always in [0, n).
// Used for horizontal wrap, where x may be negative.
func Mod(x, n int) int {
	r := x % n
	if r < 0 {
		r += n
	}
	return r
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
