package core

import (
	"testing"
	"time"
)

func TestMod(t *testing.T) {
	tests := []struct {
		x, n, expected int
	}{
		{0, 8, 0},
		{7, 8, 7},
		{8, 8, 0},
		{9, 8, 1},
		{-1, 8, 7},
		{-8, 8, 0},
		{-9, 8, 7},
		{-17, 8, 7},
	}

	for _, tc := range tests {
		result := Mod(tc.x, tc.n)
		if result != tc.expected {
			t.Errorf("Mod(%d, %d) = %d, expected %d", tc.x, tc.n, result, tc.expected)
		}
	}
}

func TestPointAdd(t *testing.T) {
	p := Pt(3, 2).Add(Pt(-1, 4))
	if p != Pt(2, 6) {
		t.Errorf("Add() = %+v, expected {2 6}", p)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestMinMax(t *testing.T) {
	if Min(5, 10) != 5 {
		t.Error("Min(5, 10) should be 5")
	}
	if Min(10, 5) != 5 {
		t.Error("Min(10, 5) should be 5")
	}
	if Max(5, 10) != 10 {
		t.Error("Max(5, 10) should be 10")
	}
	if Max(10, 5) != 10 {
		t.Error("Max(10, 5) should be 10")
	}
}

func TestActionString(t *testing.T) {
	for _, a := range AllActions {
		if a.String() == "Unknown" {
			t.Errorf("action %d has no name", a)
		}
	}
	if ButtonAction(42).String() != "Unknown" {
		t.Error("out-of-range action should be Unknown")
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in       string
		expected ButtonAction
		ok       bool
	}{
		{"move_left", ActionMoveLeft, true},
		{"right", ActionMoveRight, true},
		{"drop", ActionDrop, true},
		{"move_down", ActionDrop, true},
		{"rotate", ActionRotate, true},
		{"jump", 0, false},
	}

	for _, tc := range tests {
		a, ok := ParseAction(tc.in)
		if ok != tc.ok || (ok && a != tc.expected) {
			t.Errorf("ParseAction(%q) = (%v, %v), expected (%v, %v)", tc.in, a, ok, tc.expected, tc.ok)
		}
	}
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(100 * time.Millisecond)
	if c.Now() != 100*time.Millisecond {
		t.Fatalf("Now() = %v, expected 100ms", c.Now())
	}
	if got := c.Advance(50 * time.Millisecond); got != 150*time.Millisecond {
		t.Errorf("Advance() = %v, expected 150ms", got)
	}
	c.Set(time.Second)
	if c.Now() != time.Second {
		t.Errorf("Now() after Set = %v, expected 1s", c.Now())
	}
}

func TestTickInterval(t *testing.T) {
	cfg := RuntimeConfig{TickRate: 50}
	if cfg.TickInterval() != 20*time.Millisecond {
		t.Errorf("TickInterval() = %v, expected 20ms", cfg.TickInterval())
	}
	if (RuntimeConfig{}).TickInterval() <= 0 {
		t.Error("zero tick rate should fall back to a positive interval")
	}
}
