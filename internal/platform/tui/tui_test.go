package tui

import (
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"periph.io/x/conn/v3/gpio"

	"github.com/vovakirdan/ledtris/internal/core"
	"github.com/vovakirdan/ledtris/internal/display"
	"github.com/vovakirdan/ledtris/internal/engine"
	"github.com/vovakirdan/ledtris/internal/game"
	"github.com/vovakirdan/ledtris/internal/input"
)

func TestKeyMapAction(t *testing.T) {
	km := DefaultKeyMap()
	tests := []struct {
		msg    tea.KeyMsg
		action core.ButtonAction
		ok     bool
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionMoveLeft, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}, core.ActionMoveLeft, true},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionMoveRight, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")}, core.ActionMoveRight, true},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionDrop, true},
		{tea.KeyMsg{Type: tea.KeySpace}, core.ActionDrop, true},
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionRotate, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")}, core.ActionRotate, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, 0, false},
	}

	for _, tt := range tests {
		action, ok := km.Action(tt.msg)
		if ok != tt.ok || (ok && action != tt.action) {
			t.Errorf("Action(%q) = %v, %v; want %v, %v", tt.msg.String(), action, ok, tt.action, tt.ok)
		}
	}
}

func TestRenderMatrix(t *testing.T) {
	rows := make([]uint8, 16)
	rows[0] = 0x81
	rows[15] = 0xFF

	out := RenderMatrix(rows)
	lines := strings.Split(out, "\n")
	if len(lines) != 17 {
		t.Fatalf("expected 16 rows plus one seam, got %d lines", len(lines))
	}
	if n := strings.Count(lines[0], "●"); n != 2 {
		t.Errorf("row 0 lit cells = %d, want 2", n)
	}
	if n := strings.Count(lines[0], "·"); n != 6 {
		t.Errorf("row 0 dark cells = %d, want 6", n)
	}
	if !strings.Contains(lines[8], "─") {
		t.Errorf("expected a seam after the first module, got %q", lines[8])
	}
	if n := strings.Count(lines[16], "●"); n != 8 {
		t.Errorf("last row lit cells = %d, want 8", n)
	}
}

type staticScores []int

func (s staticScores) Top() []int { return s }

func newSimulator(t *testing.T) (Model, *core.ManualClock) {
	t.Helper()
	clock := core.NewManualClock(0)
	logger := log.New(io.Discard)

	pipeline := input.NewPipeline(clock, 100*time.Millisecond, logger)
	buttons := make(map[core.ButtonAction]*input.ManualSource)
	for _, a := range core.AllActions {
		src := input.NewManualSource(a.String())
		if err := pipeline.Bind(a, src, gpio.FallingEdge); err != nil {
			t.Fatalf("Bind: %v", err)
		}
		buttons[a] = src
	}
	if err := pipeline.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}

	frames := display.NewText(game.Height)
	machine := game.NewMachine(game.DefaultRules(), rand.New(rand.NewSource(1)), nil, clock.Now())
	loop := engine.New(engine.Options{
		Clock:   clock,
		Source:  pipeline,
		Machine: machine,
		Display: frames,
		Logger:  logger,
	})
	return NewModel(loop, frames, buttons, staticScores{90, 40}, time.Second/30), clock
}

func TestSimulatorKeyStartsGame(t *testing.T) {
	m, clock := newSimulator(t)

	next, _ := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if m.snap.Mode != engine.ModeMenu {
		t.Fatalf("Mode = %q, want menu", m.snap.Mode)
	}

	clock.Advance(time.Second)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(Model)
	next, cmd := m.Update(TickMsg(time.Now()))
	m = next.(Model)

	if m.snap.Mode != engine.ModePlaying {
		t.Errorf("Mode = %q, want playing", m.snap.Mode)
	}
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.Err() != nil {
		t.Errorf("Err() = %v", m.Err())
	}

	view := m.View()
	for _, want := range []string{"LEDTRIS", "playing", "1. 90", "2. 40"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSimulatorQuit(t *testing.T) {
	m, _ := newSimulator(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestSpectatorRefreshesScores(t *testing.T) {
	frames := display.NewText(game.Height)
	scores := &mutableScores{}
	snap := func() engine.Snapshot { return engine.Snapshot{Mode: engine.ModeGameOver, Score: 30} }

	m := NewSpectatorModel(frames, snap, scores, time.Second, 40)
	if !strings.Contains(m.View(), "no highscores recorded yet") {
		t.Error("expected empty message")
	}

	scores.top = []int{30}
	next, _ := m.Update(TickMsg(time.Now()))
	m = next.(SpectatorModel)
	view := m.View()
	if !strings.Contains(view, "game over") || !strings.Contains(view, "#1") {
		t.Errorf("view after refresh:\n%s", view)
	}
}

type mutableScores struct{ top []int }

func (s *mutableScores) Top() []int { return s.top }
