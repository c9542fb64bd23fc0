package engine

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ledtris/internal/core"
	"github.com/vovakirdan/ledtris/internal/display"
	"github.com/vovakirdan/ledtris/internal/game"
)

type scriptedSource struct {
	next []core.ButtonAction
}

func (s *scriptedSource) Drain() []core.ButtonAction {
	out := s.next
	s.next = nil
	return out
}

func (s *scriptedSource) press(a ...core.ButtonAction) {
	s.next = append(s.next, a...)
}

// flakyDisplay fails the first fail flushes, then delegates to a Text.
type flakyDisplay struct {
	*display.Text
	fail    int
	err     error
	flushes int
}

func (f *flakyDisplay) Flush() error {
	f.flushes++
	if f.fail > 0 {
		f.fail--
		return f.err
	}
	return f.Text.Flush()
}

type harness struct {
	clock  *core.ManualClock
	source *scriptedSource
	disp   *flakyDisplay
	scores []int
	frames []Snapshot
	loop   *Loop
}

func newHarness(t *testing.T, retries int) *harness {
	t.Helper()
	h := &harness{
		clock:  core.NewManualClock(0),
		source: &scriptedSource{},
		disp:   &flakyDisplay{Text: display.NewText(game.Height), err: errors.New("spi: bus error")},
	}
	rules := game.DefaultRules()
	rules.AnimateMenu = false
	sink := game.ScoreSinkFunc(func(score int) { h.scores = append(h.scores, score) })
	machine := game.NewMachine(rules, rand.New(rand.NewSource(7)), sink, h.clock.Now())
	h.loop = New(Options{
		Clock:   h.clock,
		Source:  h.source,
		Machine: machine,
		Display: h.disp,
		Retries: retries,
		Logger:  log.New(io.Discard),
		OnFrame: func(s Snapshot) { h.frames = append(h.frames, s) },
	})
	return h
}

func TestTickRendersMenu(t *testing.T) {
	h := newHarness(t, 3)

	if err := h.loop.Tick(); err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	if len(h.frames) != 1 || h.frames[0].Mode != ModeMenu || h.frames[0].Tick != 1 {
		t.Fatalf("frames = %+v", h.frames)
	}
	rows, n := h.disp.Frame()
	if n != 1 {
		t.Errorf("flush count = %d, want 1", n)
	}
	lit := 0
	for _, r := range rows {
		if r != 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("menu should light some rows")
	}
}

func TestTickStartsGame(t *testing.T) {
	h := newHarness(t, 3)

	h.source.press(core.ActionRotate)
	if err := h.loop.Tick(); err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	snap := h.loop.Snapshot()
	if snap.Mode != ModePlaying {
		t.Errorf("Mode = %q, want %q", snap.Mode, ModePlaying)
	}
	if snap.Score != 0 || snap.Lines != 0 {
		t.Errorf("new game snapshot = %+v", snap)
	}
}

func TestFlushRetries(t *testing.T) {
	tests := []struct {
		name    string
		retries int
		fail    int
		wantErr bool
		calls   int
	}{
		{"succeeds first time", 3, 0, false, 1},
		{"recovers within budget", 3, 2, false, 3},
		{"exhausts budget", 3, 3, true, 3},
		{"single attempt", 1, 1, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.retries)
			h.disp.fail = tt.fail

			err := h.loop.Tick()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Tick() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, h.disp.err) {
				t.Errorf("error should wrap the flush error, got %v", err)
			}
			if h.disp.flushes != tt.calls {
				t.Errorf("flush attempts = %d, want %d", h.disp.flushes, tt.calls)
			}
			if tt.wantErr && len(h.frames) != 0 {
				t.Error("OnFrame should not run after a failed flush")
			}
		})
	}
}

func TestFlushClosedNotRetried(t *testing.T) {
	h := newHarness(t, 5)
	h.disp.fail = 5
	h.disp.err = display.ErrClosed

	err := h.loop.Tick()
	if !errors.Is(err, display.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if h.disp.flushes != 1 {
		t.Errorf("flush attempts = %d, want 1", h.disp.flushes)
	}
}

func TestGameRunsToGameOver(t *testing.T) {
	h := newHarness(t, 1)

	h.source.press(core.ActionDrop)
	if err := h.loop.Tick(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 500 && h.loop.Snapshot().Mode == ModePlaying; i++ {
		h.clock.Advance(500 * time.Millisecond)
		h.source.press(core.ActionDrop)
		if err := h.loop.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	snap := h.loop.Snapshot()
	if snap.Mode != ModeGameOver {
		t.Fatalf("game never ended, snapshot %+v", snap)
	}
	if len(h.scores) != 1 || h.scores[0] != snap.Score {
		t.Errorf("scores recorded = %v, want exactly [%d]", h.scores, snap.Score)
	}

	// idle ticks at game over do not record again
	for range 5 {
		h.clock.Advance(time.Second)
		if err := h.loop.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	if len(h.scores) != 1 {
		t.Errorf("score recorded %d times", len(h.scores))
	}

	h.source.press(core.ActionMoveLeft)
	if err := h.loop.Tick(); err != nil {
		t.Fatal(err)
	}
	if got := h.loop.Snapshot().Mode; got != ModeMenu {
		t.Errorf("button at game over should return to menu, got %q", got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newHarness(t, 1)
	h.loop.interval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := h.loop.Run(ctx); err != nil {
		t.Fatalf("Run() = %v, want nil on cancel", err)
	}
	if h.loop.Snapshot().Tick == 0 {
		t.Error("expected at least one tick")
	}
}

func TestRunReturnsFlushError(t *testing.T) {
	h := newHarness(t, 2)
	h.loop.interval = time.Millisecond
	h.disp.fail = 1 << 20

	err := h.loop.Run(context.Background())
	if !errors.Is(err, h.disp.err) {
		t.Fatalf("Run() = %v, want flush error", err)
	}
}
