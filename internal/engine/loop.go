// Package engine runs the fixed-rate tick loop that ties the input queue,
// the game state machine and a display together.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ledtris/internal/core"
	"github.com/vovakirdan/ledtris/internal/display"
	"github.com/vovakirdan/ledtris/internal/game"
)

// Source yields the button actions queued since the previous call.
type Source interface {
	Drain() []core.ButtonAction
}

// Mode names the live game state variant.
type Mode string

const (
	ModeMenu     Mode = "menu"
	ModePlaying  Mode = "playing"
	ModeGameOver Mode = "game_over"
)

// Snapshot summarizes the loop after a tick. It is safe to read from any
// goroutine.
type Snapshot struct {
	Tick  uint64        `json:"tick"`
	At    time.Duration `json:"-"`
	Mode  Mode          `json:"mode"`
	Score int           `json:"score"`
	Lines int           `json:"lines"`
}

// Options configures a Loop. Clock, Source, Machine and Display are required.
type Options struct {
	Clock        core.Clock
	Source       Source
	Machine      *game.Machine
	Display      display.Display
	TickInterval time.Duration
	Retries      int // Flush attempts per tick, at least 1
	Logger       *log.Logger
	OnFrame      func(Snapshot) // called after every successful flush
}

// Loop owns the machine and the display. Tick must not be called
// concurrently with itself or Run.
type Loop struct {
	clock    core.Clock
	source   Source
	machine  *game.Machine
	display  display.Display
	interval time.Duration
	retries  int
	logger   *log.Logger
	onFrame  func(Snapshot)

	ticks    uint64
	snapshot atomic.Pointer[Snapshot]
}

// New returns a loop. Zero TickInterval uses the default tick rate and
// Retries below 1 become 1.
func New(o Options) *Loop {
	if o.TickInterval <= 0 {
		o.TickInterval = core.DefaultConfig().TickInterval()
	}
	if o.Retries < 1 {
		o.Retries = 1
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	l := &Loop{
		clock:    o.Clock,
		source:   o.Source,
		machine:  o.Machine,
		display:  o.Display,
		interval: o.TickInterval,
		retries:  o.Retries,
		logger:   o.Logger,
		onFrame:  o.OnFrame,
	}
	l.snapshot.Store(&Snapshot{Mode: modeOf(o.Machine.State())})
	return l
}

// Tick runs one iteration: read the clock once, drain input, step the
// machine, redraw and flush. A flush error is returned after Retries
// failed attempts.
func (l *Loop) Tick() error {
	now := l.clock.Now()
	actions := l.source.Drain()

	res := l.machine.Step(actions, now)
	l.ticks++
	l.report(res)

	game.Render(res.State, l.display)
	if err := l.flush(); err != nil {
		return err
	}

	snap := newSnapshot(l.ticks, now, res.State)
	l.snapshot.Store(&snap)
	if l.onFrame != nil {
		l.onFrame(snap)
	}
	return nil
}

func (l *Loop) flush() error {
	var err error
	for attempt := 1; attempt <= l.retries; attempt++ {
		if err = l.display.Flush(); err == nil {
			return nil
		}
		if errors.Is(err, display.ErrClosed) {
			break
		}
		l.logger.Warn("display flush failed", "attempt", attempt, "of", l.retries, "err", err)
	}
	return fmt.Errorf("engine: flush: %w", err)
}

func (l *Loop) report(res game.StepResult) {
	if res.Cleared > 0 {
		l.logger.Debug("rows cleared", "rows", res.Cleared)
	}
	if !res.Changed {
		return
	}
	switch s := res.State.(type) {
	case *game.InGame:
		l.logger.Info("game started", "piece", s.Current.Kind)
	case game.GameOver:
		l.logger.Info("game over", "score", s.Score)
	case game.StartMenu:
		l.logger.Debug("back to menu")
	}
}

// Run ticks at the configured interval until ctx is done or a tick fails.
// It returns nil on cancellation.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Info("tick loop started", "interval", l.interval)
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("tick loop stopped", "ticks", l.ticks)
			return nil
		case <-ticker.C:
			if err := l.Tick(); err != nil {
				return err
			}
		}
	}
}

// Snapshot returns the state after the most recent successful tick.
func (l *Loop) Snapshot() Snapshot {
	return *l.snapshot.Load()
}

func newSnapshot(tick uint64, at time.Duration, s game.State) Snapshot {
	snap := Snapshot{Tick: tick, At: at, Mode: modeOf(s)}
	switch s := s.(type) {
	case *game.InGame:
		snap.Score = s.Score
		snap.Lines = s.Lines
	case game.GameOver:
		snap.Score = s.Score
	}
	return snap
}

func modeOf(s game.State) Mode {
	switch s.(type) {
	case *game.InGame:
		return ModePlaying
	case game.GameOver:
		return ModeGameOver
	default:
		return ModeMenu
	}
}
