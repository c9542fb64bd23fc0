package game

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/ledtris/internal/core"
)

// Phase is a sub-step of the animated start menu.
type Phase uint8

const (
	PhaseText Phase = iota
	PhaseButtonPrompt
	PhaseButtonPressed
	PhaseButtonReleased
)

// Next returns the phase shown after p.
func (p Phase) Next() Phase {
	return (p + 1) % 4
}

func (p Phase) String() string {
	switch p {
	case PhaseText:
		return "Text"
	case PhaseButtonPrompt:
		return "ButtonPrompt"
	case PhaseButtonPressed:
		return "ButtonPressed"
	case PhaseButtonReleased:
		return "ButtonReleased"
	default:
		return "Unknown"
	}
}

// State is one of StartMenu, *InGame or GameOver.
type State interface {
	isState()
}

// StartMenu waits for any button. ChangedAt is when Phase was entered.
type StartMenu struct {
	Phase     Phase
	ChangedAt time.Duration
}

// InGame is a running game. It owns its playfield and pieces.
type InGame struct {
	Field    Playfield
	Score    int
	Lines    int
	Current  Piece
	Next     *Piece
	LastDrop time.Duration
}

// GameOver holds the final score until the next button press.
type GameOver struct {
	Score int
}

func (StartMenu) isState() {}
func (*InGame) isState()   {}
func (GameOver) isState()  {}

// ScoreSink receives the final score of each finished game.
type ScoreSink interface {
	Record(score int)
}

// ScoreSinkFunc adapts a function to ScoreSink.
type ScoreSinkFunc func(score int)

func (f ScoreSinkFunc) Record(score int) { f(score) }

// Rules holds the tunable constants of the game.
type Rules struct {
	DropInterval  time.Duration // auto-drop cadence
	PointsPerRow  int
	NextRevealRow int // a next piece is drawn once the current top row passes this
	TextHold      time.Duration
	ButtonHold    time.Duration
	AnimateMenu   bool
}

// DefaultRules returns the stock timing and scoring.
func DefaultRules() Rules {
	return Rules{
		DropInterval:  500 * time.Millisecond,
		PointsPerRow:  10,
		NextRevealRow: 8,
		TextHold:      3 * time.Second,
		ButtonHold:    500 * time.Millisecond,
		AnimateMenu:   true,
	}
}

func (r Rules) hold(p Phase) time.Duration {
	if p == PhaseText {
		return r.TextHold
	}
	return r.ButtonHold
}

// StepResult reports what happened during one Step.
type StepResult struct {
	State    State
	Locked   int  // pieces locked this tick
	Cleared  int  // rows removed this tick
	Finished bool // the game ended this tick
	Changed  bool // the state variant changed this tick
}

// eventKind is a piece event derived from a button or the auto-drop timer.
type eventKind uint8

const (
	evMove eventKind = iota
	evRotate
	evDrop
)

type pieceEvent struct {
	kind   eventKind
	dx, dy int
}

func eventFor(a core.ButtonAction) pieceEvent {
	switch a {
	case core.ActionMoveLeft:
		return pieceEvent{kind: evMove, dx: -1}
	case core.ActionMoveRight:
		return pieceEvent{kind: evMove, dx: 1}
	case core.ActionDrop:
		return pieceEvent{kind: evDrop}
	case core.ActionRotate:
		return pieceEvent{kind: evRotate}
	default:
		panic("game: unknown button action " + a.String())
	}
}

// Machine advances the game one tick at a time. It is not safe for
// concurrent use; the tick loop owns it.
type Machine struct {
	rules Rules
	rng   *rand.Rand
	sink  ScoreSink
	state State
}

// NewMachine returns a machine in the start menu. sink may be nil.
func NewMachine(rules Rules, rng *rand.Rand, sink ScoreSink, now time.Duration) *Machine {
	return &Machine{
		rules: rules,
		rng:   rng,
		sink:  sink,
		state: StartMenu{Phase: PhaseText, ChangedAt: now},
	}
}

// State returns the live state.
func (m *Machine) State() State {
	return m.state
}

// Step consumes the actions drained since the previous tick. now is read
// once by the caller and used for every timing decision in this tick.
func (m *Machine) Step(actions []core.ButtonAction, now time.Duration) StepResult {
	var res StepResult
	switch s := m.state.(type) {
	case StartMenu:
		if len(actions) > 0 {
			m.state = m.newGame(now)
			res.Changed = true
			break
		}
		if m.rules.AnimateMenu && now-s.ChangedAt >= m.rules.hold(s.Phase) {
			m.state = StartMenu{Phase: s.Phase.Next(), ChangedAt: now}
		}
	case *InGame:
		res = m.stepGame(s, actions, now)
	case GameOver:
		if len(actions) > 0 {
			m.state = StartMenu{Phase: PhaseText, ChangedAt: now}
			res.Changed = true
		}
	}
	res.State = m.state
	return res
}

func (m *Machine) newGame(now time.Duration) *InGame {
	return &InGame{
		Current:  Spawn(m.rng),
		LastDrop: now,
	}
}

func (m *Machine) stepGame(g *InGame, actions []core.ButtonAction, now time.Duration) StepResult {
	var res StepResult

	events := make([]pieceEvent, 0, len(actions)+1)
	for _, a := range actions {
		events = append(events, eventFor(a))
	}
	if now-g.LastDrop >= m.rules.DropInterval {
		g.LastDrop = now
		events = append(events, pieceEvent{kind: evMove, dy: 1})
	}

	for _, ev := range events {
		candidate := g.Current
		switch ev.kind {
		case evMove:
			candidate = candidate.MoveBy(ev.dx, ev.dy)
		case evRotate:
			candidate = candidate.Rotate(Deg90)
		case evDrop:
			for !g.Field.Intersects(candidate) {
				candidate = candidate.MoveBy(0, 1)
			}
			candidate = candidate.MoveBy(0, -1)
		}

		if !g.Field.Intersects(candidate) {
			g.Current = candidate
		} else {
			g.Field.Place(g.Current)
			res.Locked++
			rows := g.Field.ClearFullRows()
			res.Cleared += rows
			g.Lines += rows
			g.Score += rows * m.rules.PointsPerRow

			if g.Field.Overflowed() {
				if m.sink != nil {
					m.sink.Record(g.Score)
				}
				m.state = GameOver{Score: g.Score}
				res.Finished = true
				res.Changed = true
				return res
			}

			if g.Next != nil {
				g.Current = *g.Next
				g.Next = nil
			} else {
				g.Current = Spawn(m.rng)
			}
		}

		if g.Next == nil {
			if lo, _ := g.Current.BoundingBox(); lo.Y > m.rules.NextRevealRow {
				next := Spawn(m.rng)
				g.Next = &next
			}
		}
	}
	return res
}
