package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/ledtris/internal/core"
	"github.com/vovakirdan/ledtris/internal/engine"
	"github.com/vovakirdan/ledtris/internal/input"
)

// Frames provides the last flushed display rows.
type Frames interface {
	Frame() ([]uint8, uint64)
}

// Scores provides the top scores, best first.
type Scores interface {
	Top() []int
}

const sidebarScores = 5

// Model is the Bubble Tea model for the local simulator. Keys fire the
// same event sources the GPIO lines would, so input goes through the real
// debounce and queue before the tick loop sees it.
type Model struct {
	loop     *engine.Loop
	frames   Frames
	buttons  map[core.ButtonAction]*input.ManualSource
	scores   Scores
	interval time.Duration
	keys     KeyMap
	help     help.Model
	snap     engine.Snapshot
	err      error
	quitting bool
}

// NewModel creates a simulator model. buttons maps each action to the
// source bound for it in the input pipeline.
func NewModel(loop *engine.Loop, frames Frames, buttons map[core.ButtonAction]*input.ManualSource, scores Scores, interval time.Duration) Model {
	return Model{
		loop:     loop,
		frames:   frames,
		buttons:  buttons,
		scores:   scores,
		interval: interval,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		snap:     loop.Snapshot(),
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.interval)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if action, ok := m.keys.Action(msg); ok {
		if src, bound := m.buttons[action]; bound {
			src.Fire()
		}
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if err := m.loop.Tick(); err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.snap = m.loop.Snapshot()
	return m, tickCmd(m.interval)
}

// Err returns the error that stopped the simulator, if any.
func (m Model) Err() error {
	return m.err
}

// View renders the matrix beside a status panel.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	rows, _ := m.frames.Frame()
	board := boardStyle.Render(RenderMatrix(rows))
	side := statusPanel(m.snap) + "\n\n" + bestList(m.scores.Top())

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, board, "  ", side))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// statusPanel shows the title, mode, score and cleared lines.
func statusPanel(snap engine.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("LEDTRIS"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("mode "), modeLabel(snap.Mode))
	fmt.Fprintf(&b, "%s %d\n", labelStyle.Render("score"), snap.Score)
	fmt.Fprintf(&b, "%s %d", labelStyle.Render("lines"), snap.Lines)
	return b.String()
}

// bestList shows the first few highscores.
func bestList(top []int) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("best"))
	b.WriteString("\n")
	if len(top) == 0 {
		b.WriteString(labelStyle.Render("  none yet"))
	}
	for i, s := range top {
		if i == sidebarScores {
			break
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  %d. %d", i+1, s)
	}
	return b.String()
}

func modeLabel(m engine.Mode) string {
	switch m {
	case engine.ModePlaying:
		return "playing"
	case engine.ModeGameOver:
		return "game over"
	default:
		return "press any button"
	}
}
