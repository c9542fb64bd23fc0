package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/ledtris/internal/core"
	"github.com/vovakirdan/ledtris/internal/engine"
)

// SSHServerConfig holds configuration for the spectator SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.ledtris/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// RefreshRate is how many times per second spectators redraw.
	RefreshRate int
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		RefreshRate: 15,
	}
}

// SSHServer lets remote users watch the matrix and the highscores.
// Sessions are read-only; no key reaches the game.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	frames   Frames
	snapshot func() engine.Snapshot
	scores   Scores
	logger   *log.Logger
}

// NewSSHServer creates a new spectator server.
func NewSSHServer(cfg SSHServerConfig, frames Frames, snapshot func() engine.Snapshot, scores Scores, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "ledtris-ssh",
		})
	}
	if cfg.RefreshRate <= 0 {
		cfg.RefreshRate = DefaultSSHServerConfig().RefreshRate
	}

	srv := &SSHServer{
		config:   cfg,
		frames:   frames,
		snapshot: snapshot,
		scores:   scores,
		logger:   logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".ledtris", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if err := os.MkdirAll(hostKeyDir, 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a spectator program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	interval := time.Second / time.Duration(s.config.RefreshRate)
	model := NewSpectatorModel(s.frames, s.snapshot, s.scores, interval, pty.Window.Height)
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("spectator joined",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("spectator left",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down SSH server")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SpectatorModel redraws the shared matrix on its own timer.
type SpectatorModel struct {
	frames   Frames
	snapshot func() engine.Snapshot
	scores   Scores
	interval time.Duration
	table    table.Model
	top      []int
	height   int
	quit     key.Binding
	quitting bool
}

// NewSpectatorModel creates a spectator view.
func NewSpectatorModel(frames Frames, snapshot func() engine.Snapshot, scores Scores, interval time.Duration, height int) SpectatorModel {
	top := scores.Top()
	return SpectatorModel{
		frames:   frames,
		snapshot: snapshot,
		scores:   scores,
		interval: interval,
		table:    newScoreTable(top, spectatorTableHeight(height), false),
		top:      top,
		height:   height,
		quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "leave"),
		),
	}
}

func spectatorTableHeight(termHeight int) int {
	return core.Clamp(termHeight-6, 3, 12)
}

// Init starts the refresh timer.
func (m SpectatorModel) Init() tea.Cmd {
	return tickCmd(m.interval)
}

// Update refreshes on ticks and quits on the leave key.
func (m SpectatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.quit) {
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.table = newScoreTable(m.top, spectatorTableHeight(m.height), false)
	case TickMsg:
		if top := m.scores.Top(); !slices.Equal(top, m.top) {
			m.top = top
			m.table.SetRows(scoreRows(top))
		}
		return m, tickCmd(m.interval)
	}
	return m, nil
}

// View renders the matrix, live status and the highscore table.
func (m SpectatorModel) View() string {
	if m.quitting {
		return ""
	}

	rows, _ := m.frames.Frame()
	board := boardStyle.Render(RenderMatrix(rows))

	var side strings.Builder
	side.WriteString(statusPanel(m.snapshot()))
	side.WriteString("\n\n")
	if len(m.top) == 0 {
		side.WriteString(labelStyle.Render("no highscores recorded yet"))
	} else {
		side.WriteString(m.table.View())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, board, "  ", side.String()) +
		"\n" + labelStyle.Render("watching · q to leave")
}
