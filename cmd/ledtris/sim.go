package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"periph.io/x/conn/v3/gpio"

	"github.com/vovakirdan/ledtris/internal/core"
	"github.com/vovakirdan/ledtris/internal/display"
	"github.com/vovakirdan/ledtris/internal/engine"
	"github.com/vovakirdan/ledtris/internal/game"
	"github.com/vovakirdan/ledtris/internal/input"
	"github.com/vovakirdan/ledtris/internal/platform/tui"
	"github.com/vovakirdan/ledtris/internal/registry"
	"github.com/vovakirdan/ledtris/internal/status"
)

var (
	flagLogFile string
	flagServe   bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Play in the terminal",
	Long: `Run the game against a simulated matrix drawn in the terminal.
Keys stand in for the four buttons and go through the same debounce
and queue as the GPIO lines.

Controls:
  Left/A     - Move left
  Right/D    - Move right
  Down/S/Space - Drop
  Up/W       - Rotate
  Q/Esc      - Quit

Logs go to a file so they do not tear the display.

Examples:
  ledtris sim
  ledtris sim --seed 42
  ledtris sim --serve          # also start the status page`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().StringVar(&flagLogFile, "log-file", "~/.ledtris/sim.log", "Where to write logs")
	simCmd.Flags().BoolVar(&flagServe, "serve", false, "Serve the status page while playing")
}

func runSim(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("sim needs an interactive terminal")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logPath, err := expandHome(flagLogFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger, err := newLogger(logFile, cfg.Log.Level, "ledtris-sim")
	if err != nil {
		return err
	}

	store, board, err := openBoard(cfg.Storage, logger.WithPrefix("scores"))
	if err != nil {
		return err
	}
	defer store.Close()

	d, err := registry.Create("text", registry.Deps{Height: game.Height})
	if err != nil {
		return err
	}
	frames := d.(*display.Text)

	clock := core.NewSystemClock()
	pipeline := input.NewPipeline(clock, cfg.Input.Debounce(), logger.WithPrefix("input"))
	buttons := make(map[core.ButtonAction]*input.ManualSource, len(core.AllActions))
	for _, a := range core.AllActions {
		src := input.NewManualSource("key:" + a.String())
		if err := pipeline.Bind(a, src, gpio.NoEdge); err != nil {
			return err
		}
		buttons[a] = src
	}
	if err := pipeline.Enable(); err != nil {
		return err
	}
	defer pipeline.Disable()

	statusSrv := status.New(board, frames, logger.WithPrefix("status"))
	interval := cfg.Game.Runtime().TickInterval()
	loop := engine.New(engine.Options{
		Clock:        clock,
		Source:       pipeline,
		Machine:      newMachine(cfg.Game, clock, board, logger),
		Display:      frames,
		TickInterval: interval,
		Retries:      cfg.Display.Retries,
		Logger:       logger.WithPrefix("engine"),
		OnFrame:      statusSrv.Publish,
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	if flagServe && cfg.Status.HTTPAddr != "" {
		g.Go(func() error {
			return statusSrv.ListenAndServe(ctx, cfg.Status.HTTPAddr)
		})
	}

	model := tui.NewModel(loop, frames, buttons, board, interval)
	final, runErr := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("status page stopped", "err", err)
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("simulator: %w", runErr)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
