package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/vovakirdan/ledtris/internal/core"
	"github.com/vovakirdan/ledtris/internal/display"
	"github.com/vovakirdan/ledtris/internal/engine"
	"github.com/vovakirdan/ledtris/internal/game"
	"github.com/vovakirdan/ledtris/internal/input"
	"github.com/vovakirdan/ledtris/internal/platform/tui"
	"github.com/vovakirdan/ledtris/internal/registry"
	"github.com/vovakirdan/ledtris/internal/status"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play on the LED matrix",
	Long: `Initialize the SPI bus and GPIO lines, then run the game until
interrupted. Any peripheral that cannot be acquired aborts startup.

The status page (status.http_addr) lists highscores and streams frames
over /ws. When status.ssh_addr is set, spectators can watch with:
  ssh <host> -p <port>`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, cfg.Log.Level, "ledtris")
	if err != nil {
		return err
	}

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("init host drivers: %w", err)
	}

	store, board, err := openBoard(cfg.Storage, logger.WithPrefix("scores"))
	if err != nil {
		return err
	}
	defer store.Close()

	// Display: the configured backend plus an in-memory copy for spectators.
	rotations, err := cfg.Display.ParsedRotations()
	if err != nil {
		return err
	}
	info, ok := registry.Lookup(cfg.Display.Driver)
	if !ok {
		return fmt.Errorf("unknown display driver %q", cfg.Display.Driver)
	}
	deps := registry.Deps{
		Speed:     physic.Frequency(cfg.Display.SpeedHz) * physic.Hertz,
		Rotations: rotations,
		Intensity: cfg.Display.Brightness,
		Height:    game.Height,
	}
	if info.Hardware {
		port, err := spireg.Open(cfg.Display.SPIPort)
		if err != nil {
			return fmt.Errorf("open spi %s: %w", cfg.Display.SPIPort, err)
		}
		defer port.Close()
		deps.Port = port
	}
	hw, err := registry.Create(info.Name, deps)
	if err != nil {
		return err
	}
	if c, ok := hw.(io.Closer); ok {
		defer c.Close()
	}
	mirror := display.NewText(game.Height)
	logger.Info("display ready", "driver", info.Name, "modules", len(rotations), "brightness", cfg.Display.Brightness)

	// Buttons
	clock := core.NewSystemClock()
	edge, err := input.ParseEdge(cfg.Input.Edge)
	if err != nil {
		return err
	}
	bindings, err := cfg.Input.Bindings()
	if err != nil {
		return err
	}
	pipeline := input.NewPipeline(clock, cfg.Input.Debounce(), logger.WithPrefix("input"))
	for _, b := range bindings {
		pin := gpioreg.ByName(b.Pin)
		if pin == nil {
			return fmt.Errorf("gpio %s for %s not found", b.Pin, b.Action)
		}
		if err := pipeline.Bind(b.Action, input.NewPinSource(pin, 0), edge); err != nil {
			return err
		}
	}
	if err := pipeline.Enable(); err != nil {
		return err
	}
	defer func() {
		if err := pipeline.Disable(); err != nil {
			logger.Warn("disable buttons", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	statusSrv := status.New(board, mirror, logger.WithPrefix("status"))
	loop := engine.New(engine.Options{
		Clock:        clock,
		Source:       pipeline,
		Machine:      newMachine(cfg.Game, clock, board, logger),
		Display:      display.Tee{hw, mirror},
		TickInterval: cfg.Game.Runtime().TickInterval(),
		Retries:      cfg.Display.Retries,
		Logger:       logger.WithPrefix("engine"),
		OnFrame:      statusSrv.Publish,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(ctx)
	})
	if cfg.Status.HTTPAddr != "" {
		g.Go(func() error {
			return statusSrv.ListenAndServe(ctx, cfg.Status.HTTPAddr)
		})
	}
	if cfg.Status.SSHAddr != "" {
		sshCfg := tui.DefaultSSHServerConfig()
		sshCfg.Address = cfg.Status.SSHAddr
		sshCfg.HostKeyPath = cfg.Status.HostKey
		spectators, err := tui.NewSSHServer(sshCfg, mirror, loop.Snapshot, board, logger.WithPrefix("ssh"))
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		g.Go(func() error {
			return spectators.ListenAndServe(ctx)
		})
	}

	// The loop returns nil on shutdown; a surface that stops on its own
	// takes the rest down through the group context.
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("bye")
	return nil
}
