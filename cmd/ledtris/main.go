// ledtris runs a falling-block game on a vertical stack of 8x8 LED modules.
//
// Usage:
//
//	ledtris run              - Play on the hardware (MAX7219 cascade + GPIO buttons)
//	ledtris sim              - Play in the terminal on a simulated matrix
//	ledtris scores           - Show the highscores
//	ledtris drivers          - List display backends
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.ledtris, ./configs, built-in)
//	--db <path>         - Override the highscore database path
//	--log-level <level> - debug, info, warn or error
//	--seed <value>      - Set RNG seed for reproducible piece order
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagSeed     int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ledtris",
	Short: "Falling blocks on an LED matrix",
	Long: `ledtris plays a falling-block game on an 8-pixel-wide, 32-pixel-tall
stack of MAX7219 LED modules driven over SPI, with four push buttons on GPIO.

Available commands:
  run      - Play on the hardware
  sim      - Play in the terminal
  scores   - View highscores
  drivers  - List display backends

Examples:
  ledtris run
  ledtris run --config ./ledtris.yaml
  ledtris sim --seed 42
  ledtris scores`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to highscore database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = config value, or random)")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(driversCmd)
}
