package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/ledtris/internal/platform/tui"
)

var flagScoresPlain bool

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show highscores",
	Long: `Display the top 10 highscores.

In a terminal the scores open in a scrollable table; when piped, or with
--plain, they are printed one per line.

Examples:
  ledtris scores
  ledtris scores --plain
  ledtris scores --db ./ledtris.db`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresPlain, "plain", false, "Print without the interactive table")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, board, err := openBoard(cfg.Storage, log.New(io.Discard))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	scores := board.Top()

	fd := int(os.Stdout.Fd())
	if !flagScoresPlain && term.IsTerminal(fd) {
		height := 24
		if _, h, err := term.GetSize(fd); err == nil {
			height = h
		}
		if _, err := tea.NewProgram(tui.NewScoreboardModel(scores, height)).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("High Scores")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No highscores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'ledtris run' or 'ledtris sim' to set the first one!")
		return
	}

	fmt.Printf("  %-4s  %s\n", "Rank", "Score")
	fmt.Printf("  %-4s  %s\n", "----", "-----")
	for i, s := range scores {
		fmt.Printf("  %-4d  %d\n", i+1, s)
	}
}
