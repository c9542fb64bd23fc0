package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/ledtris/internal/display"
)

var (
	litStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	darkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	seamStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// RenderMatrix draws bitmask rows as an LED matrix, with a faint seam
// between stacked modules. Runs of equal pixels share one style call.
func RenderMatrix(rows []uint8) string {
	var sb strings.Builder
	seam := seamStyle.Render(strings.Repeat("─", display.ModuleSize*2-1))

	for y, row := range rows {
		if y > 0 {
			sb.WriteRune('\n')
			if y%display.ModuleSize == 0 {
				sb.WriteString(seam)
				sb.WriteRune('\n')
			}
		}

		x := 0
		for x < display.ModuleSize {
			on := lit(row, x)
			var run strings.Builder
			for x < display.ModuleSize && lit(row, x) == on {
				if on {
					run.WriteString("●")
				} else {
					run.WriteString("·")
				}
				x++
				if x < display.ModuleSize {
					run.WriteRune(' ')
				}
			}
			style := darkStyle
			if on {
				style = litStyle
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

func lit(row uint8, x int) bool {
	return row&(0x80>>uint(x)) != 0
}
