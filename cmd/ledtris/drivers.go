package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ledtris/internal/registry"
)

var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "List display backends",
	Long:  `Shows the display backends that can be named in display.driver.`,
	Args:  cobra.NoArgs,
	Run:   runDrivers,
}

func runDrivers(_ *cobra.Command, _ []string) {
	drivers := registry.List()

	if len(drivers) == 0 {
		fmt.Println("No display drivers available.")
		return
	}

	fmt.Println("Display drivers:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, d := range drivers {
		if len(d.Name) > maxNameLen {
			maxNameLen = len(d.Name)
		}
	}

	fmt.Printf("  %-*s  %-8s  %s\n", maxNameLen, "Name", "Hardware", "Title")
	fmt.Printf("  %-*s  %-8s  %s\n", maxNameLen, "----", "--------", "-----")

	for _, d := range drivers {
		hw := "no"
		if d.Hardware {
			hw = "yes"
		}
		fmt.Printf("  %-*s  %-8s  %s\n", maxNameLen, d.Name, hw, d.Title)
	}
}
