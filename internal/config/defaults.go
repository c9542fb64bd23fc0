package config

import (
	_ "embed"
)

//go:embed defaults/ledtris.yaml
var defaultYAML []byte

// Default returns the built-in configuration for a 4-module vertical
// cascade on SPI0.0 with buttons on GPIO 5, 6, 13 and 19.
func Default() Config {
	return Config{
		Display: DisplayConfig{
			Driver:     "max7219",
			SPIPort:    "SPI0.0",
			SpeedHz:    1_000_000,
			Rotations:  []int{90, 90, 90, 90},
			Brightness: 1,
			Retries:    3,
		},
		Input: InputConfig{
			DebounceMS: 150,
			Edge:       "falling",
			Buttons: map[string]string{
				"move_left":  "GPIO5",
				"move_right": "GPIO6",
				"drop":       "GPIO13",
				"rotate":     "GPIO19",
			},
		},
		Game: GameConfig{
			TickHz:         30,
			DropIntervalMS: 500,
			PointsPerRow:   10,
			NextRevealRow:  8,
			AnimateMenu:    true,
		},
		Storage: StorageConfig{
			Path:      "~/.ledtris/ledtris.db",
			Namespace: "highscores",
			Key:       "scores_v2",
		},
		Status: StatusConfig{
			HTTPAddr: ":8080",
			SSHAddr:  "",
			HostKey:  ".ssh/ledtris_ed25519",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
