// Package config provides board configuration management for Snakes and Ladders.
//
// The config package handles:
//   - Loading board configurations from JSON files
//   - Configuration validation
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Boards are stored as JSON files in the configs directory. Each file
// defines a name and description, a ladders map and a snakes map (both keyed
// by trigger square, valued by destination square), and optional narrative
// templates for ladder, snake and win messages. Templates take the player
// number through a single %d.
//
//	{
//	  "name": "classic",
//	  "ladders": {"2": 38, "7": 14},
//	  "snakes": {"16": 6, "47": 26},
//	  "messages": {"ladder": "Player %d climbed a ladder!"}
//	}
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	board, err := manager.LoadConfig("classic")
//	defaultBoard := manager.GetDefault()
//	boards, err := manager.ListConfigs()
//
// When the directory holds no classic.json the first valid file becomes the
// default, and with no valid files at all the built-in classic board is used.
package config
