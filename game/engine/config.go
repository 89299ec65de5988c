package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrInvalidConfig = errors.New("config validation")

// BoardConfig describes one board: its ladders, snakes and narratives.
type BoardConfig struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Ladders     map[int]int `json:"ladders"`
	Snakes      map[int]int `json:"snakes"`
	Messages    Messages    `json:"messages"`
}

// DefaultBoardConfig returns the classic board.
func DefaultBoardConfig() *BoardConfig {
	return &BoardConfig{
		Name:        "classic",
		Description: "The classic two-player board with ten ladders and nine snakes",
		Ladders: map[int]int{
			2: 38, 7: 14, 8: 31, 15: 26, 21: 42,
			28: 84, 36: 44, 51: 67, 71: 91, 78: 98,
		},
		Snakes: map[int]int{
			16: 6, 47: 26, 49: 11, 56: 53, 62: 19,
			64: 60, 87: 24, 93: 73, 95: 75,
		},
		Messages: DefaultMessages(),
	}
}

// ValidateBoardConfig checks a configuration for correctness and builds its
// transition table as part of the check.
func ValidateBoardConfig(config *BoardConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if len(config.Ladders)+len(config.Snakes) == 0 {
		return fmt.Errorf("%w: at least one ladder or snake is required", ErrInvalidConfig)
	}

	if _, err := NewTransitionTable(config.Ladders, config.Snakes); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	// Empty templates fall back to defaults, set ones must take the player number
	for field, tmpl := range map[string]string{
		"ladder": config.Messages.Ladder,
		"snake":  config.Messages.Snake,
		"win":    config.Messages.Win,
	} {
		if tmpl != "" && strings.Count(tmpl, "%d") != 1 {
			return fmt.Errorf("%w: messages.%s must contain exactly one %%d for the player number", ErrInvalidConfig, field)
		}
	}

	return nil
}

// withDefaults fills empty narrative templates.
func (c *BoardConfig) withDefaults() Messages {
	m := c.Messages
	def := DefaultMessages()
	if m.Ladder == "" {
		m.Ladder = def.Ladder
	}
	if m.Snake == "" {
		m.Snake = def.Snake
	}
	if m.Win == "" {
		m.Win = def.Win
	}
	return m
}

// LoadBoardConfig loads and validates a board configuration from a JSON file
func LoadBoardConfig(filename string) (*BoardConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config BoardConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateBoardConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", filename, err)
	}

	return &config, nil
}
