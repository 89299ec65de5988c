package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func createValidConfig() *BoardConfig {
	return &BoardConfig{
		Name:        "Test Board",
		Description: "A small valid test board",
		Ladders:     map[int]int{3: 22, 40: 60},
		Snakes:      map[int]int{27: 5, 99: 80},
		Messages: Messages{
			Ladder: "P%d up",
			Snake:  "P%d down",
			Win:    "P%d done",
		},
	}
}

func TestValidateBoardConfig_ValidConfig(t *testing.T) {
	if err := ValidateBoardConfig(createValidConfig()); err != nil {
		t.Errorf("Expected valid config, got error: %v", err)
	}
	if err := ValidateBoardConfig(DefaultBoardConfig()); err != nil {
		t.Errorf("Expected default config to be valid, got error: %v", err)
	}
}

func TestValidateBoardConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *BoardConfig)
		wantMsg string
	}{
		{"missing name", func(c *BoardConfig) { c.Name = "" }, "name is required"},
		{"no transitions", func(c *BoardConfig) { c.Ladders = nil; c.Snakes = nil }, "at least one"},
		{"ladder down", func(c *BoardConfig) { c.Ladders[50] = 45 }, "must climb"},
		{"snake up", func(c *BoardConfig) { c.Snakes[45] = 50 }, "must descend"},
		{"clash", func(c *BoardConfig) { c.Snakes[3] = 1 }, "both"},
		{"ladder to finish", func(c *BoardConfig) { c.Ladders[90] = 100 }, "outside"},
		{"ladder template", func(c *BoardConfig) { c.Messages.Ladder = "climbed" }, "messages.ladder"},
		{"win template", func(c *BoardConfig) { c.Messages.Win = "%d and %d" }, "messages.win"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := createValidConfig()
			tt.mutate(config)

			err := ValidateBoardConfig(config)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected error containing %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestValidateBoardConfig_Nil(t *testing.T) {
	if err := ValidateBoardConfig(nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for nil config, got %v", err)
	}
}

func TestBoardConfig_EmptyMessagesUseDefaults(t *testing.T) {
	config := createValidConfig()
	config.Messages = Messages{}

	if err := ValidateBoardConfig(config); err != nil {
		t.Fatalf("Expected empty templates to be allowed, got %v", err)
	}
	if got := config.withDefaults(); got != DefaultMessages() {
		t.Errorf("Expected default messages, got %+v", got)
	}
}

func TestLoadBoardConfig(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "test_board.json")

	configContent := `{
		"name": "Test Board",
		"description": "Test description",
		"ladders": {"4": 14, "9": 31},
		"snakes": {"17": 7, "54": 34},
		"messages": {
			"ladder": "Player %d climbs!",
			"snake": "Player %d slides!",
			"win": "Player %d is the champion!"
		}
	}`

	if err := os.WriteFile(tempFile, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	config, err := LoadBoardConfig(tempFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Name != "Test Board" {
		t.Errorf("Expected config name 'Test Board', got '%s'", config.Name)
	}
	if config.Ladders[9] != 31 {
		t.Errorf("Expected ladder 9 -> 31, got %d", config.Ladders[9])
	}
	if config.Snakes[54] != 34 {
		t.Errorf("Expected snake 54 -> 34, got %d", config.Snakes[54])
	}

	if _, err := LoadBoardConfig("nonexistent.json"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestLoadBoardConfig_Invalid(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte(`{"name": `), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBoardConfig(broken); err == nil {
		t.Error("Expected parse error")
	}

	invalid := filepath.Join(dir, "invalid.json")
	if err := os.WriteFile(invalid, []byte(`{"name": "x", "ladders": {"10": 5}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBoardConfig(invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
