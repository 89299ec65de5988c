package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/snakes-and-ladders/game/engine"
	"github.com/wricardo/snakes-and-ladders/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			// Waited rolls take a few seconds at normal pacing
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Snakes and Ladders",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Snakes and Ladders - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Two players take turns rolling a die. The first to reach square 100 wins.

AVAILABLE TOOLS:
- create_session: Create a new game on a board config
- list_sessions: List all active sessions
- get_session: Get session details
- game_state: Get current positions, turn and message
- roll_dice: Roll for player 1 or 2 (only on that player's turn)
- reset_game: Start the session over
- board_view: Draw the board with both tokens
- set_sound: Turn sound on or off for a session
- list_configs: List available boards
- game_instructions: Get the full rules`),
	)

	// Register all tools
	c.registerTools()
}

func sessionIDSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional board config",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Board config to use (optional, defaults to classic)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "roll_dice",
		Description: "Roll the die for a player. Refused when it is not that player's turn, a move is still animating, or the game is over.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"player": map[string]interface{}{
					"type":        "integer",
					"enum":        []int{1, 2},
					"description": "Player rolling (1 or 2)",
				},
				"wait": map[string]interface{}{
					"type":        "boolean",
					"description": "Wait for the move to finish before returning (default true)",
				},
			},
			Required: []string{"session_id", "player"},
		},
	}, c.handleRoll)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to initial state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_view",
		Description: "Draw the 10x10 board with ladders (L), snakes (S) and both tokens",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleBoardView)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_sound",
		Description: "Turn sound effects on or off for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"enabled": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether sounds play",
				},
			},
			Required: []string{"session_id", "enabled"},
		},
	}, c.handleSetSound)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	err := c.apiCall(ctx, "POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Config: %s, Created: %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.GameState
	err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleRoll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	// JSON numbers arrive as float64
	player, ok := args["player"].(float64)
	if !ok {
		return mcp.NewToolResultError("player must be 1 or 2"), nil
	}
	wait := true
	if w, ok := args["wait"].(bool); ok {
		wait = w
	}

	body := map[string]interface{}{
		"player": int(player),
		"wait":   wait,
	}

	var result service.RollResult
	err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/roll", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRollResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleBoardView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var view service.BoardView
	err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/board", sessionID), nil, &view)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoard(&view)), nil
}

func (c *Client) handleSetSound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	enabled, ok := args["enabled"].(bool)
	if !ok {
		return mcp.NewToolResultError("enabled must be true or false"), nil
	}

	var status service.SoundStatus
	err := c.apiCall(ctx, "PUT", fmt.Sprintf("/api/sessions/%s/sound", sessionID), map[string]bool{"enabled": enabled}, &status)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Sound off"
	if status.Enabled {
		result = "Sound on"
	}
	for _, f := range status.Failures {
		result += fmt.Sprintf("\n  %s (%s): %s", f.Name, f.Source, f.Error)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s\n  %s\n  Ladders: %d, Snakes: %d\n\n",
			config.ConfigID, config.Description, config.Ladders, config.Snakes)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🎲 Snakes and Ladders - Complete Instructions

GAME OBJECTIVE:
Be the first of two players to reach square 100.

TURNS:
• Player 1 starts. Players alternate after every completed move.
• Roll only for the player whose turn it is. Other rolls are refused, not errors.
• While a token is still walking no one can roll.

MOVEMENT:
• Tokens start off the board on square 0.
• A roll of 1-6 walks the token one square at a time.
• Landing exactly on the foot of a ladder climbs it. Landing on a snake's head slides down.
• Squares passed over on the way do not trigger anything.
• At most one ladder or snake is taken per move.

WINNING:
• Reaching 100 or beyond wins. No exact roll is needed.
• After a win every roll is refused until the game is reset.

BOARD:
• Square 1 is bottom-left, square 100 top-left.
• Rows zig-zag: odd rows run left to right, even rows right to left.
• Use board_view to see where ladders (L) and snakes (S) start.

TOOLS:
• roll_dice with wait=true returns once the move has settled, with the final state.
• game_state shows whose turn it is and the last message.

Good luck, and mind the snakes!`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Player 1: %d | Player 2: %d | Turn: Player %d | Last roll: %d\n",
		state.Positions[0], state.Positions[1], state.CurrentPlayer, state.DiceValue))

	if state.IsMoving {
		result.WriteString("Move in progress\n")
	}

	if state.GameOver {
		result.WriteString(fmt.Sprintf("\n🏆 GAME OVER - Player %d wins", state.Winner))
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

func formatRollResult(result *service.RollResult) string {
	if !result.Accepted {
		response := fmt.Sprintf("✗ Roll refused for player %d: %s\n", result.Player, refusalText(result.Reason))
		return response + "\n" + formatGameState(result.GameState)
	}

	response := fmt.Sprintf("✓ Player %d rolled %d\n", result.Player, result.DiceValue)
	if !result.Resolved {
		response += "Move is animating, check game_state for the outcome\n"
	}
	for _, ev := range result.Events {
		switch ev.Type {
		case engine.EventLadder, engine.EventSnake, engine.EventWin:
			response += fmt.Sprintf("  %s at %d\n", ev.Type, ev.Square)
		}
	}

	return response + "\n" + formatGameState(result.GameState)
}

func refusalText(reason engine.RollRejection) string {
	switch reason {
	case engine.RejectNotYourTurn:
		return "not your turn"
	case engine.RejectMoveInFlight:
		return "a move is still in progress"
	case engine.RejectGameOver:
		return "the game is over, reset to play again"
	case engine.RejectInvalidSeat:
		return "player must be 1 or 2"
	}
	return string(reason)
}

// formatBoard draws the board top row first, marking trigger squares and
// tokens. A cell shows the token ("1", "2" or "B" for both) before the
// ladder or snake marker.
func formatBoard(view *service.BoardView) string {
	var result strings.Builder

	snap := view.Snapshot
	for _, row := range view.Rows {
		for i, square := range row {
			if i > 0 {
				result.WriteString(" ")
			}
			result.WriteString(cellLabel(square, snap))
		}
		result.WriteString("\n")
	}

	offBoard := []string{}
	for _, t := range view.Tokens {
		if !t.OnBoard {
			offBoard = append(offBoard, fmt.Sprintf("player %d on %d", t.Player, t.Square))
		}
	}
	if len(offBoard) > 0 {
		result.WriteString("Off board: " + strings.Join(offBoard, ", ") + "\n")
	}

	result.WriteString("Legend: L=ladder foot, S=snake head, 1/2=player, B=both players\n")
	return result.String()
}

func cellLabel(square int, snap engine.Snapshot) string {
	p1 := snap.Player1Position == square
	p2 := snap.Player2Position == square

	switch {
	case p1 && p2:
		return fmt.Sprintf("%3dB", square)
	case p1:
		return fmt.Sprintf("%3d1", square)
	case p2:
		return fmt.Sprintf("%3d2", square)
	}
	if _, ok := snap.Ladders[square]; ok {
		return fmt.Sprintf("%3dL", square)
	}
	if _, ok := snap.Snakes[square]; ok {
		return fmt.Sprintf("%3dS", square)
	}
	return fmt.Sprintf("%3d ", square)
}
