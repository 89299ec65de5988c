// Command autoplay plays games to completion against a running server
// through the REST API, alternating rolls for both players, and reports
// who won and how long it took.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/snakes-and-ladders/game/engine"
	"github.com/wricardo/snakes-and-ladders/game/service"
)

var errTurnLimit = errors.New("turn limit reached")

// Client calls the game REST API.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			// A waited roll takes a few seconds at normal pacing
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, bytes.TrimSpace(data))
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse %s response: %w", path, err)
		}
	}
	return nil
}

func (c *Client) CreateSession(ctx context.Context, configID string) (*service.SessionInfo, error) {
	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.do(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Roll(ctx context.Context, sessionID string, player engine.Player) (*service.RollResult, error) {
	var result service.RollResult
	body := map[string]any{"player": int(player), "wait": true}
	if err := c.do(ctx, "POST", fmt.Sprintf("/api/sessions/%s/roll", sessionID), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/api/sessions/%s", sessionID), nil, nil)
}

// GameSummary describes one finished game.
type GameSummary struct {
	SessionID string        `json:"session_id"`
	Winner    engine.Player `json:"winner"`
	Turns     int           `json:"turns"`
	Ladders   int           `json:"ladders"`
	Snakes    int           `json:"snakes"`
	Positions [2]int        `json:"positions"`
}

// PlayGame creates a session and rolls for whoever's turn it is until
// someone wins or maxTurns accepted rolls have been made.
func PlayGame(ctx context.Context, c *Client, configID string, maxTurns int) (*GameSummary, error) {
	session, err := c.CreateSession(ctx, configID)
	if err != nil {
		return nil, err
	}

	summary := &GameSummary{SessionID: session.ID}
	state := session.GameState
	if state == nil {
		return nil, fmt.Errorf("session %s has no game state", session.ID)
	}

	for !state.GameOver {
		if summary.Turns >= maxTurns {
			return summary, fmt.Errorf("%w: %d turns in session %s", errTurnLimit, maxTurns, session.ID)
		}

		result, err := c.Roll(ctx, session.ID, state.CurrentPlayer)
		if err != nil {
			return summary, err
		}
		state = result.GameState

		if !result.Accepted {
			// Someone else is playing this session; wait for their move
			if result.Reason != engine.RejectMoveInFlight && result.Reason != engine.RejectNotYourTurn {
				return summary, fmt.Errorf("roll refused: %s", result.Reason)
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}

		summary.Turns++
		summary.Ladders += lo.CountBy(result.Events, func(e service.GameEvent) bool { return e.Type == engine.EventLadder })
		summary.Snakes += lo.CountBy(result.Events, func(e service.GameEvent) bool { return e.Type == engine.EventSnake })

		log.Debug().
			Str("session", session.ID).
			Int("player", result.Player).
			Int("dice", result.DiceValue).
			Ints("positions", state.Positions[:]).
			Msg("turn")
	}

	summary.Winner = state.Winner
	summary.Positions = state.Positions
	return summary, nil
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("autoplay failed")
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "play snakes and ladders games over the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "http://localhost:8080",
				Usage:   "game server URL",
				Sources: cli.EnvVars("SNAKES_URL"),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "board config for new sessions (server default when empty)",
			},
			&cli.IntFlag{
				Name:  "games",
				Value: 1,
				Usage: "number of games to play",
			},
			&cli.IntFlag{
				Name:  "max-turns",
				Value: 1000,
				Usage: "give up on a game after this many rolls",
			},
			&cli.BoolFlag{
				Name:  "keep",
				Usage: "keep finished sessions on the server",
			},
			&cli.BoolFlag{
				Name:  "v",
				Usage: "log every turn",
			},
		},
		Action: runAutoplay,
	}
}

func runAutoplay(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("v") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	client := NewClient(cmd.String("url"))
	out := cmd.Root().Writer

	var summaries []*GameSummary
	for i := 1; i <= cmd.Int("games"); i++ {
		summary, err := PlayGame(ctx, client, cmd.String("config"), cmd.Int("max-turns"))
		if err != nil {
			return fmt.Errorf("game %d: %w", i, err)
		}
		summaries = append(summaries, summary)

		fmt.Fprintf(out, "Game %d (%s): player %d won in %d turns, %d ladders, %d snakes\n",
			i, summary.SessionID, summary.Winner, summary.Turns, summary.Ladders, summary.Snakes)

		if !cmd.Bool("keep") {
			if err := client.DeleteSession(ctx, summary.SessionID); err != nil {
				log.Warn().Err(err).Str("session", summary.SessionID).Msg("failed to delete session")
			}
		}
	}

	wins := lo.CountValuesBy(summaries, func(s *GameSummary) engine.Player { return s.Winner })
	turns := lo.SumBy(summaries, func(s *GameSummary) int { return s.Turns })
	fmt.Fprintf(out, "Player 1 won %d, player 2 won %d, %.1f turns per game\n",
		wins[engine.PlayerOne], wins[engine.PlayerTwo], float64(turns)/float64(max(len(summaries), 1)))
	return nil
}
