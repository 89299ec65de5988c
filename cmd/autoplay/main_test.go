package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/snakes-and-ladders/api"
	"github.com/wricardo/snakes-and-ladders/game/config"
	"github.com/wricardo/snakes-and-ladders/game/engine"
	"github.com/wricardo/snakes-and-ladders/game/pacing"
	"github.com/wricardo/snakes-and-ladders/game/service"
	"github.com/wricardo/snakes-and-ladders/game/session"
)

// newTestServer runs the REST API in-process with every roll a six.
func newTestServer(t *testing.T) (*httptest.Server, *session.Manager) {
	t.Helper()

	configs, err := config.NewManager("../../configs")
	require.NoError(t, err)

	sessions := session.NewManager(engine.WithRoller(engine.NewFixedRoller(6)))
	svc := service.NewGameService(sessions, configs, service.WithPacing(pacing.Off()))

	srv := httptest.NewServer(api.NewServer(svc, nil, api.WithStaticDir("")))
	t.Cleanup(srv.Close)
	return srv, sessions
}

func TestPlayGame(t *testing.T) {
	srv, sessions := newTestServer(t)
	client := NewClient(srv.URL)

	summary, err := PlayGame(context.Background(), client, "classic", 100)
	require.NoError(t, err)

	// Sixes on the classic board: player 1 climbs 36→44 and 71→91, slides
	// 56→53, and reaches 103 on the 13th roll.
	assert.Equal(t, engine.PlayerOne, summary.Winner)
	assert.Equal(t, 25, summary.Turns)
	assert.Equal(t, 103, summary.Positions[0])
	assert.GreaterOrEqual(t, summary.Ladders, 2)
	assert.GreaterOrEqual(t, summary.Snakes, 1)
	assert.Equal(t, 1, sessions.Count())
}

func TestPlayGame_TurnLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	summary, err := PlayGame(context.Background(), NewClient(srv.URL), "classic", 4)
	require.ErrorIs(t, err, errTurnLimit)
	assert.Equal(t, 4, summary.Turns)
}

func TestPlayGame_UnknownConfig(t *testing.T) {
	srv, _ := newTestServer(t)

	_, err := PlayGame(context.Background(), NewClient(srv.URL), "no-such-board", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestAutoplayCommand(t *testing.T) {
	srv, sessions := newTestServer(t)

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out

	err := app.Run(context.Background(), []string{"autoplay", "--url", srv.URL, "--config", "classic", "--games", "2"})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Game 1 (")
	assert.Contains(t, out.String(), "Game 2 (")
	assert.Contains(t, out.String(), "Player 1 won 2, player 2 won 0, 25.0 turns per game")
	assert.Equal(t, 0, sessions.Count(), "finished sessions are deleted")
}
