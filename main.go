// Command snakes starts the Snakes and Ladders game.
//
// It supports three modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "tui" – plays a local two-player game in the terminal
//
// Settings come from the environment (and an optional .env file); flags
// override them.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/snakes-and-ladders/api"
	"github.com/wricardo/snakes-and-ladders/game/audio"
	"github.com/wricardo/snakes-and-ladders/game/config"
	"github.com/wricardo/snakes-and-ladders/game/engine"
	"github.com/wricardo/snakes-and-ladders/game/pacing"
	"github.com/wricardo/snakes-and-ladders/game/service"
	"github.com/wricardo/snakes-and-ladders/game/session"
	"github.com/wricardo/snakes-and-ladders/transport/mcp"
	"github.com/wricardo/snakes-and-ladders/transport/websocket"
	"github.com/wricardo/snakes-and-ladders/tui"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Snakes and Ladders"
)

// serverConfig holds every setting of the command. Fields are read from the
// environment first and then overridden by any flag given explicitly.
type serverConfig struct {
	Port      int    `env:"PORT" envDefault:"8080"`
	Host      string `env:"HOST" envDefault:"localhost"`
	ConfigDir string `env:"CONFIG_DIR" envDefault:"configs"`
	Board     string `env:"BOARD"`
	StaticDir string `env:"STATIC_DIR" envDefault:"static"`
	SoundsDir string `env:"SOUNDS_DIR" envDefault:"sounds"`
	Pacing    string `env:"PACING" envDefault:"normal"`

	Store         string        `env:"STORE" envDefault:"file"`
	SessionsDir   string        `env:"SESSIONS_DIR" envDefault:"sessions"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB"`

	Debug     bool   `env:"DEBUG"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
	LogFile   string `env:"LOG_FILE" envDefault:"snakes.log"`

	NgrokEnabled   bool   `env:"NGROK_ENABLED"`
	NgrokAuthToken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`
}

func (c *serverConfig) addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// parseConfig reads the environment, then args. It returns the settings,
// the selected mode, and whether only the version was asked for.
func parseConfig(args []string, usage io.Writer) (*serverConfig, string, bool, error) {
	var cfg serverConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, "", false, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("snakes", flag.ContinueOnError)
	fs.SetOutput(usage)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "HTTP server host")
	fs.StringVar(&cfg.ConfigDir, "config-dir", cfg.ConfigDir, "Directory containing board configurations")
	fs.StringVar(&cfg.Board, "board", cfg.Board, "Board config used by default (first one found when empty)")
	fs.StringVar(&cfg.StaticDir, "static-dir", cfg.StaticDir, "Directory of the browser client (empty disables it)")
	fs.StringVar(&cfg.SoundsDir, "sounds-dir", cfg.SoundsDir, "Directory holding roll.mp3, move.mp3, ladder.mp3, snake.mp3 and win.mp3 (audio is off when any is missing)")
	fs.StringVar(&cfg.Pacing, "pacing", cfg.Pacing, "Move animation speed: normal, fast or off")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "Session store: file or redis")
	fs.StringVar(&cfg.SessionsDir, "sessions-dir", cfg.SessionsDir, "Directory of the file session store")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Drop sessions idle for longer than this")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address of the redis session store")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
	fs.BoolVar(&cfg.NgrokEnabled, "ngrok", cfg.NgrokEnabled, "Enable ngrok tunnel")
	fs.StringVar(&cfg.NgrokAuthToken, "ngrok-auth", cfg.NgrokAuthToken, "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	fs.StringVar(&cfg.NgrokDomain, "ngrok-domain", cfg.NgrokDomain, "Custom ngrok domain (optional)")
	version := fs.Bool("version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(usage, "Usage: snakes [OPTIONS] [MODE]\n\n")
		fmt.Fprintf(usage, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(usage, "Available modes:\n")
		fmt.Fprintf(usage, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(usage, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(usage, "  mcp-stdio, mcp   Aliases for stdio-mcp\n")
		fmt.Fprintf(usage, "  tui              Play in the terminal, two players on one keyboard\n")
		fmt.Fprintf(usage, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, "", false, err
	}

	mode := "server"
	if fs.NArg() > 0 {
		mode = fs.Arg(0)
	}
	if _, err := pacing.Parse(cfg.Pacing); err != nil {
		return nil, "", false, err
	}
	if cfg.Store != "file" && cfg.Store != "redis" {
		return nil, "", false, fmt.Errorf("unknown session store %q (want file or redis)", cfg.Store)
	}
	return &cfg, mode, *version, nil
}

// setupLogging configures the global zerolog logger.
func setupLogging(cfg *serverConfig, out io.Writer) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if cfg.LogFormat == "json" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
}

// main parses settings, initializes services, and starts the selected mode.
func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	cfg, mode, version, err := parseConfig(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if version {
		fmt.Printf("%s v%s\n", AppName, Version)
		return
	}

	if mode == "tui" {
		if err := runTUI(cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	// stdout belongs to the MCP protocol in stdio mode
	setupLogging(cfg, os.Stderr)
	log.Info().Str("mode", mode).Str("version", Version).Msgf("Starting %s", AppName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	app, err := initializeServices(ctx, cfg, hub)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer app.shutdown()

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCPWithInternalServer(ctx, cfg, app, hub)

	case "server", "http":
		runHTTPServer(ctx, cfg, app, hub)

	default:
		log.Fatal().Msgf("Unknown mode: %s. Use 'server' (default), 'stdio-mcp' or 'tui'", mode)
	}
}

// services bundles what the server modes share.
type services struct {
	game     service.GameService
	sessions *session.Manager
	configs  *config.Manager
}

// shutdown writes every in-memory session to the store.
func (s *services) shutdown() {
	if err := s.sessions.SaveAllSessions(); err != nil {
		log.Error().Err(err).Msg("Failed to save sessions")
		return
	}
	log.Info().Int("sessions", s.sessions.Count()).Msg("Sessions saved")
}

// initializeServices wires config and session managers, the session store,
// and the game service. It also starts the background routines that prune
// stale sessions.
func initializeServices(ctx context.Context, cfg *serverConfig, hub *websocket.Hub) (*services, error) {
	configManager, err := config.NewManager(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if cfg.Board != "" {
		if err := configManager.SetDefault(cfg.Board); err != nil {
			return nil, fmt.Errorf("default board: %w", err)
		}
	}

	persistence, err := newPersistence(cfg, configManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Warn().Err(err).Msg("Failed to load persisted sessions")
	}

	d, err := pacing.Parse(cfg.Pacing)
	if err != nil {
		return nil, err
	}

	opts := []service.Option{
		service.WithContext(ctx),
		service.WithPacing(d),
		service.WithSounds(os.DirFS(cfg.SoundsDir), soundFiles()),
	}
	if hub != nil {
		opts = append(opts, service.WithBroadcaster(hub))
	}
	gameService := service.NewGameService(sessionManager, configManager, opts...)

	go sessionCleanupRoutine(ctx, sessionManager, cfg.SessionTTL)
	if fp, ok := persistence.(*session.FilePersistence); ok {
		go filesystemSyncRoutine(ctx, sessionManager, fp)
	}

	return &services{game: gameService, sessions: sessionManager, configs: configManager}, nil
}

// newPersistence opens the session store selected by cfg.Store.
func newPersistence(cfg *serverConfig, configs *config.Manager) (session.SessionPersistence, error) {
	if cfg.Store == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		log.Info().Str("addr", cfg.RedisAddr).Msg("Using redis session store")
		return session.NewRedisPersistence(client, configs, session.RedisOptions{TTL: cfg.SessionTTL})
	}

	log.Info().Str("dir", cfg.SessionsDir).Msg("Using file session store")
	return session.NewFilePersistence(cfg.SessionsDir, configs)
}

// soundFiles names the sound files relative to the sounds directory, so
// the same names work for the file check and the /sounds/ URLs.
func soundFiles() map[string]string {
	return lo.MapValues(audio.DefaultSounds, func(source, _ string) string {
		return path.Base(source)
	})
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the provided retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, ttl time.Duration) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.Info().Int("removed", removed).Msg("Cleaned up expired sessions")
			}
		}
	}
}

// filesystemSyncRoutine periodically drops in-memory sessions whose files
// were deleted from the sessions directory.
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := pruneOrphans(manager, persistence); pruned > 0 {
				log.Info().Int("pruned", pruned).Msg("Filesystem sync: pruned orphaned sessions from memory")
			}
		}
	}
}

func pruneOrphans(manager *session.Manager, persistence session.SessionPersistence) int {
	pruned := 0
	for _, s := range manager.List() {
		if persistence.Exists(s.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(s.ID); err == nil {
			pruned++
			log.Debug().Str("session", s.ID).Msg("Pruned session from memory (file deleted)")
		}
	}
	return pruned
}

// newHandler mounts the API server at root and the MCP endpoint at /mcp.
func newHandler(cfg *serverConfig, app *services, hub *websocket.Hub, mcpClient *mcp.Client) http.Handler {
	apiServer := api.NewServer(app.game, hub,
		api.WithStaticDir(cfg.StaticDir),
		api.WithSoundsDir(cfg.SoundsDir),
	)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
	return mainRouter
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled, it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, cfg *serverConfig, app *services, hub *websocket.Hub) {
	addr := cfg.addr()
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	handler := newHandler(cfg, app, hub, mcpClient)

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// A waited roll is held open for the whole move
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().Str("addr", addr).Msg("HTTP server listening")
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	if cfg.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cfg, handler)
		}()
	}

	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("Server stopped")
}

// runNgrok serves handler through an ngrok tunnel until ctx is done.
func runNgrok(ctx context.Context, cfg *serverConfig, handler http.Handler) {
	authToken := cfg.NgrokAuthToken
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTH_TOKEN")
	}
	if authToken == "" {
		log.Warn().Msg("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Info().Msg("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
		log.Info().Str("domain", cfg.NgrokDomain).Msg("Using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Error().Err(err).Msg("Failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	log.Info().Msgf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Info().Msgf("  REST API (ngrok): %s/api", ngrokURL)
	log.Info().Msgf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Info().Msgf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)
	log.Info().Msgf("  Game UI (ngrok): %s/", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("Ngrok server error")
	}
	log.Info().Msg("Ngrok tunnel closed")
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at the configured address; if unavailable, it
// starts an internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, cfg *serverConfig, app *services, hub *websocket.Hub) {
	externalURL := fmt.Sprintf("http://%s", cfg.addr())
	log.Info().Str("url", externalURL).Msg("Checking for external API server")

	baseURL := externalURL
	if !apiAvailable(ctx, externalURL) {
		log.Info().Msg("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get available port")
		}
		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())

		httpServer := &http.Server{
			Handler: api.NewServer(app.game, hub, api.WithStaticDir(""), api.WithSoundsDir(cfg.SoundsDir)),
		}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("Internal HTTP server error")
			}
		}()
		defer httpServer.Close()
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Error().Err(err).Msg("MCP stdio server error")
	}
}

// apiAvailable reports whether a game API answers at baseURL.
func apiAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runTUI plays a local game in the terminal. Logs go to cfg.LogFile since
// the screen belongs to the board.
func runTUI(cfg *serverConfig) error {
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	cfg.LogFormat = "json"
	setupLogging(cfg, logFile)

	eng, sounds, err := newLocalGame(cfg, os.Stdout)
	if err != nil {
		return err
	}

	d, err := pacing.Parse(cfg.Pacing)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.New(eng, tui.WithPacing(d), tui.WithAudio(sounds)), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// newLocalGame builds an engine on the default board with the terminal
// bell as its sound device.
func newLocalGame(cfg *serverConfig, bell io.Writer, opts ...engine.Option) (*engine.GameEngine, *audio.Manager, error) {
	configs, err := config.NewManager(cfg.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if cfg.Board != "" {
		if err := configs.SetDefault(cfg.Board); err != nil {
			return nil, nil, fmt.Errorf("default board: %w", err)
		}
	}

	// The bell needs no files, so sources are not checked
	sounds := audio.NewManager(nil, audio.NewBellSink(bell, "ladder", "snake", "win"))
	if err := sounds.LoadDefaults(); err != nil {
		log.Warn().Err(err).Msg("Sound disabled")
	}

	eng, err := engine.NewEngine(configs.GetDefault(), append(opts, engine.WithAudio(sounds))...)
	if err != nil {
		return nil, nil, err
	}
	return eng, sounds, nil
}
