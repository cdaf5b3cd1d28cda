// Command tictactoe3d starts the multiplayer 3D Tic Tac Toe server.
//
// It supports two modes:
//  1. "serve" (default) - runs the HTTP server exposing the health and
//     room endpoints, the WebSocket transport, the browser client, and
//     a POST /mcp endpoint
//  2. "mcp-stdio" - runs the MCP observer tools over stdio
//
// Configuration comes from the environment (and an optional .env file);
// the flags below override it. Ngrok tunneling can be enabled for easy
// external access during development.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/cubegames/tictactoe3d/api"
	"github.com/cubegames/tictactoe3d/config"
	"github.com/cubegames/tictactoe3d/game/service"
	"github.com/cubegames/tictactoe3d/game/session"
	"github.com/cubegames/tictactoe3d/transport/mcp"
	"github.com/cubegames/tictactoe3d/transport/websocket"
)

const (
	Version = "1.0.0"
	AppName = "3D Tic Tac Toe Server"
)

func main() {
	cmd := &cli.Command{
		Name:    "tictactoe3d",
		Usage:   "multiplayer 4x4x4 tic tac toe server",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "HTTP server host"},
			&cli.IntFlag{Name: "port", Usage: "HTTP server port"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
			&cli.StringFlag{Name: "static-dir", Usage: "directory with the browser client"},
			&cli.BoolFlag{Name: "ngrok", Usage: "enable ngrok tunnel"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServer(ctx, cfg)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP server (default)",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return runServer(ctx, cfg)
				},
			},
			{
				Name:  "mcp-stdio",
				Usage: "run the MCP observer tools over stdio",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return runStdioMCP(ctx, cfg)
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// loadConfig reads the environment configuration and applies flag
// overrides.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("static-dir") {
		cfg.StaticDir = cmd.String("static-dir")
	}
	if cmd.IsSet("ngrok") {
		cfg.NgrokEnabled = cmd.Bool("ngrok")
	}

	setupLogging(cfg.Debug)

	return cfg, nil
}

// setupLogging configures the global zerolog logger. Logs go to stderr
// so the mcp-stdio mode keeps stdout clean for the protocol.
func setupLogging(debug bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// buildService wires the registry and game service and starts the idle
// room sweep.
func buildService(ctx context.Context, cfg config.Config) (service.GameService, *session.Registry) {
	registry := session.NewRegistry()
	go reclaimLoop(ctx, registry, cfg)

	return service.NewGameService(registry), registry
}

// reclaimLoop periodically deletes rooms idle longer than the
// configured timeout.
func reclaimLoop(ctx context.Context, registry *session.Registry, cfg config.Config) {
	ticker := time.NewTicker(cfg.RoomReclaimInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if reclaimed := registry.ReclaimIdle(now, cfg.RoomIdleTimeout); reclaimed > 0 {
				log.Info().Int("rooms", reclaimed).Msg("reclaimed idle rooms")
			}
		}
	}
}

// runServer starts the HTTP server with the WebSocket hub, REST
// endpoints, static client, and /mcp endpoint. If ngrok is enabled it
// also provisions a public tunnel.
func runServer(ctx context.Context, cfg config.Config) error {
	log.Info().Str("version", Version).Msg(AppName)

	gameService, _ := buildService(ctx, cfg)

	hub := websocket.NewHub(gameService)
	apiServer := api.NewServer(gameService, hub, cfg.StaticDir)
	mcpServer := mcp.NewServer(gameService)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpServer))

	httpServer := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     mainRouter,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("HTTP server listening")
		log.Info().Msgf("WebSocket: ws://%s/ws", cfg.Addr())
		log.Info().Msgf("Health: http://%s/health", cfg.Addr())
		log.Info().Msgf("MCP endpoint: http://%s/mcp", cfg.Addr())

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	if cfg.NgrokEnabled {
		go runNgrokTunnel(ctx, cfg, mainRouter)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// mcpHandler adapts the MCP server to a plain POST endpoint.
func mcpHandler(mcpServer *mcp.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Error().Err(err).Msg("failed to encode mcp response")
		}
	}
}

// runNgrokTunnel serves the router through a public ngrok endpoint.
func runNgrokTunnel(ctx context.Context, cfg config.Config, handler http.Handler) {
	if cfg.NgrokAuthToken == "" {
		log.Warn().Msg("ngrok enabled but NGROK_AUTHTOKEN is not set")
		return
	}

	tunnel := ngrokConfig.HTTPEndpoint()
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.NgrokAuthToken))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}
	defer tun.Close()

	log.Info().Str("url", tun.URL()).Msg("ngrok tunnel established")

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("ngrok server error")
	}
}

// runStdioMCP serves the observer tools over stdio. The game service is
// process-local, so rooms only exist for the lifetime of the process.
func runStdioMCP(ctx context.Context, cfg config.Config) error {
	gameService, _ := buildService(ctx, cfg)

	log.Info().Msg("MCP stdio server ready")

	if err := mcpserver.ServeStdio(mcp.NewServer(gameService).GetMCPServer()); err != nil {
		return fmt.Errorf("mcp stdio: %w", err)
	}
	return nil
}
