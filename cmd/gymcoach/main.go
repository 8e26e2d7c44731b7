package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/gymcoach/internal/catalog"
	"github.com/meltforce/gymcoach/internal/config"
	"github.com/meltforce/gymcoach/internal/mcp"
	"github.com/meltforce/gymcoach/internal/playback"
	apiserver "github.com/meltforce/gymcoach/internal/server"
	"github.com/meltforce/gymcoach/internal/storage"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	// Load .env, then config
	if err := config.LoadEnvFile(".env"); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	log.Info("GymCoach starting", "version", Version, "storage", cfg.Storage.Driver)

	// Open storage; migrations run as part of opening
	ctx := context.Background()
	kv, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.SQLite.Path, cfg.Storage.Database.DSN())
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	plans := storage.NewPlanStore(kv)
	defer plans.Close()
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Catalog, playback sessions, MCP
	client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, cfg.Catalog.APIHost, cfg.Catalog.Timeout)
	searcher := catalog.NewSearcher(client, cfg.Catalog.CacheTTL, log)
	if cfg.Catalog.APIKey == "" {
		log.Warn("catalog.api_key not set; exercise searches will come back empty")
	}

	sessions := playback.NewRegistry(cfg.Playback.ExerciseSeconds, time.Second, cfg.Playback.SessionIdleTTL, log)
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sessions.Run(sweepCtx, time.Minute)

	origin := cfg.Server.Origin()
	if cfg.Tailscale.Enabled && cfg.Server.PublicURL == "" {
		origin = "http://" + cfg.Tailscale.Hostname
	}

	srv := apiserver.New(plans, searcher, sessions, origin, log)
	mcpServer := mcp.New(mcp.NewLocalSource(plans, searcher, origin), Version, log)
	srv.MountMCP(server.NewStreamableHTTPServer(mcpServer))

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname, "origin", origin)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "origin", origin, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	stopSweep()
	sessions.CloseAll()
	log.Info("server stopped")
}
