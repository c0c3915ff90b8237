package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hexforge/catan/internal/agent"
	"github.com/hexforge/catan/internal/config"
	"github.com/hexforge/catan/internal/handler"
	"github.com/hexforge/catan/internal/logger"
	"github.com/hexforge/catan/internal/middleware"
	"github.com/hexforge/catan/internal/service"
)

func main() {
	logger.Init()
	cfg := config.Load()
	log.Info().Int("maxActionsPerTurn", cfg.MaxActionsPerTurn).Msg("Config loaded")

	// WebSocket hub doubles as the registry's event broadcaster (C8 live
	// event stream) per spec.md §6.
	hub := handler.NewHub()
	registry := service.NewRegistry(hub)

	clientFor := providerResolver(cfg)

	gameHandler := handler.NewGameHandler(registry, cfg.ProviderCredentials)
	actionHandler := handler.NewActionHandler(registry)
	agentHandler := handler.NewAgentHandler(registry, clientFor)
	providerHandler := handler.NewProviderHandler(clientFor, cfg.ProviderCredentials)
	wsHandler := handler.NewWSHandler(hub)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("POST /games", gameHandler.CreateGame)
	mux.HandleFunc("GET /games", gameHandler.ListGames)
	mux.HandleFunc("GET /games/{id}", gameHandler.GetGame)
	mux.HandleFunc("DELETE /games/{id}", gameHandler.DeleteGame)
	mux.HandleFunc("DELETE /games", gameHandler.DeleteAllGames)
	mux.HandleFunc("POST /games/{id}/actions", actionHandler.Apply)
	mux.HandleFunc("POST /games/{id}/agent-turn", agentHandler.RunTurn)
	mux.HandleFunc("GET /games/{id}/events", func(w http.ResponseWriter, r *http.Request) {
		wsHandler.ServeWS(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("POST /providers/verify", providerHandler.Verify)

	root := middleware.Chain(mux, middleware.Logger, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // long-polling agent turns may block on provider I/O
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}

// providerResolver returns a provider-id → ProviderClient lookup backed by
// HTTPProviderClient, with per-provider env-var credential fallbacks
// (spec.md §6) applied by the caller via the request's apiKey field. The
// "local" provider (an on-host model server) requires no credential.
func providerResolver(cfg *config.Config) func(provider string) agent.ProviderClient {
	clients := map[string]*agent.HTTPProviderClient{
		"openai":    agent.NewHTTPProviderClient("openai"),
		"anthropic": agent.NewHTTPProviderClient("anthropic"),
		"gemini":    agent.NewHTTPProviderClient("gemini"),
		"ollama":    agent.NewHTTPProviderClient("ollama"),
		agent.LocalProviderName: agent.NewHTTPProviderClient(agent.LocalProviderName),
	}
	for _, c := range clients {
		c.HTTPClient.Timeout = cfg.ProviderActionTimeout
	}
	return func(provider string) agent.ProviderClient {
		if c, ok := clients[provider]; ok {
			return c
		}
		return agent.NewHTTPProviderClient(provider)
	}
}
