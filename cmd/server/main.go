package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/planmyoutings/outings/internal/assistant"
	"github.com/planmyoutings/outings/internal/auth"
	"github.com/planmyoutings/outings/internal/config"
	"github.com/planmyoutings/outings/internal/geo"
	"github.com/planmyoutings/outings/internal/server"
	"github.com/planmyoutings/outings/internal/service"
	"github.com/planmyoutings/outings/internal/storage/sqlite"
	"github.com/planmyoutings/outings/pkg/logging"
)

func main() {
	logging.Setup()

	cfg := config.Load()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	nominatim := geo.NewClient(cfg.NominatimURL, cfg.HTTPUserAgent, cfg.OutboundTimeout)
	planpal := assistant.New(cfg.GenAIKey, cfg.GenAIModel, cfg.OutboundTimeout)
	if planpal.Online() {
		slog.Info("Assistant online", "model", cfg.GenAIModel)
	} else {
		slog.Warn("Assistant offline, serving degraded replies")
	}

	groups := service.NewGroupService(store)
	plans := service.NewPlanService(store)
	votes := service.NewVoteService(store)
	suggest := service.NewSuggestService(nominatim, nominatim, plans)
	authSvc := service.NewAuthService(authenticator, jwtManager)
	events := service.NewEventService(store)

	srv := server.New(groups, plans, votes, suggest, authSvc, events, planpal)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Router(jwtManager, cfg.CORSOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
