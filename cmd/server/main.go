package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Wyydra/brocall/internal/adapter/driven/gateway/ws"
	repo "github.com/Wyydra/brocall/internal/adapter/driven/persistence/memory"
	handler "github.com/Wyydra/brocall/internal/adapter/driving/http"
	"github.com/Wyydra/brocall/internal/config"
	"github.com/Wyydra/brocall/internal/core/service"
	"github.com/Wyydra/brocall/internal/logging"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	logging.Init(cfg.Log.Level, cfg.Log.Format)

	hub := ws.NewHub(ws.Options{
		WriteWait:      cfg.WebSocket.WriteWait,
		PongWait:       cfg.WebSocket.PongWait,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
		SendBufferSize: cfg.WebSocket.SendBufferSize,
	})
	router := service.NewRouter(repo.NewConnectionRegistry(), repo.NewRoomTable(), hub)
	h := handler.NewHandler(cfg, hub, router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: h.NewRouter(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(ctx, router)
	})

	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.Addr).Str("static_dir", cfg.Server.StaticDir).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		hub.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("Server exited")
	return nil
}
