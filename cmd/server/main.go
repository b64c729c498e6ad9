// Command server runs the HTTP/WebSocket adapter in front of the matching
// engine: gin for ingress and the dashboard, gorilla/websocket for the
// market-data and trade push feeds.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"clobengine/internal/config"
	"clobengine/internal/engine"
	"clobengine/internal/transport/httpapi"
	"clobengine/internal/transport/ws"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cfg := config.Load("config.yaml")

	t, tctx := tomb.WithContext(ctx)
	registry := engine.NewRegistry(t, cfg.TradeLogCap)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	httpapi.New(registry).Register(router, cfg.StaticRoot, cfg.DashboardDir)
	ws.New(registry).Register(router)

	addr := fmt.Sprintf("%s:%d", cfg.Address, cfg.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	t.Go(func() error {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	t.Go(func() error {
		<-tctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	<-t.Dying()
	if err := t.Wait(); err != nil {
		log.Error().Err(err).Msg("server exited with error")
	}
}
