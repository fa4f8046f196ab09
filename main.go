package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shared-canvas/dispatcher"
	"shared-canvas/room"
)

func main() {
	config := MustLoadConfig()
	SetupLogger(config)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := room.NewRegistry(config.DefaultRoom, config.MaxHistory)
	d := dispatcher.New(registry)
	go d.Run(ctx)

	var invites *InviteJWT
	if config.JwtSecret != "" {
		invites = NewInviteJWT(config.JwtSecret, config.InviteTTL)
	}

	server := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           NewHTTPServer(ctx, d, invites, config),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		LogStartedServer(config.Port)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			LogServerError(err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	LogStoppingServer()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		LogServerError(err)
	}
}
