package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/gobwas/ws"
	"github.com/rs/zerolog/log"

	"shared-canvas/dispatcher"
)

type HTTPHandler struct {
	// ctx outlives single requests; websocket sessions are bound to it.
	ctx        context.Context
	Dispatcher *dispatcher.Dispatcher
	Invites    *InviteJWT
	Config     *Config
}

func NewHTTPServer(ctx context.Context, d *dispatcher.Dispatcher, invites *InviteJWT, config *Config) http.Handler {
	httpHandler := HTTPHandler{ctx: ctx, Dispatcher: d, Invites: invites, Config: config}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/", httpHandler.websocket())
	r.Get("/ws", httpHandler.websocket())

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   config.AllowedOrigins,
			AllowedMethods:   []string{"GET"},
			AllowCredentials: false,
		}))
		r.Use(httprate.Limit(config.RateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint)))
		r.Get("/health", httpHandler.health())
		r.Get("/stats", httpHandler.stats())
		r.Get("/stats/stream", httpHandler.statsEventStream())
		if invites != nil {
			r.Get("/rooms/{roomID}/invite", httpHandler.invite())
		}
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h HTTPHandler) roomFromRequest(r *http.Request) (string, error) {
	if token := r.URL.Query().Get("invite"); token != "" {
		if h.Invites == nil {
			return "", ErrInvalidInvite
		}
		return h.Invites.GetRoomIDFromInviteJWT(token)
	}
	return r.URL.Query().Get("room"), nil
}

func (h HTTPHandler) websocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID, err := h.roomFromRequest(r)
		if err != nil {
			LogInvalidInvite(err)
			http.Error(w, "invalid invite", http.StatusForbidden)
			return
		}
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			LogErrorWhileUpgradingHTTP(err)
			return
		}
		clientWs := NewClientWebsocket(conn, h.Config.SendQueueSize)
		defer clientWs.Close()
		go clientWs.WritePump()

		logger := GetConnectionLogger(r.RemoteAddr, roomID)
		ctx := logger.zerolog.WithContext(h.ctx)
		session, err := h.Dispatcher.Connect(ctx, clientWs, roomID)
		if err != nil {
			logger.RejectedByDispatcher(err)
			return
		}
		logger.Connected()

		for {
			msg, err := clientWs.ReadMessage()
			if err != nil {
				logger.Disconnected(err)
				break
			}
			if err := session.Handle(ctx, msg); err != nil {
				logger.Disconnected(err)
				break
			}
		}
		session.Close(ctx)
	}
}

func (h HTTPHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (h HTTPHandler) stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.Dispatcher.Stats(r.Context())
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func (h HTTPHandler) statsEventStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "HTTP Streaming not supported!", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		receiverSSE := NewReceiverSSE(w, flusher)

		ticker := time.NewTicker(h.Config.StatsInterval)
		defer ticker.Stop()
		for {
			stats, err := h.Dispatcher.Stats(r.Context())
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					log.Warn().Err(err).Msg("Stats stream stopped")
				}
				return
			}
			if err := receiverSSE.SendStats(stats); err != nil {
				return
			}
			select {
			case <-ticker.C:
			case <-r.Context().Done():
				return
			}
		}
	}
}

func (h HTTPHandler) invite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		token, err := h.Invites.GenerateInviteJWT(roomID)
		if err != nil {
			log.Error().Err(err).Str("room-id", roomID).Msg("Signing invite")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not sign invite"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"room": roomID, "token": token})
	}
}
