package http

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/Wyydra/relay/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/relay/internal/core/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Options tunes the websocket transport and the static file server.
type Options struct {
	StaticDir      string
	AllowedOrigins []string
	SendBufferSize int
	MaxMessageSize int64
	WriteWait      time.Duration
	PongWait       time.Duration
}

type Handler struct {
	Router *service.SignalingRouter
	Hub    *ws.Hub

	opts     Options
	upgrader websocket.Upgrader
}

func NewHandler(router *service.SignalingRouter, hub *ws.Hub, opts Options) *Handler {
	policy := newOriginPolicy(opts.AllowedOrigins)
	return &Handler{
		Router: router,
		Hub:    hub,
		opts:   opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     policy.check,
		},
	}
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)
	r.Get("/ws", h.ServeWS)

	if info, err := os.Stat(h.opts.StaticDir); err == nil && info.IsDir() {
		r.Handle("/*", http.FileServer(http.Dir(h.opts.StaticDir)))
	} else if h.opts.StaticDir != "" {
		log.Debug().Str("dir", h.opts.StaticDir).Msg("Static directory not found, not serving assets")
	}

	return r
}

type healthDTO struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
	Users       int    `json:"users"`
	Rooms       int    `json:"rooms"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.Router.Stats()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(healthDTO{
		Status:      "ok",
		Connections: h.Hub.Count(),
		Users:       stats.Users,
		Rooms:       stats.Rooms,
	})
	if err != nil {
		log.Debug().Err(err).Msg("Failed to write health response")
	}
}
