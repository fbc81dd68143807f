package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Wyydra/relay/internal/core/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServeWS upgrades the request and runs the session's read loop on the
// request goroutine. Events are handled one at a time in arrival order.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Error while upgrading ws")
		return
	}

	id := domain.NewConnectionID()
	l := log.With().Str("conn_id", id.String()).Logger()
	client := newWSClient(id, conn, h.opts, l)

	if err := h.Hub.Register(client); err != nil {
		l.Warn().Err(err).Msg("Rejecting connection")
		conn.Close()
		return
	}
	l.Info().Str("remote_addr", r.RemoteAddr).Msg("New client connected")

	go client.writePump()

	// Unregister first: from here on the router sees the id as gone, so a
	// handler still in flight elsewhere cannot re-add it.
	defer func() {
		h.Hub.Unregister(client)
		h.Router.Disconnect(context.WithoutCancel(r.Context()), client.ID())
		client.Close()
		l.Info().Msg("Client disconnected")
	}()

	conn.SetReadLimit(h.opts.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
		return nil
	})

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				l.Error().Err(err).Msg("Unexpected close error")
			}
			break
		}

		if !h.dispatch(r.Context(), client.ID(), frame, l) {
			break
		}
	}
}

// dispatch handles one frame. It reports false only when handling
// panicked, which ends this session and nothing else.
func (h *Handler) dispatch(ctx context.Context, from domain.ConnectionID, frame []byte, l zerolog.Logger) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			l.Error().Interface("panic", rec).Msg("Recovered from panic while handling event")
			ok = false
		}
	}()

	in, err := decodeInbound(frame)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownEvent) {
			l.Debug().Err(err).Msg("Ignoring event")
		} else {
			l.Warn().Err(err).Msg("Ignoring malformed frame")
		}
		return true
	}

	switch in.Type {
	case domain.EventRegister:
		h.Router.Register(ctx, from, in.DisplayName)
	case domain.EventJoinRoom:
		h.Router.JoinRoom(ctx, from, in.RoomID)
	case domain.EventLeaveRoom:
		h.Router.LeaveRoom(ctx, from, in.RoomID)
	case domain.EventSignal:
		h.Router.RelaySignal(ctx, from, in.To, in.Signal)
	}
	return true
}
