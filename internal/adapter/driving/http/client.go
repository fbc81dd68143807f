package http

import (
	"sync"
	"time"

	"github.com/Wyydra/relay/internal/core/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WSClient is a websocket session. Outbound frames go through a bounded
// queue drained by writePump, the only goroutine writing to conn.
type WSClient struct {
	id   domain.ConnectionID
	conn *websocket.Conn
	opts Options
	l    zerolog.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newWSClient(id domain.ConnectionID, conn *websocket.Conn, opts Options, l zerolog.Logger) *WSClient {
	return &WSClient{
		id:   id,
		conn: conn,
		opts: opts,
		l:    l,
		send: make(chan []byte, opts.SendBufferSize),
		done: make(chan struct{}),
	}
}

func (c *WSClient) ID() domain.ConnectionID {
	return c.id
}

// Send never blocks. A closed session or a full queue drops the frame.
func (c *WSClient) Send(evt domain.Event) error {
	frame, err := encodeEvent(evt)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return domain.ErrSessionClosed
	default:
	}

	select {
	case c.send <- frame:
		return nil
	case <-c.done:
		return domain.ErrSessionClosed
	default:
		return domain.ErrSendQueueFull
	}
}

// Close asks writePump to send a close frame and tear the socket down.
func (c *WSClient) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	return nil
}

func (c *WSClient) pingPeriod() time.Duration {
	return (c.opts.PongWait * 9) / 10
}

func (c *WSClient) writePump() {
	ticker := time.NewTicker(c.pingPeriod())
	defer func() {
		ticker.Stop()
		c.Close()
		c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.l.Debug().Err(err).Msg("Write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
