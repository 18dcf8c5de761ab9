package ws

import (
	"time"

	"github.com/Wyydra/brocall/internal/core/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Client wraps one websocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	id   domain.ConnID

	// send is drained by WritePump; the hub closes it on unregister.
	send chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, hub.opts.SendBufferSize),
	}
}

// ID is valid once Register has returned.
func (c *Client) ID() domain.ConnID {
	return c.id
}

// ReadPump feeds inbound frames to the hub until the connection fails, then
// unregisters the client. It is the only reader of the connection.
func (c *Client) ReadPump() {
	l := log.With().Str("client_id", c.id.String()).Logger()
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	opts := c.hub.opts
	c.conn.SetReadLimit(opts.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(opts.PongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				l.Error().Err(err).Msg("Unexpected close error")
			}
			return
		}
		if !c.hub.dispatch(c, data) {
			return
		}
	}
}

// WritePump is the only writer of the connection.
func (c *Client) WritePump() {
	opts := c.hub.opts
	ticker := time.NewTicker(opts.pingPeriod())
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(opts.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().Err(err).Str("client_id", c.id.String()).Msg("Write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
