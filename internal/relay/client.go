package relay

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second    // Time allowed to write a frame to the peer.
	pongWait   = 60 * time.Second    // Time allowed to read the next pong from the peer.
	pingPeriod = (pongWait * 9) / 10 // Must be less than pongWait.

	sendBuffer = 256
)

// Client sits between one websocket connection and the hub. The transport
// assigns it an opaque id on accept; identity and room only exist in the
// registry once the peer joins.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	log  zerolog.Logger
}

// queue hands a frame to the write pump without blocking. A false return
// means the buffer is full and the hub should cut the connection loose.
func (c *Client) queue(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// readPump forwards inbound frames to the hub. One goroutine per
// connection, so events from a single peer stay in arrival order.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Debug().Str("conn", c.id).Err(err).Msg("read error")
			}
			break
		}
		c.hub.inbound <- inboundFrame{client: c, frame: frame}
	}
}

// writePump drains the send channel onto the connection and keeps the peer
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
