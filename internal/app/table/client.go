/*
Package table hosts the one card table this server runs.

This file defines the Client struct, representing an active WebSocket connection. It manages the
connection's read and write loops and hands every decoded message to the Table.
*/
package table

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"scum/internal/app/user"
	"scum/internal/pkg/errs"
	"scum/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 4096

	// sendBuffer is the outbound queue length; a client that falls this far behind is dropped.
	sendBuffer = 256

	// intentRate and intentBurst bound how fast one connection may submit messages.
	intentRate  = rate.Limit(10)
	intentBurst = 20

	// WsCloseCodeSessionKicked is a custom WebSocket Close Code (4000-4999 range)
	// used to signal the client that the session was replaced by a new connection.
	WsCloseCodeSessionKicked = 4001
)

// Client struct represents an active WebSocket connection and its associated user.
type Client struct {
	// the table the client is connected to.
	table *Table

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// identity bound at login. Owned by the table's Run goroutine.
	user user.User

	// a buffered channel used to queue messages waiting to be sent to the client.
	send chan []byte

	// closed records that send has been closed. Owned by the table's Run goroutine.
	closed bool

	// closeFrame is written by WritePump once send is closed. Set before closing send.
	closeFrame []byte

	// limiter throttles inbound messages from this connection.
	limiter *rate.Limiter

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs and returns a new Client instance.
func NewClient(table *Table, wsConn *websocket.Conn) *Client {
	clientLogger := logx.Logger().With().
		Str("component", "client").
		Str("remote_addr", logx.AnonymizeIP(wsConn.RemoteAddr().String())).
		Logger()

	return &Client{
		table:   table,
		conn:    wsConn,
		send:    make(chan []byte, sendBuffer),
		limiter: rate.NewLimiter(intentRate, intentBurst),
		logger:  clientLogger,
	}
}

// ReadPump handles reading messages from the WebSocket connection.
// It handles heartbeats (Pong), message decoding, and unregisters the client when the connection ends.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		if !c.table.post(c.processInboundMessage(messageBytes)) {
			break
		}
	}
}

// processInboundMessage turns raw bytes into the message the table applies.
func (c *Client) processInboundMessage(messageBytes []byte) inbound {
	if !c.limiter.Allow() {
		c.logger.Warn().Msg("Client exceeded message rate")
		return inbound{client: c, err: errs.NewError(errs.ErrRateLimitExceeded)}
	}

	login, intent, err := decodeInbound(messageBytes)
	if err != nil {
		c.logger.Debug().Err(err).Bytes("message_bytes", messageBytes).Msg("Client sent undecodable message")
	}

	return inbound{client: c, login: login, intent: intent, err: err}
}

// cleanupOnDisconnect handles the necessary cleanup steps when the client's ReadPump terminates.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.table.unregisterClient(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// WritePump handles writing messages from the Client.send channel to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage handles messages pulled from the send channel, writing them to the WebSocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		closeFrame := c.closeFrame
		if closeFrame == nil {
			closeFrame = []byte{}
		}
		if err := c.conn.WriteMessage(websocket.CloseMessage, closeFrame); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Debug().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// enqueue queues bytes for the write loop. A full queue closes the connection.
// Must be called from the table's Run goroutine.
func (c *Client) enqueue(messageBytes []byte) bool {
	if c.closed {
		return false
	}

	select {
	case c.send <- messageBytes:
		return true
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, closing connection")
		c.closeSend()
		return false
	}
}

// closeSend closes the outbound queue once; WritePump then sends a close frame.
// Must be called from the table's Run goroutine.
func (c *Client) closeSend() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// Kick closes the connection with close code 4001 indicating that the session was replaced.
// The close frame is written by WritePump, so Kick never waits on the socket.
// Must be called from the table's Run goroutine.
func (c *Client) Kick(reason string) {
	if c.closed {
		return
	}

	c.logger.Warn().
		Int("close_code", WsCloseCodeSessionKicked).
		Str("reason", reason).
		Msg("Queueing WS Kick message and closing connection.")

	c.closeFrame = websocket.FormatCloseMessage(WsCloseCodeSessionKicked, reason)
	c.closeSend()
}
