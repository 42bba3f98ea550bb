// Package push maintains the duplex channel that delivers live events:
// new messages, forced room removals and presence counts in, message
// sends and leave notifications out.
package push

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"parley/models"
)

// ErrNotConnected is returned by emissions while the channel is down.
// Sends are never queued; the caller surfaces the failure and the user
// retries by hand.
var ErrNotConnected = errors.New("no connection")

// Options bound the automatic reconnect. The delay is fixed, not
// exponential; once attempts are exhausted the channel stays down
// until Connect is called again.
type Options struct {
	ReconnectAttempts int
	ReconnectDelay    time.Duration
}

// Channel is the websocket push channel. Inbound handlers run one at a
// time on the read loop, in transport delivery order.
type Channel struct {
	wsURL string
	opts  Options
	log   zerolog.Logger

	mu         sync.Mutex
	conn       *websocket.Conn
	token      string
	connected  bool
	generation int

	writeMu sync.Mutex

	handlerMu  sync.Mutex
	onPresence []func(PresenceUpdate)
	onMessage  []func(models.Message)
	onRoomLeft []func(RoomLeft)
	onState    []func(connected bool)
}

// New builds a channel for the backend at serverURL. The http(s)
// scheme is rewritten to ws(s) and the /ws route appended.
func New(serverURL string, opts Options, log zerolog.Logger) *Channel {
	if opts.ReconnectAttempts <= 0 {
		opts.ReconnectAttempts = 10
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = 500 * time.Millisecond
	}
	return &Channel{wsURL: wsURL(serverURL), opts: opts, log: log}
}

func wsURL(serverURL string) string {
	u := strings.TrimRight(serverURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/ws"
}

// OnPresence registers a handler for presence count updates.
func (c *Channel) OnPresence(h func(PresenceUpdate)) {
	c.handlerMu.Lock()
	c.onPresence = append(c.onPresence, h)
	c.handlerMu.Unlock()
}

// OnMessage registers a handler for new messages.
func (c *Channel) OnMessage(h func(models.Message)) {
	c.handlerMu.Lock()
	c.onMessage = append(c.onMessage, h)
	c.handlerMu.Unlock()
}

// OnRoomLeft registers a handler for forced room removals.
func (c *Channel) OnRoomLeft(h func(RoomLeft)) {
	c.handlerMu.Lock()
	c.onRoomLeft = append(c.onRoomLeft, h)
	c.handlerMu.Unlock()
}

// OnState registers a handler for connect/disconnect transitions.
func (c *Channel) OnState(h func(connected bool)) {
	c.handlerMu.Lock()
	c.onState = append(c.onState, h)
	c.handlerMu.Unlock()
}

// Connect dials the channel, authenticating with the session token.
// The same token is reused on every automatic reconnect; there is no
// anonymous fallback.
func (c *Channel) Connect(token string) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return nil
	}
	c.token = token
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	conn, err := c.dial(token)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	c.notifyState(true)
	go c.readLoop(conn, gen)
	return nil
}

func (c *Channel) dial(token string) (*websocket.Conn, error) {
	u := c.wsURL + "?token=" + url.QueryEscape(token)
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	return conn, err
}

// Close drops the connection and disables reconnection until the next
// Connect.
func (c *Channel) Close() error {
	c.mu.Lock()
	c.generation++
	conn := c.conn
	wasConnected := c.connected
	c.conn = nil
	c.connected = false
	c.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}
	if wasConnected {
		c.notifyState(false)
	}
	return err
}

// Connected reports whether the channel is up. Outbound sends must
// check this and fail fast rather than queue.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// SendMessage emits a message on the channel.
func (c *Channel) SendMessage(p SendPayload) error {
	return c.emit(EventSend, p)
}

// LeaveRoom emits a leave notification so other members' clients can
// react.
func (c *Channel) LeaveRoom(roomID int64) error {
	return c.emit(EventLeave, LeavePayload{RoomID: roomID})
}

func (c *Channel) emit(event string, payload any) error {
	c.mu.Lock()
	conn := c.conn
	connected := c.connected
	c.mu.Unlock()
	if !connected || conn == nil {
		return ErrNotConnected
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, frame)
}

// readLoop delivers inbound events to handlers synchronously, one at a
// time, preserving the order the transport delivered them.
func (c *Channel) readLoop(conn *websocket.Conn, gen int) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !c.current(gen) {
				return
			}
			c.log.Warn().Err(err).Msg("push channel read failed")
			c.markDisconnected(conn)
			c.reconnect(gen)
			return
		}
		c.dispatch(data)
	}
}

func (c *Channel) dispatch(data []byte) {
	event, payload, ok, err := decode(data)
	if err != nil {
		c.log.Warn().Err(err).Msg("dropping push event")
		return
	}
	if !ok {
		c.log.Debug().Str("event", event).Msg("unknown push event")
		return
	}

	c.handlerMu.Lock()
	presence := c.onPresence
	message := c.onMessage
	roomLeft := c.onRoomLeft
	c.handlerMu.Unlock()

	switch p := payload.(type) {
	case PresenceUpdate:
		for _, h := range presence {
			h(p)
		}
	case models.Message:
		for _, h := range message {
			h(p)
		}
	case RoomLeft:
		for _, h := range roomLeft {
			h(p)
		}
	}
}

// reconnect redials with the same token, a bounded number of attempts
// with a fixed delay between them. Exhaustion leaves the channel
// disconnected; errors are logged, never surfaced as blocking UI.
func (c *Channel) reconnect(gen int) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	for attempt := 1; attempt <= c.opts.ReconnectAttempts; attempt++ {
		time.Sleep(c.opts.ReconnectDelay)
		if !c.current(gen) {
			return
		}

		conn, err := c.dial(token)
		if err != nil {
			c.log.Warn().Err(err).Int("attempt", attempt).Msg("push channel reconnect failed")
			continue
		}

		c.mu.Lock()
		if gen != c.generation {
			c.mu.Unlock()
			conn.Close()
			return
		}
		c.conn = conn
		c.connected = true
		c.mu.Unlock()

		c.log.Info().Int("attempt", attempt).Msg("push channel reconnected")
		c.notifyState(true)
		go c.readLoop(conn, gen)
		return
	}
	c.log.Warn().Int("attempts", c.opts.ReconnectAttempts).Msg("push channel reconnect exhausted")
}

func (c *Channel) markDisconnected(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.connected = false
	}
	c.mu.Unlock()
	conn.Close()
	c.notifyState(false)
}

func (c *Channel) current(gen int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.generation
}

func (c *Channel) notifyState(connected bool) {
	c.handlerMu.Lock()
	handlers := c.onState
	c.handlerMu.Unlock()
	for _, h := range handlers {
		h(connected)
	}
}
