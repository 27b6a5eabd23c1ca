// Package socket maintains a single logical websocket connection to the
// chat endpoint and provides named-event publish/subscribe over it.
// Connection lifecycle (connect, disconnect, error) is surfaced through
// the same listener table as server-sent events, so consumers use one
// subscription model for both.
package socket

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/openmingle/mingle-go/model"
)

// Pseudo-events synthesized by the client itself.
const (
	EventConnect    = "connect"
	EventDisconnect = "disconnect"
	EventError      = "error"
)

const (
	defaultReconnectInterval = 2 * time.Second
	defaultMaxAttempts       = 5
)

// Handler receives the data payload of a frame. The payload is nil for
// pseudo-events and frames whose data field is null.
type Handler func(data json.RawMessage)

// Options configures one Connect call.
type Options struct {
	// Query is appended to the endpoint URL, scalars coerced to their
	// string form. RawQuery, when set, is used verbatim instead.
	Query    map[string]any
	RawQuery string

	// Reconnect policy after an abnormal close. Zero values fall back to
	// 2s interval and 5 attempts when AutoReconnect is set.
	AutoReconnect         bool
	ReconnectInterval     time.Duration
	MaxConnectionAttempts int
}

type listener struct {
	id uint64
	fn Handler
}

// Client owns at most one live connection at a time. Listener
// registrations survive disconnects and reconnects.
type Client struct {
	baseURL string
	log     *zap.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connID    string // log correlation id, fresh per dial
	gen       uint64
	listeners map[string][]listener
	opts      Options
	closing   bool   // explicit Disconnect; suppresses reconnect
	dialGen   uint64 // bumped per Connect; invalidates pending retries
}

// New creates a client for the given ws:// or wss:// base URL. A nil
// logger disables logging.
func New(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:   baseURL,
		log:       logger,
		listeners: make(map[string][]listener),
	}
}

func (c *Client) endpoint(opts Options) string {
	if opts.RawQuery != "" {
		return c.baseURL + "?" + opts.RawQuery
	}
	if len(opts.Query) == 0 {
		return c.baseURL
	}
	q := url.Values{}
	for k, v := range opts.Query {
		q.Set(k, fmt.Sprint(v))
	}
	return c.baseURL + "?" + q.Encode()
}

// Connect establishes a new connection, closing any prior one first so
// that exactly one live connection exists at a time.
func (c *Client) Connect(opts Options) error {
	if opts.ReconnectInterval <= 0 {
		opts.ReconnectInterval = defaultReconnectInterval
	}
	if opts.MaxConnectionAttempts <= 0 {
		opts.MaxConnectionAttempts = defaultMaxAttempts
	}

	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.opts = opts
	c.closing = false
	c.dialGen++
	endpoint := c.endpoint(opts)
	c.mu.Unlock()

	return c.dial(endpoint)
}

func (c *Client) dial(endpoint string) error {
	conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		return fmt.Errorf("socket: dial %s: %w", endpoint, err)
	}

	c.mu.Lock()
	if c.closing || c.conn != nil {
		// Disconnect landed while the dial was in flight, or a racing
		// Connect installed another conn first; do not bring this one up.
		c.mu.Unlock()
		conn.Close()
		return nil
	}
	c.conn = conn
	c.connID = uuid.NewString()
	id := c.connID
	c.mu.Unlock()

	c.log.Info("websocket connected",
		zap.String("conn_id", id),
		zap.String("endpoint", endpoint))

	go c.readLoop(conn, id)
	c.dispatch(EventConnect, nil)
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn, id string) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			current := c.conn == conn
			if current {
				c.conn = nil
			}
			closing := c.closing
			opts := c.opts
			gen := c.dialGen
			c.mu.Unlock()

			if !current {
				// Replaced by a newer connection or an explicit
				// Disconnect; that path already reported the close.
				return
			}
			c.log.Info("websocket disconnected", zap.String("conn_id", id), zap.Error(err))
			c.dispatch(EventDisconnect, nil)
			if !closing && opts.AutoReconnect {
				go c.reconnect(gen)
			}
			return
		}

		var frame model.Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.log.Warn("dropping malformed frame", zap.String("conn_id", id), zap.Error(err))
			continue
		}
		if frame.Name == "" {
			c.log.Warn("dropping frame without event name", zap.String("conn_id", id))
			continue
		}
		c.dispatch(frame.Name, frame.Data)
	}
}

// reconnect re-dials after an abnormal close. The endpoint and policy
// are re-read from the client on every attempt so a newer Connect call
// always wins; gen identifies the Connect generation the retry belongs
// to, and a mismatch means a newer call superseded it.
func (c *Client) reconnect(gen uint64) {
	for attempt := 1; ; attempt++ {
		c.mu.Lock()
		opts := c.opts
		endpoint := c.endpoint(opts)
		stop := c.closing || c.conn != nil || c.dialGen != gen
		c.mu.Unlock()
		if stop {
			return
		}
		if attempt > opts.MaxConnectionAttempts {
			c.log.Warn("giving up after failed reconnects", zap.Int("attempts", opts.MaxConnectionAttempts))
			return
		}

		time.Sleep(opts.ReconnectInterval)

		c.mu.Lock()
		stop = c.closing || c.conn != nil || c.dialGen != gen
		c.mu.Unlock()
		if stop {
			return
		}

		err := c.dial(endpoint)
		if err == nil {
			return
		}
		c.log.Warn("reconnect attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		c.dispatch(EventError, nil)
	}
}

// On registers fn for frames named eventName. Listeners run in
// registration order; registering the same func twice yields two
// invocations. The returned func removes exactly this registration and
// is safe to call repeatedly, including after the connection closed.
func (c *Client) On(eventName string, fn Handler) (off func()) {
	c.mu.Lock()
	c.gen++
	id := c.gen
	c.listeners[eventName] = append(c.listeners[eventName], listener{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		ls := c.listeners[eventName]
		for i, l := range ls {
			if l.id == id {
				c.listeners[eventName] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

// Off removes every listener registered for eventName. Removing a single
// callback goes through the func returned by On.
func (c *Client) Off(eventName string) {
	c.mu.Lock()
	delete(c.listeners, eventName)
	c.mu.Unlock()
}

func (c *Client) dispatch(eventName string, data json.RawMessage) {
	c.mu.Lock()
	ls := append([]listener(nil), c.listeners[eventName]...)
	c.mu.Unlock()
	for _, l := range ls {
		l.fn(data)
	}
}

// Emit sends {name, data} if the connection is open and reports whether
// the send was attempted. There is no queueing: while disconnected the
// message is dropped and Emit returns false.
func (c *Client) Emit(eventName string, data any) bool {
	payload, err := json.Marshal(data) // nil marshals to "null"
	if err != nil {
		c.log.Warn("emit: cannot marshal data", zap.String("event", eventName), zap.Error(err))
		return false
	}
	frame, err := json.Marshal(model.Frame{Name: eventName, Data: payload})
	if err != nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return false
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.log.Warn("emit failed", zap.String("event", eventName), zap.Error(err))
		return false
	}
	return true
}

// IsConnected reports the live open state.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Disconnect closes the connection and stops any pending reconnect.
// Registered listeners are kept; they become inert until a future
// Connect reuses them.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.closing = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
		c.dispatch(EventDisconnect, nil)
	}
}
