package simview

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	clientWriteWait  = 10 * time.Second
	reconnectBackoff = time.Second
	inboundBuffer    = 64
)

// Client maintains the websocket connection to the feed. It reconnects with
// a fixed backoff whenever the connection closes.
//
// Decoded messages arrive on Messages in delivery order. The read loop is the
// only goroutine touching inbound state; the game loop drains the channel, so
// all view mutation stays on the host's event loop.
type Client struct {
	url string
	log *log.Logger

	mu   sync.Mutex // guards conn writes
	conn *websocket.Conn
	open atomic.Bool

	messages chan InboundMessage
	dropped  atomic.Uint64

	cancel context.CancelFunc
	done   chan struct{}
}

// NewClient creates a client for the given ws:// URL. The logger may not be
// nil; pass log.Default() for stderr output.
func NewClient(url string, logger *log.Logger) *Client {
	return &Client{
		url:      url,
		log:      logger,
		messages: make(chan InboundMessage, inboundBuffer),
	}
}

// Messages is the stream of decoded inbound messages. Under a burst the
// buffer can fill; whole snapshots are dropped rather than queued without
// bound, since every update_step supersedes the previous one.
func (c *Client) Messages() <-chan InboundMessage {
	return c.messages
}

// Open reports whether the outbound channel is currently connected.
func (c *Client) Open() bool {
	return c.open.Load()
}

// Start begins the connect/read/reconnect loop in a background goroutine.
func (c *Client) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	go c.run(ctx)
}

// Close stops the loop and closes the connection.
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
}

func (c *Client) run(ctx context.Context) {
	defer close(c.done)
	for {
		if err := c.connectAndRead(ctx); err != nil {
			c.log.Warn("feed connection lost", "url", c.url, "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectBackoff):
		}
	}
}

func (c *Client) connectAndRead(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.open.Store(true)
	c.log.Info("connected to feed", "url", c.url)

	defer func() {
		c.open.Store(false)
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
	}()

	// Unblock ReadMessage when the context is cancelled.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		msg, err := DecodeMessage(raw)
		if err != nil {
			// Malformed messages are dropped with a diagnostic and
			// never reach the reconciler.
			c.log.Warn("dropping malformed feed message", "err", err)
			continue
		}

		select {
		case c.messages <- msg:
		default:
			c.dropped.Add(1)
			c.log.Debug("inbound buffer full, dropping snapshot", "dropped", c.dropped.Load())
		}
	}
}

// SendButtonPress writes a directional intent to the feed. While the channel
// is not open the write is dropped silently; the input bridge relies on that.
func (c *Client) SendButtonPress(dir Direction, pressed bool) error {
	raw, err := EncodeButtonPress(dir, pressed)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	c.conn.SetWriteDeadline(time.Now().Add(clientWriteWait))
	return c.conn.WriteMessage(websocket.TextMessage, raw)
}
