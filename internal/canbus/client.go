package canbus

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"
)

// Config holds CAN client configuration.
type Config struct {
	Interface    string
	WriteTimeout time.Duration
}

// ConnectionState represents the client's connection lifecycle.
type ConnectionState int32

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
)

// Client owns a SocketCAN connection.
type Client struct {
	config Config
	conn   net.Conn
	tx     *socketcan.Transmitter
	rx     *socketcan.Receiver
	state  atomic.Int32
	mu     sync.Mutex
}

// NewClient creates a new CAN client.
func NewClient(cfg Config) *Client {
	c := &Client{config: cfg}
	c.state.Store(int32(StateDisconnected))
	return c
}

// State returns the current connection state.
func (c *Client) State() ConnectionState {
	return ConnectionState(c.state.Load())
}

// Connect opens the configured SocketCAN interface.
func (c *Client) Connect(ctx context.Context) error {
	c.state.Store(int32(StateConnecting))
	conn, err := socketcan.DialContext(ctx, "can", c.config.Interface)
	if err != nil {
		c.state.Store(int32(StateDisconnected))
		return fmt.Errorf("socketcan dial %s: %w", c.config.Interface, err)
	}
	return c.connectWithConn(ctx, conn)
}

// connectWithConn attaches the transmitter and receiver to an existing
// net.Conn. Separated from Connect to allow testing with net.Pipe().
func (c *Client) connectWithConn(ctx context.Context, conn net.Conn) error {
	if err := ctx.Err(); err != nil {
		_ = conn.Close()
		c.state.Store(int32(StateDisconnected))
		return fmt.Errorf("canbus connect: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn = conn
	c.tx = socketcan.NewTransmitter(conn)
	c.rx = socketcan.NewReceiver(conn)
	c.state.Store(int32(StateConnected))
	return nil
}

// Close shuts down the connection. Blocked reads return an error.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.tx = nil
	c.rx = nil
	c.state.Store(int32(StateDisconnected))
	return err
}

// WriteFrame transmits one frame. Thread-safe.
func (c *Client) WriteFrame(ctx context.Context, f can.Frame) error {
	if c.config.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.WriteTimeout)
		defer cancel()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tx == nil {
		return ErrNotConnected
	}
	if err := c.tx.TransmitFrame(ctx, f); err != nil {
		return fmt.Errorf("transmit 0x%X: %w", f.ID, err)
	}
	return nil
}

// ReadNext blocks until the next frame arrives. Only one goroutine may read.
func (c *Client) ReadNext() (can.Frame, error) {
	c.mu.Lock()
	rx := c.rx
	c.mu.Unlock()

	if rx == nil {
		return can.Frame{}, ErrNotConnected
	}
	if !rx.Receive() {
		if err := rx.Err(); err != nil {
			return can.Frame{}, fmt.Errorf("receive: %w", err)
		}
		return can.Frame{}, fmt.Errorf("receive: %w", ErrNotConnected)
	}
	return rx.Frame(), nil
}
