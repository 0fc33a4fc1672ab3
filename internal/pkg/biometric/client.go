// Package biometric implements the framed binary protocol spoken by the
// attendance terminals: request/response exchange over a persistent TCP
// stream with CRC-16/X-25 frame integrity and typed device operations.
//
// The transport has no request multiplexing, so at most one request may be
// outstanding per connection; the client serializes callers. Retry and
// reconnect policy belongs to the caller.
package biometric

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"
)

const (
	defaultDialTimeout    = 5 * time.Second
	defaultCommandTimeout = 2 * time.Second
)

// Client drives one terminal over one persistent connection.
type Client struct {
	host           string
	port           int
	channel        uint32
	dialTimeout    time.Duration
	commandTimeout time.Duration

	mu   sync.Mutex // owns conn and rbuf; serializes in-flight requests
	conn net.Conn
	rbuf []byte
}

// Option configures a Client.
type Option func(*Client)

// WithDialTimeout sets the connection timeout. Default is 5s.
func WithDialTimeout(d time.Duration) Option {
	return func(c *Client) { c.dialTimeout = d }
}

// WithCommandTimeout sets the per-command response timeout. Default is 2s.
func WithCommandTimeout(d time.Duration) Option {
	return func(c *Client) { c.commandTimeout = d }
}

// NewClient creates a client for the terminal at host:port identified by the
// 4-byte channel.
func NewClient(host string, port int, channel uint32, opts ...Option) *Client {
	c := &Client{
		host:           host,
		port:           port,
		channel:        channel,
		dialTimeout:    defaultDialTimeout,
		commandTimeout: defaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect establishes the TCP connection. Calling Connect on an already
// connected client is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	d := net.Dialer{Timeout: c.dialTimeout}
	addr := net.JoinHostPort(c.host, strconv.Itoa(c.port))
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, wrapTimeout(err))
	}

	c.conn = conn
	c.rbuf = nil
	return nil
}

// Close tears down the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.rbuf = nil
	return err
}

// roundTrip sends one command and waits for its response. The response ACK
// must be cmd|0x80 and the leading RET byte must report success; the payload
// after RET is returned.
func (c *Client) roundTrip(ctx context.Context, cmd byte, payload []byte) ([]byte, error) {
	out, err := encodeFrame(c.channel, cmd, payload)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrNotConnected
	}

	deadline := time.Now().Add(c.commandTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return nil, err
	}
	if _, err := c.conn.Write(out); err != nil {
		c.rbuf = nil
		return nil, fmt.Errorf("write command 0x%02X: %w", cmd, wrapTimeout(err))
	}

	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	raw, err := c.readFrame()
	if err != nil {
		c.rbuf = nil
		return nil, fmt.Errorf("read response to 0x%02X: %w", cmd, err)
	}

	resp, err := decodeFrame(raw)
	if err != nil {
		return nil, err
	}
	if resp.Cmd != cmd|ackFlag {
		return nil, fmt.Errorf("%w: want 0x%02X got 0x%02X", ErrAckMismatch, cmd|ackFlag, resp.Cmd)
	}
	if len(resp.Payload) < 1 {
		return nil, fmt.Errorf("%w: response missing status byte", ErrMalformedFrame)
	}
	if resp.Payload[0] != retSuccess {
		return nil, &DeviceError{Cmd: cmd, Code: resp.Payload[0]}
	}

	return resp.Payload[1:], nil
}

// readFrame accumulates stream bytes until one complete frame is available.
// Caller holds c.mu.
func (c *Client) readFrame() ([]byte, error) {
	for {
		complete, rest, ok, err := extractFrame(c.rbuf)
		if err != nil {
			return nil, err
		}
		if ok {
			c.rbuf = rest
			return complete, nil
		}

		chunk := make([]byte, 4096)
		n, err := c.conn.Read(chunk)
		if err != nil {
			return nil, wrapTimeout(err)
		}
		c.rbuf = append(c.rbuf, chunk[:n]...)
	}
}

// wrapTimeout maps transport deadline errors onto ErrTimeout so callers can
// branch with errors.Is.
func wrapTimeout(err error) error {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
