package dummy

import (
	"bytes"
	"io"
	"net"
	"sync"
	"time"
)

// Conn is an in-memory connection. Reads return the pieces it was initialised with one
// after another, then io.EOF. Everything written is accumulated and available via Written.
type Conn struct {
	mu      sync.Mutex
	pieces  [][]byte
	written bytes.Buffer
	closed  bool
	remote  net.Addr
}

func NewConn(pieces ...[]byte) *Conn {
	return &Conn{
		pieces: pieces,
		remote: &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 52000},
	}
}

// NewRequestConn is a shortcut for a connection with a single piece of data.
func NewRequestConn(request string) *Conn {
	return NewConn([]byte(request))
}

func (c *Conn) Read(b []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, net.ErrClosed
	}

	if len(c.pieces) == 0 {
		return 0, io.EOF
	}

	n = copy(b, c.pieces[0])
	if n < len(c.pieces[0]) {
		c.pieces[0] = c.pieces[0][n:]
	} else {
		c.pieces = c.pieces[1:]
	}

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, net.ErrClosed
	}

	return c.written.Write(b)
}

// Written returns a copy of everything written so far.
func (c *Conn) Written() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return bytes.Clone(c.written.Bytes())
}

// Pending returns how many bytes are left unread.
func (c *Conn) Pending() (n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, piece := range c.pieces {
		n += len(piece)
	}

	return n
}

func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

func (c *Conn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	return nil
}

func (c *Conn) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 7878}
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.remote
}

func (*Conn) SetDeadline(time.Time) error {
	return nil
}

func (*Conn) SetReadDeadline(time.Time) error {
	return nil
}

func (*Conn) SetWriteDeadline(time.Time) error {
	return nil
}
