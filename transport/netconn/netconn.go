// Package netconn adapts operating system sockets from package net to the
// transport interfaces.
package netconn

import (
	"context"
	"io"
	"net"
	"os"
	"syscall"
	"time"

	"minihttp/transport"

	"github.com/pkg/errors"
)

type conn struct {
	nc net.Conn
}

var _ transport.Conn = (*conn)(nil)

// Wrap adapts nc. Errors it returns are translated to the transport ones.
func Wrap(nc net.Conn) transport.Conn { return &conn{nc: nc} }

func (c *conn) Read(p []byte) (int, error) {
	n, err := c.nc.Read(p)
	return n, translate(err)
}

func (c *conn) Write(p []byte) (int, error) {
	n, err := c.nc.Write(p)
	return n, translate(err)
}

func (c *conn) Close() error {
	if err := c.nc.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

func (c *conn) LocalAddr() transport.Addr  { return c.nc.LocalAddr() }
func (c *conn) RemoteAddr() transport.Addr { return c.nc.RemoteAddr() }

// Deadline errors only occur on closed sockets, which the next read or
// write reports anyway.
func (c *conn) SetReadDeadLine(t time.Time)  { _ = c.nc.SetReadDeadline(t) }
func (c *conn) SetWriteDeadLine(t time.Time) { _ = c.nc.SetWriteDeadline(t) }

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrClosedPipe),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE):
		return errors.Wrap(transport.ErrConnClosed, err.Error())
	case errors.Is(err, os.ErrDeadlineExceeded):
		return transport.ErrDeadLineExceeded
	case errors.Is(err, syscall.ECONNREFUSED):
		return errors.Wrap(transport.ErrConnRefused, err.Error())
	case errors.Is(err, syscall.EADDRINUSE):
		return errors.Wrap(transport.ErrAddrAlreadyInUse, err.Error())
	case errors.Is(err, syscall.ENETUNREACH):
		return errors.Wrap(transport.ErrNetUnreachable, err.Error())
	}
	return err
}

// Listener accepts connections from a [net.Listener].
type Listener struct {
	nl net.Listener
}

var _ transport.ConnListener = (*Listener)(nil)

func Listen(network, address string) (*Listener, error) {
	nl, err := net.Listen(network, address)
	if err != nil {
		return nil, errors.Wrapf(translate(err), "listening on %s %s", network, address)
	}
	return &Listener{nl: nl}, nil
}

func (l *Listener) Addr() transport.Addr { return l.nl.Addr() }

// Accept waits for a connection or for ctx to be done. The socket keeps
// waiting in the background in the latter case until the listener is closed.
func (l *Listener) Accept(ctx context.Context) (transport.Conn, error) {
	type result struct {
		nc  net.Conn
		err error
	}
	ch := make(chan result, 1)
	go func() {
		nc, err := l.nl.Accept()
		ch <- result{nc, err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.nc != nil {
				r.nc.Close()
			}
		}()
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			if errors.Is(r.err, net.ErrClosed) {
				return nil, transport.ErrConnListenerClosed
			}
			return nil, r.err
		}
		return Wrap(r.nc), nil
	}
}

func (l *Listener) Close() error {
	if err := l.nl.Close(); err != nil {
		if errors.Is(err, net.ErrClosed) {
			return transport.ErrConnListenerClosed
		}
		return err
	}
	return nil
}

// Dialer connects to TCP addresses.
type Dialer struct {
	d net.Dialer
}

var _ transport.ConnDialer = (*Dialer)(nil)

func (d *Dialer) Dial(ctx context.Context, addr transport.Addr) (transport.Conn, error) {
	nc, err := d.d.DialContext(ctx, addr.Network(), addr.String())
	if err != nil {
		return nil, translate(err)
	}
	return Wrap(nc), nil
}
