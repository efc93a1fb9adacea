package pipe

import (
	"context"
	"sync"

	"minihttp/transport"

	"github.com/benbjohnson/clock"
)

type dialRequest struct {
	conn     transport.Conn
	accepted chan bool
}

// Transport is a registry of in-memory listeners keyed by name.
type Transport struct {
	clock clock.Clock

	mu        sync.Mutex
	listeners map[Addr]*Listener
}

func NewTransport(clock clock.Clock) *Transport {
	return &Transport{
		clock:     clock,
		listeners: make(map[Addr]*Listener),
	}
}

var _ transport.ConnDialer = (*Transport)(nil)

func (t *Transport) Dial(ctx context.Context, addr transport.Addr) (transport.Conn, error) {
	to, ok := addr.(Addr)
	if !ok {
		return nil, transport.ErrNetUnreachable
	}

	t.mu.Lock()
	listener, ok := t.listeners[to]
	t.mu.Unlock()
	if !ok {
		return nil, transport.ErrConnRefused
	}

	local, remote := NewPair("dialer", to.Name, t.clock)
	req := dialRequest{conn: remote, accepted: make(chan bool, 1)}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-listener.closed:
		return nil, transport.ErrConnRefused
	case listener.requests <- req:
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case accepted := <-req.accepted:
		if !accepted {
			return nil, transport.ErrConnRefused
		}
	}

	return local, nil
}

func (t *Transport) Listen(addr Addr) (*Listener, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.listeners[addr]; ok {
		return nil, transport.ErrAddrAlreadyInUse
	}

	l := &Listener{
		addr:      addr,
		transport: t,
		requests:  make(chan dialRequest),
		closed:    make(chan struct{}),
	}
	t.listeners[addr] = l

	return l, nil
}

type Listener struct {
	addr      Addr
	transport *Transport

	requests chan dialRequest
	closed   chan struct{}
	once     sync.Once
}

var _ transport.ConnListener = (*Listener)(nil)

func (l *Listener) Addr() Addr { return l.addr }

func (l *Listener) Accept(ctx context.Context) (transport.Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.closed:
		return nil, transport.ErrConnListenerClosed
	case req := <-l.requests:
		req.accepted <- true
		return req.conn, nil
	}
}

func (l *Listener) Close() error {
	err := transport.ErrConnListenerClosed
	l.once.Do(func() {
		close(l.closed)

		l.transport.mu.Lock()
		delete(l.transport.listeners, l.addr)
		l.transport.mu.Unlock()

		err = nil
	})
	return err
}
