// Package pipe is an in-memory transport. Each end of a pair is synchronous
// and unbuffered: a write returns once the other end has read every byte.
package pipe

import (
	"sync"
	"time"

	"minihttp/transport"

	"github.com/benbjohnson/clock"
)

type Addr struct {
	Name string
}

func (a Addr) Network() string { return "pipe" }
func (a Addr) String() string  { return a.Name }

var _ transport.Addr = Addr{}

type end struct {
	incoming chan []byte // writes from the peer arrive here.
	consumed chan int    // how much of a write the peer has read.

	writeMu sync.Mutex

	closed chan struct{}
	once   sync.Once

	rdeadline *deadline
	wdeadline *deadline

	peer *end
	addr Addr
}

var _ transport.Conn = (*end)(nil)

// NewPair creates two connected ends named after their local addresses.
func NewPair(local, remote string, clock clock.Clock) (transport.Conn, transport.Conn) {
	a, b := newEnd(local, clock), newEnd(remote, clock)
	a.peer, b.peer = b, a
	return a, b
}

func newEnd(name string, clock clock.Clock) *end {
	return &end{
		incoming:  make(chan []byte),
		consumed:  make(chan int),
		closed:    make(chan struct{}),
		rdeadline: newDeadline(clock),
		wdeadline: newDeadline(clock),
		addr:      Addr{Name: name},
	}
}

func (e *end) LocalAddr() transport.Addr  { return e.addr }
func (e *end) RemoteAddr() transport.Addr { return e.peer.addr }

func (e *end) Close() error {
	e.once.Do(func() { close(e.closed) })
	return nil
}

func (e *end) Read(b []byte) (int, error) {
	if err := e.check(e.rdeadline); err != nil {
		return 0, err
	}

	select {
	case chunk := <-e.incoming:
		n := copy(b, chunk)
		e.peer.consumed <- n
		return n, nil
	case <-e.closed:
		return 0, transport.ErrConnClosed
	case <-e.peer.closed:
		return 0, transport.ErrConnClosed
	case <-e.rdeadline.wait():
		return 0, transport.ErrDeadLineExceeded
	}
}

func (e *end) Write(b []byte) (int, error) {
	if err := e.check(e.wdeadline); err != nil {
		return 0, err
	}
	if len(b) == 0 {
		return 0, nil
	}

	// Concurrent writes must not interleave.
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	written := 0
	for len(b) > 0 {
		select {
		case e.peer.incoming <- b:
			n := <-e.consumed
			b = b[n:]
			written += n
		case <-e.closed:
			return written, transport.ErrConnClosed
		case <-e.peer.closed:
			return written, transport.ErrConnClosed
		case <-e.wdeadline.wait():
			return written, transport.ErrDeadLineExceeded
		}
	}

	return written, nil
}

func (e *end) check(d *deadline) error {
	switch {
	case isClosed(e.closed), isClosed(e.peer.closed):
		return transport.ErrConnClosed
	case isClosed(d.wait()):
		return transport.ErrDeadLineExceeded
	}
	return nil
}

func (e *end) SetReadDeadLine(t time.Time)  { e.rdeadline.set(t) }
func (e *end) SetWriteDeadLine(t time.Time) { e.wdeadline.set(t) }

// deadline is a channel that closes when its time passes.
type deadline struct {
	clock clock.Clock

	mu      sync.Mutex
	timer   *clock.Timer
	expired chan struct{}
}

func newDeadline(clock clock.Clock) *deadline {
	return &deadline{
		clock:   clock,
		expired: make(chan struct{}),
	}
}

func (d *deadline) set(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if isClosed(d.expired) {
		d.expired = make(chan struct{})
	}

	// Zero means no deadline.
	if t.IsZero() {
		return
	}

	expired := d.expired
	d.timer = d.clock.AfterFunc(d.clock.Until(t), func() {
		close(expired)
	})
}

func (d *deadline) wait() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.expired
}

func isClosed(c <-chan struct{}) bool {
	select {
	case <-c:
		return true
	default:
		return false
	}
}
