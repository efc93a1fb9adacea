package server

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"minihttp/application/http"
	"minihttp/application/http/semantic"
	"minihttp/application/http/semantic/status"
	"minihttp/transport"
	"minihttp/transport/pipe"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

// writeAll sends chunks one by one, giving up once the peer goes away.
func writeAll(conn transport.Conn, chunks []string) {
	for _, chunk := range chunks {
		if _, err := conn.Write([]byte(chunk)); err != nil {
			return
		}
	}
}

// readAll collects everything until the peer closes.
func readAll(conn transport.Conn) string {
	var sb strings.Builder
	buf := make([]byte, 256)
	for {
		n, err := conn.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			return sb.String()
		}
	}
}

type ServeTestSuite struct {
	suite.Suite

	clock      *clock.Mock
	serverConn transport.Conn
	clientConn transport.Conn

	conn *conn

	handled chan semantic.Request
}

func TestServeTestSuite(t *testing.T) {
	suite.Run(t, new(ServeTestSuite))
}

func (s *ServeTestSuite) SetupTest() {
	s.clock = clock.NewMock()
	s.serverConn, s.clientConn = pipe.NewPair("server", "client", s.clock)
	s.handled = make(chan semantic.Request, 1)

	s.conn = &conn{
		con:     s.serverConn,
		decoder: http.NewRequestDecoder(nil, DefaultOptions.Decode),
		clock:   s.clock,
		logger:  slog.New(slog.DiscardHandler),
		opts:    DefaultOptions,
		handle:  s.echoPath,
	}
}

func (s *ServeTestSuite) TearDownTest() {
	s.clientConn.Close()
	goleak.VerifyNone(s.T())
}

func (s *ServeTestSuite) echoPath(c *HandleContext, request *semantic.Request) *semantic.Response {
	s.handled <- request.Clone()

	res := semantic.NewResponse(status.OK)
	res.SetBody(request.Path)
	return res
}

// exchange serves one connection while the client sends chunks and returns
// what the client received.
func (s *ServeTestSuite) exchange(chunks ...string) string {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.conn.start(context.Background())
	}()
	go writeAll(s.clientConn, chunks)

	received := readAll(s.clientConn)
	<-done
	return received
}

func (s *ServeTestSuite) TestServe() {
	testcases := []struct {
		desc     string
		chunks   []string
		expected string
	}{
		{
			desc:     "http/1.0 in one chunk",
			chunks:   []string{"GET /hello HTTP/1.0\r\n\r\n"},
			expected: "HTTP/1.0 200 Ok\r\nContent-Length: 6\r\n\r\n/hello",
		},
		{
			desc: "http/1.0 across chunks",
			chunks: []string{
				"GE", "T /hel", "lo HTTP/1", ".0\r", "\nHost: a\r\n", "\r", "\n",
			},
			expected: "HTTP/1.0 200 Ok\r\nContent-Length: 6\r\n\r\n/hello",
		},
		{
			desc:     "http/0.9 gets the body only",
			chunks:   []string{"GET /index.html\r\n"},
			expected: "/index.html",
		},
		{
			desc:     "http/0.9 across chunks",
			chunks:   []string{"GET /in", "dex.html\r", "\n"},
			expected: "/index.html",
		},
		{
			desc:     "unknown version reads as an http/0.9 path",
			chunks:   []string{"GET / HTTP/1.1\r\n\r\n"},
			expected: "/ HTTP/1.1",
		},
		{
			desc:     "malformed request",
			chunks:   []string{"POST / HTTP/1.1\r\n\r\n"},
			expected: "HTTP/1.0 400 Bad Request\r\n\r\n",
		},
		{
			desc:     "malformed header",
			chunks:   []string{"HEAD / HTTP/1.0\r\nHost:x\r\n\r\n"},
			expected: "HTTP/1.0 400 Bad Request\r\n\r\n",
		},
	}
	for _, tc := range testcases {
		s.Run(tc.desc, func() {
			s.SetupTest()
			s.Equal(tc.expected, s.exchange(tc.chunks...))
		})
	}
}

func (s *ServeTestSuite) TestRequestReachesHandler() {
	received := s.exchange(
		"POST /submit HTTP/1.0\r\nContent-Length: 5\r\n",
		"X-Trace: 1\r\n\r\nhel",
		"lo",
	)
	s.Equal("HTTP/1.0 200 Ok\r\nContent-Length: 7\r\n\r\n/submit", received)

	request := <-s.handled
	s.Equal(semantic.MethodPost, request.Method)
	s.Equal(semantic.HTTP10, request.Version)
	s.Equal("hello", string(request.Body))

	value, ok := request.Headers.Get("X-Trace")
	s.True(ok)
	s.Equal(" 1", string(value))
}

func (s *ServeTestSuite) TestSmallReadChunks() {
	s.conn.opts.ReadChunkSize = 3

	received := s.exchange("GET /a/b/c HTTP/1.0\r\nHost: example.com\r\n\r\n")
	s.Equal("HTTP/1.0 200 Ok\r\nContent-Length: 6\r\n\r\n/a/b/c", received)
}

func (s *ServeTestSuite) TestMalformedSkipsHandler() {
	s.exchange("BAD\r\n")
	s.Empty(s.handled)
}

func (s *ServeTestSuite) TestEndOfStreamWithoutResponse() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.conn.start(context.Background())
	}()

	_, err := s.clientConn.Write([]byte("GET / HTTP/1.0\r\n"))
	s.Require().NoError(err)
	s.Require().NoError(s.clientConn.Close())

	<-done
	s.Empty(s.handled)
}

func (s *ServeTestSuite) TestMaxRequestSize() {
	s.conn.opts.MaxRequestSize = 16

	received := s.exchange("GET /", strings.Repeat("a", 32))
	s.Equal("HTTP/1.0 400 Bad Request\r\n\r\n", received)
	s.Empty(s.handled)
}

// Requests that never reach a delimiter are cut off by the default limits.
func (s *ServeTestSuite) TestDefaultLimits() {
	flood := func(prefix string, n int) []string {
		chunks := []string{prefix}
		for range n {
			chunks = append(chunks, strings.Repeat("A", 1024))
		}
		return chunks
	}

	testcases := []struct {
		desc   string
		chunks []string
	}{
		{desc: "method without space", chunks: flood("", 9)},
		{desc: "path without delimiter", chunks: flood("GET /", 9)},
		{desc: "http/1.0 body over the cap", chunks: []string{"POST / HTTP/1.0\r\nContent-Length: 2000000\r\n\r\n"}},
	}
	for _, tc := range testcases {
		s.Run(tc.desc, func() {
			s.SetupTest()
			s.Equal("HTTP/1.0 400 Bad Request\r\n\r\n", s.exchange(tc.chunks...))
			s.Empty(s.handled)
		})
	}
}

func (s *ServeTestSuite) TestDefaultReadTimeout() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.conn.start(context.Background())
	}()

	_, err := s.clientConn.Write([]byte(strings.Repeat("A", 64)))
	s.Require().NoError(err)

	s.clock.Add(DefaultOptions.Timeout.ReadTimeout)

	s.Empty(readAll(s.clientConn))
	<-done
	s.Empty(s.handled)
}

func (s *ServeTestSuite) TestResponseVersionFollowsRequest() {
	s.conn.handle = func(c *HandleContext, request *semantic.Request) *semantic.Response {
		s.Equal(semantic.HTTP10, c.Version())
		res := semantic.NewResponse(status.NotFound)
		res.Version = semantic.HTTP09
		return res
	}

	s.Equal("HTTP/1.0 404 Not Found\r\n\r\n", s.exchange("GET / HTTP/1.0\r\n\r\n"))
}

func (s *ServeTestSuite) TestHandlerFailures() {
	testcases := []struct {
		desc     string
		handle   HandleFunc
		request  string
		expected string
	}{
		{
			desc: "panic",
			handle: func(c *HandleContext, request *semantic.Request) *semantic.Response {
				panic("missed me?")
			},
			request:  "GET / HTTP/1.0\r\n\r\n",
			expected: "HTTP/1.0 500 Internal Server Error\r\n\r\n",
		},
		{
			desc: "nil response",
			handle: func(c *HandleContext, request *semantic.Request) *semantic.Response {
				return nil
			},
			request:  "GET / HTTP/1.0\r\n\r\n",
			expected: "HTTP/1.0 500 Internal Server Error\r\n\r\n",
		},
		{
			desc: "status error",
			handle: func(c *HandleContext, request *semantic.Request) *semantic.Response {
				return c.Error(status.NewError(nil, status.NotFound))
			},
			request:  "GET /missing HTTP/1.0\r\n\r\n",
			expected: "HTTP/1.0 404 Not Found\r\n\r\n",
		},
		{
			desc: "panic on http/0.9",
			handle: func(c *HandleContext, request *semantic.Request) *semantic.Response {
				panic("missed me?")
			},
			request:  "GET /\r\n",
			expected: "",
		},
	}
	for _, tc := range testcases {
		s.Run(tc.desc, func() {
			s.SetupTest()
			s.conn.handle = tc.handle
			s.Equal(tc.expected, s.exchange(tc.request))
		})
	}
}

func (s *ServeTestSuite) TestReadTimeout() {
	s.conn.opts.Timeout.ReadTimeout = time.Second

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.conn.start(context.Background())
	}()

	// The write returns once the server has read it, so its deadline is set.
	_, err := s.clientConn.Write([]byte("GET / HT"))
	s.Require().NoError(err)

	s.clock.Add(2 * time.Second)

	s.Empty(readAll(s.clientConn))
	<-done
	s.Empty(s.handled)
}

func (s *ServeTestSuite) TestCancel() {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.conn.start(ctx)
	}()

	cancel()
	s.Empty(readAll(s.clientConn))
	<-done
}
