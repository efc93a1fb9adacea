// Package server accepts connections and answers exactly one request on each.
package server

import (
	"context"
	"log/slog"
	"sync"

	"minihttp/application/http"
	"minihttp/transport"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

type Server struct {
	l transport.ConnListener

	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *slog.Logger
	opts   Options

	handle  HandleFunc
	decoder *http.RequestDecoder
	clock   clock.Clock
}

func New(
	l transport.ConnListener,
	logger *slog.Logger,
	clock clock.Clock,
	handle HandleFunc,
	opts Options,
) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts = opts.withDefaults()

	return &Server{
		l:       l,
		logger:  logger,
		opts:    opts,
		handle:  handle,
		decoder: http.NewRequestDecoder(logger, opts.Decode),
		clock:   clock,
	}
}

// Start accepts connections in the background until Close is called.
func (s *Server) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.acceptConn(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) && !errors.Is(err, transport.ErrConnListenerClosed) {
					s.logger.Error(
						"unexpected error when accepting connection",
						"error", err.Error(),
					)
				}
				return
			}

			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				conn.start(ctx)
			}()
		}
	}()
}

func (s *Server) acceptConn(ctx context.Context) (*conn, error) {
	con, err := s.l.Accept(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listening for connection")
	}

	return &conn{
		con:     con,
		handle:  s.handle,
		decoder: s.decoder,
		opts:    s.opts,
		logger:  s.logger.With("conn", con.RemoteAddr().String()),
		clock:   s.clock,
	}, nil
}

// Close stops accepting, aborts connections in flight and waits for them.
func (s *Server) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	err := s.l.Close()
	s.wg.Wait()

	if errors.Is(err, transport.ErrConnListenerClosed) {
		return nil
	}
	return err
}
