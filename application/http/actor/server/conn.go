package server

import (
	"context"
	"log/slog"

	"minihttp/application/http"
	"minihttp/application/http/semantic"
	"minihttp/application/http/semantic/status"
	"minihttp/transport"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

var (
	ErrEndOfStream         = errors.New("peer closed the stream before a request was complete")
	ErrMalformedRequest    = errors.New("malformed request")
	ErrRequestTooLarge     = errors.New("request too large")
	ErrReadTimeoutExceeded = errors.New("read timeout exceeded")
)

type conn struct {
	con transport.Conn

	handle  HandleFunc
	decoder *http.RequestDecoder
	clock   clock.Clock

	logger *slog.Logger

	opts Options
}

func (c *conn) start(ctx context.Context) {
	defer func() {
		c.logger.Debug("closing connection")
		if err := c.con.Close(); err != nil {
			c.logger.Error("error when closing connection", "error", err)
		}
	}()

	// Unblocks a pending read or write once the server shuts down.
	stop := context.AfterFunc(ctx, func() { c.con.Close() })
	defer stop()

	err := c.serve(ctx)
	if ctx.Err() != nil {
		return
	}

	switch {
	case err == nil:
	case errors.Is(err, ErrEndOfStream):
		c.logger.Debug("connection closed without a complete request")
	case errors.Is(err, ErrReadTimeoutExceeded):
		c.logger.Info("read timeout exceeded")
	case errors.Is(err, transport.ErrConnClosed):
		c.logger.Error("unexpected connection closure")
	default:
		c.logger.Error("unknown error occured", "error", err)
	}
}

func (c *conn) serve(ctx context.Context) error {
	var response *semantic.Response

	request, err := c.readRequest()
	if err != nil {
		statusErr := new(status.Error)
		if !errors.As(err, statusErr) {
			return errors.Wrap(err, "error while reading request")
		}

		c.logger.Info("rejecting request", "status", statusErr.Status, "reason", statusErr.Cause())
		response = semantic.NewResponse(statusErr.Status)
		response.Version = semantic.HTTP10
	} else {
		c.logger.Debug("received request",
			"method", request.Method,
			"path", request.PathString(),
			"version", request.Version,
		)

		hctx := &HandleContext{
			ctx:        ctx,
			remoteAddr: c.con.RemoteAddr(),
			version:    request.Version,
		}
		response, err = hctx.doHandle(c.handle, request)
		if err != nil {
			c.logger.Error("handler failed", "error", err)
			response = semantic.NewResponse(status.InternalServerError)
		}

		// Answer in the version the request was made in.
		response.Version = request.Version
	}

	if err := c.writeResponse(response); err != nil {
		return errors.Wrap(err, "unexpected error while writing response")
	}

	c.logger.Debug("sent response", "status", response.Status)
	return nil
}

// readRequest reads chunks into a growing buffer and parses the whole buffer
// after every chunk until it is complete or cannot become valid.
// The returned request references the buffer.
func (c *conn) readRequest() (*semantic.Request, error) {
	if timeout := c.opts.Timeout.ReadTimeout; timeout > 0 {
		c.con.SetReadDeadLine(c.clock.Now().Add(timeout))
	}

	chunk := make([]byte, c.opts.ReadChunkSize)
	var buf []byte

	for {
		n, err := c.con.Read(chunk)
		switch {
		case errors.Is(err, transport.ErrConnClosed):
			return nil, errors.Wrap(ErrEndOfStream, err.Error())
		case errors.Is(err, transport.ErrDeadLineExceeded):
			return nil, ErrReadTimeoutExceeded
		case err != nil:
			return nil, err
		case n == 0:
			return nil, ErrEndOfStream
		}

		buf = append(buf, chunk[:n]...)
		if limit := c.opts.MaxRequestSize; limit > 0 && uint(len(buf)) > limit {
			return nil, status.NewError(ErrRequestTooLarge, status.BadRequest)
		}

		outcome := c.decoder.Decode(buf)
		switch outcome.State() {
		case http.StateComplete:
			request := outcome.Value()
			return &request, nil
		case http.StateError:
			return nil, status.NewError(ErrMalformedRequest, status.BadRequest)
		}
	}
}

func (c *conn) writeResponse(response *semantic.Response) error {
	if timeout := c.opts.Timeout.WriteTimeout; timeout > 0 {
		c.con.SetWriteDeadLine(c.clock.Now().Add(timeout))
	}

	return http.NewResponseEncoder(c.con).Encode(response)
}
