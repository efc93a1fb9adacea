package server

import (
	"context"

	"minihttp/application/http/semantic"
	"minihttp/application/http/semantic/status"
	"minihttp/transport"

	"github.com/pkg/errors"
)

// HandleFunc answers a request. The request and everything it references
// are only valid until the function returns; use [semantic.Request.Clone]
// to keep them.
type HandleFunc func(c *HandleContext, request *semantic.Request) *semantic.Response

type HandleContext struct {
	ctx context.Context

	remoteAddr transport.Addr
	version    semantic.Version

	// Should only be used inside this struct.
	_fatalError error
}

func (c *HandleContext) doHandle(handle HandleFunc, request *semantic.Request) (res *semantic.Response, err error) {
	defer func() {
		if e := recover(); e != nil {
			res, err = nil, errors.Errorf("handler panicked: %v", e)
		}
	}()

	response := handle(c, request)
	if c._fatalError != nil {
		return nil, c._fatalError
	}
	if response == nil {
		return nil, errors.New("nil response is forbidden")
	}

	return response, nil
}

func (c *HandleContext) RemoteAddr() transport.Addr { return c.remoteAddr }
func (c *HandleContext) Context() context.Context   { return c.ctx }
func (c *HandleContext) Version() semantic.Version  { return c.version }

// Error turns err into a response. A [status.Error] keeps its status,
// anything else becomes 500. The response carries no body.
func (c *HandleContext) Error(err error) *semantic.Response {
	if err == nil {
		c._fatalError = errors.New("using Error() with nil error is forbidden")
		return nil
	}

	if statusErr := new(status.Error); errors.As(err, statusErr) {
		return semantic.NewResponse(statusErr.Status)
	}

	return semantic.NewResponse(status.InternalServerError)
}
