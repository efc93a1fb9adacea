package http

import (
	"log/slog"

	"minihttp/application/http/semantic"
)

type DecodeOptions struct {
	// MaxRequestLineLength bounds how far the method and target are scanned
	// while their delimiter is still missing. Past it the request is rejected
	// instead of waiting for more bytes. 0 means no limit.
	MaxRequestLineLength uint

	// MaxBodyLength rejects requests declaring a larger Content-Length.
	// 0 means no limit.
	MaxBodyLength uint

	// OnDuplicateHeader is called when a header name repeats.
	// The later value wins. If nil, a warning is logged.
	OnDuplicateHeader func(name string, discarded, kept []byte)
}

var DefaultDecodeOptions = DecodeOptions{
	MaxRequestLineLength: 0,
	MaxBodyLength:        0,
	OnDuplicateHeader:    nil,
}

// RequestDecoder classifies request buffers. It holds configuration only,
// so a single decoder can be shared between connections.
type RequestDecoder struct {
	logger *slog.Logger
	opts   DecodeOptions
}

func NewRequestDecoder(logger *slog.Logger, opts DecodeOptions) *RequestDecoder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RequestDecoder{logger: logger, opts: opts}
}

var defaultDecoder = NewRequestDecoder(nil, DefaultDecodeOptions)

// Parse decodes buf with [DefaultDecodeOptions].
func Parse(buf []byte) Outcome[semantic.Request] {
	return defaultDecoder.Decode(buf)
}

// Decode tries the HTTP/1.0 grammar first. Only when buf can never be an
// HTTP/1.0 request is it tried as HTTP/0.9, so a partial HTTP/1.0 request
// is reported as partial even if it already reads as a full HTTP/0.9 one.
//
// The returned request aliases buf.
func (d *RequestDecoder) Decode(buf []byte) Outcome[semantic.Request] {
	s := scanner{rest: buf, src: buf, opts: &d.opts}
	if o := d.decode10(&s); !o.IsError() {
		return o
	}
	d.logger.Debug("not an HTTP/1.0 request", "reason", s.reason)

	s = scanner{rest: buf, src: buf, opts: &d.opts}
	o := decode09(&s)
	if o.IsError() {
		d.logger.Debug("not an HTTP/0.9 request", "reason", s.reason)
	}
	return o
}

func (d *RequestDecoder) duplicateHeader(name string, discarded, kept []byte) {
	if d.opts.OnDuplicateHeader != nil {
		d.opts.OnDuplicateHeader(name, discarded, kept)
		return
	}
	d.logger.Warn("duplicated header, discarding previous value",
		"name", name,
		"discarded", string(discarded),
	)
}
