package server

import (
	"time"

	"minihttp/application/http"
)

type Options struct {
	// ReadChunkSize is how many bytes a single read asks the connection for.
	ReadChunkSize uint
	// MaxRequestSize bounds the bytes buffered for one request.
	// 0 means no limit.
	MaxRequestSize uint

	Decode  http.DecodeOptions
	Timeout TimeoutOptions
}

type TimeoutOptions struct {
	// ReadTimeout covers the whole request, from accept to the last byte.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

const (
	defaultReadChunkSize        = 1024
	defaultMaxRequestSize       = 1 << 20
	defaultMaxRequestLineLength = 8 << 10
	defaultTimeout              = 30 * time.Second
)

// DefaultOptions bounds every request, so a peer that never finishes one
// gets a 400 or a closed connection instead of an ever growing buffer.
var DefaultOptions = Options{
	ReadChunkSize:  defaultReadChunkSize,
	MaxRequestSize: defaultMaxRequestSize,
	Decode: http.DecodeOptions{
		MaxRequestLineLength: defaultMaxRequestLineLength,
		MaxBodyLength:        defaultMaxRequestSize,
	},
	Timeout: TimeoutOptions{
		ReadTimeout:  defaultTimeout,
		WriteTimeout: defaultTimeout,
	},
}

func (o Options) withDefaults() Options {
	if o.ReadChunkSize == 0 {
		o.ReadChunkSize = defaultReadChunkSize
	}
	return o
}
