package semantic

import "bytes"

// Request is a parsed request.
//
// Path, header values and Body are sub-slices of the buffer the request was
// parsed from. They are only valid while that buffer is left untouched;
// use [Request.Clone] to keep a request around longer.
type Request struct {
	Method  Method
	Path    []byte
	Version Version

	Headers Headers

	// Body is nil when no Content-Length was sent,
	// and non-nil (possibly empty) otherwise.
	Body []byte
}

func NewRequest(method Method, path []byte) Request {
	return Request{Method: method, Path: path}
}

func (r *Request) PathString() string { return string(r.Path) }

// Clone returns a request that does not share memory with the source buffer.
func (r *Request) Clone() Request {
	clone := Request{
		Method:  r.Method,
		Path:    bytes.Clone(r.Path),
		Version: r.Version,
		Headers: r.Headers.Clone(),
	}
	if r.Body != nil {
		clone.Body = bytes.Clone(r.Body)
	}
	return clone
}
