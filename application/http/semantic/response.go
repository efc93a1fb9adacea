package semantic

import (
	"bytes"

	"minihttp/application/http/semantic/status"
)

// Response owns all of its data; it never aliases a request buffer.
type Response struct {
	Status  status.Status
	Version Version

	Headers Headers

	// Body is nil when the response has no body.
	Body []byte
}

func NewResponse(s status.Status) *Response {
	return &Response{Status: s}
}

// SetHeader copies value into the response.
// A nil value writes the name without a value.
func (r *Response) SetHeader(name string, value []byte) {
	if value != nil {
		value = bytes.Clone(value)
	}
	r.Headers.Set(name, value)
}

// SetBody copies body into the response. A nil body removes it.
func (r *Response) SetBody(body []byte) {
	if body == nil {
		r.Body = nil
		return
	}
	r.Body = append(make([]byte, 0, len(body)), body...)
}
