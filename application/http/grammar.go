package http

import (
	"bytes"
	"strconv"
	"unicode/utf8"

	"minihttp/application/http/semantic"
	"minihttp/application/util/rule"
)

const contentLength = "Content-Length"

// decode10 parses
//
//	method SP path SP "HTTP/1.0" CRLF *(field-line) CRLF [body]
//
// where the body is present only with a Content-Length header.
func (d *RequestDecoder) decode10(s *scanner) Outcome[semantic.Request] {
	type R = semantic.Request

	line := Then(s.method(), func(method semantic.Method) Outcome[R] {
		return Then(s.space(), func(none) Outcome[R] {
			return Then(s.path(), func(path []byte) Outcome[R] {
				return Complete(semantic.NewRequest(method, path))
			})
		})
	})
	if !line.IsComplete() {
		return line
	}
	request := line.Value()

	for _, step := range []func() Outcome[none]{s.space, s.version, s.crlf} {
		if o := step(); !o.IsComplete() {
			return recast[R](o)
		}
	}

	var length *uint64
	for {
		end, o := s.atHeadersEnd()
		if !o.IsComplete() {
			return recast[R](o)
		}
		if end {
			break
		}

		header := s.header()
		if !header.IsComplete() {
			return recast[R](header)
		}
		field := header.Value()

		if field.Name == contentLength {
			l := d.contentLength(s, field.Value)
			if !l.IsComplete() {
				return recast[R](l)
			}
			n := l.Value()
			length = &n
		}

		if prev, replaced := request.Headers.Set(field.Name, field.Value); replaced {
			d.duplicateHeader(field.Name, prev, field.Value)
		}
	}

	if o := s.crlf(); !o.IsComplete() {
		return recast[R](o)
	}

	if length != nil {
		body := s.body(*length)
		if !body.IsComplete() {
			return recast[R](body)
		}
		request.Body = body.Value()
	}

	request.Version = semantic.HTTP10
	return Complete(request)
}

// contentLength validates a Content-Length value. The header line is
// already complete here, so a bad value is an error rather than partial.
func (d *RequestDecoder) contentLength(s *scanner, value []byte) Outcome[uint64] {
	if value == nil {
		s.fail("%s has no value", contentLength)
		return Error[uint64]()
	}

	digits := value[1:] // Drop the separator's space.
	if !utf8.Valid(digits) {
		s.fail("%s is not valid utf-8", contentLength)
		return Error[uint64]()
	}

	n, err := strconv.ParseUint(string(digits), 10, 64)
	if err != nil {
		s.fail("%s is not a non-negative integer: %q", contentLength, digits)
		return Error[uint64]()
	}

	if limit := d.opts.MaxBodyLength; limit > 0 && n > uint64(limit) {
		s.fail("%s %d exceeds limit %d", contentLength, n, limit)
		return Error[uint64]()
	}

	return Complete(n)
}

var getPrefix = []byte("GET ")

// decode09 parses
//
//	"GET " path CRLF
//
// where path is anything up to the first CRLF.
func decode09(s *scanner) Outcome[semantic.Request] {
	type R = semantic.Request

	if o := s.literal(getPrefix); !o.IsComplete() {
		return recast[R](o)
	}

	idx := bytes.Index(s.rest, rule.CRLF)
	if idx < 0 {
		if s.lineTooLong(len(s.rest)) {
			s.fail("path exceeds request line limit")
			return Error[R]()
		}
		if !validPrefix(s.rest) {
			s.fail("path is not valid utf-8")
			return Error[R]()
		}
		return Partial[R]()
	}
	if s.lineTooLong(idx) {
		s.fail("path exceeds request line limit")
		return Error[R]()
	}
	if !utf8.Valid(s.rest[:idx]) {
		s.fail("path is not valid utf-8")
		return Error[R]()
	}

	request := semantic.NewRequest(semantic.MethodGet, s.take(idx))
	s.advance(len(rule.CRLF))
	request.Version = semantic.HTTP09

	return Complete(request)
}
