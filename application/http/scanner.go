package http

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"minihttp/application/http/semantic"
	"minihttp/application/util/rule"
)

// scanner walks a request buffer front to back.
// Each rule consumes a prefix of rest only when it completes.
type scanner struct {
	src  []byte // whole buffer.
	rest []byte // bytes not consumed yet.

	opts *DecodeOptions

	// Why the last rule failed. Only meant for logging.
	reason string
}

type none = struct{}

func (s *scanner) fail(format string, args ...any) {
	s.reason = fmt.Sprintf(format, args...)
}

func (s *scanner) advance(n int) { s.rest = s.rest[n:] }

// take consumes n bytes and returns them with capacity capped,
// so appending to the result can't overwrite the rest of the buffer.
func (s *scanner) take(n int) []byte {
	b := s.rest[:n:n]
	s.advance(n)
	return b
}

// lineTooLong reports whether scanning the request line up to offset n
// (relative to rest) passes the configured limit.
func (s *scanner) lineTooLong(n int) bool {
	limit := s.opts.MaxRequestLineLength
	if limit == 0 {
		return false
	}
	consumed := len(s.src) - len(s.rest)
	return uint(consumed+n) > limit
}

// validPrefix reports whether b is valid utf-8 or could still become valid
// once more bytes arrive, i.e. only its last rune may be cut short.
func validPrefix(b []byte) bool {
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			return !utf8.FullRune(b)
		}
		b = b[size:]
	}
	return true
}

func (s *scanner) literal(lit []byte) Outcome[none] {
	if bytes.HasPrefix(s.rest, lit) {
		s.advance(len(lit))
		return Complete(none{})
	}
	if len(s.rest) < len(lit) && bytes.HasPrefix(lit, s.rest) {
		return Partial[none]()
	}
	s.fail("expected %q", lit)
	return Error[none]()
}

var (
	spaceLit   = []byte{rule.SP}
	versionLit = []byte("HTTP/1.0")
	colonLit   = []byte(": ")
)

func (s *scanner) space() Outcome[none]   { return s.literal(spaceLit) }
func (s *scanner) version() Outcome[none] { return s.literal(versionLit) }
func (s *scanner) crlf() Outcome[none]    { return s.literal(rule.CRLF) }

// method reads everything up to the first space.
// A line break can't be followed by the rest of the request line,
// so it fails the method whether or not the space has arrived.
func (s *scanner) method() Outcome[semantic.Method] {
	idx := bytes.IndexByte(s.rest, rule.SP)
	token := s.rest
	if idx >= 0 {
		token = s.rest[:idx]
	}

	if bytes.ContainsAny(token, "\r\n") {
		s.fail("line break in method")
		return Error[semantic.Method]()
	}
	if s.lineTooLong(len(token)) {
		s.fail("method exceeds request line limit")
		return Error[semantic.Method]()
	}
	if idx < 0 {
		if !validPrefix(token) {
			s.fail("method is not valid utf-8")
			return Error[semantic.Method]()
		}
		return Partial[semantic.Method]()
	}
	if !utf8.Valid(token) {
		s.fail("method is not valid utf-8")
		return Error[semantic.Method]()
	}

	s.advance(idx)
	return Complete(semantic.MethodFrom(token))
}

// path reads everything up to the first whitespace or line break.
func (s *scanner) path() Outcome[[]byte] {
	idx := bytes.IndexFunc(s.rest, func(r rune) bool {
		return r < utf8.RuneSelf && rule.IsTargetDelimiter(byte(r))
	})
	if idx < 0 {
		if s.lineTooLong(len(s.rest)) {
			s.fail("path exceeds request line limit")
			return Error[[]byte]()
		}
		if !validPrefix(s.rest) {
			s.fail("path is not valid utf-8")
			return Error[[]byte]()
		}
		return Partial[[]byte]()
	}
	if s.lineTooLong(idx) {
		s.fail("path exceeds request line limit")
		return Error[[]byte]()
	}

	if !utf8.Valid(s.rest[:idx]) {
		s.fail("path is not valid utf-8")
		return Error[[]byte]()
	}

	return Complete(s.take(idx))
}

// header reads a single field line including its CRLF.
// The value runs from the space of the ": " separator up to the first CR,
// so it always starts with that space. A line ending right after ": "
// has no value.
func (s *scanner) header() Outcome[semantic.Field] {
	n := rule.TokenLen(s.rest)
	if n == len(s.rest) {
		// The name may go on.
		return Partial[semantic.Field]()
	}
	if n == 0 {
		s.fail("header name is not a token: %q", s.rest[0])
		return Error[semantic.Field]()
	}
	name := string(s.rest[:n])
	s.advance(n)

	line := s.rest
	if o := s.literal(colonLit); !o.IsComplete() {
		return recast[semantic.Field](o)
	}

	field := semantic.Field{Name: name}

	if bytes.HasPrefix(s.rest, rule.CRLF) {
		s.advance(len(rule.CRLF))
		return Complete(field)
	}
	if len(s.rest) < len(rule.CRLF) && bytes.HasPrefix(rule.CRLF, s.rest) {
		return Partial[semantic.Field]()
	}

	idx := bytes.IndexByte(s.rest, rule.CR)
	if idx < 0 || idx+1 == len(s.rest) {
		return Partial[semantic.Field]()
	}
	if s.rest[idx+1] != rule.LF {
		s.fail("CR without LF in value of %q", name)
		return Error[semantic.Field]()
	}

	end := len(colonLit) + idx
	field.Value = line[1:end:end]
	s.advance(idx + len(rule.CRLF))

	return Complete(field)
}

// body takes exactly size bytes, or waits for them.
func (s *scanner) body(size uint64) Outcome[[]byte] {
	if uint64(len(s.rest)) < size {
		return Partial[[]byte]()
	}
	return Complete(s.take(int(size)))
}

// atHeadersEnd reports whether rest starts with the empty line closing the
// header block. If it can't tell yet, the outcome is partial.
func (s *scanner) atHeadersEnd() (bool, Outcome[none]) {
	if bytes.HasPrefix(s.rest, rule.CRLF) {
		return true, Complete(none{})
	}
	if len(s.rest) < len(rule.CRLF) && bytes.HasPrefix(rule.CRLF, s.rest) {
		return false, Partial[none]()
	}
	return false, Complete(none{})
}
