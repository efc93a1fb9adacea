package http

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	"minihttp/application/http/semantic"
	"minihttp/application/http/semantic/status"
	"minihttp/application/util/rule"

	"github.com/pkg/errors"
)

// StatusLine returns the HTTP/1.0 status line of s, CRLF included.
func StatusLine(s status.Status) []byte {
	buf := bytes.NewBuffer(nil)
	buf.Write(semantic.HTTP10.Text())
	buf.WriteByte(rule.SP)
	buf.WriteString(strconv.FormatUint(uint64(s.Code()), 10))
	buf.WriteByte(rule.SP)
	buf.WriteString(s.ReasonPhrase())
	buf.Write(rule.CRLF)
	return buf.Bytes()
}

type ResponseEncoder struct {
	bw *bufio.Writer
}

func NewResponseEncoder(w io.Writer) *ResponseEncoder {
	return &ResponseEncoder{bw: bufio.NewWriter(w)}
}

// Encode writes response in the wire format of its version and flushes.
func (re *ResponseEncoder) Encode(response *semantic.Response) error {
	var err error
	switch response.Version {
	case semantic.HTTP09:
		err = re.encode09(response)
	default:
		err = re.encode10(response)
	}
	if err != nil {
		return err
	}

	if err := re.bw.Flush(); err != nil {
		return errors.Wrap(err, "flushing response")
	}

	return nil
}

// An HTTP/0.9 response is its body and nothing else.
func (re *ResponseEncoder) encode09(response *semantic.Response) error {
	if response.Body == nil {
		return nil
	}
	if _, err := re.bw.Write(response.Body); err != nil {
		return errors.Wrap(err, "writing response body")
	}
	return nil
}

func (re *ResponseEncoder) encode10(response *semantic.Response) error {
	if _, err := re.bw.Write(StatusLine(response.Status)); err != nil {
		return errors.Wrap(err, "writing status line")
	}

	if err := re.encodeHeaders(response); err != nil {
		return errors.Wrap(err, "encoding headers")
	}

	if response.Body != nil {
		if _, err := re.bw.Write(response.Body); err != nil {
			return errors.Wrap(err, "writing response body")
		}
	}

	return nil
}

func (re *ResponseEncoder) encodeHeaders(response *semantic.Response) error {
	for _, field := range response.Headers.Fields() {
		if err := re.writeField(field.Name, field.Value); err != nil {
			return errors.Wrapf(err, "writing field %q", field.Name)
		}
	}

	if !response.Headers.Has(contentLength) && response.Body != nil {
		length := strconv.Itoa(len(response.Body))
		if err := re.writeField(contentLength, []byte(length)); err != nil {
			return errors.Wrap(err, "writing content length")
		}
	}

	// Write a empty line as all the headers are written.
	if _, err := re.bw.Write(rule.CRLF); err != nil {
		return errors.Wrap(err, "writing line terminator")
	}

	return nil
}

// writeField writes "Name: value\r\n". Without a value the colon and space stay.
func (re *ResponseEncoder) writeField(name string, value []byte) error {
	re.bw.WriteString(name)
	re.bw.Write(colonLit)
	re.bw.Write(value)
	_, err := re.bw.Write(rule.CRLF)
	return err
}

// EncodeResponse returns the wire bytes of response.
func EncodeResponse(response *semantic.Response) []byte {
	var buf bytes.Buffer
	// Writing to a bytes.Buffer doesn't fail.
	_ = NewResponseEncoder(&buf).Encode(response)
	return buf.Bytes()
}
