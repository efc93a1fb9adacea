// Package iolib holds small helpers around package io.
package iolib

import (
	"io"

	"github.com/pkg/errors"
)

var ErrLimitExceeded = errors.New("read limit exceeded")

// LimitReader creates new [LimitedReader]
func LimitReader(r io.Reader, n uint) io.Reader { return &LimitedReader{r, n} }

// LimitedReader is uint port of [io.LimitedReader]
type LimitedReader struct {
	R io.Reader // underlying reader
	N uint      // max bytes remaining
}

func (l *LimitedReader) Read(p []byte) (n int, err error) {
	if l.N == 0 {
		return 0, io.EOF
	}
	if uint(len(p)) > l.N {
		p = p[:l.N]
	}
	n, err = l.R.Read(p)
	l.N -= uint(n)
	return
}

// ReadAllLimited reads r until EOF. It fails with [ErrLimitExceeded]
// when r holds more than n bytes. 0 means no limit.
func ReadAllLimited(r io.Reader, n uint) ([]byte, error) {
	if n == 0 {
		return io.ReadAll(r)
	}

	b, err := io.ReadAll(LimitReader(r, n+1))
	if err != nil {
		return nil, err
	}
	if uint(len(b)) > n {
		return nil, errors.Wrapf(ErrLimitExceeded, "more than %d bytes", n)
	}
	return b, nil
}
