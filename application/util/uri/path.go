package uri

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrBadPath = errors.New("bad path")

// SplitTarget separates the path of a request target from its query.
// A fragment is dropped.
func SplitTarget(raw string) (path, query string) {
	if idx := strings.IndexByte(raw, '#'); idx >= 0 {
		raw = raw[:idx]
	}

	if idx := strings.IndexByte(raw, '?'); idx >= 0 {
		query = raw[idx+1:]
		raw = raw[:idx]
	}

	return raw, query
}

// DecodePath returns the decoded path of a request target.
// Paths decoding to a NUL byte are refused.
func DecodePath(target string) (string, error) {
	path, _ := SplitTarget(target)

	decoded, err := Unescape(path)
	if err != nil {
		return "", errors.Wrapf(ErrBadPath, "%s", err)
	}
	if strings.IndexByte(decoded, 0) >= 0 {
		return "", errors.Wrapf(ErrBadPath, "%q contains NUL", path)
	}

	return decoded, nil
}
