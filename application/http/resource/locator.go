// Package resource serves files from a directory tree.
package resource

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"minihttp/application/http/semantic/status"
	"minihttp/application/util/uri"

	"github.com/pkg/errors"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrAccessDenied = errors.New("access denied")
)

// Locator resolves a request path to content.
type Locator interface {
	Locate(path string) (io.ReadCloser, error)
}

type Options struct {
	// IndexFile is served for a directory.
	IndexFile string
	// MaxContentLength bounds the size of a served file. 0 means no limit.
	MaxContentLength uint
}

var DefaultOptions = Options{
	IndexFile: "index.html",
}

// FileLocator finds files below a base directory. Paths that resolve
// outside of it, through ".." or symbolic links, are refused.
type FileLocator struct {
	base string
	opts Options
}

var _ Locator = (*FileLocator)(nil)

func NewFileLocator(baseDir string, opts Options) (*FileLocator, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving base directory %q", baseDir)
	}
	base, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving base directory %q", baseDir)
	}

	info, err := os.Stat(base)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving base directory %q", baseDir)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("base %q is not a directory", baseDir)
	}

	return &FileLocator{base: base, opts: opts}, nil
}

func (l *FileLocator) Base() string { return l.base }

// Locate takes a request target. Its query is ignored and its path
// percent-decoded before it is resolved.
func (l *FileLocator) Locate(target string) (io.ReadCloser, error) {
	path, err := uri.DecodePath(target)
	if err != nil {
		return nil, errors.Wrap(ErrAccessDenied, err.Error())
	}

	resolved, err := l.resolve(strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, classify(err, path)
	}
	if info.IsDir() {
		if l.opts.IndexFile == "" {
			return nil, errors.Wrapf(ErrNotFound, "%q is a directory", path)
		}

		rel, _ := filepath.Rel(l.base, filepath.Join(resolved, l.opts.IndexFile))
		if resolved, err = l.resolve(filepath.ToSlash(rel)); err != nil {
			return nil, err
		}
		if info, err = os.Stat(resolved); err != nil {
			return nil, classify(err, path)
		}
		if info.IsDir() {
			return nil, errors.Wrapf(ErrNotFound, "index of %q is a directory", path)
		}
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, classify(err, path)
	}
	return f, nil
}

// resolve canonicalizes rel against the base and checks it stays inside.
func (l *FileLocator) resolve(rel string) (string, error) {
	joined := filepath.Join(l.base, filepath.FromSlash(rel))

	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		return "", classify(err, rel)
	}
	if !l.contains(resolved) {
		return "", errors.Wrapf(ErrAccessDenied, "%q is outside of the base directory", rel)
	}

	return resolved, nil
}

func (l *FileLocator) contains(path string) bool {
	if path == l.base {
		return true
	}
	prefix := l.base
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

func classify(err error, path string) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return errors.Wrapf(ErrNotFound, "%q: %s", path, err)
	case errors.Is(err, fs.ErrPermission):
		return errors.Wrapf(ErrAccessDenied, "%q: %s", path, err)
	}
	return errors.Wrapf(err, "locating %q", path)
}

// ToStatus maps a [Locator] failure to the status it is answered with.
func ToStatus(err error) status.Status {
	switch {
	case errors.Is(err, ErrNotFound):
		return status.NotFound
	case errors.Is(err, ErrAccessDenied):
		return status.BadRequest
	}
	return status.InternalServerError
}
