package resource

import (
	"log/slog"
	"strconv"

	"minihttp/application/http/actor/server"
	"minihttp/application/http/semantic"
	"minihttp/application/http/semantic/status"
	iolib "minihttp/lib/io"

	"github.com/pkg/errors"
)

// Handler answers every request with the content its path locates.
func Handler(locator Locator, logger *slog.Logger, opts Options) server.HandleFunc {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return func(c *server.HandleContext, request *semantic.Request) *semantic.Response {
		path := request.PathString()

		content, err := locator.Locate(path)
		if err != nil {
			logger.Info("cannot serve resource", "path", path, "error", err)
			return c.Error(status.NewError(err, ToStatus(err)))
		}
		defer content.Close()

		body, err := iolib.ReadAllLimited(content, opts.MaxContentLength)
		if err != nil {
			logger.Error("reading resource", "path", path, "error", err)
			return c.Error(errors.Wrapf(err, "reading %q", path))
		}

		res := semantic.NewResponse(status.OK)
		if request.Method == semantic.MethodHead {
			res.SetHeader("Content-Length", []byte(strconv.Itoa(len(body))))
			return res
		}
		res.SetBody(body)
		return res
	}
}
