// Command minihttpd serves the files below a directory over HTTP/1.0.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"minihttp/application/http/actor/server"
	"minihttp/application/http/resource"
	"minihttp/transport/netconn"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "minihttpd: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := parseArgs(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	locator, err := resource.NewFileLocator(cfg.Root, cfg.Resource)
	if err != nil {
		return err
	}

	listener, err := netconn.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}

	handle := resource.Handler(locator, logger.With("component", "resource"), cfg.Resource)
	srv := server.New(listener, logger, clock.New(), handle, cfg.Server)
	srv.Start()
	logger.Info("serving", "addr", listener.Addr().String(), "root", locator.Base())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("shutting down", "signal", (<-sig).String())

	return errors.Wrap(srv.Close(), "closing server")
}

// parseArgs builds the configuration: defaults, then the config file,
// then flags given explicitly on the command line.
func parseArgs(args []string) (config, error) {
	cfg := defaultConfig()

	fs := flag.NewFlagSet("minihttpd", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a TOML config file")
	addr := fs.String("addr", cfg.Addr, "address to listen on")
	root := fs.String("root", cfg.Root, "directory to serve")
	level := fs.String("log-level", cfg.LogLevel.String(), "log level: debug|info|warn|error")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath, cfg); err != nil {
			return config{}, err
		}
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "root":
			cfg.Root = *root
		case "log-level":
			cfg.LogLevel, err = parseLevel(*level)
		}
	})

	return cfg, err
}
