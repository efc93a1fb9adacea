package main

import (
	"log/slog"
	"strings"
	"time"

	"minihttp/application/http/actor/server"
	"minihttp/application/http/resource"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

type config struct {
	Addr     string
	Root     string
	LogLevel slog.Level

	Server   server.Options
	Resource resource.Options
}

func defaultConfig() config {
	return config{
		Addr:     "127.0.0.1:8080",
		Root:     "./",
		LogLevel: slog.LevelInfo,
		Server:   server.DefaultOptions,
		Resource: resource.DefaultOptions,
	}
}

type fileConfig struct {
	Addr                 string `toml:"addr"`
	Root                 string `toml:"root"`
	LogLevel             string `toml:"log_level"`
	IndexFile            string `toml:"index_file"`
	MaxContentLength     uint   `toml:"max_content_length"`
	ReadChunkSize        uint   `toml:"read_chunk_size"`
	MaxRequestSize       uint   `toml:"max_request_size"`
	MaxRequestLineLength uint   `toml:"max_request_line_length"`
	MaxBodyLength        uint   `toml:"max_body_length"`
	ReadTimeout          string `toml:"read_timeout"`
	WriteTimeout         string `toml:"write_timeout"`
}

// loadConfig applies the keys present in the file at path over cfg.
func loadConfig(path string, cfg config) (config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, errors.Wrap(err, "load config")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, errors.Errorf("unknown config key %q", undecoded[0].String())
	}

	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("root") {
		cfg.Root = strings.TrimSpace(raw.Root)
	}
	if meta.IsDefined("log_level") {
		if cfg.LogLevel, err = parseLevel(raw.LogLevel); err != nil {
			return config{}, err
		}
	}

	if meta.IsDefined("index_file") {
		cfg.Resource.IndexFile = strings.TrimSpace(raw.IndexFile)
	}
	if meta.IsDefined("max_content_length") {
		cfg.Resource.MaxContentLength = raw.MaxContentLength
	}

	if meta.IsDefined("read_chunk_size") {
		cfg.Server.ReadChunkSize = raw.ReadChunkSize
	}
	if meta.IsDefined("max_request_size") {
		cfg.Server.MaxRequestSize = raw.MaxRequestSize
	}
	if meta.IsDefined("max_request_line_length") {
		cfg.Server.Decode.MaxRequestLineLength = raw.MaxRequestLineLength
	}
	if meta.IsDefined("max_body_length") {
		cfg.Server.Decode.MaxBodyLength = raw.MaxBodyLength
	}
	if meta.IsDefined("read_timeout") {
		if cfg.Server.Timeout.ReadTimeout, err = parseDuration("read_timeout", raw.ReadTimeout); err != nil {
			return config{}, err
		}
	}
	if meta.IsDefined("write_timeout") {
		if cfg.Server.Timeout.WriteTimeout, err = parseDuration("write_timeout", raw.WriteTimeout); err != nil {
			return config{}, err
		}
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, errors.Wrapf(err, "parse log level %q", s)
	}
	return level, nil
}

func parseDuration(key, s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	if d < 0 {
		return 0, errors.Errorf("%s must not be negative", key)
	}
	return d, nil
}
