// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ddx-coach-mcp-server/internal/domain"
)

// New creates a logrus logger for cfg. Output is "stdout" or "stderr"; the MCP stdio
// server must use stderr because stdout carries the protocol.
func New(cfg domain.LoggingConfig) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(orDefault(cfg.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}
	logger.SetLevel(level)

	switch strings.ToLower(orDefault(cfg.Format, "json")) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}

	out, err := output(cfg.Output)
	if err != nil {
		return nil, err
	}
	logger.SetOutput(out)
	return logger, nil
}

func output(name string) (io.Writer, error) {
	switch strings.ToLower(orDefault(name, "stdout")) {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	case "discard":
		return io.Discard, nil
	}
	return nil, fmt.Errorf("unsupported log output: %s", name)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
