// Package logging builds the diagnostic logger. Operator-facing progress is
// printed by internal/ui; the logger carries debug detail such as the git
// commands run and the GitHub API status codes seen.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// FormatText renders entries as key=value lines
	FormatText = "text"
	// FormatJSON renders one JSON object per entry
	FormatJSON = "json"
)

// Options configures New
type Options struct {
	Level   string
	Format  string
	Verbose bool
	Output  io.Writer
}

// New returns a logrus logger for opts. Verbose forces the debug level.
func New(opts Options) (*logrus.Logger, error) {
	logger := logrus.New()

	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	logger.SetOutput(opts.Output)

	levelStr := opts.Level
	if levelStr == "" {
		levelStr = logrus.WarnLevel.String()
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	if opts.Verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: !opts.Verbose,
		})
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format %q: must be %q or %q", opts.Format, FormatText, FormatJSON)
	}

	return logger, nil
}
