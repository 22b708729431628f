package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options selects the level, format and destination of log output.
type Options struct {
	Level  string // logrus level name; invalid values fall back to info
	Format string // "text" or "json"
	Output string // "stdout", "stderr" or a file path
}

// DefaultOptions logs warnings and above as text to stderr, keeping stdout
// free for command output.
var DefaultOptions = Options{Level: "warn", Format: "text", Output: "stderr"}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a configured logger and a closer for any file it opened.
func New(opts Options) (*logrus.Logger, io.Closer) {
	logger := logrus.New()
	var closer io.Closer = nopCloser{}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info' instead. Error: %v", opts.Level, err)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	switch strings.ToLower(opts.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	var output io.Writer
	switch strings.ToLower(opts.Output) {
	case "", "stderr":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	default:
		file, err := os.OpenFile(opts.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logger.Warnf("Failed to open log file '%s', using 'stderr' instead. Error: %v", opts.Output, err)
			output = os.Stderr
		} else {
			output = file
			closer = file
		}
	}
	logger.SetOutput(output)

	return logger, closer
}
