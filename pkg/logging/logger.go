package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/natefinch/lumberjack"
	"github.com/niels/tinyhttpd/pkg/config"
	"github.com/rs/zerolog"
)

// Field names attached to request log events
const (
	FieldRemote = "remote"
	FieldMethod = "method"
	FieldPath   = "path"
	FieldStatus = "status"
)

// TimeFormat is the timestamp layout of console output
const TimeFormat = "2006-01-02 15:04:05"

var levelColors = map[string]*color.Color{
	"debug": color.New(color.FgCyan),
	"info":  color.New(color.FgGreen),
	"warn":  color.New(color.FgYellow),
	"error": color.New(color.FgRed),
	"fatal": color.New(color.FgRed, color.Bold),
}

// New builds the process-wide logger from the logging configuration.
// The returned close function releases the log file when file logging is enabled.
func New(debug bool, cfg config.LogConfig) (zerolog.Logger, func() error) {
	var output io.Writer
	closer := func() error { return nil }

	if cfg.LogToFile {
		// Configure rotating file logger
		fileLogger := &lumberjack.Logger{
			Filename:   cfg.LogFilePath,
			MaxSize:    cfg.MaxSize, // megabytes
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge, // days
			Compress:   cfg.Compress,
		}
		closer = fileLogger.Close

		var fileOut io.Writer = fileLogger
		if cfg.Format != "json" {
			fileOut = NewConsoleWriter(fileLogger, false)
		}

		if debug {
			// In debug mode, send logs to both file and stderr
			output = zerolog.MultiLevelWriter(fileOut, stderrWriter(cfg.Format))
		} else {
			output = fileOut
		}
	} else {
		output = stderrWriter(cfg.Format)
	}

	return NewLogger(debug, output), closer
}

// NewLogger creates a new zerolog logger with the specified debug level
func NewLogger(debug bool, output io.Writer) zerolog.Logger {
	// If no output is specified, use stderr
	if output == nil {
		output = os.Stderr
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// NewConsoleWriter renders events as "<timestamp> - <LEVEL> - <message>".
// Request fields are left out because the message already carries them.
func NewConsoleWriter(out io.Writer, useColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: TimeFormat,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.MessageFieldName,
		},
		FieldsExclude: []string{FieldRemote, FieldMethod, FieldPath, FieldStatus},
		FormatLevel: func(i interface{}) string {
			return "- " + levelName(i, useColor) + " -"
		},
	}
}

func stderrWriter(format string) io.Writer {
	if format == "json" {
		return os.Stderr
	}
	return NewConsoleWriter(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
}

func levelName(i interface{}, useColor bool) string {
	level, ok := i.(string)
	if !ok {
		return "???"
	}

	name := strings.ToUpper(level)
	if level == "warn" {
		name = "WARNING"
	}

	if c, ok := levelColors[level]; ok && useColor {
		return c.Sprint(name)
	}
	return name
}

// RequestLine formats the per-request message "<remote> <method> <path> - <status>"
func RequestLine(remote, method, path, status string) string {
	if method == "" && path == "" {
		return fmt.Sprintf("%s - %s", remote, status)
	}
	return fmt.Sprintf("%s %s %s - %s", remote, method, path, status)
}
