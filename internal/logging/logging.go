// Package logging routes the standard logger through a level filter, a
// coloured console writer and an optional rotating log file.
//
// Call sites keep using log.Printf with a bracketed tag:
//
//	log.Printf("[INFO] Loaded module: %s", name)
//
// Lines without a recognised tag are always written.
package logging

import (
	"bytes"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level int

const (
	LevelDebug Level = iota
	LevelVerbose
	LevelInfo
	LevelWarn
	LevelError
)

var tags = map[string]Level{
	"DEBUG":   LevelDebug,
	"VERBOSE": LevelVerbose,
	"INFO":    LevelInfo,
	"DONE":    LevelInfo,
	"WARN":    LevelWarn,
	"ERR":     LevelError,
	"ERROR":   LevelError,
}

var tagColors = map[Level]*color.Color{
	LevelDebug:   color.New(color.FgHiBlack),
	LevelVerbose: color.New(color.FgCyan),
	LevelInfo:    color.New(color.FgYellow),
	LevelWarn:    color.New(color.FgMagenta),
	LevelError:   color.New(color.FgRed),
}

// ParseLevel maps a LOG_LEVEL value to a Level. Unknown values mean info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "verbose":
		return LevelVerbose
	case "warn", "warning":
		return LevelWarn
	case "err", "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Setup installs the writers on the standard logger. The returned closer
// releases the log file, if any.
func Setup(level string, file string) io.Closer {
	if file == "" {
		log.SetFlags(log.LstdFlags)
		log.SetOutput(NewWriter(ParseLevel(level), os.Stderr, nil))
		return nopCloser{}
	}

	rotating := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetFlags(log.LstdFlags)
	log.SetOutput(NewWriter(ParseLevel(level), os.Stderr, rotating))
	return rotating
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Writer filters log lines by their level tag. Console output gets a coloured
// tag, file output stays plain.
type Writer struct {
	mu      sync.Mutex
	min     Level
	console io.Writer
	file    io.Writer
}

// NewWriter returns a Writer. file may be nil.
func NewWriter(min Level, console io.Writer, file io.Writer) *Writer {
	return &Writer{min: min, console: console, file: file}
}

func (w *Writer) Write(p []byte) (int, error) {
	level, start, end, tagged := findTag(p)
	if tagged && level < w.min {
		return len(p), nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		if _, err := w.file.Write(p); err != nil {
			return 0, err
		}
	}

	if !tagged {
		_, err := w.console.Write(p)
		return len(p), err
	}

	var buf bytes.Buffer
	buf.Write(p[:start])
	buf.WriteString(tagColors[level].Sprint(string(p[start:end])))
	buf.Write(p[end:])
	if _, err := w.console.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}

// findTag locates the first "[TAG]" in a line and reports its level.
func findTag(p []byte) (Level, int, int, bool) {
	start := bytes.IndexByte(p, '[')
	if start < 0 {
		return 0, 0, 0, false
	}
	rel := bytes.IndexByte(p[start:], ']')
	if rel < 0 {
		return 0, 0, 0, false
	}
	end := start + rel + 1
	level, ok := tags[string(p[start+1:end-1])]
	if !ok {
		return 0, 0, 0, false
	}
	return level, start, end, true
}
