package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// EnvVar names the environment variable that controls log verbosity.
const EnvVar = "MEDIT_LOG"

// Level is the verbosity of the diagnostic log.
type Level int

const (
	LevelOff Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel converts a level name into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none", "":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug", "trace":
		return LevelDebug, nil
	}
	return LevelOff, fmt.Errorf("unknown log level %q", s)
}

var (
	ErrorLog   = log.New(io.Discard, "ERROR: ", log.LstdFlags)
	WarningLog = log.New(io.Discard, "WARNING: ", log.LstdFlags)
	InfoLog    = log.New(io.Discard, "INFO: ", log.LstdFlags)
	DebugLog   = log.New(io.Discard, "DEBUG: ", log.LstdFlags|log.Lshortfile)

	logFile *os.File
)

// DefaultPath is where the log is written when no path is configured.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), "medit.log")
}

// Initialize opens the log file and enables every logger at or below level.
// The environment variable, when set, takes precedence over level.
func Initialize(level Level, path string) error {
	if env, ok := os.LookupEnv(EnvVar); ok {
		parsed, err := ParseLevel(env)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvVar, err)
		}
		level = parsed
	}

	Close()
	if level == LevelOff {
		return nil
	}
	if path == "" {
		path = DefaultPath()
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f

	enable(ErrorLog, level >= LevelError)
	enable(WarningLog, level >= LevelWarn)
	enable(InfoLog, level >= LevelInfo)
	enable(DebugLog, level >= LevelDebug)
	InfoLog.Printf("logging at %s to %s", level, path)
	return nil
}

// Close flushes the log file and silences all loggers.
func Close() {
	for _, l := range []*log.Logger{ErrorLog, WarningLog, InfoLog, DebugLog} {
		l.SetOutput(io.Discard)
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func enable(l *log.Logger, on bool) {
	if on {
		l.SetOutput(logFile)
		return
	}
	l.SetOutput(io.Discard)
}
