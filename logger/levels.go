package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

type Level int

const (
	InfoLevel Level = iota
	DebugLevel
	WarnLevel
	ErrorLevel
	DefaultLevel Level = InfoLevel
)

var levels = map[Level]slog.Level{
	DebugLevel: slog.LevelDebug,
	InfoLevel:  slog.LevelInfo,
	WarnLevel:  slog.LevelWarn,
	ErrorLevel: slog.LevelError,
}

var levelNames = map[string]Level{
	"debug": DebugLevel,
	"info":  InfoLevel,
	"warn":  WarnLevel,
	"error": ErrorLevel,
}

// ParseLevel maps a level name (debug, info, warn, error) to a Level. The
// empty string is DefaultLevel.
func ParseLevel(name string) (Level, error) {
	if name == "" {
		return DefaultLevel, nil
	}
	level, ok := levelNames[strings.ToLower(name)]
	if !ok {
		return DefaultLevel, fmt.Errorf("logger: unknown level %q", name)
	}
	return level, nil
}

// Type selects the output format.
type Type int

const (
	TypeText Type = iota
	TypeJSON
)

// ParseType maps "text" or "json" to a Type. The empty string is TypeText.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return TypeText, nil
	case "json":
		return TypeJSON, nil
	default:
		return TypeText, fmt.Errorf("logger: unknown format %q", name)
	}
}
