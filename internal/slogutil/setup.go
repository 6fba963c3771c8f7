package slogutil

import (
	"io"
	"log/slog"
)

// Options selects where logs go and how much is written.
type Options struct {
	Format      string // "human" or "json"
	ConfigLevel string // logging.level from fta.json
	Verbosity   int    // count of -v flags
	Quiet       bool

	// File, when set, receives the logs instead of the console writer.
	File       string
	MaxSize    string // rotation threshold for File, e.g. "10MB"
	MaxBackups int
}

// EffectiveLevel resolves the level. Precedence: quiet, then the DEBUG
// environment variable, then -v flags, then the config file, then warn.
func (o Options) EffectiveLevel() slog.Level {
	switch {
	case o.Quiet:
		return LevelSilent
	case DebugFromEnv():
		return slog.LevelDebug
	case o.Verbosity > 0:
		return LevelFromVerbosity(o.Verbosity, false)
	case o.ConfigLevel != "":
		return LevelFromString(o.ConfigLevel)
	default:
		return slog.LevelWarn
	}
}

// Setup builds the logger for a command. The returned closer is non-nil only
// when a log file was opened and must be closed by the caller.
func Setup(console io.Writer, o Options) (*slog.Logger, io.Closer, error) {
	level := o.EffectiveLevel()
	if o.File == "" {
		return NewFormatLogger(console, o.Format, level), nil, nil
	}

	rf, err := OpenRotatingFile(o.File, ParseSize(o.MaxSize), o.MaxBackups)
	if err != nil {
		return nil, nil, err
	}
	return NewFormatLogger(rf, o.Format, level), rf, nil
}
