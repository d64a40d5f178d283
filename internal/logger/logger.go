package logger

import (
	"log/slog"
	"os"
)

const (
	LogLevelDebug = slog.LevelDebug
	LogLevelInfo  = slog.LevelInfo
	LogLevelWarn  = slog.LevelWarn
	LogLevelError = slog.LevelError

	ComponentKey = "component"
)

var (
	levelVar      slog.LevelVar
	defaultLogger *slog.Logger
	isJSON        bool
	isDebug       bool
)

func init() {
	isDebug = envVarBool("DEBUG")
	isJSON = envVar("LOG_FORMAT") == "json"

	if isDebug {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}

	handlerOptions := &slog.HandlerOptions{
		AddSource: isDebug,
		Level:     &levelVar,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				level := a.Value.Any().(slog.Level)

				switch {
				case level < LogLevelInfo:
					a.Value = slog.StringValue("DEBUG")
				case level < LogLevelWarn:
					a.Value = slog.StringValue("INFO")
				case level < LogLevelError:
					a.Value = slog.StringValue("WARN")
				default:
					a.Value = slog.StringValue("ERROR")
				}
			}

			return a
		},
	}

	var handler slog.Handler
	if isJSON {
		handler = slog.NewJSONHandler(os.Stderr, handlerOptions)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOptions)
	}

	defaultLogger = slog.New(handler).With(slog.String(ComponentKey, "pshot"))
}

// Default returns the package logger. It is not installed as slog's default:
// a library must not replace the host's logger.
func Default() *slog.Logger {
	return defaultLogger
}

func SetLevel(level slog.Level) {
	levelVar.Set(level)
}

func envVar(name string) string {
	return os.Getenv(name)
}

func envVarBool(name string) bool {
	return envVar(name) == "true"
}
