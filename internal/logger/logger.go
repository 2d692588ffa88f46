package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/inventory-ledger/internal/config"
)

var levelNames = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// NewLogger builds the process-wide JSON slog logger. Unknown level
// names fall back to info.
func NewLogger(cfg *config.Config) *slog.Logger {
	level, ok := levelNames[strings.ToLower(cfg.Logging.Level)]
	if !ok {
		level = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
		// Source locations are only worth the noise when debugging
		AddSource: level == slog.LevelDebug,
	}))

	log.Info("logger initialized", "level", level)
	return log
}
