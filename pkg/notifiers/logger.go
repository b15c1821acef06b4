package notifiers

import "github.com/samvad-hq/samvad-headline-relay/internal/logger"

// Logger defines the logging surface notifiers rely on.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	return logger.Ensure(log)
}
