package fiber

import "github.com/btcsuite/btclog"

// log is the package-level logger used by both Client implementations.
// It defaults to disabled; callers wire up a real backend with UseLogger.
var log = btclog.Disabled

// UseLogger sets the package-level logger used by this package. Shared
// loggers with a consistent subsystem tag should be passed here rather
// than left at the default.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// DisableLog disables all library log output. Logging is disabled by
// default until UseLogger is called.
func DisableLog() {
	log = btclog.Disabled
}
