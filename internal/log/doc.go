// Package log builds the slog logger shared by the heartlink commands.
//
// Diagnostics go to stderr so that stdout carries only the report:
//
//	logger := log.New(os.Stderr, verbose)
//	logger.Debug("probe finished", "probe", "gpu", "status", "WARN")
//
// Without verbose mode only warnings and errors are emitted.
package log
