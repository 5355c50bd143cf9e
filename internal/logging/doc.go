// Package logging provides structured logging for the greeter.
//
// This package wraps a global zap logger with convenience functions. The
// logger is silent unless a level is configured, because the greeter draws a
// full-screen interface on the terminal and stray output would corrupt it.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Protocol traffic (message types, redacted contents)
//   - Info: Login attempt milestones (session created, session started)
//   - Warn: Recoverable issues (config file skipped, cancel failed)
//   - Error: Fatal issues (socket unreachable)
//
// # Structured Logging
//
// All log functions use structured fields:
//
//	logging.Info("Connected to greetd",
//	    zap.String("socket", path),
//	)
//
// Protocol messages are logged through LogMessage, which records the
// message's String form. Requests carrying prompt answers redact them there.
//
//	logging.LogMessage("sent", protocol.CreateSession{Username: "alice"})
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// With no level (neither argument nor CLIFFCROWN_LOG_LEVEL) the logger is a
// no-op. Output goes to the configured file, or stderr when none is set.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. Initialize and SetLogger
// are not, and should run before any goroutines that log are started.
package logging
