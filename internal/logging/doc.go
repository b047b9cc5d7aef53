// Package logging provides structured logging for gymlog.
//
// This package wraps the zap logger with package-level helpers so that the
// client, the state container and the record server all log the same way.
//
// # Log Levels
//
//   - Debug: state transitions, successful store requests
//   - Info: server start-up, HTTP access log, change feed connections
//   - Warn: failed store requests (the UI keeps its previous state)
//   - Error: start-up failures, store errors on the server
//
// # Configuration
//
// Logging is silent unless a level is given explicitly or through the
// GYMLOG_LOG_LEVEL environment variable:
//
//	if err := logging.InitializeWithOptions(logging.Options{
//	    Level:      "debug",
//	    OutputPath: "/tmp/gymlog.log",
//	}); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// The interactive client always logs to a file. Writing to stdout would
// corrupt the terminal UI.
//
// # Structured Logging
//
//	logging.Info("Record created",
//	    zap.Int64("id", rec.ID),
//	    zap.String("exercise", rec.Exercise),
//	)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. Initialize and SetLogger
// are meant to be called once at start-up.
package logging
