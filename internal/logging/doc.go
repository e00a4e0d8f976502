// Package logging builds lighthub's slog loggers.
//
// Stderr gets either the colorized text [Handler] or JSON (--log-format).
// With --log-file a JSON mirror is added through [MultiHandler]. Both
// streams mask values whose keys look like credentials (admin_password,
// mqtt_password and the like).
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(v),
//		Format: logging.FormatText,
//		File:   f,
//	})
//
// Commands fetch the logger with [FromContext]; tests use [ForTest] or
// [NewDiscard].
package logging
