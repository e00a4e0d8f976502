// Package errors provides error handling conventions for the lighthub CLI and daemon.
//
// It re-exports the helpers of [github.com/cockroachdb/errors] (Wrap, Wrapf,
// Newf, Is, As, Mark) so the rest of the module imports a single errors
// package, and adds an [ExitError] type for CLI exit code handling.
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, rejected backup file, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//
// # ExitError
//
//	err := errors.NewUserError(errors.ErrInvalidBackup, "Check the file was produced by lighthub")
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
