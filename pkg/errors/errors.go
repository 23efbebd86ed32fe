// Package errors carries the error taxonomy and user-facing message
// constants for the ruby-imports-sort application.
package errors

import stderrors "errors"

// Sentinel errors for the processing pipeline. Path-not-found is not
// declared here: the underlying *fs.PathError from the read is propagated
// untouched so callers can test it with errors.Is(err, fs.ErrNotExist).
var (
	// ErrInvalidEncoding means the input bytes are not valid UTF-8. It is
	// detected before any scanning and the file is left untouched.
	ErrInvalidEncoding = stderrors.New("source is not valid UTF-8")

	// ErrPreexistingSyntax means safe mode found the input already invalid
	// before any rewrite. Processing aborts and the file is left untouched.
	ErrPreexistingSyntax = stderrors.New("source has a pre-existing syntax error")

	// ErrIntroducedSyntax means safe mode found that the computed rewrite
	// would be invalid even though the input was valid. The write is
	// suppressed and the file is left untouched.
	ErrIntroducedSyntax = stderrors.New("rewrite would introduce a syntax error")
)

// Error message constants for the ruby-imports-sort application
const (
	// File processing errors
	ErrMsgFailedToReadFile  = "failed to read file"
	ErrMsgFailedToWriteFile = "failed to write file"
	ErrMsgFailedToReadStdin = "failed to read standard input"
	ErrMsgSyntaxCheckFailed = "syntax check failed"
	ErrMsgFilesWouldChange  = "%d files are not sorted"
	ErrMsgFilesFailedToSort = "%d files failed to process"

	// Directory processing errors
	ErrMsgFailedToCheckPath     = "failed to check path"
	ErrMsgFailedToFindRubyFiles = "failed to find Ruby files in directory"

	// Configuration errors
	ErrMsgFailedToLoadConfig = "failed to load config"

	// Info/warning messages
	InfoMsgNoRubyFilesFound = "No Ruby files found in directory: %s"
	InfoMsgFoundRubyFiles   = "Found %d Ruby files in directory: %s"
	InfoMsgSorted           = "Sorted: %s"
	InfoMsgSkipped          = "Skipped: %s"
	InfoMsgWouldSort        = "Would sort: %s"
	InfoMsgErrorProcessing  = "Error processing %s: %v"
)
