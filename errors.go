package hotpaste

import "errors"

// Sentinel errors for the routing pipeline, one per failure kind.
var (
	// ErrClipboardUnavailable means the clipboard could not be opened after
	// bounded retries. Callers degrade to an "empty" snapshot where possible.
	ErrClipboardUnavailable = errors.New("clipboard unavailable")

	// ErrEmptyClipboard short-circuits a trigger before any routing work.
	ErrEmptyClipboard = errors.New("clipboard is empty")

	// ErrConversionFailed wraps external converter rejections and crashes.
	ErrConversionFailed = errors.New("document conversion failed")

	// ErrInsertionFailed means the destination application was not ready.
	ErrInsertionFailed = errors.New("insertion failed")

	// ErrInvalidTable means the content did not parse as a Markdown table
	// in a context that requires one.
	ErrInvalidTable = errors.New("no valid Markdown table detected")

	// ErrNoTargetApp means no supported application was detected and
	// auto-open is disabled.
	ErrNoTargetApp = errors.New("no supported application detected")

	// ErrConverterNotFound means the external conversion engine is missing
	// or not runnable.
	ErrConverterNotFound = errors.New("converter executable not found")
)
